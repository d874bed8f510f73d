package emails

import (
	"context"
	"errors"
	"fmt"

	"go-medidiagnose/internal/config"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Service struct {
	repo *Repository
	smtp SMTPConfig
	from string
}

func NewService(repo *Repository, cfg *config.Config) *Service {
	return &Service{
		repo: repo,
		smtp: SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPass,
		},
		from: cfg.EmailFrom,
	}
}

// Send persists the email as queued and delivers it asynchronously.
func (s *Service) Send(ctx context.Context, email *Email) error {
	if len(email.To) == 0 {
		return errors.New("recipient required")
	}
	if email.From == "" {
		email.From = s.from
	}

	email.Status = EmailQueued
	if err := s.repo.Create(ctx, email); err != nil {
		return err
	}

	go s.process(email)
	return nil
}

// SendVerification queues the account verification mail for a freshly
// registered user.
func (s *Service) SendVerification(ctx context.Context, to string, userID primitive.ObjectID, verifyLink string) error {
	body := fmt.Sprintf(`
		<h2>Welcome to MediDiagnose</h2>
		<p>Please confirm your email address to activate your account:</p>
		<p><a href="%s">Verify my email</a></p>
		<p>If you did not create this account you can ignore this message.</p>`,
		verifyLink)

	return s.Send(ctx, &Email{
		To:         []string{to},
		Subject:    "Verify your MediDiagnose account",
		HtmlBody:   body,
		EntityType: "user",
		EntityID:   userID,
	})
}

func (s *Service) process(email *Email) {
	err := SendSMTP(s.smtp, email)
	if err != nil {
		_ = s.repo.UpdateStatus(
			context.Background(),
			email.ID,
			EmailFailed,
			err.Error(),
		)
		return
	}

	_ = s.repo.UpdateStatus(
		context.Background(),
		email.ID,
		EmailSent,
		"",
	)
}
