package notification

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationService interface {
	Notify(ctx context.Context, userID primitive.ObjectID, kind, title, body string) error
	ListForUser(ctx context.Context, userID string, limit int64) ([]Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
}

type NotificationServiceImpl struct {
	Repo NotificationRepository
	Hub  *Hub
}

func NewNotificationService(repo NotificationRepository, hub *Hub) NotificationService {
	return &NotificationServiceImpl{
		Repo: repo,
		Hub:  hub,
	}
}

// Notify persists the notification and pushes it to any live websocket
// connections of the recipient.
func (s *NotificationServiceImpl) Notify(ctx context.Context, userID primitive.ObjectID, kind, title, body string) error {
	n := &Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Kind:      kind,
		Title:     title,
		Body:      body,
		Read:      false,
		CreatedAt: time.Now(),
	}

	if err := s.Repo.Create(ctx, n); err != nil {
		return err
	}

	s.Hub.Push(userID.Hex(), n)
	return nil
}

func (s *NotificationServiceImpl) ListForUser(ctx context.Context, userID string, limit int64) ([]Notification, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, err
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	notifications, err := s.Repo.ListByUser(ctx, oid, limit)
	if err != nil {
		return nil, err
	}
	if notifications == nil {
		notifications = []Notification{}
	}
	return notifications, nil
}

func (s *NotificationServiceImpl) MarkRead(ctx context.Context, id, userID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	uoid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}
	return s.Repo.MarkRead(ctx, oid, uoid)
}
