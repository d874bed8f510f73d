package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	common_models "go-medidiagnose/internal/common/models"
	"go-medidiagnose/internal/config"
	emails "go-medidiagnose/internal/email"
	"go-medidiagnose/internal/features/audit"
	"go-medidiagnose/internal/features/role"
	"go-medidiagnose/internal/features/user"
	"go-medidiagnose/internal/recaptcha"
	"go-medidiagnose/pkg/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("account not activated")
	ErrCodeNotFound       = errors.New("verification code not found or already used")
)

// ValidationError marks payload-shape problems detected before any
// database access.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

type RegisterInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	FullName        string
	Phone           string
	RecaptchaToken  string
	RemoteIP        string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*common_models.User, error)
	Verify(ctx context.Context, code string) error
	Login(ctx context.Context, email, password string) (string, error)
}

type AuthServiceImpl struct {
	UserRepo     user.UserRepository
	RecordRepo   AuthRecordRepository
	RoleRepo     role.RoleRepository
	RoleService  role.RoleService
	EmailService *emails.Service
	Recaptcha    *recaptcha.Verifier
	AuditService audit.AuditService
	Config       *config.Config
	Logger       *zap.Logger
}

func NewAuthService(
	userRepo user.UserRepository,
	recordRepo AuthRecordRepository,
	roleRepo role.RoleRepository,
	roleService role.RoleService,
	emailService *emails.Service,
	verifier *recaptcha.Verifier,
	auditService audit.AuditService,
	cfg *config.Config,
	logger *zap.Logger,
) AuthService {
	return &AuthServiceImpl{
		UserRepo:     userRepo,
		RecordRepo:   recordRepo,
		RoleRepo:     roleRepo,
		RoleService:  roleService,
		EmailService: emailService,
		Recaptcha:    verifier,
		AuditService: auditService,
		Config:       cfg,
		Logger:       logger,
	}
}

// validateRegister runs before any repository call so malformed payloads
// never touch the database.
func validateRegister(in RegisterInput) error {
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return &ValidationError{Reason: "invalid email address"}
	}
	if len(in.Password) < 8 {
		return &ValidationError{Reason: "password must be at least 8 characters"}
	}
	if in.Password != in.ConfirmPassword {
		return &ValidationError{Reason: "passwords do not match"}
	}
	return nil
}

func (s *AuthServiceImpl) Register(ctx context.Context, in RegisterInput) (*common_models.User, error) {
	if err := validateRegister(in); err != nil {
		return nil, err
	}

	if err := s.Recaptcha.Verify(ctx, in.RecaptchaToken, in.RemoteIP); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}

	if _, err := s.UserRepo.FindByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	// Self-registered accounts are patients. Staff accounts are created by
	// an administrator.
	roleIDs := []primitive.ObjectID{}
	if r, err := s.RoleRepo.FindByName(ctx, common_models.RolePatient); err == nil {
		roleIDs = append(roleIDs, r.ID)
	}

	dev := s.Config.IsDevelopment()
	now := time.Now()
	newUser := &common_models.User{
		ID:               primitive.NewObjectID(),
		Email:            in.Email,
		Password:         hashed,
		FullName:         in.FullName,
		Phone:            in.Phone,
		IsActive:         dev, // activated by email verification outside dev
		IsSuperuser:      false,
		IsStaff:          false,
		Roles:            roleIDs,
		ExtraPermissions: []primitive.ObjectID{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.UserRepo.Create(ctx, newUser); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	record := &common_models.AuthRecord{
		ID:         primitive.NewObjectID(),
		UserID:     newUser.ID,
		AuthCode:   uuid.NewString(),
		Type:       "verify",
		IsVerified: dev,
		CreatedAt:  now,
	}
	if dev {
		record.VerifiedAt = &now
	}
	if err := s.RecordRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	if !dev {
		link := fmt.Sprintf("%s/api/auth/verify?code=%s", s.Config.PublicURL, record.AuthCode)
		if err := s.EmailService.SendVerification(ctx, newUser.Email, newUser.ID, link); err != nil {
			// Registration stands; the code can be re-mailed by support.
			s.Logger.Warn("failed to queue verification email", zap.Error(err))
		}
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "users", newUser.ID.Hex(), map[string]common_models.Change{
		"email": {New: newUser.Email},
	})

	return newUser, nil
}

func (s *AuthServiceImpl) Verify(ctx context.Context, code string) error {
	if code == "" {
		return &ValidationError{Reason: "verification code required"}
	}

	record, err := s.RecordRepo.FindUnconsumedByCode(ctx, code)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrCodeNotFound
		}
		return err
	}

	// Consume the code before activating. If the activation write fails
	// the user stays inactive with a dead code, which support can re-issue;
	// the reverse order could leave an active account with a live code.
	if err := s.RecordRepo.MarkVerified(ctx, record.ID); err != nil {
		return err
	}

	if err := s.UserRepo.Update(ctx, record.UserID, map[string]interface{}{
		"is_active":  true,
		"updated_at": time.Now(),
	}); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionVerify, "users", record.UserID.Hex(), map[string]common_models.Change{
		"is_active": {Old: false, New: true},
	})

	return nil
}

// Login deliberately reports the same error for unknown email and wrong
// password so the endpoint cannot be used for account enumeration. Nothing
// about the failed comparison is logged.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (string, error) {
	usr, err := s.UserRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, usr.Password) {
		return "", ErrInvalidCredentials
	}

	if !usr.IsActive {
		return "", ErrAccountInactive
	}

	roleNames, err := s.RoleService.NamesByIDs(ctx, usr.Roles)
	if err != nil {
		roleNames = []string{}
	}

	token, err := utils.GenerateToken(usr, roleNames)
	if err != nil {
		return "", err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionLogin, "users", usr.ID.Hex(), nil)

	return token, nil
}
