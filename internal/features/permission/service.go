package permission

import (
	"context"
	"errors"
	"strings"
	"time"

	common_models "go-medidiagnose/internal/common/models"
	"go-medidiagnose/internal/features/audit"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNameRequired = errors.New("permission name required")
	ErrNameTaken    = errors.New("permission already exists")
)

type PermissionService interface {
	CreatePermission(ctx context.Context, name, description string) (*Permission, error)
	ListPermissions(ctx context.Context) ([]Permission, error)
	ValidateIDs(ctx context.Context, ids []string) ([]primitive.ObjectID, error)
}

type PermissionServiceImpl struct {
	Repo         PermissionRepository
	AuditService audit.AuditService
}

func NewPermissionService(repo PermissionRepository, auditService audit.AuditService) PermissionService {
	return &PermissionServiceImpl{
		Repo:         repo,
		AuditService: auditService,
	}
}

func (s *PermissionServiceImpl) CreatePermission(ctx context.Context, name, description string) (*Permission, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	// Existence check first; the unique index backstops concurrent creates.
	if _, err := s.Repo.FindByName(ctx, name); err == nil {
		return nil, ErrNameTaken
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	perm := &Permission{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Description: description,
		CreatedAt:   time.Now(),
	}

	if err := s.Repo.Create(ctx, perm); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrNameTaken
		}
		return nil, err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "permissions", perm.ID.Hex(), map[string]common_models.Change{
		"name": {New: name},
	})

	return perm, nil
}

func (s *PermissionServiceImpl) ListPermissions(ctx context.Context) ([]Permission, error) {
	return s.Repo.List(ctx)
}

// ValidateIDs parses hex ids and checks that every permission exists.
func (s *PermissionServiceImpl) ValidateIDs(ctx context.Context, ids []string) ([]primitive.ObjectID, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, errors.New("invalid permission id: " + id)
		}
		oids = append(oids, oid)
	}

	count, err := s.Repo.CountByIDs(ctx, oids)
	if err != nil {
		return nil, err
	}
	if count != int64(len(oids)) {
		return nil, errors.New("one or more permissions do not exist")
	}
	return oids, nil
}
