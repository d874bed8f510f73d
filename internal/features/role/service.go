package role

import (
	"context"
	"errors"
	"strings"
	"time"

	common_models "go-medidiagnose/internal/common/models"
	"go-medidiagnose/internal/features/audit"
	"go-medidiagnose/internal/features/permission"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNameRequired = errors.New("role name required")
	ErrUnknownRole  = errors.New("role name outside the allowed set")
	ErrNameTaken    = errors.New("role already exists")
)

type RoleService interface {
	CreateRole(ctx context.Context, name, description string, permissionIDs []string) (*Role, error)
	ListRoles(ctx context.Context) ([]Role, error)
	NamesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]string, error)
	ValidateIDs(ctx context.Context, ids []string) ([]primitive.ObjectID, error)
}

type RoleServiceImpl struct {
	Repo              RoleRepository
	PermissionService permission.PermissionService
	AuditService      audit.AuditService
}

func NewRoleService(repo RoleRepository, permissionService permission.PermissionService, auditService audit.AuditService) RoleService {
	return &RoleServiceImpl{
		Repo:              repo,
		PermissionService: permissionService,
		AuditService:      auditService,
	}
}

func (s *RoleServiceImpl) CreateRole(ctx context.Context, name, description string, permissionIDs []string) (*Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if !common_models.KnownRole(name) {
		return nil, ErrUnknownRole
	}

	if _, err := s.Repo.FindByName(ctx, name); err == nil {
		return nil, ErrNameTaken
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	permOIDs, err := s.PermissionService.ValidateIDs(ctx, permissionIDs)
	if err != nil {
		return nil, err
	}

	role := &Role{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Description: description,
		Permissions: permOIDs,
		CreatedAt:   time.Now(),
	}

	if err := s.Repo.Create(ctx, role); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrNameTaken
		}
		return nil, err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "roles", role.ID.Hex(), map[string]common_models.Change{
		"name": {New: name},
	})

	return role, nil
}

func (s *RoleServiceImpl) ListRoles(ctx context.Context) ([]Role, error) {
	return s.Repo.List(ctx)
}

// NamesByIDs resolves role documents to their names for token issuance.
func (s *RoleServiceImpl) NamesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]string, error) {
	roles, err := s.Repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}
	return names, nil
}

// ValidateIDs parses hex ids and checks that every role exists.
func (s *RoleServiceImpl) ValidateIDs(ctx context.Context, ids []string) ([]primitive.ObjectID, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, errors.New("invalid role id: " + id)
		}
		oids = append(oids, oid)
	}

	count, err := s.Repo.CountByIDs(ctx, oids)
	if err != nil {
		return nil, err
	}
	if count != int64(len(oids)) {
		return nil, errors.New("one or more roles do not exist")
	}
	return oids, nil
}
