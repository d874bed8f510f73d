package user

import (
	"context"
	"errors"
	"regexp"
	"time"

	common_models "go-medidiagnose/internal/common/models"
	"go-medidiagnose/internal/features/audit"
	"go-medidiagnose/internal/features/permission"
	"go-medidiagnose/internal/features/role"
	"go-medidiagnose/pkg/utils"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrSuperuserProtected = errors.New("superuser accounts cannot be deleted")
	ErrUnknownRole        = errors.New("role name outside the allowed set")
	ErrNotFound           = errors.New("user not found")
)

// ListQuery carries the admin list filters. Status uses the UI vocabulary
// (Active/Suspended); Role is one of the closed role names.
type ListQuery struct {
	Status string
	Role   string
	Search string
	Page   int64
	Limit  int64
}

type CreateUserInput struct {
	Email    string
	Password string
	FullName string
	Phone    string
	Role     string
}

type UserService interface {
	ListUsers(ctx context.Context, q ListQuery) ([]common_models.User, int64, error)
	GetUserByID(ctx context.Context, id string) (*common_models.User, error)
	CreateUser(ctx context.Context, in CreateUserInput) (*common_models.User, error)
	UpdateUser(ctx context.Context, id string, updates map[string]interface{}) error
	UpdateUserStatus(ctx context.Context, id string, active bool) error
	UpdateUserRoles(ctx context.Context, id string, roleIDs []string) error
	UpdateUserPermissions(ctx context.Context, id string, permissionIDs []string) error
	DeleteUser(ctx context.Context, id string) error
	ExportUsers(ctx context.Context) (*excelize.File, error)
}

type UserServiceImpl struct {
	UserRepo          UserRepository
	RoleService       role.RoleService
	RoleRepo          role.RoleRepository
	PermissionService permission.PermissionService
	AuditService      audit.AuditService
}

func NewUserService(
	userRepo UserRepository,
	roleService role.RoleService,
	roleRepo role.RoleRepository,
	permissionService permission.PermissionService,
	auditService audit.AuditService,
) UserService {
	return &UserServiceImpl{
		UserRepo:          userRepo,
		RoleService:       roleService,
		RoleRepo:          roleRepo,
		PermissionService: permissionService,
		AuditService:      auditService,
	}
}

// buildListFilter maps the UI-facing query onto a Mongo filter.
// Role buckets are resolved through the derived flags, so they keep working
// even for users whose role list was edited directly.
func buildListFilter(q ListQuery) bson.M {
	filter := bson.M{}

	switch q.Status {
	case "Active":
		filter["is_active"] = true
	case "Suspended":
		filter["is_active"] = false
	}

	switch q.Role {
	case common_models.RoleAdministrator:
		filter["is_superuser"] = true
	case common_models.RoleDoctor, common_models.RoleStaff:
		filter["is_superuser"] = false
		filter["is_staff"] = true
	case common_models.RolePatient:
		filter["is_superuser"] = false
		filter["is_staff"] = false
	}

	if q.Search != "" {
		// Search text is matched literally, never as a user-supplied regex.
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		filter["$or"] = []bson.M{
			{"email": bson.M{"$regex": pattern}},
			{"full_name": bson.M{"$regex": pattern}},
		}
	}

	return filter
}

func (s *UserServiceImpl) ListUsers(ctx context.Context, q ListQuery) ([]common_models.User, int64, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}
	offset := (q.Page - 1) * q.Limit

	users, total, err := s.UserRepo.List(ctx, buildListFilter(q), q.Limit, offset)
	if err != nil {
		return nil, 0, err
	}
	if users == nil {
		users = []common_models.User{}
	}
	return users, total, nil
}

func (s *UserServiceImpl) GetUserByID(ctx context.Context, id string) (*common_models.User, error) {
	u, err := s.UserRepo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return u, nil
}

func (s *UserServiceImpl) CreateUser(ctx context.Context, in CreateUserInput) (*common_models.User, error) {
	if !common_models.KnownRole(in.Role) {
		return nil, ErrUnknownRole
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

	isSuperuser, isStaff := common_models.FlagsForRole(in.Role)

	roleIDs := []primitive.ObjectID{}
	if r, err := s.RoleRepo.FindByName(ctx, in.Role); err == nil {
		roleIDs = append(roleIDs, r.ID)
	}

	now := time.Now()
	newUser := &common_models.User{
		ID:               primitive.NewObjectID(),
		Email:            in.Email,
		Password:         hashed,
		FullName:         in.FullName,
		Phone:            in.Phone,
		IsActive:         true, // admin-created accounts skip email verification
		IsSuperuser:      isSuperuser,
		IsStaff:          isStaff,
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

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "users", newUser.ID.Hex(), map[string]common_models.Change{
		"email": {New: in.Email},
		"role":  {New: in.Role},
	})

	return newUser, nil
}

func (s *UserServiceImpl) UpdateUser(ctx context.Context, id string, updates map[string]interface{}) error {
	existing, err := s.UserRepo.FindByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}

	set := bson.M{}
	changes := make(map[string]common_models.Change)

	if v, ok := updates["full_name"].(string); ok && v != existing.FullName {
		set["full_name"] = v
		changes["full_name"] = common_models.Change{Old: existing.FullName, New: v}
	}
	if v, ok := updates["phone"].(string); ok && v != existing.Phone {
		set["phone"] = v
		changes["phone"] = common_models.Change{Old: existing.Phone, New: v}
	}
	if v, ok := updates["email"].(string); ok && v != existing.Email {
		if _, err := s.UserRepo.FindByEmail(ctx, v); err == nil {
			return ErrEmailTaken
		} else if !errors.Is(err, mongo.ErrNoDocuments) {
			return err
		}
		set["email"] = v
		changes["email"] = common_models.Change{Old: existing.Email, New: v}
	}

	if len(set) == 0 {
		return nil
	}
	set["updated_at"] = time.Now()

	if err := s.UserRepo.Update(ctx, existing.ID, set); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "users", id, changes)
	return nil
}

func (s *UserServiceImpl) UpdateUserStatus(ctx context.Context, id string, active bool) error {
	existing, err := s.UserRepo.FindByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}
	if existing.IsActive == active {
		return nil
	}

	set := bson.M{"is_active": active, "updated_at": time.Now()}
	if err := s.UserRepo.Update(ctx, existing.ID, set); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "users", id, map[string]common_models.Change{
		"is_active": {Old: existing.IsActive, New: active},
	})
	return nil
}

func (s *UserServiceImpl) UpdateUserRoles(ctx context.Context, id string, roleIDs []string) error {
	existing, err := s.UserRepo.FindByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}

	oids, err := s.RoleService.ValidateIDs(ctx, roleIDs)
	if err != nil {
		return err
	}

	// Re-derive the coarse flags from the new role set so the next issued
	// token reflects the change.
	names, err := s.RoleService.NamesByIDs(ctx, oids)
	if err != nil {
		return err
	}
	var isSuperuser, isStaff bool
	for _, n := range names {
		su, st := common_models.FlagsForRole(n)
		isSuperuser = isSuperuser || su
		isStaff = isStaff || st
	}

	set := bson.M{
		"roles":        oids,
		"is_superuser": isSuperuser,
		"is_staff":     isStaff,
		"updated_at":   time.Now(),
	}
	if err := s.UserRepo.Update(ctx, existing.ID, set); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "users", id, map[string]common_models.Change{
		"roles": {Old: existing.Roles, New: oids},
	})
	return nil
}

func (s *UserServiceImpl) UpdateUserPermissions(ctx context.Context, id string, permissionIDs []string) error {
	existing, err := s.UserRepo.FindByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}

	oids, err := s.PermissionService.ValidateIDs(ctx, permissionIDs)
	if err != nil {
		return err
	}

	set := bson.M{"extra_permissions": oids, "updated_at": time.Now()}
	if err := s.UserRepo.Update(ctx, existing.ID, set); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "users", id, map[string]common_models.Change{
		"extra_permissions": {Old: existing.ExtraPermissions, New: oids},
	})
	return nil
}

func (s *UserServiceImpl) DeleteUser(ctx context.Context, id string) error {
	existing, err := s.UserRepo.FindByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}
	if existing.IsSuperuser {
		return ErrSuperuserProtected
	}

	if err := s.UserRepo.Delete(ctx, existing.ID); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionDelete, "users", id, map[string]common_models.Change{
		"email": {Old: existing.Email, New: "DELETED"},
	})
	return nil
}

// ExportUsers renders the full user directory as a spreadsheet.
func (s *UserServiceImpl) ExportUsers(ctx context.Context) (*excelize.File, error) {
	users, _, err := s.UserRepo.List(ctx, bson.M{}, 0, 0)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Users"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Email", "Full Name", "Phone", "Active", "Superuser", "Staff", "Created At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, u := range users {
		values := []interface{}{
			u.ID.Hex(), u.Email, u.FullName, u.Phone,
			u.IsActive, u.IsSuperuser, u.IsStaff,
			u.CreatedAt.Format(time.RFC3339),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	return f, nil
}
