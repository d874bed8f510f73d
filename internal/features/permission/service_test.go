package permission

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	common_models "go-medidiagnose/internal/common/models"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakePermissionRepo struct {
	byName map[string]*Permission
}

func newFakePermissionRepo() *fakePermissionRepo {
	return &fakePermissionRepo{byName: map[string]*Permission{}}
}

func (r *fakePermissionRepo) Create(ctx context.Context, permission *Permission) error {
	r.byName[permission.Name] = permission
	return nil
}

func (r *fakePermissionRepo) FindByName(ctx context.Context, name string) (*Permission, error) {
	if perm, ok := r.byName[name]; ok {
		return perm, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakePermissionRepo) List(ctx context.Context) ([]Permission, error) {
	var out []Permission
	for _, perm := range r.byName {
		out = append(out, *perm)
	}
	return out, nil
}

func (r *fakePermissionRepo) CountByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	var count int64
	for _, id := range ids {
		for _, perm := range r.byName {
			if perm.ID == id {
				count++
			}
		}
	}
	return count, nil
}

func (r *fakePermissionRepo) EnsureIndexes(ctx context.Context) error { return nil }

type fakeAuditService struct{}

func (a *fakeAuditService) LogChange(ctx context.Context, action common_models.AuditAction, entity string, recordID string, changes map[string]common_models.Change) error {
	return nil
}

func (a *fakeAuditService) ListLogs(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]common_models.AuditLog, error) {
	return nil, nil
}

func TestCreatePermissionValidation(t *testing.T) {
	repo := newFakePermissionRepo()
	svc := &PermissionServiceImpl{Repo: repo, AuditService: &fakeAuditService{}}

	if _, err := svc.CreatePermission(context.Background(), "  ", ""); !errors.Is(err, ErrNameRequired) {
		t.Errorf("blank name err = %v, want ErrNameRequired", err)
	}
	if len(repo.byName) != 0 {
		t.Errorf("unexpected permissions: %d", len(repo.byName))
	}
}

func TestCreatePermissionDuplicate(t *testing.T) {
	repo := newFakePermissionRepo()
	svc := &PermissionServiceImpl{Repo: repo, AuditService: &fakeAuditService{}}

	if _, err := svc.CreatePermission(context.Background(), "scans.view", "read scans"); err != nil {
		t.Fatalf("CreatePermission: %v", err)
	}
	if _, err := svc.CreatePermission(context.Background(), "scans.view", "read scans"); !errors.Is(err, ErrNameTaken) {
		t.Errorf("err = %v, want ErrNameTaken", err)
	}
}

func TestValidatePermissionIDs(t *testing.T) {
	repo := newFakePermissionRepo()
	svc := &PermissionServiceImpl{Repo: repo, AuditService: &fakeAuditService{}}

	perm, err := svc.CreatePermission(context.Background(), "users.manage", "")
	if err != nil {
		t.Fatalf("CreatePermission: %v", err)
	}

	if _, err := svc.ValidateIDs(context.Background(), []string{perm.ID.Hex()}); err != nil {
		t.Errorf("valid id err = %v", err)
	}
	if _, err := svc.ValidateIDs(context.Background(), []string{"not-hex"}); err == nil {
		t.Error("malformed id accepted")
	}
	if _, err := svc.ValidateIDs(context.Background(), []string{primitive.NewObjectID().Hex()}); err == nil {
		t.Error("missing permission accepted")
	}
}

func TestCreatePermissionStatusCodes(t *testing.T) {
	repo := newFakePermissionRepo()
	svc := &PermissionServiceImpl{Repo: repo, AuditService: &fakeAuditService{}}
	ctrl := NewPermissionController(svc)

	app := fiber.New()
	app.Post("/api/admin/permissions", ctrl.CreatePermission)

	post := func(body string) int {
		req := httptest.NewRequest("POST", "/api/admin/permissions", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		return resp.StatusCode
	}

	if code := post(`{"name":"audit.view"}`); code != fiber.StatusCreated {
		t.Errorf("first create status = %d, want 201", code)
	}
	if code := post(`{"name":"audit.view"}`); code != fiber.StatusConflict {
		t.Errorf("duplicate status = %d, want 409", code)
	}
	if code := post(`{"name":"   "}`); code != fiber.StatusBadRequest {
		t.Errorf("blank name status = %d, want 400", code)
	}
}
