package user

import (
	"context"
	"errors"
	"testing"

	common_models "go-medidiagnose/internal/common/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeUserRepo struct {
	users       map[string]*common_models.User
	deleted     []primitive.ObjectID
	updateCalls int
}

func newFakeUserRepo(users ...*common_models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*common_models.User{}}
	for _, u := range users {
		r.users[u.ID.Hex()] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *common_models.User) error {
	r.users[user.ID.Hex()] = user
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*common_models.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*common_models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) FindByIDs(ctx context.Context, ids []string) ([]common_models.User, error) {
	var out []common_models.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) List(ctx context.Context, filter bson.M, limit, offset int64) ([]common_models.User, int64, error) {
	var out []common_models.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) Update(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	r.updateCalls++
	if _, ok := r.users[id.Hex()]; !ok {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.deleted = append(r.deleted, id)
	delete(r.users, id.Hex())
	return nil
}

func (r *fakeUserRepo) Count(ctx context.Context, filter bson.M) (int64, error) {
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) EnsureIndexes(ctx context.Context) error { return nil }

type fakeAuditService struct {
	entries int
}

func (a *fakeAuditService) LogChange(ctx context.Context, action common_models.AuditAction, entity string, recordID string, changes map[string]common_models.Change) error {
	a.entries++
	return nil
}

func (a *fakeAuditService) ListLogs(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]common_models.AuditLog, error) {
	return nil, nil
}

func TestDeleteUserProtectsSuperuser(t *testing.T) {
	admin := &common_models.User{
		ID:          primitive.NewObjectID(),
		Email:       "admin@example.com",
		IsSuperuser: true,
		IsStaff:     true,
	}
	repo := newFakeUserRepo(admin)
	svc := &UserServiceImpl{UserRepo: repo, AuditService: &fakeAuditService{}}

	err := svc.DeleteUser(context.Background(), admin.ID.Hex())
	if !errors.Is(err, ErrSuperuserProtected) {
		t.Fatalf("err = %v, want ErrSuperuserProtected", err)
	}
	if len(repo.deleted) != 0 {
		t.Error("delete reached the repository for a superuser")
	}
}

func TestDeleteUserRemovesRegularUser(t *testing.T) {
	patient := &common_models.User{
		ID:    primitive.NewObjectID(),
		Email: "patient@example.com",
	}
	repo := newFakeUserRepo(patient)
	auditSvc := &fakeAuditService{}
	svc := &UserServiceImpl{UserRepo: repo, AuditService: auditSvc}

	if err := svc.DeleteUser(context.Background(), patient.ID.Hex()); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != patient.ID {
		t.Errorf("deleted = %v", repo.deleted)
	}
	if auditSvc.entries != 1 {
		t.Errorf("audit entries = %d, want 1", auditSvc.entries)
	}
}

func TestDeleteUserUnknownID(t *testing.T) {
	repo := newFakeUserRepo()
	svc := &UserServiceImpl{UserRepo: repo, AuditService: &fakeAuditService{}}

	err := svc.DeleteUser(context.Background(), primitive.NewObjectID().Hex())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateUserStatus(t *testing.T) {
	u := &common_models.User{ID: primitive.NewObjectID(), Email: "doc@example.com", IsActive: true}
	repo := newFakeUserRepo(u)
	svc := &UserServiceImpl{UserRepo: repo, AuditService: &fakeAuditService{}}

	if err := svc.UpdateUserStatus(context.Background(), u.ID.Hex(), false); err != nil {
		t.Fatalf("UpdateUserStatus: %v", err)
	}
	if repo.updateCalls != 1 {
		t.Errorf("updateCalls = %d, want 1", repo.updateCalls)
	}
}
