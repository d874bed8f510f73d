package record

import (
	"context"
	"errors"
	"testing"
	"time"

	common_models "go-medidiagnose/internal/common/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeRecordRepo struct {
	records []MedicalRecord
}

func (r *fakeRecordRepo) FindByID(ctx context.Context, id string) (*MedicalRecord, error) {
	for _, rec := range r.records {
		if rec.ID.Hex() == id {
			return &rec, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeRecordRepo) FindRecent(ctx context.Context, limit int64) ([]MedicalRecord, error) {
	if int64(len(r.records)) > limit {
		return r.records[:limit], nil
	}
	return r.records, nil
}

func (r *fakeRecordRepo) FindByPatient(ctx context.Context, patientID primitive.ObjectID) ([]MedicalRecord, error) {
	var out []MedicalRecord
	for _, rec := range r.records {
		if rec.PatientID == patientID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeRecordRepo) CountAll(ctx context.Context) (int64, error) {
	return int64(len(r.records)), nil
}

func (r *fakeRecordRepo) CountByPatients(ctx context.Context, patientIDs []primitive.ObjectID) (map[string]int64, error) {
	counts := map[string]int64{}
	for _, rec := range r.records {
		counts[rec.PatientID.Hex()]++
	}
	return counts, nil
}

func (r *fakeRecordRepo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	for _, rec := range r.records {
		if rec.CreatedAt.After(since) {
			n++
		}
	}
	return n, nil
}

func (r *fakeRecordRepo) CountAbnormal(ctx context.Context) (int64, error) {
	var n int64
	for _, rec := range r.records {
		if ClassifyDiagnosis(rec.Diagnosis) == StatusAbnormal {
			n++
		}
	}
	return n, nil
}

func (r *fakeRecordRepo) EnsureIndexes(ctx context.Context) error { return nil }

type stubUserRepo struct {
	users        []common_models.User
	findIDsCalls int
}

func (r *stubUserRepo) Create(ctx context.Context, user *common_models.User) error { return nil }

func (r *stubUserRepo) FindByID(ctx context.Context, id string) (*common_models.User, error) {
	return nil, mongo.ErrNoDocuments
}

func (r *stubUserRepo) FindByEmail(ctx context.Context, email string) (*common_models.User, error) {
	return nil, mongo.ErrNoDocuments
}

func (r *stubUserRepo) FindByIDs(ctx context.Context, ids []string) ([]common_models.User, error) {
	r.findIDsCalls++
	var out []common_models.User
	for _, u := range r.users {
		for _, id := range ids {
			if u.ID.Hex() == id {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (r *stubUserRepo) List(ctx context.Context, filter bson.M, limit, offset int64) ([]common_models.User, int64, error) {
	return r.users, int64(len(r.users)), nil
}

func (r *stubUserRepo) Update(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	return nil
}

func (r *stubUserRepo) Delete(ctx context.Context, id primitive.ObjectID) error { return nil }

func (r *stubUserRepo) Count(ctx context.Context, filter bson.M) (int64, error) {
	return int64(len(r.users)), nil
}

func (r *stubUserRepo) EnsureIndexes(ctx context.Context) error { return nil }

func TestRecentScansJoinsPatients(t *testing.T) {
	patient := common_models.User{
		ID:       primitive.NewObjectID(),
		Email:    "pat@example.com",
		FullName: "Pat Example",
	}
	recordRepo := &fakeRecordRepo{records: []MedicalRecord{
		{ID: primitive.NewObjectID(), PatientID: patient.ID, ScanType: "X-Ray", Diagnosis: "No acute findings"},
		{ID: primitive.NewObjectID(), PatientID: patient.ID, ScanType: "MRI", Diagnosis: "Abnormal lesion"},
	}}
	userRepo := &stubUserRepo{users: []common_models.User{patient}}
	svc := &RecordServiceImpl{RecordRepo: recordRepo, UserRepo: userRepo}

	scans, err := svc.RecentScans(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentScans: %v", err)
	}
	if len(scans) != 2 {
		t.Fatalf("scans = %d, want 2", len(scans))
	}
	if scans[0].Status != StatusNormal || scans[1].Status != StatusAbnormal {
		t.Errorf("statuses = %q, %q", scans[0].Status, scans[1].Status)
	}
	for _, s := range scans {
		if s.Patient == nil || s.Patient.FullName != patient.FullName {
			t.Errorf("patient join missing on scan %s", s.ID.Hex())
		}
	}
	// Both scans belong to one patient, so one batched lookup suffices.
	if userRepo.findIDsCalls != 1 {
		t.Errorf("FindByIDs calls = %d, want 1", userRepo.findIDsCalls)
	}
}

func TestScanByIDNotFound(t *testing.T) {
	svc := &RecordServiceImpl{RecordRepo: &fakeRecordRepo{}, UserRepo: &stubUserRepo{}}
	_, err := svc.ScanByID(context.Background(), primitive.NewObjectID().Hex())
	if !errors.Is(err, ErrScanNotFound) {
		t.Fatalf("err = %v, want ErrScanNotFound", err)
	}
}

func TestScanByIDKeepsUnknownPatient(t *testing.T) {
	rec := MedicalRecord{ID: primitive.NewObjectID(), PatientID: primitive.NewObjectID(), Diagnosis: "suspicious mass"}
	svc := &RecordServiceImpl{
		RecordRepo: &fakeRecordRepo{records: []MedicalRecord{rec}},
		UserRepo:   &stubUserRepo{},
	}

	scan, err := svc.ScanByID(context.Background(), rec.ID.Hex())
	if err != nil {
		t.Fatalf("ScanByID: %v", err)
	}
	if scan.Patient != nil {
		t.Error("expected nil patient for a deleted account")
	}
	if scan.Status != StatusAbnormal {
		t.Errorf("Status = %q", scan.Status)
	}
}

func TestPatientFilter(t *testing.T) {
	base := patientFilter("")
	if base["is_superuser"] != false || base["is_staff"] != false {
		t.Errorf("filter = %v", base)
	}
	if _, ok := base["$or"]; ok {
		t.Error("unexpected search clause")
	}

	searched := patientFilter("smith")
	if _, ok := searched["$or"]; !ok {
		t.Error("missing search clause")
	}

	// Metacharacters in the search text must not reach Mongo as a pattern.
	escaped := patientFilter("(")
	or, ok := escaped["$or"].([]bson.M)
	if !ok || len(or) == 0 {
		t.Fatalf("filter = %v", escaped)
	}
	pattern := or[0]["email"].(bson.M)["$regex"].(primitive.Regex).Pattern
	if pattern != `\(` {
		t.Errorf("pattern = %q, want escaped parenthesis", pattern)
	}
}
