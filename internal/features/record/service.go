package record

import (
	"context"
	"errors"
	"regexp"

	common_models "go-medidiagnose/internal/common/models"
	"go-medidiagnose/internal/features/user"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrScanNotFound = errors.New("scan not found")

type RecordService interface {
	RecentScans(ctx context.Context, limit int64) ([]Scan, error)
	ScanByID(ctx context.Context, id string) (*Scan, error)
	ScansForPatient(ctx context.Context, patientID string) ([]Scan, error)
	RecentPatients(ctx context.Context, limit int64) ([]PatientSummary, error)
	ListPatients(ctx context.Context, search string, page, limit int64) ([]PatientSummary, int64, error)
}

type RecordServiceImpl struct {
	RecordRepo RecordRepository
	UserRepo   user.UserRepository
}

func NewRecordService(recordRepo RecordRepository, userRepo user.UserRepository) RecordService {
	return &RecordServiceImpl{
		RecordRepo: recordRepo,
		UserRepo:   userRepo,
	}
}

// joinPatients resolves patient info for a batch of records with a single
// $in lookup instead of one query per scan.
func (s *RecordServiceImpl) joinPatients(ctx context.Context, records []MedicalRecord) ([]Scan, error) {
	seen := make(map[string]bool)
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		id := rec.PatientID.Hex()
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	byID := make(map[string]*PatientInfo, len(ids))
	if len(ids) > 0 {
		users, err := s.UserRepo.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			byID[u.ID.Hex()] = &PatientInfo{
				ID:       u.ID.Hex(),
				FullName: u.FullName,
				Email:    u.Email,
			}
		}
	}

	scans := make([]Scan, 0, len(records))
	for _, rec := range records {
		scans = append(scans, Scan{
			MedicalRecord: rec,
			Status:        ClassifyDiagnosis(rec.Diagnosis),
			Patient:       byID[rec.PatientID.Hex()],
		})
	}
	return scans, nil
}

func (s *RecordServiceImpl) RecentScans(ctx context.Context, limit int64) ([]Scan, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}

	records, err := s.RecordRepo.FindRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return s.joinPatients(ctx, records)
}

func (s *RecordServiceImpl) ScanByID(ctx context.Context, id string) (*Scan, error) {
	rec, err := s.RecordRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrScanNotFound
		}
		return nil, err
	}

	scans, err := s.joinPatients(ctx, []MedicalRecord{*rec})
	if err != nil {
		return nil, err
	}
	return &scans[0], nil
}

func (s *RecordServiceImpl) ScansForPatient(ctx context.Context, patientID string) ([]Scan, error) {
	oid, err := primitive.ObjectIDFromHex(patientID)
	if err != nil {
		return nil, ErrScanNotFound
	}

	records, err := s.RecordRepo.FindByPatient(ctx, oid)
	if err != nil {
		return nil, err
	}
	return s.joinPatients(ctx, records)
}

// patientFilter selects patient accounts: neither staff nor superuser.
func patientFilter(search string) bson.M {
	filter := bson.M{
		"is_superuser": false,
		"is_staff":     false,
	}
	if search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
		filter["$or"] = []bson.M{
			{"email": bson.M{"$regex": pattern}},
			{"full_name": bson.M{"$regex": pattern}},
		}
	}
	return filter
}

func (s *RecordServiceImpl) summaries(ctx context.Context, users []common_models.User) ([]PatientSummary, error) {
	ids := make([]primitive.ObjectID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}

	counts, err := s.RecordRepo.CountByPatients(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]PatientSummary, 0, len(users))
	for _, u := range users {
		out = append(out, PatientSummary{
			ID:        u.ID.Hex(),
			FullName:  u.FullName,
			Email:     u.Email,
			Phone:     u.Phone,
			IsActive:  u.IsActive,
			ScanCount: counts[u.ID.Hex()],
			CreatedAt: u.CreatedAt,
		})
	}
	return out, nil
}

func (s *RecordServiceImpl) RecentPatients(ctx context.Context, limit int64) ([]PatientSummary, error) {
	if limit < 1 || limit > 100 {
		limit = 5
	}

	users, _, err := s.UserRepo.List(ctx, patientFilter(""), limit, 0)
	if err != nil {
		return nil, err
	}
	return s.summaries(ctx, users)
}

func (s *RecordServiceImpl) ListPatients(ctx context.Context, search string, page, limit int64) ([]PatientSummary, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	users, total, err := s.UserRepo.List(ctx, patientFilter(search), limit, offset)
	if err != nil {
		return nil, 0, err
	}

	out, err := s.summaries(ctx, users)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
