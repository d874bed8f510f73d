package record

import (
	"context"
	"strings"
	"time"

	"go-medidiagnose/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RecordRepository interface {
	FindByID(ctx context.Context, id string) (*MedicalRecord, error)
	FindRecent(ctx context.Context, limit int64) ([]MedicalRecord, error)
	FindByPatient(ctx context.Context, patientID primitive.ObjectID) ([]MedicalRecord, error)
	CountAll(ctx context.Context) (int64, error)
	CountByPatients(ctx context.Context, patientIDs []primitive.ObjectID) (map[string]int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	CountAbnormal(ctx context.Context) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type RecordRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewRecordRepository(mongodb *database.MongoDB) RecordRepository {
	return &RecordRepositoryImpl{
		Collection: mongodb.DB.Collection("medical_records"),
	}
}

func (r *RecordRepositoryImpl) FindByID(ctx context.Context, id string) (*MedicalRecord, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}

	var rec MedicalRecord
	if err := r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *RecordRepositoryImpl) FindRecent(ctx context.Context, limit int64) ([]MedicalRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []MedicalRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *RecordRepositoryImpl) FindByPatient(ctx context.Context, patientID primitive.ObjectID) ([]MedicalRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.Collection.Find(ctx, bson.M{"patient_id": patientID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []MedicalRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *RecordRepositoryImpl) CountAll(ctx context.Context) (int64, error) {
	return r.Collection.CountDocuments(ctx, bson.M{})
}

// CountByPatients returns scan counts per patient id in one aggregation.
func (r *RecordRepositoryImpl) CountByPatients(ctx context.Context, patientIDs []primitive.ObjectID) (map[string]int64, error) {
	counts := make(map[string]int64, len(patientIDs))
	if len(patientIDs) == 0 {
		return counts, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"patient_id": bson.M{"$in": patientIDs}}}},
		{{Key: "$group", Value: bson.M{"_id": "$patient_id", "count": bson.M{"$sum": 1}}}},
	}

	cursor, err := r.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID    primitive.ObjectID `bson:"_id"`
		Count int64              `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.ID.Hex()] = row.Count
	}
	return counts, nil
}

func (r *RecordRepositoryImpl) CountSince(ctx context.Context, since time.Time) (int64, error) {
	return r.Collection.CountDocuments(ctx, bson.M{"created_at": bson.M{"$gte": since}})
}

// CountAbnormal counts scans whose diagnosis text trips the abnormality
// keyword list. The regex mirrors ClassifyDiagnosis.
func (r *RecordRepositoryImpl) CountAbnormal(ctx context.Context) (int64, error) {
	pattern := primitive.Regex{Pattern: strings.Join(abnormalKeywords, "|"), Options: "i"}
	return r.Collection.CountDocuments(ctx, bson.M{"diagnosis": bson.M{"$regex": pattern}})
}

func (r *RecordRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "patient_id", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	return err
}
