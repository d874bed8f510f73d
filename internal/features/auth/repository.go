package auth

import (
	"context"
	"time"

	common_models "go-medidiagnose/internal/common/models"
	"go-medidiagnose/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// AuthRecordRepository stores one-time email verification codes in the
// authentication collection.
type AuthRecordRepository interface {
	Create(ctx context.Context, record *common_models.AuthRecord) error
	FindUnconsumedByCode(ctx context.Context, code string) (*common_models.AuthRecord, error)
	MarkVerified(ctx context.Context, id primitive.ObjectID) error
	EnsureIndexes(ctx context.Context) error
}

type AuthRecordRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewAuthRecordRepository(mongodb *database.MongoDB) AuthRecordRepository {
	return &AuthRecordRepositoryImpl{
		Collection: mongodb.DB.Collection("authentication"),
	}
}

func (r *AuthRecordRepositoryImpl) Create(ctx context.Context, record *common_models.AuthRecord) error {
	_, err := r.Collection.InsertOne(ctx, record)
	return err
}

func (r *AuthRecordRepositoryImpl) FindUnconsumedByCode(ctx context.Context, code string) (*common_models.AuthRecord, error) {
	var record common_models.AuthRecord
	err := r.Collection.FindOne(ctx, bson.M{
		"auth_code":   code,
		"type":        "verify",
		"is_verified": false,
	}).Decode(&record)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *AuthRecordRepositoryImpl) MarkVerified(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now()
	_, err := r.Collection.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"is_verified": true,
			"verified_at": now,
		},
	})
	return err
}

func (r *AuthRecordRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "auth_code", Value: 1}},
	})
	return err
}
