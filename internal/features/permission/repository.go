package permission

import (
	"context"

	"go-medidiagnose/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PermissionRepository interface {
	Create(ctx context.Context, permission *Permission) error
	FindByName(ctx context.Context, name string) (*Permission, error)
	List(ctx context.Context) ([]Permission, error)
	CountByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type PermissionRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewPermissionRepository(mongodb *database.MongoDB) PermissionRepository {
	return &PermissionRepositoryImpl{
		Collection: mongodb.DB.Collection("permissions"),
	}
}

func (r *PermissionRepositoryImpl) Create(ctx context.Context, permission *Permission) error {
	_, err := r.Collection.InsertOne(ctx, permission)
	return err
}

func (r *PermissionRepositoryImpl) FindByName(ctx context.Context, name string) (*Permission, error) {
	var permission Permission
	err := r.Collection.FindOne(ctx, bson.M{"name": name}).Decode(&permission)
	if err != nil {
		return nil, err
	}
	return &permission, nil
}

func (r *PermissionRepositoryImpl) List(ctx context.Context) ([]Permission, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var permissions []Permission
	if err := cursor.All(ctx, &permissions); err != nil {
		return nil, err
	}
	return permissions, nil
}

func (r *PermissionRepositoryImpl) CountByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return r.Collection.CountDocuments(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *PermissionRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
