package permission

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Permission is a named capability. Roles bundle permissions; individual
// users may additionally carry them through extra_permissions.
type Permission struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}
