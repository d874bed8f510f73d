package role

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role carries a name from the closed role set plus a bundle of permission
// references. Access flags are derived from the name, not stored here.
type Role struct {
	ID          primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name        string               `json:"name" bson:"name"`
	Description string               `json:"description,omitempty" bson:"description,omitempty"`
	Permissions []primitive.ObjectID `json:"permissions" bson:"permissions"`
	CreatedAt   time.Time            `json:"created_at" bson:"created_at"`
}
