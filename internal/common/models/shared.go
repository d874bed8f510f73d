package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Closed role enumeration. Role documents may carry extra descriptive data,
// but access decisions only ever look at these four names.
const (
	RoleAdministrator = "Administrator"
	RoleDoctor        = "Doctor"
	RoleStaff         = "Staff"
	RolePatient       = "Patient"
)

// FlagsForRole resolves the coarse access flags for a role name.
// Resolution happens once, at user creation and at token issuance.
func FlagsForRole(name string) (isSuperuser, isStaff bool) {
	switch name {
	case RoleAdministrator:
		return true, true
	case RoleDoctor, RoleStaff:
		return false, true
	default:
		return false, false
	}
}

// KnownRole reports whether name belongs to the closed role set.
func KnownRole(name string) bool {
	switch name {
	case RoleAdministrator, RoleDoctor, RoleStaff, RolePatient:
		return true
	}
	return false
}

type User struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Email            string               `bson:"email" json:"email"`
	Password         string               `bson:"password" json:"-"`
	FullName         string               `bson:"full_name" json:"full_name"`
	Phone            string               `bson:"phone,omitempty" json:"phone,omitempty"`
	IsActive         bool                 `bson:"is_active" json:"is_active"`
	IsSuperuser      bool                 `bson:"is_superuser" json:"is_superuser"`
	IsStaff          bool                 `bson:"is_staff" json:"is_staff"`
	Roles            []primitive.ObjectID `bson:"roles" json:"roles"`
	ExtraPermissions []primitive.ObjectID `bson:"extra_permissions" json:"extra_permissions"`
	CreatedAt        time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time            `bson:"updated_at" json:"updated_at"`
}

// AuthRecord is a one-time email verification token. It never expires;
// it is consumed by setting is_verified on successful verification.
type AuthRecord struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	AuthCode   string             `bson:"auth_code" json:"auth_code"`
	Type       string             `bson:"type" json:"type"` // "verify"
	IsVerified bool               `bson:"is_verified" json:"is_verified"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	VerifiedAt *time.Time         `bson:"verified_at,omitempty" json:"verified_at,omitempty"`
}

type AuditAction string

const (
	AuditActionCreate AuditAction = "CREATE"
	AuditActionUpdate AuditAction = "UPDATE"
	AuditActionDelete AuditAction = "DELETE"
	AuditActionLogin  AuditAction = "LOGIN"
	AuditActionVerify AuditAction = "VERIFY"
)

type Change struct {
	Old interface{} `bson:"old" json:"old"`
	New interface{} `bson:"new" json:"new"`
}

type AuditLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Action    AuditAction        `bson:"action" json:"action"`
	Entity    string             `bson:"entity" json:"entity"`       // collection name
	RecordID  string             `bson:"record_id" json:"record_id"` // id of the document touched
	ActorID   string             `bson:"actor_id" json:"actor_id"`
	ActorName string             `bson:"-" json:"actor_name,omitempty"`
	Changes   map[string]Change  `bson:"changes,omitempty" json:"changes,omitempty"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// Log is the persisted shape of a zap entry written by the async DB sink.
type Log struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AppId        string             `bson:"app_id" json:"app_id"`
	Message      string             `bson:"message" json:"message"`
	Caller       string             `bson:"caller,omitempty" json:"caller,omitempty"`
	IpAddress    string             `bson:"ip_address,omitempty" json:"ip_address,omitempty"`
	LogLevelId   int                `bson:"log_level_id" json:"log_level_id"`
	CreatedOnUtc time.Time          `bson:"created_on_utc" json:"created_on_utc"`
}
