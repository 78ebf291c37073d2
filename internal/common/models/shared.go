package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuditAction string

const (
	AuditActionCreate     AuditAction = "CREATE"
	AuditActionUpdate     AuditAction = "UPDATE"
	AuditActionDelete     AuditAction = "DELETE"
	AuditActionLogin      AuditAction = "LOGIN"
	AuditActionActivate   AuditAction = "ACTIVATE"
	AuditActionDeactivate AuditAction = "DEACTIVATE"
	AuditActionExport     AuditAction = "EXPORT"
	AuditActionRetention  AuditAction = "RETENTION"
)

type Change struct {
	Old interface{} `bson:"old" json:"old"`
	New interface{} `bson:"new" json:"new"`
}

type AuditLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Action    AuditAction        `bson:"action" json:"action"`
	Entity    string             `bson:"entity" json:"entity"`       // e.g. "template", "user", "role"
	RecordID  string             `bson:"record_id" json:"record_id"` // ID of the record being modified
	ActorID   string             `bson:"actor_id" json:"actor_id"`   // User ID who performed the action
	ActorName string             `bson:"-" json:"actor_name,omitempty"`
	Changes   map[string]Change  `bson:"changes,omitempty" json:"changes,omitempty"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// User statuses
const (
	UserStatusActive    = "active"
	UserStatusInactive  = "inactive"
	UserStatusSuspended = "suspended"
)

type User struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Username         string               `bson:"username" json:"username"`
	Password         string               `bson:"password" json:"-"`
	Email            string               `bson:"email" json:"email"`
	FirstName        string               `bson:"first_name,omitempty" json:"first_name,omitempty"`
	LastName         string               `bson:"last_name,omitempty" json:"last_name,omitempty"`
	Phone            string               `bson:"phone,omitempty" json:"phone,omitempty"`
	Status           string               `bson:"status" json:"status"` // active, inactive, suspended
	Roles            []primitive.ObjectID `bson:"roles" json:"roles"`
	FirstSupervisor  *primitive.ObjectID  `bson:"first_supervisor,omitempty" json:"first_supervisor,omitempty"`
	SecondSupervisor *primitive.ObjectID  `bson:"second_supervisor,omitempty" json:"second_supervisor,omitempty"`
	LastLogin        *time.Time           `bson:"last_login,omitempty" json:"last_login,omitempty"`
	CreatedAt        time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time            `bson:"updated_at" json:"updated_at"`
}

// Log is the persisted shape of entries forwarded by the zap DB core.
type Log struct {
	Message      string    `bson:"message" json:"message"`
	Caller       string    `bson:"caller" json:"caller"`
	LogLevelId   int       `bson:"log_level_id" json:"log_level_id"`
	CreatedOnUtc time.Time `bson:"created_on_utc" json:"created_on_utc"`
}
