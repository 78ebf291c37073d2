package template

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextArea FieldType = "textarea"
	FieldTypeNumber   FieldType = "number"
	FieldTypeDate     FieldType = "date"
	FieldTypeSelect   FieldType = "select"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeFile     FieldType = "file"
	FieldTypeEmail    FieldType = "email"
	FieldTypePhone    FieldType = "phone"
)

// IsChoice reports whether the type renders as a list of options and
// therefore requires a non-empty Options list.
func (t FieldType) IsChoice() bool {
	switch t {
	case FieldTypeSelect, FieldTypeRadio, FieldTypeCheckbox:
		return true
	}
	return false
}

// IsKnown reports whether t is one of the supported field types.
func (t FieldType) IsKnown() bool {
	switch t {
	case FieldTypeText, FieldTypeTextArea, FieldTypeNumber, FieldTypeDate,
		FieldTypeSelect, FieldTypeRadio, FieldTypeCheckbox,
		FieldTypeFile, FieldTypeEmail, FieldTypePhone:
		return true
	}
	return false
}

// Palette of recognized template colors
var TemplateColors = []string{"blue", "green", "red", "orange", "purple", "teal", "pink", "gray"}

func IsTemplateColor(c string) bool {
	for _, v := range TemplateColors {
		if v == c {
			return true
		}
	}
	return false
}

// FieldDefinition is one entry of a template's form schema.
type FieldDefinition struct {
	ID             string    `bson:"id" json:"id"` // stable uuid, assigned on first save
	Name           string    `bson:"name" json:"name"`
	Label          string    `bson:"label" json:"label"`
	Type           FieldType `bson:"type" json:"type"`
	Placeholder    string    `bson:"placeholder,omitempty" json:"placeholder,omitempty"`
	HelpText       string    `bson:"help_text,omitempty" json:"help_text,omitempty"`
	DefaultValue   string    `bson:"default_value,omitempty" json:"default_value,omitempty"`
	ValidationRule string    `bson:"validation_rule,omitempty" json:"validation_rule,omitempty"`
	IsRequired     bool      `bson:"is_required" json:"is_required"`
	Options        []string  `bson:"options,omitempty" json:"options,omitempty"`
	SortOrder      int       `bson:"sort_order" json:"sort_order"`
	DependsOnField string    `bson:"depends_on_field,omitempty" json:"depends_on_field,omitempty"`
	DependsOnValue string    `bson:"depends_on_value,omitempty" json:"depends_on_value,omitempty"`
}

type ApproverKind string

const (
	ApproverKindUser       ApproverKind = "user"
	ApproverKindRole       ApproverKind = "role"
	ApproverKindSupervisor ApproverKind = "requester_supervisor"
)

// Approver is a tagged variant: exactly one kind is active, and only
// User/Role carry an id.
type Approver struct {
	Kind   ApproverKind `bson:"kind" json:"kind"`
	UserID string       `bson:"user_id,omitempty" json:"user_id,omitempty"`
	RoleID string       `bson:"role_id,omitempty" json:"role_id,omitempty"`
}

// ApprovalLevel is one sequential stage of a template's approval chain.
type ApprovalLevel struct {
	ID          string      `bson:"id" json:"id"` // stable uuid, assigned on first save
	LevelNumber int         `bson:"level_number" json:"level_number"`
	LevelName   string      `bson:"level_name" json:"level_name"`
	SLAHours    *int        `bson:"sla_hours,omitempty" json:"sla_hours,omitempty"`
	Approvers   ApproverSet `bson:"approvers" json:"approvers"`
}

// TemplateDefinition is the aggregate root: identity and metadata plus
// the form schema and the approval chain.
type TemplateDefinition struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	InternalName    string             `bson:"internal_name" json:"internal_name"` // immutable after creation
	DisplayName     string             `bson:"display_name" json:"display_name"`
	Description     string             `bson:"description,omitempty" json:"description,omitempty"`
	Icon            string             `bson:"icon,omitempty" json:"icon,omitempty"`
	Color           string             `bson:"color,omitempty" json:"color,omitempty"`
	DefaultSLAHours int                `bson:"default_sla_hours" json:"default_sla_hours"`
	IsActive        bool               `bson:"is_active" json:"is_active"`
	Fields          []FieldDefinition  `bson:"fields" json:"fields"`
	Levels          []ApprovalLevel    `bson:"levels" json:"levels"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}

// EffectiveSLAHours returns the level's own SLA, falling back to the
// template default when the level does not specify one.
func (t *TemplateDefinition) EffectiveSLAHours(level ApprovalLevel) int {
	if level.SLAHours != nil {
		return *level.SLAHours
	}
	return t.DefaultSLAHours
}

// LevelByNumber finds a level by its 1-based number.
func (t *TemplateDefinition) LevelByNumber(n int) (ApprovalLevel, bool) {
	for _, lvl := range t.Levels {
		if lvl.LevelNumber == n {
			return lvl, true
		}
	}
	return ApprovalLevel{}, false
}
