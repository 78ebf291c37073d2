package template

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrLevelNotFound    = errors.New("approval level not found")

	// ErrMixedApproverKinds means a set holds both a supervisor entry and
	// named entries. The ApproverSet methods prevent this; validation
	// reports it for sets built around them.
	ErrMixedApproverKinds = errors.New("approver set mixes supervisor and named approvers")

	ErrNoSupervisorAvailable = errors.New("requester has no supervisor on record")
	ErrRoleHasNoMembers      = errors.New("role approvers have no current members")
)

// Metadata violation codes
const (
	CodeDuplicateInternalName = "duplicate_internal_name"
	CodeInvalidInternalName   = "invalid_internal_name"
	CodeInternalNameImmutable = "internal_name_immutable"
	CodeEmptyDisplayName      = "empty_display_name"
	CodeInvalidColor          = "invalid_color"
	CodeNonPositiveSLA        = "non_positive_sla"
)

// Field violation codes
const (
	CodeEmptyFieldName     = "empty_field_name"
	CodeUnknownFieldType   = "unknown_field_type"
	CodeEmptyFieldLabel    = "empty_field_label"
	CodeDuplicateFieldName = "duplicate_field_name"
	CodeMissingOptions     = "missing_options_for_choice_type"
	CodeDanglingDependency = "dangling_dependency"
)

// Level violation codes
const (
	CodeNonContiguousLevels  = "non_contiguous_level_numbers"
	CodeDuplicateLevelNumber = "duplicate_level_number"
	CodeEmptyLevelName       = "empty_level_name"
	CodeEmptyApproverSet     = "empty_approver_set"
	CodeNoLevels             = "no_levels"
	CodeMixedApproverKinds   = "mixed_approver_kinds"
	CodeDuplicateApprover    = "duplicate_approver"
	CodeLevelNonPositiveSLA  = "non_positive_sla"
	CodeInvalidApproverEntry = "invalid_approver_entry"
)

// ValidationError is one metadata-level violation.
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FieldError is one violation found in a form-field definition.
type FieldError struct {
	Field   string `json:"field"` // field name, or its label when the name is empty
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Field, e.Message)
}

// LevelError is one violation found in the approval chain.
type LevelError struct {
	Level   int    `json:"level"` // 1-based level number, 0 for chain-wide violations
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e LevelError) Error() string {
	if e.Level == 0 {
		return e.Message
	}
	return fmt.Sprintf("level %d: %s", e.Level, e.Message)
}

// ValidationFailure aggregates every violation of a rejected operation,
// so the authoring surface can present all problems at once.
type ValidationFailure struct {
	MetadataErrors []ValidationError `json:"metadata_errors,omitempty"`
	FieldErrors    []FieldError      `json:"field_errors,omitempty"`
	LevelErrors    []LevelError      `json:"level_errors,omitempty"`
}

func (f *ValidationFailure) Error() string {
	var parts []string
	for _, e := range f.MetadataErrors {
		parts = append(parts, e.Error())
	}
	for _, e := range f.FieldErrors {
		parts = append(parts, e.Error())
	}
	for _, e := range f.LevelErrors {
		parts = append(parts, e.Error())
	}
	return "template validation failed: " + strings.Join(parts, "; ")
}

// Empty reports whether no violations were recorded.
func (f *ValidationFailure) Empty() bool {
	return len(f.MetadataErrors) == 0 && len(f.FieldErrors) == 0 && len(f.LevelErrors) == 0
}
