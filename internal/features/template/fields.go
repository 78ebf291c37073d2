package template

import (
	"fmt"
	"strings"

	"go-orgadmin/pkg/utils"
)

// NormalizeField validates and normalizes a single raw field definition
// in isolation: the name is lowercased with whitespace collapsed to
// underscores, choice types must carry options, non-choice types have
// any supplied options cleared. Dependency integrity is a list-level
// concern and is checked by ValidateFieldList.
func NormalizeField(raw FieldDefinition) (FieldDefinition, []FieldError) {
	var errs []FieldError

	raw.Name = utils.InternalName(raw.Name)
	raw.Label = strings.TrimSpace(raw.Label)

	label := raw.Name
	if label == "" {
		label = raw.Label
	}

	if raw.Name == "" {
		errs = append(errs, FieldError{Field: label, Code: CodeEmptyFieldName, Message: "field name is required"})
	}
	if raw.Label == "" {
		errs = append(errs, FieldError{Field: label, Code: CodeEmptyFieldLabel, Message: "field label is required"})
	}
	if !raw.Type.IsKnown() {
		errs = append(errs, FieldError{Field: label, Code: CodeUnknownFieldType, Message: fmt.Sprintf("unknown field type %q", raw.Type)})
	}

	if raw.Type.IsChoice() {
		if len(raw.Options) == 0 {
			errs = append(errs, FieldError{Field: label, Code: CodeMissingOptions, Message: fmt.Sprintf("%s fields require at least one option", raw.Type)})
		}
	} else {
		// Options are meaningless outside choice types; drop silently
		raw.Options = nil
	}

	if len(errs) > 0 {
		return raw, errs
	}
	return raw, nil
}

// ValidateFieldList normalizes and validates a whole ordered field list.
// List position is authoritative: SortOrder is re-derived from the index
// regardless of what the caller supplied, so a moved field is renumbered
// rather than left stale. Every violation found is returned, not just
// the first. On success the returned list is the normalized replacement
// for the input.
func ValidateFieldList(fields []FieldDefinition) ([]FieldDefinition, []FieldError) {
	var errs []FieldError

	out := make([]FieldDefinition, len(fields))
	seen := make(map[string]int, len(fields)) // name -> index of first occurrence

	for i, raw := range fields {
		f, ferrs := NormalizeField(raw)
		errs = append(errs, ferrs...)

		f.SortOrder = i
		out[i] = f

		if f.Name == "" {
			continue
		}
		if _, dup := seen[f.Name]; dup {
			errs = append(errs, FieldError{Field: f.Name, Code: CodeDuplicateFieldName, Message: "duplicate field name"})
			continue
		}
		seen[f.Name] = i
	}

	// A dependency must resolve to a field that appears strictly earlier
	// in the list; self and forward references are dangling.
	for i, f := range out {
		if f.DependsOnField == "" {
			continue
		}
		target, ok := seen[f.DependsOnField]
		if !ok || target >= i {
			errs = append(errs, FieldError{
				Field:   f.Name,
				Code:    CodeDanglingDependency,
				Message: fmt.Sprintf("depends on %q which does not precede it", f.DependsOnField),
			})
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}
