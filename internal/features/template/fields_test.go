package template

import (
	"testing"
)

func hasFieldError(errs []FieldError, code string) bool {
	for _, e := range errs {
		if e.Code == code {
			return true
		}
	}
	return false
}

func TestNormalizeField(t *testing.T) {
	tests := []struct {
		name      string
		raw       FieldDefinition
		wantName  string
		wantCodes []string
	}{
		{
			name:     "Name Normalization",
			raw:      FieldDefinition{Name: "  Leave Type ", Label: "Leave Type", Type: FieldTypeText},
			wantName: "leave_type",
		},
		{
			name:      "Empty Name",
			raw:       FieldDefinition{Label: "Reason", Type: FieldTypeText},
			wantCodes: []string{CodeEmptyFieldName},
		},
		{
			name:      "Empty Label",
			raw:       FieldDefinition{Name: "reason", Type: FieldTypeTextArea},
			wantCodes: []string{CodeEmptyFieldLabel},
		},
		{
			name:      "Unknown Type",
			raw:       FieldDefinition{Name: "x", Label: "X", Type: "dropdown"},
			wantCodes: []string{CodeUnknownFieldType},
		},
		{
			name:      "Select Without Options",
			raw:       FieldDefinition{Name: "leave_type", Label: "Leave Type", Type: FieldTypeSelect},
			wantCodes: []string{CodeMissingOptions},
		},
		{
			name:     "Radio With Options",
			raw:      FieldDefinition{Name: "half_day", Label: "Half Day", Type: FieldTypeRadio, Options: []string{"yes", "no"}},
			wantName: "half_day",
		},
		{
			name:      "Multiple Violations Reported Together",
			raw:       FieldDefinition{Type: FieldTypeCheckbox},
			wantCodes: []string{CodeEmptyFieldName, CodeEmptyFieldLabel, CodeMissingOptions},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errs := NormalizeField(tt.raw)
			if len(tt.wantCodes) == 0 {
				if len(errs) != 0 {
					t.Fatalf("NormalizeField() errs = %v, want none", errs)
				}
				if got.Name != tt.wantName {
					t.Errorf("Name = %q, want %q", got.Name, tt.wantName)
				}
				return
			}
			for _, code := range tt.wantCodes {
				if !hasFieldError(errs, code) {
					t.Errorf("missing error code %s in %v", code, errs)
				}
			}
		})
	}
}

func TestNormalizeFieldClearsOptionsOnNonChoice(t *testing.T) {
	got, errs := NormalizeField(FieldDefinition{
		Name:    "notes",
		Label:   "Notes",
		Type:    FieldTypeTextArea,
		Options: []string{"stale", "options"},
	})
	if len(errs) != 0 {
		t.Fatalf("unexpected errs: %v", errs)
	}
	if got.Options != nil {
		t.Errorf("Options = %v, want nil for non-choice type", got.Options)
	}
}

func TestValidateFieldListSortOrder(t *testing.T) {
	// Caller-supplied sort orders are stale after a reorder; list
	// position wins.
	fields := []FieldDefinition{
		{Name: "reason", Label: "Reason", Type: FieldTypeTextArea, SortOrder: 7},
		{Name: "start_date", Label: "Start Date", Type: FieldTypeDate, SortOrder: 0},
		{Name: "end_date", Label: "End Date", Type: FieldTypeDate, SortOrder: 3},
	}

	out, errs := ValidateFieldList(fields)
	if len(errs) != 0 {
		t.Fatalf("unexpected errs: %v", errs)
	}
	for i, f := range out {
		if f.SortOrder != i {
			t.Errorf("field %q SortOrder = %d, want %d", f.Name, f.SortOrder, i)
		}
	}
}

func TestValidateFieldListDuplicateNames(t *testing.T) {
	fields := []FieldDefinition{
		{Name: "amount", Label: "Amount", Type: FieldTypeNumber},
		{Name: "Amount", Label: "Amount Again", Type: FieldTypeNumber}, // normalizes to the same name
	}

	out, errs := ValidateFieldList(fields)
	if out != nil {
		t.Errorf("expected nil list on error, got %v", out)
	}
	if !hasFieldError(errs, CodeDuplicateFieldName) {
		t.Errorf("missing %s in %v", CodeDuplicateFieldName, errs)
	}
}

func TestValidateFieldListDependencies(t *testing.T) {
	tests := []struct {
		name     string
		fields   []FieldDefinition
		wantCode string
	}{
		{
			name: "Dependency On Earlier Field",
			fields: []FieldDefinition{
				{Name: "leave_type", Label: "Leave Type", Type: FieldTypeSelect, Options: []string{"sick", "vacation"}},
				{Name: "reason", Label: "Reason", Type: FieldTypeTextArea, DependsOnField: "leave_type", DependsOnValue: "sick"},
			},
		},
		{
			name: "Dependency On Later Field",
			fields: []FieldDefinition{
				{Name: "reason", Label: "Reason", Type: FieldTypeTextArea, DependsOnField: "leave_type", DependsOnValue: "sick"},
				{Name: "leave_type", Label: "Leave Type", Type: FieldTypeSelect, Options: []string{"sick", "vacation"}},
			},
			wantCode: CodeDanglingDependency,
		},
		{
			name: "Dependency On Missing Field",
			fields: []FieldDefinition{
				{Name: "reason", Label: "Reason", Type: FieldTypeTextArea, DependsOnField: "category"},
			},
			wantCode: CodeDanglingDependency,
		},
		{
			name: "Self Dependency",
			fields: []FieldDefinition{
				{Name: "reason", Label: "Reason", Type: FieldTypeTextArea, DependsOnField: "reason"},
			},
			wantCode: CodeDanglingDependency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, errs := ValidateFieldList(tt.fields)
			if tt.wantCode == "" {
				if len(errs) != 0 {
					t.Fatalf("unexpected errs: %v", errs)
				}
				if len(out) != len(tt.fields) {
					t.Errorf("len(out) = %d, want %d", len(out), len(tt.fields))
				}
				return
			}
			if out != nil {
				t.Errorf("expected nil list on error, got %v", out)
			}
			if !hasFieldError(errs, tt.wantCode) {
				t.Errorf("missing %s in %v", tt.wantCode, errs)
			}
		})
	}
}
