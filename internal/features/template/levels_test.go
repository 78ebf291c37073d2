package template

import "testing"

func hasLevelError(errs []LevelError, code string) bool {
	for _, e := range errs {
		if e.Code == code {
			return true
		}
	}
	return false
}

func namedLevel(n int, name string) ApprovalLevel {
	return ApprovalLevel{
		LevelNumber: n,
		LevelName:   name,
		Approvers:   ApproverSet{{Kind: ApproverKindUser, UserID: "u1"}},
	}
}

func TestInsertLevelNumbersSequentially(t *testing.T) {
	var levels []ApprovalLevel
	levels = InsertLevel(levels, ApprovalLevel{LevelName: "Team Lead"})
	levels = InsertLevel(levels, ApprovalLevel{LevelName: "Department Head"})
	levels = InsertLevel(levels, ApprovalLevel{LevelName: "HR"})

	for i, lvl := range levels {
		if lvl.LevelNumber != i+1 {
			t.Errorf("level %q number = %d, want %d", lvl.LevelName, lvl.LevelNumber, i+1)
		}
	}
}

func TestRemoveLevelAtCompacts(t *testing.T) {
	// Removing B from A,B,C must leave A=1, C=2 with no gap
	levels := []ApprovalLevel{
		namedLevel(1, "A"),
		namedLevel(2, "B"),
		namedLevel(3, "C"),
	}

	levels = RemoveLevelAt(levels, 1)
	if len(levels) != 2 {
		t.Fatalf("len = %d, want 2", len(levels))
	}
	if levels[0].LevelName != "A" || levels[0].LevelNumber != 1 {
		t.Errorf("levels[0] = %s/%d, want A/1", levels[0].LevelName, levels[0].LevelNumber)
	}
	if levels[1].LevelName != "C" || levels[1].LevelNumber != 2 {
		t.Errorf("levels[1] = %s/%d, want C/2", levels[1].LevelName, levels[1].LevelNumber)
	}
	if errs := ValidateLevels(levels, true); len(errs) != 0 {
		t.Errorf("compacted chain fails validation: %v", errs)
	}
}

func TestRemoveLevelAtOutOfRange(t *testing.T) {
	levels := []ApprovalLevel{namedLevel(1, "A")}
	if got := RemoveLevelAt(levels, 5); len(got) != 1 {
		t.Errorf("out-of-range removal changed the chain: %v", got)
	}
	if got := RemoveLevelAt(levels, -1); len(got) != 1 {
		t.Errorf("negative-index removal changed the chain: %v", got)
	}
}

func TestValidateLevels(t *testing.T) {
	negSLA := -4

	tests := []struct {
		name          string
		levels        []ApprovalLevel
		forActivation bool
		wantCodes     []string
	}{
		{
			name:   "Valid Chain",
			levels: []ApprovalLevel{namedLevel(1, "Team Lead"), namedLevel(2, "HR")},
		},
		{
			name:      "Gap In Numbering",
			levels:    []ApprovalLevel{namedLevel(1, "A"), namedLevel(3, "C")},
			wantCodes: []string{CodeNonContiguousLevels},
		},
		{
			name:      "Starts At Zero",
			levels:    []ApprovalLevel{namedLevel(0, "A")},
			wantCodes: []string{CodeNonContiguousLevels},
		},
		{
			name:      "Duplicate Number",
			levels:    []ApprovalLevel{namedLevel(1, "A"), namedLevel(1, "B")},
			wantCodes: []string{CodeDuplicateLevelNumber},
		},
		{
			name:      "Missing Name",
			levels:    []ApprovalLevel{namedLevel(1, "")},
			wantCodes: []string{CodeEmptyLevelName},
		},
		{
			name: "Negative SLA Override",
			levels: []ApprovalLevel{{
				LevelNumber: 1,
				LevelName:   "A",
				SLAHours:    &negSLA,
				Approvers:   ApproverSet{{Kind: ApproverKindUser, UserID: "u1"}},
			}},
			wantCodes: []string{CodeLevelNonPositiveSLA},
		},
		{
			name: "Mixed Approver Kinds",
			levels: []ApprovalLevel{{
				LevelNumber: 1,
				LevelName:   "A",
				Approvers: ApproverSet{
					{Kind: ApproverKindSupervisor},
					{Kind: ApproverKindRole, RoleID: "r1"},
				},
			}},
			wantCodes: []string{CodeMixedApproverKinds},
		},
		{
			name:   "Empty Approvers Tolerated While Drafting",
			levels: []ApprovalLevel{{LevelNumber: 1, LevelName: "A"}},
		},
		{
			name:          "Empty Approvers Rejected For Activation",
			levels:        []ApprovalLevel{{LevelNumber: 1, LevelName: "A"}},
			forActivation: true,
			wantCodes:     []string{CodeEmptyApproverSet},
		},
		{
			name:          "Empty Chain Rejected For Activation",
			levels:        nil,
			forActivation: true,
			wantCodes:     []string{CodeNoLevels},
		},
		{
			name:   "Empty Chain Tolerated While Drafting",
			levels: nil,
		},
		{
			name:      "All Violations Reported Together",
			levels:    []ApprovalLevel{namedLevel(2, ""), namedLevel(2, "B")},
			wantCodes: []string{CodeNonContiguousLevels, CodeEmptyLevelName, CodeDuplicateLevelNumber},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateLevels(tt.levels, tt.forActivation)
			if len(tt.wantCodes) == 0 {
				if len(errs) != 0 {
					t.Errorf("ValidateLevels() errs = %v, want none", errs)
				}
				return
			}
			for _, code := range tt.wantCodes {
				if !hasLevelError(errs, code) {
					t.Errorf("missing error code %s in %v", code, errs)
				}
			}
		})
	}
}
