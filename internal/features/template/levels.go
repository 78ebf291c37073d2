package template

import "fmt"

// InsertLevel appends a level to the chain, numbering it after the
// current last level. Callers may reorder afterwards and re-validate.
func InsertLevel(levels []ApprovalLevel, lvl ApprovalLevel) []ApprovalLevel {
	lvl.LevelNumber = len(levels) + 1
	return append(levels, lvl)
}

// RemoveLevelAt removes the level at index i and compacts the remaining
// chain back to levels 1..N with no gaps. Out-of-range indexes leave
// the chain unchanged.
func RemoveLevelAt(levels []ApprovalLevel, i int) []ApprovalLevel {
	if i < 0 || i >= len(levels) {
		return levels
	}
	out := make([]ApprovalLevel, 0, len(levels)-1)
	out = append(out, levels[:i]...)
	out = append(out, levels[i+1:]...)
	return RenumberLevels(out)
}

// RenumberLevels rewrites every level number to match its 1-based list
// position.
func RenumberLevels(levels []ApprovalLevel) []ApprovalLevel {
	for i := range levels {
		levels[i].LevelNumber = i + 1
	}
	return levels
}

// ValidateLevels checks an ordered level chain: contiguous 1-based
// numbering, no duplicate numbers, names present, positive SLA
// overrides, and well-formed approver sets. Empty approver sets (and an
// empty chain) are tolerated while drafting and only rejected when
// forActivation is set. Every violation is returned, not just the
// first.
func ValidateLevels(levels []ApprovalLevel, forActivation bool) []LevelError {
	var errs []LevelError

	if forActivation && len(levels) == 0 {
		errs = append(errs, LevelError{Code: CodeNoLevels, Message: "an active template needs at least one approval level"})
	}

	seen := make(map[int]bool, len(levels))
	for i, lvl := range levels {
		if seen[lvl.LevelNumber] {
			errs = append(errs, LevelError{Level: lvl.LevelNumber, Code: CodeDuplicateLevelNumber, Message: "duplicate level number"})
		}
		seen[lvl.LevelNumber] = true

		if lvl.LevelNumber != i+1 {
			errs = append(errs, LevelError{
				Level:   lvl.LevelNumber,
				Code:    CodeNonContiguousLevels,
				Message: fmt.Sprintf("level number %d at position %d breaks 1..N contiguity", lvl.LevelNumber, i+1),
			})
		}
		if lvl.LevelName == "" {
			errs = append(errs, LevelError{Level: lvl.LevelNumber, Code: CodeEmptyLevelName, Message: "level name is required"})
		}
		if lvl.SLAHours != nil && *lvl.SLAHours <= 0 {
			errs = append(errs, LevelError{Level: lvl.LevelNumber, Code: CodeLevelNonPositiveSLA, Message: "sla hours must be positive"})
		}

		if err := lvl.Approvers.Validate(); err != nil {
			code := CodeInvalidApproverEntry
			if err == ErrMixedApproverKinds {
				code = CodeMixedApproverKinds
			}
			errs = append(errs, LevelError{Level: lvl.LevelNumber, Code: code, Message: err.Error()})
		}

		if forActivation && len(lvl.Approvers) == 0 {
			errs = append(errs, LevelError{Level: lvl.LevelNumber, Code: CodeEmptyApproverSet, Message: "level has no approvers"})
		}
	}

	return errs
}
