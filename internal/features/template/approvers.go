package template

import (
	"errors"
	"fmt"
)

// ApproverSet holds the approvers of one level. The set contains either
// exactly one supervisor entry or one-or-more named (user/role) entries,
// never both; the mutating methods maintain that invariant, Validate
// reports it for sets assembled by hand.
type ApproverSet []Approver

// HasSupervisor reports whether the set contains a supervisor entry.
func (s ApproverSet) HasSupervisor() bool {
	for _, a := range s {
		if a.Kind == ApproverKindSupervisor {
			return true
		}
	}
	return false
}

func (s ApproverSet) contains(a Approver) bool {
	for _, e := range s {
		if sameApprover(e, a) {
			return true
		}
	}
	return false
}

// sameApprover compares by identity: the named id for user/role
// entries, the kind alone for the supervisor entry.
func sameApprover(a, b Approver) bool {
	if a.Kind == ApproverKindSupervisor || b.Kind == ApproverKindSupervisor {
		return a.Kind == b.Kind
	}
	return a.UserID == b.UserID && a.RoleID == b.RoleID
}

// Add returns the set with a included. Adding a named approver clears
// any supervisor entry first; adding the supervisor entry clears the
// named ones. Adding an entry already present is a no-op.
func (s ApproverSet) Add(a Approver) (ApproverSet, error) {
	switch a.Kind {
	case ApproverKindUser:
		if a.UserID == "" {
			return s, errors.New("user approver requires a user id")
		}
	case ApproverKindRole:
		if a.RoleID == "" {
			return s, errors.New("role approver requires a role id")
		}
	case ApproverKindSupervisor:
		return s.ToggleSupervisor(true), nil
	default:
		return s, fmt.Errorf("unknown approver kind %q", a.Kind)
	}

	out := s
	if s.HasSupervisor() {
		out = s.withoutSupervisor()
	}
	if out.contains(a) {
		return out, nil
	}
	return append(out, a), nil
}

// Remove returns the set without the given approver. Removing the last
// entry yields an empty set, which is legal mid-edit and only rejected
// at activation.
func (s ApproverSet) Remove(a Approver) ApproverSet {
	out := make(ApproverSet, 0, len(s))
	for _, e := range s {
		if sameApprover(e, a) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// ToggleSupervisor switches the set between "the requester's
// supervisor" and named approvers. Turning it on replaces the whole set
// with a single supervisor entry; turning it off removes that entry.
func (s ApproverSet) ToggleSupervisor(on bool) ApproverSet {
	if on {
		return ApproverSet{{Kind: ApproverKindSupervisor}}
	}
	return s.withoutSupervisor()
}

func (s ApproverSet) withoutSupervisor() ApproverSet {
	out := make(ApproverSet, 0, len(s))
	for _, e := range s {
		if e.Kind == ApproverKindSupervisor {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Validate checks a set that may have been assembled without the
// mutating methods: entry well-formedness, duplicate identities, and
// the supervisor/named exclusivity rule.
func (s ApproverSet) Validate() error {
	named := 0
	supervisors := 0
	for i, a := range s {
		switch a.Kind {
		case ApproverKindUser:
			if a.UserID == "" {
				return fmt.Errorf("approver %d: user approver requires a user id", i)
			}
			named++
		case ApproverKindRole:
			if a.RoleID == "" {
				return fmt.Errorf("approver %d: role approver requires a role id", i)
			}
			named++
		case ApproverKindSupervisor:
			supervisors++
		default:
			return fmt.Errorf("approver %d: unknown approver kind %q", i, a.Kind)
		}
		for _, b := range s[:i] {
			if sameApprover(a, b) {
				return fmt.Errorf("duplicate approver entry at index %d", i)
			}
		}
	}
	if supervisors > 0 && (named > 0 || supervisors > 1) {
		return ErrMixedApproverKinds
	}
	return nil
}
