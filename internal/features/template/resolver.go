package template

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// RoleMembership is the read-only membership collaborator. Membership
// is late-bound: the resolver re-queries on every resolution and never
// caches members on the template.
type RoleMembership interface {
	MembersOf(ctx context.Context, roleID string) ([]string, error)
}

// Organization is the read-only reporting-chain collaborator.
// FirstSupervisorOf returns an empty string when the user has no
// first-line supervisor on record.
type Organization interface {
	FirstSupervisorOf(ctx context.Context, userID string) (string, error)
}

// ApproverResolver expands a level's approver set into concrete user
// ids at request time.
type ApproverResolver struct {
	roles  RoleMembership
	org    Organization
	logger *zap.Logger
}

func NewApproverResolver(roles RoleMembership, org Organization, logger *zap.Logger) *ApproverResolver {
	return &ApproverResolver{
		roles:  roles,
		org:    org,
		logger: logger,
	}
}

// Resolve turns the level's approver set into a deduplicated list of
// user ids for the given requester. A missing supervisor is terminal
// (ErrNoSupervisorAvailable); how to proceed is the caller's decision.
// A role that currently has no members is logged and skipped, and only
// becomes ErrRoleHasNoMembers when the whole level resolves to nobody.
// Resolve performs no writes and no retries of its own.
func (r *ApproverResolver) Resolve(ctx context.Context, level ApprovalLevel, requesterID string) ([]string, error) {
	if err := level.Approvers.Validate(); err != nil {
		return nil, err
	}

	resolved := make([]string, 0, len(level.Approvers))
	seen := make(map[string]bool)
	add := func(userID string) {
		if userID == "" || seen[userID] {
			return
		}
		seen[userID] = true
		resolved = append(resolved, userID)
	}

	emptyRoles := 0
	for _, a := range level.Approvers {
		switch a.Kind {
		case ApproverKindUser:
			// Existence of the user is the storage collaborator's concern
			add(a.UserID)

		case ApproverKindRole:
			members, err := r.roles.MembersOf(ctx, a.RoleID)
			if err != nil {
				return nil, fmt.Errorf("resolving role %s: %w", a.RoleID, err)
			}
			if len(members) == 0 {
				emptyRoles++
				r.logger.Warn("role approver has no current members",
					zap.String("role_id", a.RoleID),
					zap.Int("level", level.LevelNumber))
				continue
			}
			for _, m := range members {
				add(m)
			}

		case ApproverKindSupervisor:
			supervisor, err := r.org.FirstSupervisorOf(ctx, requesterID)
			if err != nil {
				return nil, fmt.Errorf("looking up supervisor of %s: %w", requesterID, err)
			}
			if supervisor == "" {
				return nil, fmt.Errorf("%w: requester %s", ErrNoSupervisorAvailable, requesterID)
			}
			add(supervisor)
		}
	}

	if len(resolved) == 0 && emptyRoles > 0 {
		return nil, fmt.Errorf("%w: level %d", ErrRoleHasNoMembers, level.LevelNumber)
	}
	return resolved, nil
}
