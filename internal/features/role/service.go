package role

import (
	"context"
	"errors"
	"time"

	common_models "go-orgadmin/internal/common/models"
	"go-orgadmin/internal/features/audit"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MemberSource lists the users currently holding a role. Satisfied by
// the user repository; kept as a local interface to avoid a package
// cycle.
type MemberSource interface {
	FindByRoleID(ctx context.Context, roleID string) ([]common_models.User, error)
}

type RoleService interface {
	CreateRole(ctx context.Context, role *Role, actorID string) (*Role, error)
	GetRoleByID(ctx context.Context, id string) (*Role, error)
	GetRoleByName(ctx context.Context, name string) (*Role, error)
	ListRoles(ctx context.Context) ([]Role, error)
	UpdateRole(ctx context.Context, id string, role *Role, actorID string) error
	DeleteRole(ctx context.Context, id string, actorID string) error

	// MembersOf returns the ids of active users currently holding the
	// role. Queried fresh on every call; approver resolution depends on
	// this being late-bound.
	MembersOf(ctx context.Context, roleID string) ([]string, error)
}

type RoleServiceImpl struct {
	Repo         RoleRepository
	Members      MemberSource
	AuditService audit.AuditService
}

func NewRoleService(repo RoleRepository, members MemberSource, auditService audit.AuditService) RoleService {
	return &RoleServiceImpl{
		Repo:         repo,
		Members:      members,
		AuditService: auditService,
	}
}

func (s *RoleServiceImpl) CreateRole(ctx context.Context, role *Role, actorID string) (*Role, error) {
	if role.Name == "" {
		return nil, errors.New("role name is required")
	}
	if _, err := s.Repo.FindByName(ctx, role.Name); err == nil {
		return nil, errors.New("role with this name already exists")
	} else if err != mongo.ErrNoDocuments {
		return nil, err
	}

	role.ID = primitive.NewObjectID()
	role.CreatedAt = time.Now()
	role.UpdatedAt = time.Now()

	if err := s.Repo.Create(ctx, role); err != nil {
		return nil, err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "role", role.ID.Hex(), actorID, map[string]common_models.Change{
		"name": {New: role.Name},
	})
	return role, nil
}

func (s *RoleServiceImpl) GetRoleByID(ctx context.Context, id string) (*Role, error) {
	return s.Repo.FindByID(ctx, id)
}

func (s *RoleServiceImpl) GetRoleByName(ctx context.Context, name string) (*Role, error) {
	return s.Repo.FindByName(ctx, name)
}

func (s *RoleServiceImpl) ListRoles(ctx context.Context) ([]Role, error) {
	return s.Repo.List(ctx)
}

func (s *RoleServiceImpl) UpdateRole(ctx context.Context, id string, role *Role, actorID string) error {
	if role.Name == "" {
		return errors.New("role name is required")
	}
	role.UpdatedAt = time.Now()
	if err := s.Repo.Update(ctx, id, role); err != nil {
		return err
	}
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "role", id, actorID, map[string]common_models.Change{
		"name": {New: role.Name},
	})
	return nil
}

func (s *RoleServiceImpl) DeleteRole(ctx context.Context, id string, actorID string) error {
	role, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if role.IsSystem {
		return errors.New("cannot delete system role")
	}

	// A role still held by users cannot be deleted; templates may
	// reference it as an approver.
	members, err := s.Members.FindByRoleID(ctx, id)
	if err != nil {
		return err
	}
	if len(members) > 0 {
		return errors.New("cannot delete a role that still has members")
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionDelete, "role", id, actorID, nil)
	return nil
}

func (s *RoleServiceImpl) MembersOf(ctx context.Context, roleID string) ([]string, error) {
	users, err := s.Members.FindByRoleID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(users))
	for _, u := range users {
		if u.Status != common_models.UserStatusActive {
			continue
		}
		ids = append(ids, u.ID.Hex())
	}
	return ids, nil
}
