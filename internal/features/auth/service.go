package auth

import (
	"context"
	"errors"
	"time"

	"go-orgadmin/internal/common/models"
	"go-orgadmin/internal/features/audit"
	"go-orgadmin/internal/features/role"
	"go-orgadmin/internal/features/user"
	"go-orgadmin/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (string, error)
}

type AuthServiceImpl struct {
	UserRepo     user.UserRepository
	RoleRepo     role.RoleRepository
	AuditService audit.AuditService
}

func NewAuthService(userRepo user.UserRepository, roleRepo role.RoleRepository, auditService audit.AuditService) AuthService {
	return &AuthServiceImpl{
		UserRepo:     userRepo,
		RoleRepo:     roleRepo,
		AuditService: auditService,
	}
}

func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (string, error) {
	usr, err := s.UserRepo.FindByUsername(ctx, username)
	if err != nil {
		return "", errors.New("invalid credentials")
	}

	if bcrypt.CompareHashAndPassword([]byte(usr.Password), []byte(password)) != nil {
		return "", errors.New("invalid credentials")
	}

	if usr.Status == models.UserStatusSuspended {
		return "", errors.New("account suspended")
	}
	if usr.Status == models.UserStatusInactive {
		return "", errors.New("account inactive")
	}

	// Fetch role names for the token claims
	roleNames := []string{}
	roleIDs := []string{}
	for _, roleID := range usr.Roles {
		r, err := s.RoleRepo.FindByID(ctx, roleID.Hex())
		if err == nil {
			roleNames = append(roleNames, r.Name)
			roleIDs = append(roleIDs, roleID.Hex())
		}
	}

	token, err := utils.GenerateToken(usr.ID, roleNames, roleIDs)
	if err != nil {
		return "", err
	}

	now := time.Now()
	usr.LastLogin = &now
	usr.UpdatedAt = now
	_ = s.UserRepo.Update(ctx, usr.ID.Hex(), usr)

	_ = s.AuditService.LogChange(ctx, models.AuditActionLogin, "user", usr.ID.Hex(), usr.ID.Hex(), nil)

	return token, nil
}
