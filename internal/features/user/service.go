package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	common_models "go-orgadmin/internal/common/models"
	"go-orgadmin/internal/features/audit"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	CreateUser(ctx context.Context, user *common_models.User, password string, actorID string) (*common_models.User, error)
	GetUser(ctx context.Context, id string) (*common_models.User, error)
	ListUsers(ctx context.Context, filter map[string]interface{}, limit, offset int64) ([]common_models.User, int64, error)
	UpdateUser(ctx context.Context, id string, user *common_models.User, actorID string) error
	DeleteUser(ctx context.Context, id string, actorID string) error

	// FirstSupervisorOf returns the id of the user's first-line
	// supervisor, or "" when none is on record.
	FirstSupervisorOf(ctx context.Context, userID string) (string, error)

	// ExportUsers writes the user directory to an xlsx workbook.
	ExportUsers(ctx context.Context, actorID string) ([]byte, string, error)
}

type UserServiceImpl struct {
	Repo         UserRepository
	AuditService audit.AuditService
}

func NewUserService(repo UserRepository, auditService audit.AuditService) UserService {
	return &UserServiceImpl{
		Repo:         repo,
		AuditService: auditService,
	}
}

func (s *UserServiceImpl) CreateUser(ctx context.Context, user *common_models.User, password string, actorID string) (*common_models.User, error) {
	if user.Username == "" || user.Email == "" {
		return nil, errors.New("username and email are required")
	}
	if password == "" {
		return nil, errors.New("password is required")
	}

	if _, err := s.Repo.FindByUsername(ctx, user.Username); err == nil {
		return nil, errors.New("user with this username already exists")
	} else if err != mongo.ErrNoDocuments {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user.ID = primitive.NewObjectID()
	user.Password = string(hashed)
	if user.Status == "" {
		user.Status = common_models.UserStatusActive
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	if err := s.Repo.Create(ctx, user); err != nil {
		return nil, err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "user", user.ID.Hex(), actorID, map[string]common_models.Change{
		"username": {New: user.Username},
		"email":    {New: user.Email},
	})
	return user, nil
}

func (s *UserServiceImpl) GetUser(ctx context.Context, id string) (*common_models.User, error) {
	return s.Repo.FindByID(ctx, id)
}

func (s *UserServiceImpl) ListUsers(ctx context.Context, filter map[string]interface{}, limit, offset int64) ([]common_models.User, int64, error) {
	return s.Repo.List(ctx, filter, limit, offset)
}

func (s *UserServiceImpl) UpdateUser(ctx context.Context, id string, user *common_models.User, actorID string) error {
	existing, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	// A user cannot supervise themselves
	if user.FirstSupervisor != nil && user.FirstSupervisor.Hex() == id {
		return errors.New("a user cannot be their own supervisor")
	}

	user.UpdatedAt = time.Now()
	if err := s.Repo.Update(ctx, id, user); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "user", id, actorID, map[string]common_models.Change{
		"status": {Old: existing.Status, New: user.Status},
	})
	return nil
}

func (s *UserServiceImpl) DeleteUser(ctx context.Context, id string, actorID string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionDelete, "user", id, actorID, nil)
	return nil
}

func (s *UserServiceImpl) FirstSupervisorOf(ctx context.Context, userID string) (string, error) {
	user, err := s.Repo.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.FirstSupervisor == nil {
		return "", nil
	}
	return user.FirstSupervisor.Hex(), nil
}

func (s *UserServiceImpl) ExportUsers(ctx context.Context, actorID string) ([]byte, string, error) {
	users, _, err := s.Repo.List(ctx, map[string]interface{}{}, 0, 0)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Users"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	columns := []string{"Username", "Email", "First Name", "Last Name", "Phone", "Status", "First Supervisor", "Created At"}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, u := range users {
		supervisor := ""
		if u.FirstSupervisor != nil {
			supervisor = u.FirstSupervisor.Hex()
		}
		values := []interface{}{
			u.Username, u.Email, u.FirstName, u.LastName, u.Phone, u.Status,
			supervisor, u.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for colIdx, val := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, val)
		}
	}

	for i := range columns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 18)
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionExport, "user", "", actorID, nil)

	filename := fmt.Sprintf("users_%s.xlsx", time.Now().Format("20060102_150405"))
	return buffer.Bytes(), filename, nil
}
