package user

import (
	"strconv"

	common_models "go-orgadmin/internal/common/models"
	"go-orgadmin/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserController struct {
	Service UserService
}

func NewUserController(service UserService) *UserController {
	return &UserController{Service: service}
}

type CreateUserRequest struct {
	Username         string   `json:"username"`
	Password         string   `json:"password"`
	Email            string   `json:"email"`
	FirstName        string   `json:"first_name,omitempty"`
	LastName         string   `json:"last_name,omitempty"`
	Phone            string   `json:"phone,omitempty"`
	Status           string   `json:"status,omitempty"`
	Roles            []string `json:"roles,omitempty"`
	FirstSupervisor  string   `json:"first_supervisor,omitempty"`
	SecondSupervisor string   `json:"second_supervisor,omitempty"`
}

type UpdateUserRequest struct {
	Username         string   `json:"username"`
	Email            string   `json:"email"`
	FirstName        string   `json:"first_name,omitempty"`
	LastName         string   `json:"last_name,omitempty"`
	Phone            string   `json:"phone,omitempty"`
	Status           string   `json:"status,omitempty"`
	Roles            []string `json:"roles,omitempty"`
	FirstSupervisor  string   `json:"first_supervisor,omitempty"`
	SecondSupervisor string   `json:"second_supervisor,omitempty"`
}

func actorID(ctx *fiber.Ctx) string {
	if claims, ok := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims); ok {
		return claims.UserID
	}
	return ""
}

func parseObjectIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			out = append(out, oid)
		}
	}
	return out
}

func parseOptionalObjectID(id string) *primitive.ObjectID {
	if id == "" || id == "null" {
		return nil
	}
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return &oid
	}
	return nil
}

// CreateUser godoc
// @Summary Create a user
// @Tags users
// @Accept json
// @Produce json
// @Param user body CreateUserRequest true "User"
// @Success 201 {object} models.User
// @Router /api/users [post]
func (c *UserController) CreateUser(ctx *fiber.Ctx) error {
	var req CreateUserRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user := &common_models.User{
		Username:         req.Username,
		Email:            req.Email,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Phone:            req.Phone,
		Status:           req.Status,
		Roles:            parseObjectIDs(req.Roles),
		FirstSupervisor:  parseOptionalObjectID(req.FirstSupervisor),
		SecondSupervisor: parseOptionalObjectID(req.SecondSupervisor),
	}

	created, err := c.Service.CreateUser(ctx.UserContext(), user, req.Password, actorID(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(created)
}

// GetUser godoc
// @Summary Get a user by ID
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.User
// @Router /api/users/{id} [get]
func (c *UserController) GetUser(ctx *fiber.Ctx) error {
	user, err := c.Service.GetUser(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	return ctx.JSON(user)
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Param status query string false "Filter by status"
// @Success 200 {object} map[string]interface{}
// @Router /api/users [get]
func (c *UserController) ListUsers(ctx *fiber.Ctx) error {
	filter := map[string]interface{}{}
	if v := ctx.Query("status"); v != "" {
		filter["status"] = v
	}

	limit, _ := strconv.ParseInt(ctx.Query("limit", "50"), 10, 64)
	offset, _ := strconv.ParseInt(ctx.Query("offset", "0"), 10, 64)

	users, total, err := c.Service.ListUsers(ctx.UserContext(), filter, limit, offset)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"users": users, "total": total})
}

// UpdateUser godoc
// @Summary Update a user
// @Tags users
// @Accept json
// @Param id path string true "User ID"
// @Param user body UpdateUserRequest true "User"
// @Success 200 {object} map[string]string
// @Router /api/users/{id} [put]
func (c *UserController) UpdateUser(ctx *fiber.Ctx) error {
	var req UpdateUserRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user := &common_models.User{
		Username:         req.Username,
		Email:            req.Email,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Phone:            req.Phone,
		Status:           req.Status,
		Roles:            parseObjectIDs(req.Roles),
		FirstSupervisor:  parseOptionalObjectID(req.FirstSupervisor),
		SecondSupervisor: parseOptionalObjectID(req.SecondSupervisor),
	}

	if err := c.Service.UpdateUser(ctx.UserContext(), ctx.Params("id"), user, actorID(ctx)); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"message": "User updated successfully"})
}

// DeleteUser godoc
// @Summary Delete a user
// @Tags users
// @Param id path string true "User ID"
// @Success 204 {object} nil
// @Router /api/users/{id} [delete]
func (c *UserController) DeleteUser(ctx *fiber.Ctx) error {
	if err := c.Service.DeleteUser(ctx.UserContext(), ctx.Params("id"), actorID(ctx)); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

// ExportUsers godoc
// @Summary Export the user directory as xlsx
// @Tags users
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Router /api/users/export [get]
func (c *UserController) ExportUsers(ctx *fiber.Ctx) error {
	data, filename, err := c.Service.ExportUsers(ctx.UserContext(), actorID(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return ctx.Send(data)
}
