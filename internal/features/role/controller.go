package role

import (
	"go-orgadmin/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type RoleController struct {
	Service RoleService
}

func NewRoleController(service RoleService) *RoleController {
	return &RoleController{Service: service}
}

func actorID(ctx *fiber.Ctx) string {
	if claims, ok := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims); ok {
		return claims.UserID
	}
	return ""
}

// CreateRole godoc
// @Summary Create a role
// @Tags roles
// @Accept json
// @Produce json
// @Param role body Role true "Role"
// @Success 201 {object} Role
// @Router /api/roles [post]
func (c *RoleController) CreateRole(ctx *fiber.Ctx) error {
	var input Role
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	created, err := c.Service.CreateRole(ctx.UserContext(), &input, actorID(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(created)
}

// GetRole godoc
// @Summary Get a role by ID
// @Tags roles
// @Produce json
// @Param id path string true "Role ID"
// @Success 200 {object} Role
// @Router /api/roles/{id} [get]
func (c *RoleController) GetRole(ctx *fiber.Ctx) error {
	role, err := c.Service.GetRoleByID(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Role not found"})
	}
	return ctx.JSON(role)
}

// ListRoles godoc
// @Summary List roles
// @Tags roles
// @Produce json
// @Success 200 {array} Role
// @Router /api/roles [get]
func (c *RoleController) ListRoles(ctx *fiber.Ctx) error {
	roles, err := c.Service.ListRoles(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(roles)
}

// UpdateRole godoc
// @Summary Update a role
// @Tags roles
// @Accept json
// @Param id path string true "Role ID"
// @Param role body Role true "Role"
// @Success 200 {object} map[string]string
// @Router /api/roles/{id} [put]
func (c *RoleController) UpdateRole(ctx *fiber.Ctx) error {
	var input Role
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.Service.UpdateRole(ctx.UserContext(), ctx.Params("id"), &input, actorID(ctx)); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"message": "Role updated successfully"})
}

// DeleteRole godoc
// @Summary Delete a role
// @Tags roles
// @Param id path string true "Role ID"
// @Success 204 {object} nil
// @Router /api/roles/{id} [delete]
func (c *RoleController) DeleteRole(ctx *fiber.Ctx) error {
	if err := c.Service.DeleteRole(ctx.UserContext(), ctx.Params("id"), actorID(ctx)); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

// ListMembers godoc
// @Summary List current members of a role
// @Tags roles
// @Produce json
// @Param id path string true "Role ID"
// @Success 200 {array} string
// @Router /api/roles/{id}/members [get]
func (c *RoleController) ListMembers(ctx *fiber.Ctx) error {
	members, err := c.Service.MembersOf(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(members)
}
