package role

import (
	"go-orgadmin/internal/config"
	"go-orgadmin/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type RoleApi struct {
	controller *RoleController
	config     *config.Config
}

func NewRoleApi(controller *RoleController, config *config.Config) *RoleApi {
	return &RoleApi{
		controller: controller,
		config:     config,
	}
}

func (h *RoleApi) Setup(app *fiber.App) {
	roles := app.Group("/api/roles", middleware.AuthMiddleware(h.config.SkipAuth))

	roles.Post("/", h.controller.CreateRole)
	roles.Get("/", h.controller.ListRoles)
	roles.Get("/:id", h.controller.GetRole)
	roles.Put("/:id", h.controller.UpdateRole)
	roles.Delete("/:id", h.controller.DeleteRole)
	roles.Get("/:id/members", h.controller.ListMembers)
}
