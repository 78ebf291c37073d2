package template

import (
	"go-orgadmin/internal/config"
	"go-orgadmin/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type TemplateApi struct {
	controller *TemplateController
	config     *config.Config
}

func NewTemplateApi(controller *TemplateController, config *config.Config) *TemplateApi {
	return &TemplateApi{
		controller: controller,
		config:     config,
	}
}

func (h *TemplateApi) Setup(app *fiber.App) {
	templates := app.Group("/api/templates", middleware.AuthMiddleware(h.config.SkipAuth))

	templates.Post("/", h.controller.CreateTemplate)
	templates.Get("/", h.controller.ListTemplates)
	templates.Get("/:id", h.controller.GetTemplate)
	templates.Put("/:id", h.controller.UpdateMetadata)
	templates.Put("/:id/fields", h.controller.ReplaceFields)
	templates.Put("/:id/levels", h.controller.ReplaceLevels)
	templates.Post("/:id/activate", h.controller.Activate)
	templates.Post("/:id/deactivate", h.controller.Deactivate)
	templates.Get("/:id/levels/:level/approvers", h.controller.ResolveApprovers)
}
