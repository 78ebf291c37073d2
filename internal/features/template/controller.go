package template

import (
	"errors"
	"strconv"

	"go-orgadmin/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type TemplateController struct {
	Service TemplateService
}

func NewTemplateController(service TemplateService) *TemplateController {
	return &TemplateController{Service: service}
}

func actorID(ctx *fiber.Ctx) string {
	if claims, ok := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims); ok {
		return claims.UserID
	}
	return ""
}

// respondError maps service errors onto HTTP statuses. Validation
// failures carry every violation so the authoring UI can show them all
// at once.
func respondError(ctx *fiber.Ctx, err error) error {
	var failure *ValidationFailure
	if errors.As(err, &failure) {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":           "template validation failed",
			"metadata_errors": failure.MetadataErrors,
			"field_errors":    failure.FieldErrors,
			"level_errors":    failure.LevelErrors,
		})
	}
	if errors.Is(err, ErrTemplateNotFound) || errors.Is(err, ErrLevelNotFound) {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if errors.Is(err, ErrNoSupervisorAvailable) || errors.Is(err, ErrRoleHasNoMembers) {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

// CreateTemplate godoc
// @Summary Create an approval template
// @Tags templates
// @Accept json
// @Produce json
// @Param template body CreateTemplateInput true "Template metadata"
// @Success 201 {object} TemplateDefinition
// @Failure 422 {object} map[string]interface{}
// @Router /api/templates [post]
func (c *TemplateController) CreateTemplate(ctx *fiber.Ctx) error {
	var input CreateTemplateInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	tmpl, err := c.Service.CreateTemplate(ctx.UserContext(), input, actorID(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(tmpl)
}

// GetTemplate godoc
// @Summary Get a template by ID
// @Tags templates
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} TemplateDefinition
// @Failure 404 {object} map[string]string
// @Router /api/templates/{id} [get]
func (c *TemplateController) GetTemplate(ctx *fiber.Ctx) error {
	tmpl, err := c.Service.GetTemplate(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(tmpl)
}

// ListTemplates godoc
// @Summary List templates
// @Tags templates
// @Produce json
// @Param active query bool false "Only templates enabled for new requests"
// @Success 200 {array} TemplateDefinition
// @Router /api/templates [get]
func (c *TemplateController) ListTemplates(ctx *fiber.Ctx) error {
	activeOnly := ctx.Query("active") == "true"
	templates, err := c.Service.ListTemplates(ctx.UserContext(), activeOnly)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(templates)
}

// UpdateMetadata godoc
// @Summary Update template metadata
// @Description Updates display metadata; the internal name is immutable
// @Tags templates
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param metadata body UpdateMetadataInput true "Metadata"
// @Success 200 {object} TemplateDefinition
// @Failure 422 {object} map[string]interface{}
// @Router /api/templates/{id} [put]
func (c *TemplateController) UpdateMetadata(ctx *fiber.Ctx) error {
	var input UpdateMetadataInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	tmpl, err := c.Service.UpdateMetadata(ctx.UserContext(), ctx.Params("id"), input, actorID(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(tmpl)
}

// ReplaceFields godoc
// @Summary Replace the form schema
// @Description Replaces the whole ordered field list; rejected lists leave the template unchanged
// @Tags templates
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param fields body []FieldDefinition true "Complete field list"
// @Success 200 {object} TemplateDefinition
// @Failure 422 {object} map[string]interface{}
// @Router /api/templates/{id}/fields [put]
func (c *TemplateController) ReplaceFields(ctx *fiber.Ctx) error {
	var fields []FieldDefinition
	if err := ctx.BodyParser(&fields); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	tmpl, err := c.Service.ReplaceFields(ctx.UserContext(), ctx.Params("id"), fields, actorID(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(tmpl)
}

// ReplaceLevels godoc
// @Summary Replace the approval chain
// @Description Replaces the whole ordered level list; rejected lists leave the template unchanged
// @Tags templates
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param levels body []ApprovalLevel true "Complete level list"
// @Success 200 {object} TemplateDefinition
// @Failure 422 {object} map[string]interface{}
// @Router /api/templates/{id}/levels [put]
func (c *TemplateController) ReplaceLevels(ctx *fiber.Ctx) error {
	var levels []ApprovalLevel
	if err := ctx.BodyParser(&levels); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	tmpl, err := c.Service.ReplaceLevels(ctx.UserContext(), ctx.Params("id"), levels, actorID(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(tmpl)
}

// Activate godoc
// @Summary Activate a template
// @Description Enables the template for new requests; every structural invariant must hold
// @Tags templates
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} TemplateDefinition
// @Failure 422 {object} map[string]interface{}
// @Router /api/templates/{id}/activate [post]
func (c *TemplateController) Activate(ctx *fiber.Ctx) error {
	tmpl, err := c.Service.SetActive(ctx.UserContext(), ctx.Params("id"), true, actorID(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(tmpl)
}

// Deactivate godoc
// @Summary Deactivate a template
// @Description Excludes the template from new requests; history is retained
// @Tags templates
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} TemplateDefinition
// @Router /api/templates/{id}/deactivate [post]
func (c *TemplateController) Deactivate(ctx *fiber.Ctx) error {
	tmpl, err := c.Service.SetActive(ctx.UserContext(), ctx.Params("id"), false, actorID(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(tmpl)
}

// ResolveApprovers godoc
// @Summary Resolve a level's approvers for a requester
// @Description Expands the level's approver set into concrete user ids at request time
// @Tags templates
// @Produce json
// @Param id path string true "Template ID"
// @Param level path int true "Level number"
// @Param requester_id query string true "Requester user ID"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]string
// @Router /api/templates/{id}/levels/{level}/approvers [get]
func (c *TemplateController) ResolveApprovers(ctx *fiber.Ctx) error {
	levelNumber, err := strconv.Atoi(ctx.Params("level"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid level number"})
	}
	requesterID := ctx.Query("requester_id")
	if requesterID == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "requester_id is required"})
	}

	approvers, err := c.Service.ResolveApprovers(ctx.UserContext(), ctx.Params("id"), levelNumber, requesterID)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(fiber.Map{"approvers": approvers})
}
