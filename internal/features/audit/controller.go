package audit

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type AuditController struct {
	Service AuditService
}

func NewAuditController(service AuditService) *AuditController {
	return &AuditController{Service: service}
}

// ListLogs godoc
// @Summary List audit logs
// @Description List audit logs with optional entity/record/action filters
// @Tags audit
// @Produce json
// @Param entity query string false "Entity name"
// @Param record_id query string false "Record ID"
// @Param action query string false "Action"
// @Success 200 {array} models.AuditLog
// @Router /api/audit [get]
func (c *AuditController) ListLogs(ctx *fiber.Ctx) error {
	filters := map[string]interface{}{}
	if v := ctx.Query("entity"); v != "" {
		filters["entity"] = v
	}
	if v := ctx.Query("record_id"); v != "" {
		filters["record_id"] = v
	}
	if v := ctx.Query("action"); v != "" {
		filters["action"] = v
	}

	page, _ := strconv.ParseInt(ctx.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(ctx.Query("limit", "50"), 10, 64)

	logs, err := c.Service.ListLogs(ctx.UserContext(), filters, page, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(logs)
}
