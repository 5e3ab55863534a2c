package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"banban-schedule-api/internal/authz"
	"banban-schedule-api/internal/middleware"
	"banban-schedule-api/internal/model"
	"banban-schedule-api/internal/service"
)

type WorkHoursHandler struct {
	workHoursService service.WorkHoursService
	az               *authz.Authorizer
}

func NewWorkHoursHandler(workHoursService service.WorkHoursService, az *authz.Authorizer) *WorkHoursHandler {
	return &WorkHoursHandler{workHoursService: workHoursService, az: az}
}

// GetUserStats handles GET /api/work-hours/users/:id?period=YYYY-MM.
// Staff may only read their own stats; area-level viewers may read anyone's.
func (h *WorkHoursHandler) GetUserStats(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user ID format"})
	}

	actor := middleware.Actor(c)
	if actor == nil || (actor.ID != userID && !h.az.HasPermission(actor, model.PermViewAreaStats)) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "insufficient permission"})
	}

	stats, err := h.workHoursService.CalculateWorkHours(userID, c.Query("period"))
	if err != nil {
		return workHoursError(c, err)
	}

	return c.JSON(stats)
}

// GetStoreStats handles GET /api/work-hours/stores/:id?period=YYYY-MM
func (h *WorkHoursHandler) GetStoreStats(c *fiber.Ctx) error {
	storeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid store ID format"})
	}

	result, err := h.workHoursService.GetWorkHoursByStore(storeID, c.Query("period"))
	if err != nil {
		return workHoursError(c, err)
	}

	return c.JSON(result)
}

// Export handles GET /api/work-hours/export?period=YYYY-MM&store_id=...
func (h *WorkHoursHandler) Export(c *fiber.Ctx) error {
	var storeID *uuid.UUID
	if raw := c.Query("store_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid store ID format"})
		}
		storeID = &parsed
	}

	data, filename, err := h.workHoursService.ExportToExcel(middleware.Actor(c), c.Query("period"), storeID)
	if err != nil {
		return workHoursError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

func workHoursError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, authz.ErrUnauthorized):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrStoreNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidPeriod):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
