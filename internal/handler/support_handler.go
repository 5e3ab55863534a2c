package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"banban-schedule-api/internal/authz"
	"banban-schedule-api/internal/middleware"
	"banban-schedule-api/internal/service"
)

type SupportHandler struct {
	supportService service.SupportService
}

func NewSupportHandler(supportService service.SupportService) *SupportHandler {
	return &SupportHandler{supportService: supportService}
}

// Validate handles POST /api/support-shifts/validate. Rule failures are a 200
// with is_valid=false so forms can render the message; only malformed input
// is an error status.
func (h *SupportHandler) Validate(c *fiber.Ctx) error {
	var req struct {
		UserID        string `json:"user_id"`
		TargetStoreID string `json:"target_store_id"`
		Date          string `json:"date"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user ID format"})
	}
	targetStoreID, err := uuid.Parse(req.TargetStoreID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid target store ID format"})
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid date format, use YYYY-MM-DD"})
	}

	result, err := h.supportService.ValidateSupportRequest(userID, date, targetStoreID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(result)
}

// Create handles POST /api/support-shifts
func (h *SupportHandler) Create(c *fiber.Ctx) error {
	var req service.CreateSupportShiftRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	shift, err := h.supportService.CreateSupportShift(middleware.Actor(c), &req)
	if err != nil {
		return supportError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(shift.ToResponse())
}

// Update handles PUT /api/support-shifts/:id
func (h *SupportHandler) Update(c *fiber.Ctx) error {
	shiftID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid shift ID format"})
	}

	var req service.UpdateSupportShiftRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	shift, err := h.supportService.UpdateSupportShift(middleware.Actor(c), shiftID, &req)
	if err != nil {
		return supportError(c, err)
	}

	return c.JSON(shift.ToResponse())
}

// Cancel handles DELETE /api/support-shifts/:id
func (h *SupportHandler) Cancel(c *fiber.Ctx) error {
	shiftID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid shift ID format"})
	}

	shift, err := h.supportService.CancelSupportShift(middleware.Actor(c), shiftID)
	if err != nil {
		return supportError(c, err)
	}

	return c.JSON(shift.ToResponse())
}

// ListForStore handles GET /api/stores/:id/support-shifts?date=YYYY-MM-DD
func (h *SupportHandler) ListForStore(c *fiber.Ctx) error {
	storeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid store ID format"})
	}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid date format, use YYYY-MM-DD"})
	}

	shifts, err := h.supportService.GetSupportShiftsForStore(storeID, date)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"shifts": shifts, "count": len(shifts)})
}

// ListForUser handles GET /api/users/:id/support-shifts?start=...&end=...
func (h *SupportHandler) ListForUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user ID format"})
	}

	startDate, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid start date, use YYYY-MM-DD"})
	}
	endDate, err := time.Parse("2006-01-02", c.Query("end"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid end date, use YYYY-MM-DD"})
	}

	shifts, err := h.supportService.GetSupportShiftsByUser(userID, startDate, endDate)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"shifts": shifts, "count": len(shifts)})
}

// supportError maps support lifecycle errors to HTTP statuses.
func supportError(c *fiber.Ctx, err error) error {
	var vErr *service.ValidationError
	switch {
	case errors.Is(err, authz.ErrUnauthorized):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrShiftNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrStoreNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrShiftNotEditable),
		errors.Is(err, service.ErrShiftAlreadyCompleted):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &vErr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": vErr.Message})
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
}
