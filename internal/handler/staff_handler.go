package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"banban-schedule-api/internal/authz"
	"banban-schedule-api/internal/middleware"
	"banban-schedule-api/internal/service"
)

type StaffHandler struct {
	staffService service.StaffService
}

func NewStaffHandler(staffService service.StaffService) *StaffHandler {
	return &StaffHandler{staffService: staffService}
}

// Create handles POST /api/staff
func (h *StaffHandler) Create(c *fiber.Ctx) error {
	var req service.CreateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	user, err := h.staffService.CreateStaff(middleware.Actor(c), &req)
	if err != nil {
		return staffError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user.ToResponse())
}

// Update handles PUT /api/staff/:id
func (h *StaffHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user ID format"})
	}

	var req service.UpdateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	user, err := h.staffService.UpdateStaff(middleware.Actor(c), id, &req)
	if err != nil {
		return staffError(c, err)
	}
	return c.JSON(user.ToResponse())
}

// Deactivate handles DELETE /api/staff/:id
func (h *StaffHandler) Deactivate(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user ID format"})
	}

	if err := h.staffService.DeactivateStaff(middleware.Actor(c), id); err != nil {
		return staffError(c, err)
	}
	return c.JSON(fiber.Map{"message": "staff member deactivated"})
}

// Get handles GET /api/staff/:id
func (h *StaffHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user ID format"})
	}

	user, err := h.staffService.GetStaffByID(id)
	if err != nil {
		return staffError(c, err)
	}
	return c.JSON(user)
}

// List handles GET /api/staff
func (h *StaffHandler) List(c *fiber.Ctx) error {
	users, err := h.staffService.GetAllStaff()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"staff": users, "count": len(users)})
}

// ListForStore handles GET /api/stores/:id/staff
func (h *StaffHandler) ListForStore(c *fiber.Ctx) error {
	storeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid store ID format"})
	}

	users, err := h.staffService.GetStaffByStore(storeID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"staff": users, "count": len(users)})
}

func staffError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, authz.ErrUnauthorized):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrStoreNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrEmailTaken):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, authz.ErrInvalidRole):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
}
