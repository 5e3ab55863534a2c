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

type ActivityHandler struct {
	activityService service.ActivityService
}

func NewActivityHandler(activityService service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// Create handles POST /api/activity-tags
func (h *ActivityHandler) Create(c *fiber.Ctx) error {
	var req service.CreateActivityTagRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	tag, err := h.activityService.CreateTag(middleware.Actor(c), &req)
	if err != nil {
		return activityError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tag)
}

// Update handles PUT /api/activity-tags/:id
func (h *ActivityHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid activity tag ID format"})
	}

	var req service.UpdateActivityTagRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	tag, err := h.activityService.UpdateTag(middleware.Actor(c), id, &req)
	if err != nil {
		return activityError(c, err)
	}
	return c.JSON(tag)
}

// Delete handles DELETE /api/activity-tags/:id
func (h *ActivityHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid activity tag ID format"})
	}

	if err := h.activityService.DeleteTag(middleware.Actor(c), id); err != nil {
		return activityError(c, err)
	}
	return c.JSON(fiber.Map{"message": "activity tag deleted"})
}

// ListForStore handles GET /api/stores/:id/activity-tags?start=...&end=...
func (h *ActivityHandler) ListForStore(c *fiber.Ctx) error {
	storeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid store ID format"})
	}

	startDate, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid start date, use YYYY-MM-DD"})
	}
	endDate, err := time.Parse("2006-01-02", c.Query("end"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid end date, use YYYY-MM-DD"})
	}

	tags, err := h.activityService.GetTagsByStore(storeID, startDate, endDate)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"activity_tags": tags, "count": len(tags)})
}

func activityError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, authz.ErrUnauthorized):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrActivityTagNotFound), errors.Is(err, service.ErrStoreNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
}
