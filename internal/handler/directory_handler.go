package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"banban-schedule-api/internal/authz"
	"banban-schedule-api/internal/middleware"
	"banban-schedule-api/internal/service"
)

type DirectoryHandler struct {
	directoryService service.DirectoryService
}

func NewDirectoryHandler(directoryService service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{directoryService: directoryService}
}

// ListStores handles GET /api/stores
func (h *DirectoryHandler) ListStores(c *fiber.Ctx) error {
	stores, err := h.directoryService.ListStores()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"stores": stores, "count": len(stores)})
}

// GetStore handles GET /api/stores/:id
func (h *DirectoryHandler) GetStore(c *fiber.Ctx) error {
	storeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid store ID format"})
	}

	store, err := h.directoryService.ResolveStore(storeID)
	if err != nil {
		return directoryError(c, err)
	}
	return c.JSON(store)
}

// GetStoreArea handles GET /api/stores/:id/area
func (h *DirectoryHandler) GetStoreArea(c *fiber.Ctx) error {
	storeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid store ID format"})
	}

	area, err := h.directoryService.ResolveAreaByStore(storeID)
	if err != nil {
		return directoryError(c, err)
	}
	return c.JSON(area)
}

// ListAreas handles GET /api/areas
func (h *DirectoryHandler) ListAreas(c *fiber.Ctx) error {
	areas, err := h.directoryService.ListAreas()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"areas": areas, "count": len(areas)})
}

// CreateStore handles POST /api/stores
func (h *DirectoryHandler) CreateStore(c *fiber.Ctx) error {
	var req service.CreateStoreRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	store, err := h.directoryService.CreateStore(middleware.Actor(c), &req)
	if err != nil {
		return directoryError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(store.ToResponse())
}

// UpdateStore handles PUT /api/stores/:id
func (h *DirectoryHandler) UpdateStore(c *fiber.Ctx) error {
	storeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid store ID format"})
	}

	var req service.UpdateStoreRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	store, err := h.directoryService.UpdateStore(middleware.Actor(c), storeID, &req)
	if err != nil {
		return directoryError(c, err)
	}
	return c.JSON(store.ToResponse())
}

func directoryError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, authz.ErrUnauthorized):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrStoreNotFound), errors.Is(err, service.ErrAreaNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrStoreCodeTaken):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
}
