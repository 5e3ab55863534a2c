package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"banban-schedule-api/internal/authz"
	"banban-schedule-api/internal/middleware"
	"banban-schedule-api/internal/model"
	"banban-schedule-api/internal/service"
)

type IdentityHandler struct {
	identityService service.IdentityService
}

func NewIdentityHandler(identityService service.IdentityService) *IdentityHandler {
	return &IdentityHandler{identityService: identityService}
}

// ResolveLine handles POST /api/auth/line
func (h *IdentityHandler) ResolveLine(c *fiber.Ctx) error {
	var req service.ResolveIdentityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	resp, err := h.identityService.ResolveIdentity(&req)
	if err != nil {
		if errors.Is(err, service.ErrUserInactive) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(resp)
}

// Login handles POST /api/auth/login
func (h *IdentityHandler) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	resp, err := h.identityService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		}
		if errors.Is(err, service.ErrUserInactive) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(resp)
}

// SwitchRole handles POST /api/auth/switch-role
func (h *IdentityHandler) SwitchRole(c *fiber.Ctx) error {
	var req struct {
		Role string `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	resp, err := h.identityService.SwitchRole(middleware.Actor(c), model.Role(req.Role))
	if err != nil {
		if errors.Is(err, authz.ErrUnauthorized) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
		}
		if errors.Is(err, authz.ErrInvalidRole) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(resp)
}

// Me handles GET /api/auth/me
func (h *IdentityHandler) Me(c *fiber.Ctx) error {
	actor := middleware.Actor(c)
	if actor == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}
	return c.JSON(actor.ToResponse())
}
