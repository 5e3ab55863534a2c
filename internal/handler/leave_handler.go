package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"banban-schedule-api/internal/authz"
	"banban-schedule-api/internal/middleware"
	"banban-schedule-api/internal/service"
)

type LeaveHandler struct {
	leaveService service.LeaveService
}

func NewLeaveHandler(leaveService service.LeaveService) *LeaveHandler {
	return &LeaveHandler{leaveService: leaveService}
}

// Submit handles POST /api/leave-requests
func (h *LeaveHandler) Submit(c *fiber.Ctx) error {
	var req service.SubmitLeaveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	request, err := h.leaveService.SubmitLeaveRequest(middleware.Actor(c), &req)
	if err != nil {
		return leaveError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(request.ToResponse())
}

// Approve handles PUT /api/leave-requests/:id/approve
func (h *LeaveHandler) Approve(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid leave request ID format"})
	}

	request, err := h.leaveService.ApproveLeaveRequest(middleware.Actor(c), id)
	if err != nil {
		return leaveError(c, err)
	}
	return c.JSON(request.ToResponse())
}

// Reject handles PUT /api/leave-requests/:id/reject
func (h *LeaveHandler) Reject(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid leave request ID format"})
	}

	request, err := h.leaveService.RejectLeaveRequest(middleware.Actor(c), id)
	if err != nil {
		return leaveError(c, err)
	}
	return c.JSON(request.ToResponse())
}

// ListMine handles GET /api/leave-requests/mine
func (h *LeaveHandler) ListMine(c *fiber.Ctx) error {
	actor := middleware.Actor(c)
	if actor == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}

	requests, err := h.leaveService.GetLeaveRequestsByUser(actor.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"leave_requests": requests, "count": len(requests)})
}

// ListPendingForStore handles GET /api/stores/:id/leave-requests/pending
func (h *LeaveHandler) ListPendingForStore(c *fiber.Ctx) error {
	storeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid store ID format"})
	}

	requests, err := h.leaveService.GetPendingForStore(middleware.Actor(c), storeID)
	if err != nil {
		return leaveError(c, err)
	}
	return c.JSON(fiber.Map{"leave_requests": requests, "count": len(requests)})
}

func leaveError(c *fiber.Ctx, err error) error {
	var vErr *service.ValidationError
	switch {
	case errors.Is(err, authz.ErrUnauthorized):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrLeaveNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrLeaveNotPending):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &vErr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": vErr.Message})
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
}
