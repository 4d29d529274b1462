package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/CoachDashboard/internal/models"
	"github.com/saeid-a/CoachDashboard/internal/services"
)

type SessionHandler struct {
	service sessionApplicationService
}

type sessionApplicationService interface {
	AddSession(ctx context.Context, coachID string, input services.SessionInput) (*models.SessionRecord, error)
	ListSessions(ctx context.Context, coachID string, query services.SessionListQuery) (*services.SessionListResult, error)
	UpdateStatus(ctx context.Context, coachID string, sessionID string, requestedStatus string) (*models.SessionRecord, error)
	UpdatePaymentStatus(ctx context.Context, coachID string, sessionID string, paymentStatus string) (*models.SessionRecord, error)
	DeleteSession(ctx context.Context, coachID string, sessionID string) error
}

func NewSessionHandler(service *services.SessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

type updateSessionStatusRequest struct {
	Status string `json:"status"`
}

type updatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status"`
}

func (h *SessionHandler) AddSession(c *fiber.Ctx) error {
	coachID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req services.SessionInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	session, err := h.service.AddSession(c.Context(), coachID, req)
	if err != nil {
		return mapSessionError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"session": session})
}

func (h *SessionHandler) ListSessions(c *fiber.Ctx) error {
	coachID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	result, err := h.service.ListSessions(c.Context(), coachID, services.SessionListQuery{
		Search:        strings.TrimSpace(c.Query("search")),
		Status:        strings.TrimSpace(c.Query("status")),
		Type:          strings.TrimSpace(c.Query("type")),
		PaymentStatus: strings.TrimSpace(c.Query("payment_status")),
		Page:          queryPage(c),
	})
	if err != nil {
		return mapSessionError(c, err)
	}
	return c.JSON(result)
}

func (h *SessionHandler) UpdateStatus(c *fiber.Ctx) error {
	coachID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req updateSessionStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	session, err := h.service.UpdateStatus(c.Context(), coachID, c.Params("id"), req.Status)
	if err != nil {
		return mapSessionError(c, err)
	}
	return c.JSON(fiber.Map{"session": session})
}

func (h *SessionHandler) UpdatePaymentStatus(c *fiber.Ctx) error {
	coachID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req updatePaymentStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	session, err := h.service.UpdatePaymentStatus(c.Context(), coachID, c.Params("id"), req.PaymentStatus)
	if err != nil {
		return mapSessionError(c, err)
	}
	return c.JSON(fiber.Map{"session": session})
}

func (h *SessionHandler) DeleteSession(c *fiber.Ctx) error {
	coachID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	if err := h.service.DeleteSession(c.Context(), coachID, c.Params("id")); err != nil {
		return mapSessionError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func mapSessionError(c *fiber.Ctx, err error) error {
	if handled, writeErr := writeValidationError(c, err); handled {
		return writeErr
	}

	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrInvalidStateTransition):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process session request"})
	}
}
