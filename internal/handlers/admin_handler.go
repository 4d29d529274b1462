package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/CoachDashboard/internal/models"
	"github.com/saeid-a/CoachDashboard/internal/services"
)

type adminApplicationService interface {
	ListCoaches(ctx context.Context, query services.CoachListQuery) services.CoachListResult
	FilteredCoaches(ctx context.Context, query services.CoachListQuery) ([]models.CoachRecord, error)
	GetCoach(ctx context.Context, id string) (*models.CoachRecord, error)
	Stats(ctx context.Context) (*models.DashboardStats, error)
	ApproveCoach(ctx context.Context, id string) (*models.CoachRecord, error)
	RejectCoach(ctx context.Context, id string, reason string) (*models.CoachRecord, error)
	SuspendCoach(ctx context.Context, id string) (*models.CoachRecord, error)
	ReactivateCoach(ctx context.Context, id string) (*models.CoachRecord, error)
	UpdateNotes(ctx context.Context, id string, notes string) (*models.CoachRecord, error)
}

type statsSnapshotter interface {
	Latest() (models.StatsSnapshot, bool)
}

type AdminHandler struct {
	service adminApplicationService
	stats   statsSnapshotter
}

func NewAdminHandler(service *services.AdminService, stats *services.StatsPoller) *AdminHandler {
	return &AdminHandler{service: service, stats: stats}
}

type rejectCoachRequest struct {
	Reason string `json:"reason"`
}

type updateNotesRequest struct {
	Notes string `json:"notes"`
}

// GetStats serves the poller's latest snapshot and falls back to a live fetch
// before the first refresh has completed.
func (h *AdminHandler) GetStats(c *fiber.Ctx) error {
	if h.stats != nil {
		if snapshot, ok := h.stats.Latest(); ok {
			return c.JSON(snapshot)
		}
	}

	stats, err := h.service.Stats(c.Context())
	if err != nil {
		return mapAdminError(c, err)
	}
	return c.JSON(models.StatsSnapshot{Stats: *stats, RefreshedAt: time.Now().UTC()})
}

func (h *AdminHandler) ListCoaches(c *fiber.Ctx) error {
	return c.JSON(h.service.ListCoaches(c.Context(), coachListQuery(c)))
}

func (h *AdminHandler) ExportCoaches(c *fiber.Ctx) error {
	coaches, err := h.service.FilteredCoaches(c.Context(), coachListQuery(c))
	if err != nil {
		return mapAdminError(c, err)
	}

	buf, err := services.ExportCoaches(coaches)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to write Excel file"})
	}

	fileName := fmt.Sprintf("coaches_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, "attachment; filename="+fileName)
	return c.Send(buf.Bytes())
}

func (h *AdminHandler) GetCoach(c *fiber.Ctx) error {
	coach, err := h.service.GetCoach(c.Context(), c.Params("id"))
	if err != nil {
		return mapAdminError(c, err)
	}
	return c.JSON(fiber.Map{"coach": coach})
}

func (h *AdminHandler) ApproveCoach(c *fiber.Ctx) error {
	coach, err := h.service.ApproveCoach(c.Context(), c.Params("id"))
	if err != nil {
		return mapAdminError(c, err)
	}
	return c.JSON(fiber.Map{"coach": coach})
}

func (h *AdminHandler) RejectCoach(c *fiber.Ctx) error {
	var req rejectCoachRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	coach, err := h.service.RejectCoach(c.Context(), c.Params("id"), req.Reason)
	if err != nil {
		return mapAdminError(c, err)
	}
	return c.JSON(fiber.Map{"coach": coach})
}

func (h *AdminHandler) SuspendCoach(c *fiber.Ctx) error {
	coach, err := h.service.SuspendCoach(c.Context(), c.Params("id"))
	if err != nil {
		return mapAdminError(c, err)
	}
	return c.JSON(fiber.Map{"coach": coach})
}

func (h *AdminHandler) ReactivateCoach(c *fiber.Ctx) error {
	coach, err := h.service.ReactivateCoach(c.Context(), c.Params("id"))
	if err != nil {
		return mapAdminError(c, err)
	}
	return c.JSON(fiber.Map{"coach": coach})
}

func (h *AdminHandler) UpdateNotes(c *fiber.Ctx) error {
	var req updateNotesRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	coach, err := h.service.UpdateNotes(c.Context(), c.Params("id"), req.Notes)
	if err != nil {
		return mapAdminError(c, err)
	}
	return c.JSON(fiber.Map{"coach": coach})
}

func coachListQuery(c *fiber.Ctx) services.CoachListQuery {
	return services.CoachListQuery{
		Search: strings.TrimSpace(c.Query("search")),
		Status: strings.TrimSpace(c.Query("status")),
		Rating: strings.TrimSpace(c.Query("rating")),
		Page:   queryPage(c),
	}
}

func mapAdminError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrReasonRequired):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Please provide a reason for rejection"})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid coach id"})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Coach not found"})
	case errors.Is(err, services.ErrInvalidStateTransition):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "Action not allowed for the coach's current status"})
	case errors.Is(err, services.ErrUpstream):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Marketplace API request failed, please try again"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process coach request"})
	}
}
