package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/CoachDashboard/internal/models"
	"github.com/saeid-a/CoachDashboard/internal/services"
)

type courseReviewService interface {
	ListSubmissions(ctx context.Context, query services.CourseListQuery) services.CourseListResult
	Approve(ctx context.Context, id string) (*models.CourseRecord, error)
	Reject(ctx context.Context, id string, reason string) (*models.CourseRecord, error)
}

type CourseReviewHandler struct {
	service courseReviewService
}

func NewCourseReviewHandler(service *services.CourseReviewService) *CourseReviewHandler {
	return &CourseReviewHandler{service: service}
}

func (h *CourseReviewHandler) ListCourses(c *fiber.Ctx) error {
	return c.JSON(h.service.ListSubmissions(c.Context(), services.CourseListQuery{
		Search:   strings.TrimSpace(c.Query("search")),
		Status:   strings.TrimSpace(c.Query("status")),
		Category: strings.TrimSpace(c.Query("category")),
		Price:    strings.TrimSpace(c.Query("price")),
		Page:     queryPage(c),
	}))
}

func (h *CourseReviewHandler) ApproveCourse(c *fiber.Ctx) error {
	course, err := h.service.Approve(c.Context(), c.Params("id"))
	if err != nil {
		return mapCourseError(c, err)
	}
	return c.JSON(fiber.Map{"course": course})
}

func (h *CourseReviewHandler) RejectCourse(c *fiber.Ctx) error {
	var req rejectCoachRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	course, err := h.service.Reject(c.Context(), c.Params("id"), req.Reason)
	if err != nil {
		return mapCourseError(c, err)
	}
	return c.JSON(fiber.Map{"course": course})
}

func mapCourseError(c *fiber.Ctx, err error) error {
	if handled, writeErr := writeValidationError(c, err); handled {
		return writeErr
	}

	switch {
	case errors.Is(err, services.ErrReasonRequired):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Please provide a reason for rejection"})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	case errors.Is(err, services.ErrInvalidStateTransition):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "Action not allowed for the course's current review status"})
	case errors.Is(err, services.ErrUpstream):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Marketplace API request failed, please try again"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process course request"})
	}
}
