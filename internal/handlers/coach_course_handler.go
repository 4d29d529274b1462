package handlers

import (
	"context"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/CoachDashboard/internal/apiclient"
	"github.com/saeid-a/CoachDashboard/internal/models"
	"github.com/saeid-a/CoachDashboard/internal/schedule"
	"github.com/saeid-a/CoachDashboard/internal/services"
)

type coachCourseService interface {
	List(ctx context.Context, ownerID string) []models.CourseRecord
	Get(ctx context.Context, ownerID string, id string) (*models.CourseRecord, error)
	Create(ctx context.Context, ownerID string, input services.CourseInput) (*models.CourseRecord, error)
	Update(ctx context.Context, ownerID string, id string, input services.CourseInput) (*models.CourseRecord, error)
	Delete(ctx context.Context, ownerID string, id string) error
	Submit(
		ctx context.Context,
		ownerID string,
		id string,
		thumbnail *apiclient.Attachment,
		introVideo *apiclient.Attachment,
	) (*models.CourseRecord, error)
}

type CoachCourseHandler struct {
	service coachCourseService
}

func NewCoachCourseHandler(service *services.CoachCourseService) *CoachCourseHandler {
	return &CoachCourseHandler{service: service}
}

func (h *CoachCourseHandler) ListCourses(c *fiber.Ctx) error {
	coachID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	return c.JSON(fiber.Map{"courses": h.service.List(c.Context(), coachID)})
}

func (h *CoachCourseHandler) GetCourse(c *fiber.Ctx) error {
	coachID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	course, err := h.service.Get(c.Context(), coachID, c.Params("id"))
	if err != nil {
		return mapCourseError(c, err)
	}
	return c.JSON(fiber.Map{"course": course})
}

func (h *CoachCourseHandler) CreateCourse(c *fiber.Ctx) error {
	coachID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req services.CourseInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	course, err := h.service.Create(c.Context(), coachID, req)
	if err != nil {
		return mapCourseError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"course": course})
}

func (h *CoachCourseHandler) UpdateCourse(c *fiber.Ctx) error {
	coachID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req services.CourseInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	course, err := h.service.Update(c.Context(), coachID, c.Params("id"), req)
	if err != nil {
		return mapCourseError(c, err)
	}
	return c.JSON(fiber.Map{"course": course})
}

func (h *CoachCourseHandler) DeleteCourse(c *fiber.Ctx) error {
	coachID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	if err := h.service.Delete(c.Context(), coachID, c.Params("id")); err != nil {
		return mapCourseError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SubmitCourse accepts optional multipart "thumbnail" and "introVideo" files
// and forwards them with the course.
func (h *CoachCourseHandler) SubmitCourse(c *fiber.Ctx) error {
	coachID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	thumbnail, closeThumbnail, err := formAttachment(c, "thumbnail")
	if err != nil {
		return badRequest(c, "Invalid thumbnail upload")
	}
	defer closeThumbnail()

	introVideo, closeIntro, err := formAttachment(c, "introVideo")
	if err != nil {
		return badRequest(c, "Invalid intro video upload")
	}
	defer closeIntro()

	course, err := h.service.Submit(c.Context(), coachID, c.Params("id"), thumbnail, introVideo)
	if err != nil {
		return mapCourseError(c, err)
	}
	return c.JSON(fiber.Map{"course": course})
}

func (h *CoachCourseHandler) PreviewSchedule(c *fiber.Ctx) error {
	var week schedule.WeeklySchedule
	if err := c.BodyParser(&week); err != nil {
		return badRequest(c, "Invalid request body")
	}
	return c.JSON(services.PreviewSchedule(week))
}

// formAttachment returns nil when the request is not multipart or carries
// no file under field.
func formAttachment(c *fiber.Ctx, field string) (*apiclient.Attachment, func(), error) {
	noop := func() {}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, noop, nil
	}
	headers := form.File[field]
	if len(headers) == 0 {
		return nil, noop, nil
	}

	file, err := headers[0].Open()
	if err != nil {
		return nil, noop, err
	}
	return &apiclient.Attachment{Filename: headers[0].Filename, Content: file}, closer(file), nil
}

func closer(file multipart.File) func() {
	return func() {
		_ = file.Close()
	}
}
