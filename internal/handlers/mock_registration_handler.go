package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/CoachDashboard/internal/mockstore"
	"github.com/saeid-a/CoachDashboard/internal/models"
	"github.com/saeid-a/CoachDashboard/internal/validation"
)

type mockCoachStore interface {
	Add(ctx context.Context, record models.CoachRecord) bool
	Search(ctx context.Context, query string) []models.CoachRecord
}

// MockRegistrationHandler lets coaches register into the local mock store so
// the dashboard can run without the marketplace API.
type MockRegistrationHandler struct {
	store mockCoachStore
}

func NewMockRegistrationHandler(store *mockstore.CoachStore) *MockRegistrationHandler {
	return &MockRegistrationHandler{store: store}
}

type registerCoachRequest struct {
	FirstName       string   `json:"first_name" validate:"required,notblank"`
	LastName        string   `json:"last_name" validate:"required,notblank"`
	Email           string   `json:"email" validate:"required,email"`
	Phone           string   `json:"phone"`
	Domain          string   `json:"domain" validate:"required,notblank"`
	ExperienceYears int      `json:"experience_years" validate:"gte=0"`
	Languages       []string `json:"languages"`
	ResumeURL       *string  `json:"resume_url"`
	LicenseURL      *string  `json:"license_url"`
	IntroVideoURL   *string  `json:"intro_video_url"`
}

func (h *MockRegistrationHandler) Register(c *fiber.Ctx) error {
	var req registerCoachRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if handled, writeErr := writeValidationError(c, validation.Struct(req).Err()); handled {
		return writeErr
	}

	record := models.CoachRecord{
		FirstName:       strings.TrimSpace(req.FirstName),
		LastName:        strings.TrimSpace(req.LastName),
		Email:           strings.TrimSpace(req.Email),
		Phone:           strings.TrimSpace(req.Phone),
		Domain:          strings.TrimSpace(req.Domain),
		ExperienceYears: req.ExperienceYears,
		Languages:       req.Languages,
		ResumeURL:       req.ResumeURL,
		LicenseURL:      req.LicenseURL,
		IntroVideoURL:   req.IntroVideoURL,
	}
	if !h.store.Add(c.Context(), record) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "A coach with this email is already registered"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"registered": true})
}

func (h *MockRegistrationHandler) Search(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"coaches": h.store.Search(c.Context(), c.Query("q"))})
}
