package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/CoachDashboard/internal/validation"
	"github.com/saeid-a/CoachDashboard/pkg/utils"
)

// AuthHandler does not own accounts. Identities come from the marketplace's
// tokens; DevToken only exists so the dashboard can run standalone.
type AuthHandler struct {
	jwtSecret string
}

func NewAuthHandler(jwtSecret string) *AuthHandler {
	return &AuthHandler{jwtSecret: jwtSecret}
}

type devTokenRequest struct {
	UserID string `json:"user_id" validate:"required,notblank"`
	Role   string `json:"role" validate:"required,oneof=admin coach"`
}

func (h *AuthHandler) DevToken(c *fiber.Ctx) error {
	var req devTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	req.UserID = strings.TrimSpace(req.UserID)
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))
	if handled, writeErr := writeValidationError(c, validation.Struct(req).Err()); handled {
		return writeErr
	}

	token, err := utils.GenerateToken(req.UserID, req.Role, h.jwtSecret)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate token"})
	}

	return c.JSON(fiber.Map{
		"token":   token,
		"user_id": req.UserID,
		"role":    req.Role,
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	role, ok := c.Locals("role").(string)
	if !ok {
		return unauthorized(c)
	}
	return c.JSON(fiber.Map{"user_id": userID, "role": role})
}
