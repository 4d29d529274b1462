package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/CoachDashboard/internal/uistate"
)

type viewStateStore interface {
	Load(ctx context.Context, userID string) uistate.AppState
	Update(ctx context.Context, userID string, patch uistate.Patch) (uistate.AppState, error)
}

type StateHandler struct {
	store viewStateStore
}

func NewStateHandler(store *uistate.Store) *StateHandler {
	return &StateHandler{store: store}
}

func (h *StateHandler) GetState(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	return c.JSON(fiber.Map{"state": h.store.Load(c.Context(), userID)})
}

func (h *StateHandler) UpdateState(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var patch uistate.Patch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "Invalid request body")
	}

	state, err := h.store.Update(c.Context(), userID, patch)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save view state"})
	}
	return c.JSON(fiber.Map{"state": state})
}
