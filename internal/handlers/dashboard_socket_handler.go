package handlers

import (
	"context"
	"strings"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/CoachDashboard/internal/middleware"
	"github.com/saeid-a/CoachDashboard/internal/services"
	dashboardws "github.com/saeid-a/CoachDashboard/internal/websocket"
	"github.com/saeid-a/CoachDashboard/pkg/utils"
)

type statsRefresher interface {
	Refresh(ctx context.Context) error
}

// DashboardSocketHandler pushes stats snapshots to admins over /api/ws/admin.
type DashboardSocketHandler struct {
	hub       *dashboardws.Hub
	poller    statsRefresher
	jwtSecret string
}

func NewDashboardSocketHandler(hub *dashboardws.Hub, poller *services.StatsPoller, jwtSecret string) *DashboardSocketHandler {
	return &DashboardSocketHandler{hub: hub, poller: poller, jwtSecret: jwtSecret}
}

func (h *DashboardSocketHandler) WebSocketAuth(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return c.Status(fiber.StatusUpgradeRequired).JSON(fiber.Map{"error": "WebSocket upgrade required"})
	}

	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		token, _ = middleware.BearerToken(c)
	}
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token"})
	}

	claims, err := utils.ValidateToken(token, h.jwtSecret)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
	}
	if claims.Role != "admin" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	middleware.SetIdentity(c, claims)
	return c.Next()
}

// HandleWebSocket registers the admin with the hub; the first frame it gets is
// the latest stats snapshot, if any.
func (h *DashboardSocketHandler) HandleWebSocket(conn *websocket.Conn) {
	userID, _ := conn.Locals("user_id").(string)
	client := dashboardws.NewClient(h.hub, conn, userID)

	h.hub.Register(client)
	go client.WritePump()
	client.ReadPump(context.Background(), h.poller)
}
