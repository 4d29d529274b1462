package routes

import (
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/saeid-a/CoachDashboard/internal/apiclient"
	"github.com/saeid-a/CoachDashboard/internal/config"
	"github.com/saeid-a/CoachDashboard/internal/handlers"
	"github.com/saeid-a/CoachDashboard/internal/middleware"
	"github.com/saeid-a/CoachDashboard/internal/mockstore"
	"github.com/saeid-a/CoachDashboard/internal/repository"
	"github.com/saeid-a/CoachDashboard/internal/services"
	"github.com/saeid-a/CoachDashboard/internal/uistate"
	dashboardws "github.com/saeid-a/CoachDashboard/internal/websocket"
	"go.uber.org/zap"
)

const redisKeyPrefix = "coach-dashboard:"

// Dependencies are the optional backends found at startup. A nil DB disables
// the session routes; a nil Redis client falls back to Postgres or memory for
// key-value state.
type Dependencies struct {
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Logger *zap.Logger
}

// Runtime holds the background workers main has to start and stop.
type Runtime struct {
	Hub    *dashboardws.Hub
	Poller *services.StatsPoller
}

func RegisterRoutes(app *fiber.App, cfg *config.Config, deps Dependencies) *Runtime {
	logger := deps.Logger
	kv := keyValueStore(deps)

	coachStore := mockstore.NewCoachStore(kv, logger)
	courseStore := mockstore.NewCourseStore(kv, logger)

	var upstream *apiclient.Client
	if !cfg.UsesMockStore() {
		upstream = apiclient.NewClient(cfg.UpstreamAPIURL, cfg.UpstreamAPIToken, cfg.UpstreamTimeout)
	}

	var adminService *services.AdminService
	var coachCourseService *services.CoachCourseService
	if upstream != nil {
		logger.Info("Serving coaches from marketplace API", zap.String("url", cfg.UpstreamAPIURL))
		adminService = services.NewAdminService(upstream, cfg.PageSize, logger)
		coachCourseService = services.NewCoachCourseService(courseStore, upstream, logger)
	} else {
		logger.Info("Serving coaches from local mock store")
		adminService = services.NewAdminService(mockstore.NewSource(coachStore, courseStore), cfg.PageSize, logger)
		coachCourseService = services.NewCoachCourseService(courseStore, nil, logger)
	}
	courseReviewService := services.NewCourseReviewService(courseStore, cfg.PageSize, logger)

	hub := dashboardws.NewHub(logger)
	poller := services.NewStatsPoller(adminService, hub, cfg.PollInterval, logger)

	adminHandler := handlers.NewAdminHandler(adminService, poller)
	courseReviewHandler := handlers.NewCourseReviewHandler(courseReviewService)
	coachCourseHandler := handlers.NewCoachCourseHandler(coachCourseService)
	stateHandler := handlers.NewStateHandler(uistate.NewStore(kv, logger))
	socketHandler := handlers.NewDashboardSocketHandler(hub, poller, cfg.JWTSecret)
	authHandler := handlers.NewAuthHandler(cfg.JWTSecret)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)
	if cfg.IsDevelopment() {
		auth.Post("/dev-token", authHandler.DevToken)
	}

	// Websocket handshakes carry the token as ?token=, not a header.
	api.Use("/ws/admin", socketHandler.WebSocketAuth)
	api.Get("/ws/admin", websocket.New(socketHandler.HandleWebSocket))

	if cfg.MockRegistration {
		mockHandler := handlers.NewMockRegistrationHandler(coachStore)
		mock := api.Group("/mock")
		mock.Post("/coaches", mockHandler.Register)
		mock.Get("/coaches", mockHandler.Search)
	}

	authProtected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	admin := authProtected.Group("/admin", middleware.RequireRole("admin"))
	admin.Get("/state", stateHandler.GetState)
	admin.Put("/state", stateHandler.UpdateState)
	admin.Get("/stats", adminHandler.GetStats)
	admin.Get("/coaches", adminHandler.ListCoaches)
	admin.Get("/coaches/export", adminHandler.ExportCoaches)
	admin.Get("/coaches/:id", adminHandler.GetCoach)
	admin.Post("/coaches/:id/approve", adminHandler.ApproveCoach)
	admin.Post("/coaches/:id/reject", adminHandler.RejectCoach)
	admin.Post("/coaches/:id/suspend", adminHandler.SuspendCoach)
	admin.Post("/coaches/:id/reactivate", adminHandler.ReactivateCoach)
	admin.Put("/coaches/:id/notes", adminHandler.UpdateNotes)
	admin.Get("/courses", courseReviewHandler.ListCourses)
	admin.Post("/courses/:id/approve", courseReviewHandler.ApproveCourse)
	admin.Post("/courses/:id/reject", courseReviewHandler.RejectCourse)

	coach := authProtected.Group("/coach", middleware.RequireRole("coach"))
	coach.Get("/state", stateHandler.GetState)
	coach.Put("/state", stateHandler.UpdateState)
	coach.Get("/courses", coachCourseHandler.ListCourses)
	coach.Post("/courses", coachCourseHandler.CreateCourse)
	coach.Get("/courses/:id", coachCourseHandler.GetCourse)
	coach.Put("/courses/:id", coachCourseHandler.UpdateCourse)
	coach.Delete("/courses/:id", coachCourseHandler.DeleteCourse)
	coach.Post("/courses/:id/submit", coachCourseHandler.SubmitCourse)
	coach.Post("/schedule/preview", coachCourseHandler.PreviewSchedule)

	if deps.DB != nil {
		sessionService := services.NewSessionService(repository.NewSessionRepository(deps.DB), cfg.PageSize)
		sessionHandler := handlers.NewSessionHandler(sessionService)

		sessions := coach.Group("/sessions")
		sessions.Get("", sessionHandler.ListSessions)
		sessions.Post("", sessionHandler.AddSession)
		sessions.Put("/:id/status", sessionHandler.UpdateStatus)
		sessions.Put("/:id/payment", sessionHandler.UpdatePaymentStatus)
		sessions.Delete("/:id", sessionHandler.DeleteSession)
	} else {
		logger.Warn("DB_URL not set, session tracking routes are disabled")
	}

	return &Runtime{Hub: hub, Poller: poller}
}

func keyValueStore(deps Dependencies) repository.KVStore {
	switch {
	case deps.Redis != nil:
		return repository.NewRedisKV(deps.Redis, redisKeyPrefix)
	case deps.DB != nil:
		return repository.NewPostgresKV(deps.DB)
	default:
		return repository.NewMemoryKV()
	}
}
