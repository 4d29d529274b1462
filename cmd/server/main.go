package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/saeid-a/CoachDashboard/internal/app"
	"github.com/saeid-a/CoachDashboard/internal/config"
	"github.com/saeid-a/CoachDashboard/internal/database"
	"github.com/saeid-a/CoachDashboard/internal/routes"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		app.NewLogger("production").Fatal("Failed to load config", zap.Error(err))
	}

	log := app.NewLogger(cfg.AppEnv)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Optional backends
	deps := routes.Dependencies{Logger: log}
	if cfg.DBUrl != "" {
		pool, err := database.Connect(ctx, cfg.DBUrl, log)
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer pool.Close()
		deps.DB = pool
	}
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		defer func() { _ = client.Close() }()
		deps.Redis = client
	}

	// 3. Setup Fiber
	server := fiber.New(fiber.Config{
		AppName:      "coach-dashboard",
		BodyLimit:    200 * 1024 * 1024,
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
	})

	server.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins}))
	server.Use(logger.New())
	server.Use(recover.New())

	server.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":     "ok",
			"mock_store": cfg.UsesMockStore(),
		})
	})
	runtime := routes.RegisterRoutes(server, cfg, deps)

	go runtime.Hub.Run(ctx)
	runtime.Poller.Start(ctx)

	// 4. Start Server
	go func() {
		<-ctx.Done()
		log.Info("Shutting down")
		runtime.Poller.Stop()
		if err := server.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	log.Info("Server starting", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
	if err := server.Listen(":" + cfg.Port); err != nil {
		log.Fatal("Server failed to start", zap.Error(err))
	}
}
