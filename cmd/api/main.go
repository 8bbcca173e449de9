package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alfredoptarigan/vocalize/internal/app"
	"alfredoptarigan/vocalize/internal/config"
	"alfredoptarigan/vocalize/internal/handlers"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	log.Println("✅ Config loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	application, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize: %v", err)
	}
	defer application.Close()

	// Start worker
	application.Worker.Start(ctx)
	log.Println("✅ Worker started successfully")

	// Initialize Handlers
	scoreHandler := handlers.NewScoreHandler(application.Scorer, application.Suggester)
	transcribeHandler := handlers.NewTranscribeHandler(application.Transcriber, cfg.Storage.MaxClipSize)
	attemptHandler := handlers.NewAttemptHandler(
		application.Attempts,
		application.Submitter,
		application.ClipStore,
		cfg.Storage.MaxClipSize,
	)
	log.Println("✅ Handlers initialized")

	// Base64 inflates clips by a third, plus the JSON envelope.
	server := fiber.New(fiber.Config{
		AppName:      "Vocalize API",
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxClipSize * 2),
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	server.Use(recover.New())
	server.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	server.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	// Routes
	api := server.Group("/api")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/score", scoreHandler.HandleScore)
	api.Post("/ai-score", scoreHandler.HandleAIScore)
	api.Post("/generate-suggestions", scoreHandler.HandleGenerateSuggestions)
	api.Post("/transcribe", transcribeHandler.HandleTranscribe)

	api.Post("/attempts", attemptHandler.HandleSubmit)
	api.Get("/attempts", attemptHandler.HandleList)
	api.Get("/attempts/:version", attemptHandler.HandleGet)
	api.Get("/attempts/:version/audio", attemptHandler.HandleAudio)

	// Root route
	server.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Vocalize API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/score",
				"POST /api/ai-score",
				"POST /api/generate-suggestions",
				"POST /api/transcribe",
				"POST /api/attempts",
				"GET /api/attempts",
				"GET /api/attempts/:version",
				"GET /api/attempts/:version/audio",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		cancel()
		if err := server.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := server.Listen(addr); err != nil {
		log.Printf("❌ Failed to start server: %v", err)
	}
}
