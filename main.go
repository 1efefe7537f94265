package main

import (
	"context"
	"log"
	"os"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"

	"liftout/config"
	"liftout/middleware"
	"liftout/routes"
	"liftout/worker"
)

func main() {
	// Initialize logger
	logger := log.New(os.Stdout, "LIFTOUT: ", log.Ldate|log.Ltime|log.Lshortfile)

	// Load configuration
	if err := config.LoadConfig(); err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database connection
	if err := config.ConnectDB(); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Initialize Sentry when a DSN is configured
	if config.AppConfig.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         config.AppConfig.SentryDSN,
			Environment: config.AppConfig.Environment,
		}); err != nil {
			logger.Printf("Sentry initialization failed: %v", err)
		}
	}

	// Create Fiber app
	app := fiber.New()

	// Add CORS middleware
	app.Use(middleware.CORS())

	// Initialize and start background workers
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	verificationWorker := worker.NewVerificationWorker(config.DB, log.New(os.Stdout, "VERIFY: ", log.LstdFlags))
	go verificationWorker.Start(ctx)

	notifyWorker := worker.NewNotifyWorker(config.DB, log.New(os.Stdout, "NOTIFY: ", log.LstdFlags))
	go notifyWorker.Start(ctx)

	// Setup routes
	routes.SetupRoutes(app, config.DB)

	// Health check endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "running",
			"version": "1.0.0",
		})
	})

	// Start server
	logger.Printf("Server starting on port %s", config.AppConfig.ServerPort)
	if err := app.Listen(":" + config.AppConfig.ServerPort); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
