package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"intelfeed/internal/di"
	newsconfig "intelfeed/internal/news/config"
	"intelfeed/internal/shared/logger"

	"github.com/caarlos0/env/v6"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ServerConfig holds server configuration
type ServerConfig struct {
	Host          string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port          string `env:"SERVER_PORT" envDefault:"8000"`
	RateLimit     int    `env:"RATE_LIMIT" envDefault:"100"`
	AllowOrigins  string `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	serverCfg := &ServerConfig{}
	if err := env.Parse(serverCfg); err != nil {
		log.Fatalf("Failed to load server configuration: %v", err)
	}

	appLogger := logger.NewLogger()
	appLogger.Info("Application configuration loaded successfully")

	newsCfg, err := newsconfig.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load news configuration: %v", err)
	}
	redisCfg, err := newsconfig.LoadRedisConfig()
	if err != nil {
		log.Fatalf("Failed to load redis configuration: %v", err)
	}

	// Initialize MongoDB connection
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(newsCfg.MongoDBURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			appLogger.Errorf("Failed to disconnect MongoDB: %v", err)
		}
	}()

	if err := mongoClient.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}
	appLogger.Info("MongoDB connection established successfully")

	mongoDB := mongoClient.Database(newsCfg.DatabaseName)

	// Initialize Dependency Injection Container
	container := di.NewContainer(appLogger)
	defer func() {
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cleanupCancel()
		if err := container.Cleanup(cleanupCtx); err != nil {
			appLogger.Errorf("Failed to clean up container: %v", err)
		}
	}()

	if err := container.InitializeInfrastructure(mongoDB, redisCfg); err != nil {
		log.Fatalf("Failed to initialize infrastructure: %v", err)
	}
	if err := container.InitializeAuth(); err != nil {
		log.Fatalf("Failed to initialize auth module: %v", err)
	}
	appLogger.Info("Auth module initialized successfully")

	if err := container.InitializeNews(); err != nil {
		log.Fatalf("Failed to initialize news module: %v", err)
	}
	appLogger.Info("News module initialized successfully")

	if err := container.InitializeReports(); err != nil {
		log.Fatalf("Failed to initialize reports module: %v", err)
	}
	appLogger.Info("Reports module initialized successfully")

	// Setup HTTP server (Fiber) with middleware
	app := fiber.New(fiber.Config{
		AppName:      "IntelFeed API v1.0",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			appLogger.Errorf("HTTP Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal Server Error",
			})
		},
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: serverCfg.AllowOrigins,
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        serverCfg.RateLimit,
		Expiration: time.Minute,
	}))

	// Health check reports the state of the shared connections
	app.Get("/health", func(c *fiber.Ctx) error {
		healthCtx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()

		if err := container.HealthCheck(healthCtx); err != nil {
			appLogger.Errorf("Health check failed: %v", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":  "UNHEALTHY",
				"error":   err.Error(),
				"message": "One or more services are unhealthy",
			})
		}

		return c.JSON(fiber.Map{
			"status":    "HEALTHY",
			"message":   "IntelFeed API is running",
			"timestamp": time.Now().UTC(),
			"modules": fiber.Map{
				"auth":    "initialized",
				"news":    "initialized",
				"reports": "initialized",
			},
		})
	})

	// Register module routes under the API prefix
	api := app.Group("/api")

	container.AuthModule.RegisterRoutes(api)
	appLogger.Info("Auth routes registered")

	container.NewsModule.RegisterRoutes(api,
		container.AuthModule.Middleware.Protect(),
		container.AuthModule.Middleware.RequireAdmin(),
	)
	appLogger.Info("News routes registered")

	container.ReportsModule.RegisterRoutes(api)
	container.ReportsModule.RegisterWebSocket(app)
	appLogger.Info("Report routes registered")

	// Background workers (feed refresher)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	container.Start(workerCtx)

	// Start server in a goroutine so shutdown can be handled gracefully
	go func() {
		addr := serverCfg.Host + ":" + serverCfg.Port
		appLogger.Infof("Starting server on %s", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	workerCancel()

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		appLogger.Errorf("Server forced to shutdown: %v", err)
	}
	appLogger.Info("Server exited")
}
