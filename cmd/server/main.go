package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"

	"weddingverse/internal/config"
	"weddingverse/internal/database"
	"weddingverse/internal/handlers"
	"weddingverse/internal/jobs"
	"weddingverse/internal/logging"
	"weddingverse/internal/services"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize structured logging (JSON in production, text in dev)
	logging.Init()

	log.Println("🚀 Starting WeddingVerse Vision Board Server...")

	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found or error loading it: %v", err)
	}

	cfg := config.Load()
	log.Printf("📋 Configuration loaded (Port: %s, Catalog: %s, Output: %s)",
		cfg.Port, cfg.ImageInputCollection, cfg.OutputCollection)

	if cfg.GeminiAPIKey == "" {
		log.Fatal("❌ GEMINI_API_KEY environment variable is required")
	}

	// Connect to MongoDB
	mongoDB, err := database.NewMongoDB(cfg.MongoURI, cfg.DatabaseName)
	if err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}
	defer mongoDB.Close(context.Background())

	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	if err := mongoDB.Initialize(initCtx); err != nil {
		log.Printf("⚠️ Failed to initialize MongoDB indexes: %v", err)
	}
	cancelInit()

	// Initialize services
	services.InitMetrics()
	catalogCache := services.NewCatalogCache(time.Duration(cfg.CatalogRefreshMinutes) * time.Minute)
	matcherService := services.NewMatcherService(mongoDB, catalogCache, cfg.ImageInputCollection)
	genaiService := services.NewGenAIService(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel)
	boardService := services.NewVisionBoardService(mongoDB, matcherService, genaiService, cfg.OutputCollection, cfg.MatchLimit)
	log.Println("✅ Services initialized")

	// Background catalog refresh
	scheduler, err := jobs.NewScheduler()
	if err != nil {
		log.Fatalf("❌ Failed to create job scheduler: %v", err)
	}
	catalogJob := jobs.NewCatalogStatsJob(matcherService, cfg.MatchLimit)
	if err := scheduler.RegisterCatalogStats(catalogJob, time.Duration(cfg.CatalogRefreshMinutes)*time.Minute); err != nil {
		log.Fatalf("❌ Failed to register catalog job: %v", err)
	}
	scheduler.Start()

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "WeddingVerse Vision Board v1.0",
		ReadTimeout:  120 * time.Second,
		WriteTimeout: 120 * time.Second, // generation calls can take a while
		IdleTimeout:  120 * time.Second,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New())

	// Prometheus metrics middleware
	prometheus := fiberprometheus.New("weddingverse")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)
	log.Println("📊 Prometheus metrics endpoint enabled at /metrics")

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(mongoDB)
	boardHandler := handlers.NewVisionBoardHandler(boardService)

	// Routes
	app.Get("/health", healthHandler.Handle)

	api := app.Group("/api/v1")
	api.Post("/vision-board", boardHandler.Create)
	api.Get("/vision-board/:reference_id", boardHandler.GetByReference)

	// Graceful shutdown on SIGINT/SIGTERM
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("🛑 Shutting down server...")
		if err := scheduler.Stop(); err != nil {
			log.Printf("⚠️ Scheduler shutdown error: %v", err)
		}
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("⚠️ Server shutdown error: %v", err)
		}
	}()

	log.Printf("🌐 Server listening on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Server error: %v", err)
	}

	log.Println("👋 Server stopped")
}
