package main

import (
	"context"
	"log"

	"scoreboard/config"
	"scoreboard/handlers"
	"scoreboard/middleware"
	"scoreboard/models"
	"scoreboard/routes"
	"scoreboard/services"
	"scoreboard/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load configuration
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("Failed to load .env: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	ctx := context.Background()

	shutdownTracing, err := telemetry.Setup(ctx, "scoreboard", cfg.OTelEndpoint)
	if err != nil {
		log.Fatal("Failed to set up tracing:", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Printf("Failed to flush traces: %v", err)
		}
	}()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database models
	if cfg.AutoMigrate {
		if err := db.AutoMigrate(models.All()...); err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
	}

	catalog := services.DefaultCatalog()
	if cfg.SeedOnStart {
		if err := services.Seed(ctx, db, catalog); err != nil {
			log.Fatal("Failed to seed database:", err)
		}
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)
	if redisClient == nil {
		log.Printf("REDIS_HOST not set, scores cache disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize services
	scoreService := services.NewScoreService(db,
		services.WithCache(services.NewScoreCache(redisClient, cfg.ScoresCacheTTL)),
		services.WithMetrics(services.NewMetrics(registry)),
		services.WithLockTimeout(cfg.DBLockTimeout),
	)

	// Initialize handlers
	scoreHandler := handlers.NewScoreHandler(scoreService, catalog)

	// Setup Gin router
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg.CORSOrigins))

	// Setup routes
	routes.SetupRoutes(router, scoreHandler, registry)

	// Start server
	log.Printf("Server starting on %s", cfg.ListenAddr())
	if err := router.Run(cfg.ListenAddr()); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
