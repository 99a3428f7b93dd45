package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"sipor/internal/analytics"
	"sipor/internal/caching"
	"sipor/internal/classify"
	"sipor/internal/config"
	"sipor/internal/handlers"
	"sipor/internal/jobs"
	"sipor/internal/jobs/background"
	"sipor/internal/middleware"
	"sipor/internal/repositories"
	"sipor/internal/services"
	"sipor/pkg/database"
)

const version = "1.0.0"

func main() {
	// Configuration
	cfg := config.Default()
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			log.Fatalf("Failed to load config %s: %v", path, err)
		}
		cfg = loaded
	}

	// Database is optional: without it the refresh audit trail is disabled.
	var pool *pgxpool.Pool
	var auditRepo repositories.RefreshAuditRepository
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		p, err := database.NewPool(databaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer p.Close()

		if err := database.EnsureSchema(context.Background(), p); err != nil {
			log.Fatalf("Failed to ensure database schema: %v", err)
		}

		pool = p
		auditRepo = repositories.NewRefreshAuditRepo(p)
	} else {
		log.Printf("DATABASE_URL not set, refresh audit trail disabled")
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379" // Default Redis address
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDBStr := os.Getenv("REDIS_DB")
	redisDB := 0 // Default DB
	if redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	// Workbook source
	var source repositories.WorkbookSource
	switch cfg.Source.Kind {
	case "minio":
		minioEndpoint := os.Getenv("MINIO_ENDPOINT")
		if minioEndpoint == "" {
			minioEndpoint = "localhost:9000" // Default MinIO endpoint
		}
		minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
		if minioAccessKey == "" {
			minioAccessKey = "minioadmin" // Default for development
		}
		minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
		if minioSecretKey == "" {
			minioSecretKey = "minioadmin" // Default for development
		}
		useSSL := os.Getenv("MINIO_USE_SSL") == "true"

		storageSvc, err := services.NewMinioStorageService(minioEndpoint, minioAccessKey, minioSecretKey, useSSL)
		if err != nil {
			log.Fatalf("Failed to initialize MinIO service: %v", err)
		}
		source = services.NewObjectWorkbookSource(storageSvc, cfg.Source.Bucket, cfg.Source.Object)
	case "file":
		source = repositories.NewFileSource(cfg.Source.Path)
	default:
		log.Fatalf("Unknown source kind %q", cfg.Source.Kind)
	}

	// Create repositories
	workbookRepo := repositories.NewWorkbookRepo(source, cfg.Source.Sheet)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB, cfg.Cache.KeyPrefix)

	// Create services
	classifier := classify.FromConfig(&cfg.Classification)
	engine := analytics.NewService(classifier, cfg.Analysis.TopMovers)

	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	snapshotSvc := services.NewSnapshotService(workbookRepo, cacheSvc, auditRepo, ttl)
	balanceSvc := services.NewBalanceService(snapshotSvc, engine, classifier)
	operationsSvc := services.NewOperationsService(snapshotSvc, engine, cfg.Analysis.WindowDays)

	// Background jobs
	refreshJobSvc := jobs.NewSnapshotRefreshService(snapshotSvc)
	dataQualitySvc := jobs.NewDataQualityService(snapshotSvc, classifier)
	scheduler := background.NewJobScheduler(refreshJobSvc, dataQualitySvc, ttl)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Create handlers
	balanceHandlers := handlers.NewBalanceHandlers(balanceSvc)
	operationsHandlers := handlers.NewOperationsHandlers(operationsSvc)
	snapshotHandlers := handlers.NewSnapshotHandlers(snapshotSvc, auditRepo)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Version middleware
	versionMiddleware := middleware.NewVersionMiddleware()
	e.Use(versionMiddleware.APIVersionResolver())

	// Health endpoints
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)

	// API routes
	v1 := e.Group("/v1")
	v1.Use(versionMiddleware.VersionHeader("v1"))

	v1.GET("/balance", balanceHandlers.GetBalance)

	v1.GET("/operations/summary", operationsHandlers.GetSummary)
	v1.GET("/operations/deltas", operationsHandlers.GetDeltas)
	v1.GET("/operations/filters", operationsHandlers.GetFilterOptions)

	v1.POST("/snapshot/refresh", snapshotHandlers.RefreshSnapshot)
	v1.GET("/snapshot/audits", snapshotHandlers.ListRefreshAudits)

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	log.Printf("Sipor server v%s starting on port %d", version, port)
	log.Printf("Source: %s, window: %d days, cache TTL: %s", cfg.Source.Kind, cfg.Analysis.WindowDays, ttl)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}
