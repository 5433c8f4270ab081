package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stampapi/internal/config"
	"stampapi/internal/document"
	"stampapi/internal/fonts"
	handlers "stampapi/internal/http/handler"
	"stampapi/internal/http/middleware"
	"stampapi/internal/metrics"
	"stampapi/internal/otel"
	"stampapi/internal/preview"
	"stampapi/internal/service"
	"stampapi/internal/session"
	"stampapi/internal/stamp"
	"stampapi/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	// Tracing degrades to a no-op provider when no collector is reachable.
	shutdownTracing, err := otel.Init(context.Background(), time.UTC)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(context.Background())

	// Object storage is optional; without it the archive endpoint reports
	// 503 and everything else works.
	var objStore storage.Storage
	if cfg.MinIO.Endpoint != "" {
		objStore, err = storage.NewMinIO(cfg.MinIO)
		if err != nil {
			log.Fatalf("failed to initialize object storage: %v", err)
		}
	}

	resolver := fonts.NewResolver()
	generator := stamp.NewGenerator(resolver, cfg.Stamp.OutputDir)
	processor := document.NewProcessor(document.Config{
		MaxFileBytes: int64(cfg.Document.MaxFileMB) << 20,
		MaxPageDim:   cfg.Document.MaxPageDim,
	}, document.NoRasterizer{}, resolver)
	renderer := preview.NewRenderer()

	sessions := session.NewMemoryStore(time.Duration(cfg.Session.TTLMinutes) * time.Minute)
	defer sessions.Close()

	stampSvc := service.NewStampService(generator)
	stamperSvc := service.NewStamperService(sessions, processor, stampSvc, renderer, objStore)

	reg := prometheus.NewRegistry()
	promMW, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register http metrics: %v", err)
	}
	domainMetrics, err := metrics.New(reg)
	if err != nil {
		log.Fatalf("failed to register domain metrics: %v", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    (cfg.Document.MaxFileMB + 1) << 20,
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())
	app.Use(promMW.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, sessions, stampSvc, stamperSvc, domainMetrics)

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
