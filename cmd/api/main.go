package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"

	"github.com/samirrijal/forestgeo/internal/adapters/cache"
	"github.com/samirrijal/forestgeo/internal/adapters/geocoder"
	"github.com/samirrijal/forestgeo/internal/adapters/http"
	natsadapter "github.com/samirrijal/forestgeo/internal/adapters/nats"
	"github.com/samirrijal/forestgeo/internal/adapters/postgres"
	"github.com/samirrijal/forestgeo/internal/core/ports"
	"github.com/samirrijal/forestgeo/internal/core/usecases"
	"github.com/samirrijal/forestgeo/internal/pkg/config"
	"github.com/samirrijal/forestgeo/internal/pkg/geospatial"
	"github.com/samirrijal/forestgeo/internal/pkg/logging"
	"github.com/samirrijal/forestgeo/internal/pkg/metrics"
	"github.com/samirrijal/forestgeo/internal/pkg/telemetry"
)

var version = "dev"

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load("forestgeo-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	go reportPoolStats(ctx, db)

	// Cache
	var cacheSvc ports.CacheService
	var pinger http.Pinger
	cacheBackend, err := cache.Open(ctx, cfg.Cache)
	switch {
	case err != nil:
		slog.Warn("cache unavailable", "driver", cfg.Cache.Driver, "error", err)
	case cacheBackend != nil:
		defer cacheBackend.Close()
		cacheSvc, pinger = cacheBackend, cacheBackend
	}

	// NATS
	var publisher ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, events and batches disabled", "error", err)
	} else {
		defer pub.Close()
		publisher = pub
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	} else {
		defer natsConn.Close()
	}

	// Geocoding provider
	geo, err := geocoder.New(cfg.Geocoding)
	if err != nil {
		log.Fatalf("geocoder: %v", err)
	}

	// Use cases
	coordSvc := usecases.NewCoordinateService(cfg.Region, cfg.Coordinates.Strict)
	geoSvc := usecases.NewGeocodingService(geo, postgres.NewPlaceRepo(db), cacheSvc, publisher, usecases.GeocodingOptions{
		Region:           cfg.Region,
		RestrictToRegion: cfg.Geocoding.RestrictToRegion,
		Parser:           geospatial.Parser{Strict: cfg.Coordinates.Strict},
		CacheTTL:         cfg.Geocoding.CacheTTL,
		ReuseRadiusM:     cfg.Geocoding.ReuseRadiusM,
		BatchMax:         cfg.Geocoding.BatchMax,
	})

	deps := &http.Dependencies{
		Coordinates: coordSvc,
		Geocoding:   geoSvc,
		NATS:        natsConn,
		DB:          db,
		Cache:       pinger,
		Version:     version,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "ForestGeo API",
	})
	app.Use(cors.New(cors.Config{
		AllowOrigins: "http://localhost:3000, http://localhost:5173",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
		MaxAge:       3600,
	}))

	http.SetupRoutes(app, deps)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "geocoder", geo.Name(), "region", cfg.Region)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

func reportPoolStats(ctx context.Context, db *postgres.DB) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			metrics.UpdateDBPoolMetrics(db.Stat())
		case <-ctx.Done():
			return
		}
	}
}
