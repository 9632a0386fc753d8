package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
	tlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"

	"github.com/samirrijal/forestgeo/internal/adapters/cache"
	"github.com/samirrijal/forestgeo/internal/adapters/geocoder"
	natsadapter "github.com/samirrijal/forestgeo/internal/adapters/nats"
	"github.com/samirrijal/forestgeo/internal/adapters/postgres"
	"github.com/samirrijal/forestgeo/internal/core/ports"
	"github.com/samirrijal/forestgeo/internal/core/usecases"
	"github.com/samirrijal/forestgeo/internal/pkg/config"
	"github.com/samirrijal/forestgeo/internal/pkg/geospatial"
	"github.com/samirrijal/forestgeo/internal/pkg/logging"
	"github.com/samirrijal/forestgeo/internal/pkg/telemetry"
	"github.com/samirrijal/forestgeo/internal/workflows"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load("forestgeo-geoworker")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	db, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	var cacheSvc ports.CacheService
	cacheBackend, err := cache.Open(ctx, cfg.Cache)
	switch {
	case err != nil:
		slog.Warn("cache unavailable", "driver", cfg.Cache.Driver, "error", err)
	case cacheBackend != nil:
		defer cacheBackend.Close()
		cacheSvc = cacheBackend
	}

	// Batch results go out over NATS, so the worker cannot run without it.
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats publisher: %v", err)
	}
	defer pub.Close()

	geo, err := geocoder.New(cfg.Geocoding)
	if err != nil {
		log.Fatalf("geocoder: %v", err)
	}

	geoSvc := usecases.NewGeocodingService(geo, postgres.NewPlaceRepo(db), cacheSvc, pub, usecases.GeocodingOptions{
		Region:           cfg.Region,
		RestrictToRegion: cfg.Geocoding.RestrictToRegion,
		Parser:           geospatial.Parser{Strict: cfg.Coordinates.Strict},
		CacheTTL:         cfg.Geocoding.CacheTTL,
		ReuseRadiusM:     cfg.Geocoding.ReuseRadiusM,
		BatchMax:         cfg.Geocoding.BatchMax,
	})

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    tlog.NewStructuredLogger(slog.Default()),
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})
	w.RegisterWorkflow(workflows.BatchReverseGeocodeWorkflow)
	w.RegisterActivity(&workflows.GeocodingActivities{
		Geocoding: geoSvc,
		Publisher: pub,
	})

	// Batch requests arrive over JetStream and each one starts a workflow.
	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats subscriber: %v", err)
	}
	defer sub.Close()

	var runner ports.BatchRunner = workflows.NewTemporalRunner(c, cfg.Temporal.TaskQueue)
	if err := sub.SubscribeBatchRequests(ctx, runner.StartBatch); err != nil {
		log.Fatalf("subscribe batch requests: %v", err)
	}

	slog.Info("geoworker started", "task_queue", cfg.Temporal.TaskQueue, "geocoder", geo.Name())
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
