package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tubepulse/standout/internal/app"
	"github.com/tubepulse/standout/internal/config"
	"github.com/tubepulse/standout/internal/handler"
	"github.com/tubepulse/standout/internal/metrics"
	"github.com/tubepulse/standout/internal/middleware"
	"github.com/tubepulse/standout/internal/repository"
	"github.com/tubepulse/standout/internal/router"
	"github.com/tubepulse/standout/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		middleware.InitLogger("info", "standout-api")
		middleware.Logger.Fatal().Err(err).Msg("invalid configuration")
	}

	middleware.InitLogger(cfg.LogLevel, "standout-api")
	log := middleware.Logger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	components, err := app.Build(ctx, cfg, "", log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize")
	}
	defer components.Close()

	metrics.Register(prometheus.DefaultRegisterer, components.Pool)

	jobs := service.NewJobService(repository.NewMemoryJobStore(), components.Standout, cfg.JobQueueSize, cfg.SpreadsheetID, log)
	worker := service.NewJobWorker(jobs, cfg.JobWorkers, log)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Start(ctx)
	}()

	apifyConfigured := cfg.ApifyToken != ""
	if !apifyConfigured {
		log.Warn().Msg("APIFY_API_TOKEN not set, analysis endpoints will fail")
	}

	fiberApp := fiber.New(fiber.Config{
		AppName:      "Standout API",
		ServerHeader: "Standout",
	})

	router.Setup(fiberApp, &router.Handlers{
		Analyze: handler.NewAnalyzeHandler(jobs, apifyConfigured),
		Health:  handler.NewHealthHandler(components.Pool, components.Cache.Client(), handler.Upstreams{
			Apify:             apifyConfigured,
			Spreadsheet:       cfg.SheetsConfigured(),
			GoogleCredentials: cfg.GoogleCredentialsConfigured(),
		}),
	}, router.DefaultLimiters(), cfg.CORSOrigins)

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Environment).
			Str("export_target", cfg.ExportTarget).
			Msg("standout api starting")
		errCh <- fiberApp.Listen(":"+cfg.Port, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		log.Error().Err(err).Msg("server error")
	}

	if err := fiberApp.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("http shutdown error")
	}

	// Running jobs are not cancelled; wait for them before closing stores.
	worker.Stop()
	<-workerDone
	log.Info().Msg("shutdown complete")
}
