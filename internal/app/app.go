// Package app assembles the analysis stack shared by the API server and the
// command-line analyzer.
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/tubepulse/standout/internal/apify"
	"github.com/tubepulse/standout/internal/config"
	"github.com/tubepulse/standout/internal/db"
	"github.com/tubepulse/standout/internal/export"
	"github.com/tubepulse/standout/internal/repository"
	"github.com/tubepulse/standout/internal/service"
)

// Components is the wired analysis stack.
type Components struct {
	Pool     *pgxpool.Pool // nil without DATABASE_URL
	Cache    *service.CacheService
	Standout *service.StandoutService
}

// Build connects the optional stores and wires fetcher, analyzer and
// exporter according to cfg. exportTarget overrides cfg.ExportTarget when
// non-empty.
func Build(ctx context.Context, cfg *config.Config, exportTarget string, log zerolog.Logger) (*Components, error) {
	if exportTarget == "" {
		exportTarget = cfg.ExportTarget
	}

	c := &Components{}

	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, log)
		if err != nil {
			if exportTarget == config.TargetPostgres {
				return nil, err
			}
			log.Warn().Err(err).Msg("database unavailable, continuing without it")
		} else {
			c.Pool = pool
		}
	}

	c.Cache = service.NewCacheService(cfg.RedisURL, cfg.CacheTTL, log)

	var fetcher service.VideoFetcher = apify.NewClient(apify.Config{
		Token:      cfg.ApifyToken,
		Actor:      cfg.ApifyActor,
		BaseURL:    cfg.ApifyBaseURL,
		Timeout:    cfg.FetchTimeout,
		RatePerSec: cfg.FetchRate,
	}, log)
	if c.Cache.Enabled() {
		fetcher = service.NewCachedFetcher(fetcher, c.Cache)
	}

	exporter, err := c.exporter(ctx, cfg, exportTarget, log)
	if err != nil {
		c.Close()
		return nil, err
	}

	analyzer := service.NewChannelAnalyzer(fetcher, service.NewNormalizer(nil, log), log)
	c.Standout = service.NewStandoutService(analyzer, cfg.Concurrency, exporter, log)
	return c, nil
}

func (c *Components) exporter(ctx context.Context, cfg *config.Config, target string, log zerolog.Logger) (export.Exporter, error) {
	switch target {
	case config.TargetSheets:
		return export.NewSheetsExporter(export.GoogleCredentials(cfg.GoogleTokenJSON, cfg.GoogleTokenFile), log), nil
	case config.TargetCSV:
		return export.NewCSVExporter(cfg.CSVDir), nil
	case config.TargetPostgres:
		if c.Pool == nil {
			return nil, fmt.Errorf("export target postgres requires DATABASE_URL")
		}
		runs := repository.NewRunRepo(c.Pool)
		if err := runs.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		return export.NewPostgresExporter(runs), nil
	case config.TargetNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown export target %q", target)
	}
}

// Close releases the database pool and the Redis client.
func (c *Components) Close() {
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.Pool != nil {
		c.Pool.Close()
	}
}
