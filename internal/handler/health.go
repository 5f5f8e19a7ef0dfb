package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Version is reported by GET / and the readiness probe.
const Version = "1.0.0"

// Upstreams reports which external services are configured.
type Upstreams struct {
	Apify             bool // APIFY_API_TOKEN set
	Spreadsheet       bool // GOOGLE_SHEETS_ID set
	GoogleCredentials bool // token JSON or token file present
}

type HealthHandler struct {
	pool      *pgxpool.Pool
	rdb       *redis.Client
	upstreams Upstreams
	startAt   time.Time
}

// NewHealthHandler creates the health handler. pool and rdb are nil when
// Postgres or Redis are not configured.
func NewHealthHandler(pool *pgxpool.Pool, rdb *redis.Client, upstreams Upstreams) *HealthHandler {
	return &HealthHandler{
		pool:      pool,
		rdb:       rdb,
		upstreams: upstreams,
		startAt:   time.Now(),
	}
}

// Health handles GET /health and reports which upstreams are configured.
func (h *HealthHandler) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":                     "healthy",
		"apify_configured":           h.upstreams.Apify,
		"sheets_configured":          h.upstreams.Spreadsheet,
		"google_credentials_present": h.upstreams.GoogleCredentials,
	})
}

// Live handles GET /health/live
func (h *HealthHandler) Live(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready handles GET /health/ready with dependency checks. A disabled
// dependency does not degrade readiness.
func (h *HealthHandler) Ready(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
	defer cancel()

	checks := fiber.Map{
		"database": checkDB(ctx, h.pool),
		"redis":    checkRedis(ctx, h.rdb),
	}
	overallStatus := "healthy"
	for _, check := range checks {
		if check.(fiber.Map)["status"] == "down" {
			overallStatus = "degraded"
		}
	}

	resp := fiber.Map{
		"status":         overallStatus,
		"checks":         checks,
		"uptime_seconds": int(time.Since(h.startAt).Seconds()),
		"version":        Version,
	}

	status := fiber.StatusOK
	if overallStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(resp)
}

func checkDB(ctx context.Context, pool *pgxpool.Pool) fiber.Map {
	if pool == nil {
		return fiber.Map{"status": "disabled"}
	}
	return ping(func() error { return pool.Ping(ctx) })
}

func checkRedis(ctx context.Context, rdb *redis.Client) fiber.Map {
	if rdb == nil {
		return fiber.Map{"status": "disabled"}
	}
	return ping(func() error { return rdb.Ping(ctx).Err() })
}

func ping(fn func() error) fiber.Map {
	start := time.Now()
	err := fn()
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return fiber.Map{
			"status":     "down",
			"latency_ms": latency,
			"error":      "connection failed",
		}
	}
	return fiber.Map{
		"status":     "up",
		"latency_ms": latency,
	}
}
