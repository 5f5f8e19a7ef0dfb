package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/tubepulse/standout/internal/handler"
	"github.com/tubepulse/standout/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Analyze *handler.AnalyzeHandler
	Health  *handler.HealthHandler
}

// Limiters holds the per-route rate limiters. A nil field disables that
// limit.
type Limiters struct {
	Analyze *middleware.RateLimiter
	Channel *middleware.RateLimiter
	Read    *middleware.RateLimiter
}

// DefaultLimiters returns the production per-IP limits.
func DefaultLimiters() Limiters {
	return Limiters{
		Analyze: middleware.NewAnalyzeRateLimiter(),
		Channel: middleware.NewChannelRateLimiter(),
		Read:    middleware.NewReadRateLimiter(),
	}
}

// Setup configures the middleware stack and all routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, limits Limiters, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(middleware.NewCORS(corsOrigins))
	app.Use(handler.MetricsMiddleware())

	app.Get("/", handler.Info)
	app.Get("/metrics", handler.MetricsHandler())

	app.Get("/health", h.Health.Health)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)

	app.Post("/analyze", limit(limits.Analyze), h.Analyze.Submit)
	app.Get("/job/:jobId", limit(limits.Read), h.Analyze.GetJob)
	app.Get("/jobs", limit(limits.Read), h.Analyze.ListJobs)
	app.Get("/channel", limit(limits.Channel), h.Analyze.AnalyzeChannel)
}

func limit(rl *middleware.RateLimiter) fiber.Handler {
	if rl == nil {
		return func(c fiber.Ctx) error { return c.Next() }
	}
	return rl.Handler()
}
