package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
)

// corsMaxAge caches preflights for ten minutes.
const corsMaxAge = 600

// NewCORS returns the CORS middleware for the analyzer API. POST /analyze
// is the only write route. Rate-limit headers are exposed to the browser.
func NewCORS(corsOrigins string) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:  parseOrigins(corsOrigins),
		AllowMethods:  []string{fiber.MethodGet, fiber.MethodPost},
		AllowHeaders:  []string{fiber.HeaderContentType, fiber.HeaderAccept},
		ExposeHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", fiber.HeaderRetryAfter},
		MaxAge:        corsMaxAge,
	})
}

// parseOrigins splits the CORS_ORIGINS list, dropping blanks and trailing
// slashes. An empty list or "*" allows every origin.
func parseOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "*" {
			return []string{"*"}
		}
		if o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
