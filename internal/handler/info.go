package handler

import "github.com/gofiber/fiber/v3"

// Info handles GET /
func Info(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"name":    "YouTube Channel Standout Analyzer",
		"version": Version,
		"endpoints": fiber.Map{
			"POST /analyze":     "Start a multi-channel analysis job",
			"GET /job/:jobId":   "Job status and progress",
			"GET /jobs":         "Most recent jobs",
			"GET /channel?url=": "Analyze one channel synchronously",
			"GET /health":       "Service health",
			"GET /metrics":      "Prometheus metrics",
		},
	})
}
