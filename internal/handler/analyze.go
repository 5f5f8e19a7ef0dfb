package handler

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v3"

	"github.com/tubepulse/standout/internal/middleware"
	"github.com/tubepulse/standout/internal/model"
	"github.com/tubepulse/standout/internal/repository"
	"github.com/tubepulse/standout/internal/service"
)

type AnalyzeHandler struct {
	jobs            *service.JobService
	apifyConfigured bool
}

func NewAnalyzeHandler(jobs *service.JobService, apifyConfigured bool) *AnalyzeHandler {
	return &AnalyzeHandler{jobs: jobs, apifyConfigured: apifyConfigured}
}

// Submit handles POST /analyze
func (h *AnalyzeHandler) Submit(c fiber.Ctx) error {
	if !h.apifyConfigured {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "NOT_CONFIGURED", "APIFY_API_TOKEN not configured")
	}

	var req model.AnalyzeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid JSON body")
	}

	channels, msg := middleware.ValidateChannelURLs(req.Channels)
	if msg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", msg)
	}

	job, err := h.jobs.Submit(channels, req.SpreadsheetID)
	switch {
	case errors.Is(err, service.ErrNoChannels), errors.Is(err, service.ErrSpreadsheetRequired):
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", err.Error())
	case errors.Is(err, service.ErrQueueFull):
		return middleware.ErrorResponse(c, fiber.StatusServiceUnavailable, "QUEUE_FULL", "Too many pending jobs, try again later")
	case err != nil:
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create job")
	}

	return c.JSON(model.AnalyzeResponse{
		Success:        true,
		JobID:          job.JobID,
		Status:         job.Status,
		SpreadsheetURL: job.SpreadsheetURL,
		Message:        fmt.Sprintf("Analysis of %d channels started", len(channels)),
	})
}

// GetJob handles GET /job/:jobId
func (h *AnalyzeHandler) GetJob(c fiber.Ctx) error {
	id, msg := middleware.ValidateJobID(c.Params("jobId"))
	if msg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_PARAM", msg)
	}

	job, err := h.jobs.Get(id)
	if errors.Is(err, repository.ErrJobNotFound) {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Job not found")
	}
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to lookup job")
	}
	return c.JSON(job)
}

// ListJobs handles GET /jobs
func (h *AnalyzeHandler) ListJobs(c fiber.Ctx) error {
	jobs, total := h.jobs.List()
	if jobs == nil {
		jobs = []model.Job{}
	}
	return c.JSON(model.JobListResponse{Total: total, Jobs: jobs})
}

// AnalyzeChannel handles GET /channel?url=X and runs the analysis inline.
func (h *AnalyzeHandler) AnalyzeChannel(c fiber.Ctx) error {
	if !h.apifyConfigured {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "NOT_CONFIGURED", "APIFY_API_TOKEN not configured")
	}

	url, msg := middleware.ValidateChannelURL(fiber.Query[string](c, "url"))
	if msg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_PARAM", msg)
	}

	result := h.jobs.Standout().AnalyzeChannel(c.Context(), url)
	return c.JSON(result)
}
