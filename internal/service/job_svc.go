package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tubepulse/standout/internal/export"
	"github.com/tubepulse/standout/internal/model"
	"github.com/tubepulse/standout/internal/repository"
)

const (
	// JobListLimit is how many recent jobs GET /jobs returns.
	JobListLimit = 50
	// jobIDAttempts bounds id regeneration when a short id collides.
	jobIDAttempts = 5
)

var (
	ErrNoChannels          = errors.New("at least one channel URL is required")
	ErrSpreadsheetRequired = errors.New("spreadsheet_id is required")
	ErrQueueFull           = errors.New("job queue is full")
)

// JobService accepts batch analyses, records them in the job ledger and
// hands them to the JobWorker through a bounded queue.
type JobService struct {
	store        repository.JobStore
	standout     *StandoutService
	queue        chan string
	defaultSheet string
	log          zerolog.Logger
	now          func() time.Time
	newID        func() string
}

// NewJobService creates a JobService with a queue of queueSize pending
// jobs. defaultSheet is used when a request names no spreadsheet.
func NewJobService(store repository.JobStore, standout *StandoutService, queueSize int, defaultSheet string, log zerolog.Logger) *JobService {
	return &JobService{
		store:        store,
		standout:     standout,
		queue:        make(chan string, max(queueSize, 1)),
		defaultSheet: defaultSheet,
		log:          log.With().Str("component", "jobs").Logger(),
		now:          time.Now,
		newID:        newJobID,
	}
}

// Submit validates and enqueues a batch analysis. The returned job is in
// pending status.
func (s *JobService) Submit(channels []string, spreadsheetID string) (model.Job, error) {
	if len(channels) == 0 {
		return model.Job{}, ErrNoChannels
	}
	if spreadsheetID == "" {
		spreadsheetID = s.defaultSheet
	}

	job := model.Job{
		Status:        model.JobPending,
		Channels:      channels,
		SpreadsheetID: spreadsheetID,
		StartedAt:     s.now().UTC(),
		TotalChannels: len(channels),
	}
	if s.standout.ExportTarget() == "sheets" {
		if spreadsheetID == "" {
			return model.Job{}, ErrSpreadsheetRequired
		}
		job.SpreadsheetURL = export.SpreadsheetURL(spreadsheetID)
	}

	if err := s.put(&job); err != nil {
		return model.Job{}, err
	}

	select {
	case s.queue <- job.JobID:
	default:
		msg := ErrQueueFull.Error()
		done := s.now().UTC()
		_, _ = s.store.Update(job.JobID, func(j *model.Job) {
			j.Status = model.JobError
			j.Error = &msg
			j.CompletedAt = &done
		})
		return model.Job{}, ErrQueueFull
	}

	s.log.Info().
		Str("job_id", job.JobID).
		Int("channels", len(channels)).
		Msg("job queued")
	return job, nil
}

// put stores job under a fresh id, drawing again when the 8-char id is
// already taken.
func (s *JobService) put(job *model.Job) error {
	for range jobIDAttempts {
		job.JobID = s.newID()
		err := s.store.Put(*job)
		if !errors.Is(err, repository.ErrJobExists) {
			return err
		}
		s.log.Warn().Str("job_id", job.JobID).Msg("job id collision, regenerating")
	}
	return fmt.Errorf("allocate job id: %w", repository.ErrJobExists)
}

// Get returns a job by id.
func (s *JobService) Get(jobID string) (model.Job, error) {
	return s.store.Get(jobID)
}

// List returns the most recent jobs and the total count.
func (s *JobService) List() ([]model.Job, int) {
	return s.store.List(JobListLimit)
}

// Standout returns the analysis service jobs run on.
func (s *JobService) Standout() *StandoutService {
	return s.standout
}

// destination picks where a job's report is written: the spreadsheet for
// sheets, otherwise the job id (a CSV subdirectory or a run label).
func (s *JobService) destination(job model.Job) string {
	if s.standout.ExportTarget() == "sheets" {
		return job.SpreadsheetID
	}
	return job.JobID
}

// newJobID returns the first 8 characters of a random UUID.
func newJobID() string {
	return uuid.NewString()[:8]
}
