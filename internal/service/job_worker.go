package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tubepulse/standout/internal/metrics"
	"github.com/tubepulse/standout/internal/model"
)

// JobWorker drains the JobService queue with a fixed number of goroutines.
// A job that has started always runs to completion: its context is
// detached from the worker's, so shutdown only stops new jobs from starting.
type JobWorker struct {
	jobs    *JobService
	workers int
	log     zerolog.Logger

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewJobWorker creates a worker pool of the given size (at least 1).
func NewJobWorker(jobs *JobService, workers int, log zerolog.Logger) *JobWorker {
	return &JobWorker{
		jobs:    jobs,
		workers: max(workers, 1),
		log:     log.With().Str("component", "job-worker").Logger(),
		stopCh:  make(chan struct{}),
	}
}

// Start runs the worker loops and blocks until ctx is cancelled or Stop is
// called, then waits for in-flight jobs.
func (w *JobWorker) Start(ctx context.Context) {
	w.log.Info().Int("workers", w.workers).Msg("job-worker: starting")

	for i := 0; i < w.workers; i++ {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.loop(ctx)
		}()
	}

	select {
	case <-ctx.Done():
		w.log.Info().Msg("job-worker: stopping (context cancelled)")
	case <-w.stopCh:
		w.log.Info().Msg("job-worker: stopping (stop signal)")
	}
	w.wg.Wait()
}

// Stop signals the worker to stop. Safe to call more than once.
func (w *JobWorker) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}

func (w *JobWorker) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case id := <-w.jobs.queue:
			w.run(context.WithoutCancel(ctx), id)
		}
	}
}

// run executes one job and records its outcome in the ledger.
func (w *JobWorker) run(ctx context.Context, jobID string) {
	job, err := w.jobs.store.Update(jobID, func(j *model.Job) {
		j.Status = model.JobProcessing
	})
	if err != nil {
		w.log.Error().Err(err).Str("job_id", jobID).Msg("job-worker: job vanished from ledger")
		return
	}

	metrics.JobsInFlight.Inc()
	defer metrics.JobsInFlight.Dec()

	start := time.Now()
	log := w.log.With().Str("job_id", jobID).Logger()
	log.Info().Int("channels", len(job.Channels)).Msg("job-worker: job started")

	progress := func(processed, total int) {
		_, _ = w.jobs.store.Update(jobID, func(j *model.Job) {
			j.ChannelsProcessed = processed
		})
		log.Debug().Int("processed", processed).Int("total", total).Msg("job-worker: progress")
	}

	report, locator, runErr := w.execute(ctx, job, progress)

	done := w.jobs.now().UTC()
	final, _ := w.jobs.store.Update(jobID, func(j *model.Job) {
		j.CompletedAt = &done
		if runErr != nil {
			msg := runErr.Error()
			j.Status = model.JobError
			j.Error = &msg
			return
		}
		j.Status = model.JobCompleted
		if locator != "" {
			j.SpreadsheetURL = locator
		}
	})
	metrics.JobsTotal.WithLabelValues(final.Status).Inc()

	evt := log.Info()
	if runErr != nil {
		evt = log.Error().Err(runErr)
	}
	evt.
		Str("status", final.Status).
		Int("channels", len(report.Channels)).
		Int("failed", report.Failures()).
		Dur("duration_ms", time.Since(start)).
		Msg("job-worker: job finished")
}

// execute runs the analysis, turning a panic into a job error so one bad
// job cannot take down the pool.
func (w *JobWorker) execute(ctx context.Context, job model.Job, progress ProgressFunc) (report model.Report, locator string, err error) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error().Interface("panic", r).Str("job_id", job.JobID).Msg("job-worker: job panicked")
			err = errors.New("internal error while processing job")
		}
	}()
	return w.jobs.standout.AnalyzeAndExport(ctx, job.Channels, w.jobs.destination(job), progress)
}
