package repository

import (
	"errors"
	"slices"
	"sync"

	"github.com/tubepulse/standout/internal/model"
)

var (
	// ErrJobNotFound is returned for unknown job ids.
	ErrJobNotFound = errors.New("job not found")
	// ErrJobExists is returned by Put when the id is already taken.
	ErrJobExists = errors.New("job id already exists")
)

// JobStore is the job ledger. Jobs are never deleted; fields are updated in
// place through Update.
type JobStore interface {
	Put(job model.Job) error
	Get(jobID string) (model.Job, error)
	Update(jobID string, fn func(*model.Job)) (model.Job, error)
	// List returns the most recent jobs (at most limit, oldest first) and
	// the total number of jobs.
	List(limit int) ([]model.Job, int)
}

// MemoryJobStore is a process-wide in-memory JobStore.
type MemoryJobStore struct {
	mu    sync.RWMutex
	jobs  map[string]*model.Job
	order []string
}

var _ JobStore = (*MemoryJobStore)(nil)

func NewMemoryJobStore() *MemoryJobStore {
	return &MemoryJobStore{jobs: make(map[string]*model.Job)}
}

// Put inserts a new job. An id already in the ledger is rejected with
// ErrJobExists; use Update to change a job.
func (s *MemoryJobStore) Put(job model.Job) error {
	if job.JobID == "" {
		return errors.New("job id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.JobID]; exists {
		return ErrJobExists
	}
	s.order = append(s.order, job.JobID)
	j := cloneJob(job)
	s.jobs[job.JobID] = &j
	return nil
}

// Get returns a copy of the job.
func (s *MemoryJobStore) Get(jobID string) (model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[jobID]
	if !ok {
		return model.Job{}, ErrJobNotFound
	}
	return cloneJob(*j), nil
}

// Update applies fn to the stored job under the lock and returns a copy of
// the result.
func (s *MemoryJobStore) Update(jobID string, fn func(*model.Job)) (model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[jobID]
	if !ok {
		return model.Job{}, ErrJobNotFound
	}
	fn(j)
	return cloneJob(*j), nil
}

// List returns up to limit of the most recently submitted jobs.
func (s *MemoryJobStore) List(limit int) ([]model.Job, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.order
	if limit > 0 && len(ids) > limit {
		ids = ids[len(ids)-limit:]
	}

	jobs := make([]model.Job, 0, len(ids))
	for _, id := range ids {
		jobs = append(jobs, cloneJob(*s.jobs[id]))
	}
	return jobs, len(s.order)
}

func cloneJob(j model.Job) model.Job {
	j.Channels = slices.Clone(j.Channels)
	if j.CompletedAt != nil {
		t := *j.CompletedAt
		j.CompletedAt = &t
	}
	if j.Error != nil {
		e := *j.Error
		j.Error = &e
	}
	return j
}
