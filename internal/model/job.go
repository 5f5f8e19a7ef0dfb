package model

import "time"

// Job statuses, in lifecycle order.
const (
	JobPending    = "pending"
	JobProcessing = "processing"
	JobCompleted  = "completed"
	JobError      = "error"
)

// Job is one asynchronous batch analysis tracked by the job ledger.
type Job struct {
	JobID             string     `json:"job_id"`
	Status            string     `json:"status"`
	Channels          []string   `json:"channels"`
	SpreadsheetID     string     `json:"-"`
	SpreadsheetURL    string     `json:"spreadsheet_url"`
	StartedAt         time.Time  `json:"started_at"`
	CompletedAt       *time.Time `json:"completed_at"`
	Error             *string    `json:"error"`
	ChannelsProcessed int        `json:"channels_processed"`
	TotalChannels     int        `json:"total_channels"`
}

// Finished reports whether the job reached a terminal status.
func (j Job) Finished() bool {
	return j.Status == JobCompleted || j.Status == JobError
}

// AnalyzeRequest is the body of POST /analyze.
type AnalyzeRequest struct {
	Channels      []string `json:"channels"`
	SpreadsheetID string   `json:"spreadsheet_id,omitempty"`
}

// AnalyzeResponse is returned when a job is accepted.
type AnalyzeResponse struct {
	Success        bool   `json:"success"`
	JobID          string `json:"job_id"`
	Status         string `json:"status"`
	SpreadsheetURL string `json:"spreadsheet_url"`
	Message        string `json:"message"`
}

// JobListResponse is returned by GET /jobs.
type JobListResponse struct {
	Total int   `json:"total"`
	Jobs  []Job `json:"jobs"`
}
