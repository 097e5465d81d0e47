package api

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/script-breakdown/internal/domain"
)

// Job status values for async breakdown runs.
const (
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// Job is one async breakdown run.
type Job struct {
	ID          string              `json:"job_id"`
	ScriptID    string              `json:"script_id"`
	Status      string              `json:"status"`
	Report      *domain.FinalReport `json:"report,omitempty"`
	Error       string              `json:"error,omitempty"`
	SubmittedAt time.Time           `json:"submitted_at"`
}

// processFunc runs one script through the pipeline.
type processFunc func(ctx context.Context, scriptID, text string) (*domain.FinalReport, error)

// JobManager tracks async breakdown runs in memory. Jobs do not survive a
// restart; callers needing durable results use the history endpoints.
type JobManager struct {
	mu      sync.RWMutex
	jobs    map[string]*Job
	process processFunc
}

// NewJobManager creates a job manager over the given pipeline entry.
func NewJobManager(process processFunc) *JobManager {
	return &JobManager{
		jobs:    make(map[string]*Job),
		process: process,
	}
}

// Submit registers a run and starts it in the background, returning the job
// in its processing state.
func (m *JobManager) Submit(scriptID, text string) *Job {
	job := &Job{
		ID:          uuid.NewString(),
		ScriptID:    scriptID,
		Status:      JobStatusProcessing,
		SubmittedAt: time.Now().UTC(),
	}

	m.mu.Lock()
	m.jobs[job.ID] = job
	m.mu.Unlock()

	go m.run(job.ID, scriptID, text)
	return m.snapshot(job.ID)
}

func (m *JobManager) run(jobID, scriptID, text string) {
	rep, err := m.process(context.Background(), scriptID, text)

	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return
	}
	if err != nil {
		job.Status = JobStatusFailed
		job.Error = err.Error()
		return
	}
	job.Status = JobStatusCompleted
	job.Report = rep
}

// Get returns a copy of the job state.
func (m *JobManager) Get(jobID string) (*Job, bool) {
	job := m.snapshot(jobID)
	return job, job != nil
}

func (m *JobManager) snapshot(jobID string) *Job {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return nil
	}
	copied := *job
	return &copied
}
