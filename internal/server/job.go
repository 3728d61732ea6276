package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cwbudde/pixelscan/internal/store"
)

// JobState represents the current state of a job
type JobState string

const (
	StatePending   JobState = "pending"
	StateRunning   JobState = "running"
	StateCompleted JobState = "completed"
	StateFailed    JobState = "failed"
	StateCancelled JobState = "cancelled"
)

// JobConfig is an alias to avoid duplication with store.JobConfig
type JobConfig = store.JobConfig

// Job represents a vectorization job
type Job struct {
	ID         string     `json:"id"`
	State      JobState   `json:"state"`
	Config     JobConfig  `json:"config"`
	ShapeCount int        `json:"shapeCount,omitempty"`
	Error      string     `json:"error,omitempty"`
	Created    time.Time  `json:"created"`
	Completed  *time.Time `json:"completed,omitempty"`
}

// JobManager guards the in-memory job table. All methods are safe for
// concurrent use.
type JobManager struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewJobManager creates an empty job manager.
func NewJobManager() *JobManager {
	return &JobManager{jobs: make(map[string]*Job)}
}

// CreateJob registers a new pending job and returns it.
func (jm *JobManager) CreateJob(config JobConfig) (*Job, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	job := &Job{
		ID:      uuid.New().String(),
		State:   StatePending,
		Config:  config,
		Created: time.Now(),
	}

	jm.mu.Lock()
	jm.jobs[job.ID] = job
	jm.mu.Unlock()

	return job, nil
}

// GetJob returns a copy of the job with the given ID.
func (jm *JobManager) GetJob(jobID string) (*Job, bool) {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	job, ok := jm.jobs[jobID]
	if !ok {
		return nil, false
	}
	cp := *job
	return &cp, true
}

// ListJobs returns copies of all jobs.
func (jm *JobManager) ListJobs() []*Job {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	jobs := make([]*Job, 0, len(jm.jobs))
	for _, job := range jm.jobs {
		cp := *job
		jobs = append(jobs, &cp)
	}
	return jobs
}

// UpdateJob applies fn to the job under the lock.
func (jm *JobManager) UpdateJob(jobID string, fn func(*Job)) error {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	job, ok := jm.jobs[jobID]
	if !ok {
		return fmt.Errorf("job not found: %s", jobID)
	}
	fn(job)
	return nil
}

// CancelJob marks a pending job as cancelled. Running jobs finish
// their scan; the core has no cancellation points.
func (jm *JobManager) CancelJob(jobID string) error {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	job, ok := jm.jobs[jobID]
	if !ok {
		return fmt.Errorf("job not found: %s", jobID)
	}
	if job.State != StatePending {
		return fmt.Errorf("job %s is %s and cannot be cancelled", jobID, job.State)
	}

	now := time.Now()
	job.State = StateCancelled
	job.Completed = &now
	return nil
}

// toRecord converts a job snapshot to its persisted form.
func toRecord(job *Job) *store.Record {
	return &store.Record{
		JobID:      job.ID,
		State:      string(job.State),
		Config:     job.Config,
		ShapeCount: job.ShapeCount,
		Error:      job.Error,
		Created:    job.Created,
		Completed:  job.Completed,
	}
}
