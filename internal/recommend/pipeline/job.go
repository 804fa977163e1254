// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package pipeline

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// Status is the lifecycle state of a job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Done reports whether s is terminal.
func (s Status) Done() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// Trigger identifies what started a job.
type Trigger string

const (
	TriggerManual   Trigger = "manual"
	TriggerSchedule Trigger = "schedule"
	TriggerEvent    Trigger = "event"
	TriggerCLI      Trigger = "cli"
)

// Job is the handle of one recommendation run.
type Job struct {
	ID         string    `json:"id"`
	Trigger    Trigger   `json:"trigger"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	StartedAt  time.Time `json:"started_at,omitempty"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
	Error      string    `json:"error,omitempty"`
	Summary    *Summary  `json:"summary,omitempty"`
}

// Clone returns a copy that is safe to hand to other goroutines.
func (j *Job) Clone() *Job {
	if j == nil {
		return nil
	}
	c := *j
	if j.Summary != nil {
		s := *j.Summary
		c.Summary = &s
	}
	return &c
}

// Duration returns the run time of a started job.
func (j *Job) Duration() time.Duration {
	if j.StartedAt.IsZero() {
		return 0
	}
	if j.FinishedAt.IsZero() {
		return time.Since(j.StartedAt)
	}
	return j.FinishedAt.Sub(j.StartedAt)
}

var (
	// ErrJobRunning is returned when a run is requested while another holds
	// the single-flight guard.
	ErrJobRunning = errors.New("recommendation job already running")

	// ErrJobNotFound is returned for unknown job IDs.
	ErrJobNotFound = errors.New("recommendation job not found")

	// ErrLockHeld is returned by a Locker when another process holds the lock.
	ErrLockHeld = errors.New("job lock held by another owner")

	// ErrRunnerClosed is returned by Start after Shutdown.
	ErrRunnerClosed = errors.New("recommendation runner is shut down")
)

// JobStore persists job handles.
type JobStore interface {
	Save(ctx context.Context, job *Job) error
	Get(ctx context.Context, id string) (*Job, error)
	// List returns at most limit jobs, newest first.
	List(ctx context.Context, limit int) ([]*Job, error)
}

// Locker is a cross-process mutual exclusion guard for runs.
type Locker interface {
	// Acquire takes the lock or returns ErrLockHeld. The returned function
	// releases it.
	Acquire(ctx context.Context) (release func(context.Context) error, err error)
}

// JobObserver is notified after a job reaches a terminal status.
type JobObserver interface {
	JobFinished(ctx context.Context, job *Job)
}

// MemoryStore keeps the most recent jobs in memory.
type MemoryStore struct {
	mu    sync.RWMutex
	jobs  map[string]*Job
	limit int
}

// NewMemoryStore creates a store that retains at most limit jobs.
func NewMemoryStore(limit int) *MemoryStore {
	if limit <= 0 {
		limit = 100
	}
	return &MemoryStore{jobs: make(map[string]*Job), limit: limit}
}

// Save stores a copy of job, evicting the oldest jobs beyond the limit.
func (m *MemoryStore) Save(_ context.Context, job *Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.jobs[job.ID] = job.Clone()
	if len(m.jobs) <= m.limit {
		return nil
	}

	all := m.sortedLocked()
	for _, old := range all[m.limit:] {
		delete(m.jobs, old.ID)
	}
	return nil
}

// Get returns a copy of the job with id.
func (m *MemoryStore) Get(_ context.Context, id string) (*Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, ok := m.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	return job.Clone(), nil
}

// List returns at most limit jobs, newest first.
func (m *MemoryStore) List(_ context.Context, limit int) ([]*Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.sortedLocked()
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	out := make([]*Job, len(all))
	for i, j := range all {
		out[i] = j.Clone()
	}
	return out, nil
}

func (m *MemoryStore) sortedLocked() []*Job {
	all := make([]*Job, 0, len(m.jobs))
	for _, j := range m.jobs {
		all = append(all, j)
	}
	sort.Slice(all, func(a, b int) bool {
		if !all[a].CreatedAt.Equal(all[b].CreatedAt) {
			return all[a].CreatedAt.After(all[b].CreatedAt)
		}
		return all[a].ID > all[b].ID
	})
	return all
}

var _ JobStore = (*MemoryStore)(nil)
