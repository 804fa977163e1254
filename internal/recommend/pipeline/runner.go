// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/folio/internal/metrics"
	"github.com/tomtom215/folio/internal/recommend"
)

// Executor performs one recommendation run.
type Executor interface {
	Run(ctx context.Context) (*Summary, error)
}

// RunnerConfig holds runner settings.
type RunnerConfig struct {
	// RunTimeout bounds background runs started with Start.
	// Default: 30m.
	RunTimeout time.Duration

	// HistoryLimit is the number of jobs returned by Jobs when no limit is given.
	// Default: 20.
	HistoryLimit int
}

// Runner serializes recommendation runs and tracks their job handles.
// At most one run executes per process; a Locker extends that guarantee
// across processes.
type Runner struct {
	exec      Executor
	store     JobStore
	locker    Locker
	observers []JobObserver
	cfg       RunnerConfig
	logger    zerolog.Logger

	guard sync.Mutex

	mu      sync.RWMutex
	current *Job

	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	shutdown bool
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLocker adds a cross-process lock around every run.
func WithLocker(l Locker) RunnerOption {
	return func(r *Runner) { r.locker = l }
}

// WithObserver registers an observer for finished jobs.
func WithObserver(o JobObserver) RunnerOption {
	return func(r *Runner) {
		if o != nil {
			r.observers = append(r.observers, o)
		}
	}
}

// WithJobStore replaces the default in-memory store.
func WithJobStore(s JobStore) RunnerOption {
	return func(r *Runner) {
		if s != nil {
			r.store = s
		}
	}
}

// NewRunner creates a runner around exec.
func NewRunner(exec Executor, cfg RunnerConfig, logger zerolog.Logger, opts ...RunnerOption) *Runner {
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 30 * time.Minute
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 20
	}
	ctx, cancel := context.WithCancel(context.Background())
	r := &Runner{
		exec:   exec,
		store:  NewMemoryStore(100),
		cfg:    cfg,
		logger: logger.With().Str("component", "recommend-runner").Logger(),
		ctx:    ctx,
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start launches a run in the background and returns its pending handle.
// It returns ErrJobRunning without creating a job if a run is in progress.
func (r *Runner) Start(trigger Trigger) (*Job, error) {
	if !r.guard.TryLock() {
		return nil, ErrJobRunning
	}

	// The shutdown check and wg.Add share one critical section with
	// Shutdown, so Wait never races an Add.
	r.mu.Lock()
	if r.shutdown {
		r.mu.Unlock()
		r.guard.Unlock()
		return nil, ErrRunnerClosed
	}
	r.wg.Add(1)
	r.mu.Unlock()

	job := r.newJob(trigger)
	r.setCurrent(job)
	r.save(r.ctx, job)
	handle := r.snapshot(job)

	go func() {
		defer r.wg.Done()
		defer r.guard.Unlock()

		ctx, cancel := context.WithTimeout(r.ctx, r.cfg.RunTimeout)
		defer cancel()
		r.execute(ctx, job)
	}()

	return handle, nil
}

// Run executes a run synchronously and returns the finished job. The
// returned error is the run's failure, if any.
func (r *Runner) Run(ctx context.Context, trigger Trigger) (*Job, error) {
	if !r.guard.TryLock() {
		return nil, ErrJobRunning
	}
	defer r.guard.Unlock()

	job := r.newJob(trigger)
	r.setCurrent(job)
	r.save(ctx, job)

	err := r.execute(ctx, job)
	return r.snapshot(job), err
}

// Job returns the job with id.
func (r *Runner) Job(ctx context.Context, id string) (*Job, error) {
	if cur := r.Current(); cur != nil && cur.ID == id {
		return cur, nil
	}
	return r.store.Get(ctx, id)
}

// Jobs returns recent jobs, newest first.
func (r *Runner) Jobs(ctx context.Context, limit int) ([]*Job, error) {
	if limit <= 0 {
		limit = r.cfg.HistoryLimit
	}
	return r.store.List(ctx, limit)
}

// Current returns the most recently started job, or nil.
func (r *Runner) Current() *Job {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current.Clone()
}

// IsRunning reports whether a run is in progress.
func (r *Runner) IsRunning() bool {
	cur := r.Current()
	return cur != nil && !cur.Status.Done()
}

// Wait blocks until background runs finish or ctx is done.
func (r *Runner) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown cancels background runs and waits for them to return.
func (r *Runner) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	r.shutdown = true
	r.mu.Unlock()

	r.cancel()
	return r.Wait(ctx)
}

func (r *Runner) newJob(trigger Trigger) *Job {
	return &Job{
		ID:        uuid.New().String(),
		Trigger:   trigger,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}
}

// execute runs the executor under the distributed lock and records the
// outcome on job. The caller holds the guard.
func (r *Runner) execute(ctx context.Context, job *Job) (err error) {
	logger := r.logger.With().Str("job_id", job.ID).Str("trigger", string(job.Trigger)).Logger()

	r.update(job, func(j *Job) {
		j.Status = StatusRunning
		j.StartedAt = time.Now().UTC()
	})
	r.save(ctx, job)
	metrics.SetRunning(true)
	logger.Info().Msg("recommendation run started")

	var summary *Summary
	defer func() {
		if p := recover(); p != nil {
			logger.Error().Interface("panic", p).Bytes("stack", debug.Stack()).Msg("recommendation run panicked")
			err = fmt.Errorf("recommendation run panicked: %v", p)
		}
		r.finish(job, summary, err, logger)
	}()

	if r.locker != nil {
		release, lerr := r.locker.Acquire(ctx)
		if lerr != nil {
			if errors.Is(lerr, ErrLockHeld) {
				return ErrJobRunning
			}
			return fmt.Errorf("acquire job lock: %w", lerr)
		}
		defer func() {
			// Release must outlive a cancelled run context.
			rctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if rerr := release(rctx); rerr != nil {
				logger.Warn().Err(rerr).Msg("failed to release job lock")
			}
		}()
	}

	summary, err = r.exec.Run(ctx)
	return err
}

func (r *Runner) finish(job *Job, summary *Summary, err error, logger zerolog.Logger) {
	r.update(job, func(j *Job) {
		j.FinishedAt = time.Now().UTC()
		j.Summary = summary
		if err != nil {
			j.Status = StatusFailed
			j.Error = err.Error()
			return
		}
		j.Status = StatusSucceeded
	})
	metrics.SetRunning(false)

	final := r.snapshot(job)
	metrics.RecordRun(string(final.Trigger), string(final.Status), final.Duration())

	switch {
	case err == nil:
		logger.Info().Dur("elapsed", final.Duration()).Msg("recommendation run succeeded")
	case errors.Is(err, recommend.ErrInsufficientData):
		logger.Warn().Err(err).Msg("recommendation run skipped: not enough data")
	default:
		logger.Error().Err(err).Dur("elapsed", final.Duration()).Msg("recommendation run failed")
	}

	// Detached so a timed out run still records its terminal status.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	r.save(ctx, final)
	for _, o := range r.observers {
		o.JobFinished(ctx, final.Clone())
	}
}

func (r *Runner) setCurrent(job *Job) {
	r.mu.Lock()
	r.current = job
	r.mu.Unlock()
}

func (r *Runner) update(job *Job, fn func(*Job)) {
	r.mu.Lock()
	fn(job)
	r.mu.Unlock()
}

func (r *Runner) snapshot(job *Job) *Job {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return job.Clone()
}

// save persists a snapshot. Store failures never fail a run.
func (r *Runner) save(ctx context.Context, job *Job) {
	if err := r.store.Save(ctx, r.snapshot(job)); err != nil {
		r.logger.Warn().Err(err).Str("job_id", job.ID).Msg("failed to save job")
	}
}
