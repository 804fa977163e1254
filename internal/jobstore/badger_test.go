// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package jobstore

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/folio/internal/recommend/pipeline"
)

func createTestStore(t *testing.T, opts Options) *BadgerStore {
	t.Helper()
	s, err := Open(opts, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testJob(i int) *pipeline.Job {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &pipeline.Job{
		ID:        fmt.Sprintf("job-%02d", i),
		Trigger:   pipeline.TriggerManual,
		Status:    pipeline.StatusPending,
		CreatedAt: base.Add(time.Duration(i) * time.Minute),
	}
}

func TestBadgerStore_SaveGet(t *testing.T) {
	s := createTestStore(t, Options{})
	ctx := context.Background()

	job := testJob(1)
	if err := s.Save(ctx, job); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	job.Status = pipeline.StatusSucceeded
	job.Summary = &pipeline.Summary{Users: 2, WorkRecommendations: 2}
	if err := s.Save(ctx, job); err != nil {
		t.Fatalf("Save() update error = %v", err)
	}

	got, err := s.Get(ctx, job.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status != pipeline.StatusSucceeded {
		t.Errorf("Status = %s, want succeeded", got.Status)
	}
	if got.Summary == nil || got.Summary.WorkRecommendations != 2 {
		t.Errorf("Summary = %+v", got.Summary)
	}
	if !got.CreatedAt.Equal(job.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, job.CreatedAt)
	}

	n, err := s.Count()
	if err != nil || n != 1 {
		t.Errorf("Count() = %d, %v; want 1 after update", n, err)
	}

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, pipeline.ErrJobNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrJobNotFound", err)
	}
}

func TestBadgerStore_List(t *testing.T) {
	s := createTestStore(t, Options{})
	ctx := context.Background()

	for _, i := range []int{3, 1, 4, 2, 5} {
		if err := s.Save(ctx, testJob(i)); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	tests := []struct {
		limit int
		want  []string
	}{
		{limit: 0, want: []string{"job-05", "job-04", "job-03", "job-02", "job-01"}},
		{limit: 2, want: []string{"job-05", "job-04"}},
		{limit: 10, want: []string{"job-05", "job-04", "job-03", "job-02", "job-01"}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("limit_%d", tt.limit), func(t *testing.T) {
			jobs, err := s.List(ctx, tt.limit)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(jobs) != len(tt.want) {
				t.Fatalf("List() len = %d, want %d", len(jobs), len(tt.want))
			}
			for i, id := range tt.want {
				if jobs[i].ID != id {
					t.Errorf("jobs[%d].ID = %s, want %s", i, jobs[i].ID, id)
				}
			}
		})
	}
}

func TestBadgerStore_ListEmpty(t *testing.T) {
	s := createTestStore(t, Options{})
	jobs, err := s.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if jobs == nil || len(jobs) != 0 {
		t.Errorf("List() = %#v, want empty non-nil slice", jobs)
	}
}

func TestBadgerStore_Persistence(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(Options{Path: dir}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.Save(ctx, testJob(7)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened := createTestStore(t, Options{Path: dir})
	got, err := reopened.Get(ctx, "job-07")
	if err != nil {
		t.Fatalf("Get() after reopen error = %v", err)
	}
	if got.Trigger != pipeline.TriggerManual {
		t.Errorf("Trigger = %s, want manual", got.Trigger)
	}
}

func TestBadgerStore_WithRunner(t *testing.T) {
	s := createTestStore(t, Options{Retention: time.Hour})
	exec := executorFunc(func(context.Context) (*pipeline.Summary, error) {
		return &pipeline.Summary{Users: 1}, nil
	})
	r := pipeline.NewRunner(exec, pipeline.RunnerConfig{}, zerolog.Nop(), pipeline.WithJobStore(s))

	job, err := r.Run(context.Background(), pipeline.TriggerCLI)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	stored, err := s.Get(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if stored.Status != pipeline.StatusSucceeded || stored.Summary == nil {
		t.Errorf("stored job = %+v", stored)
	}
}

type executorFunc func(ctx context.Context) (*pipeline.Summary, error)

func (f executorFunc) Run(ctx context.Context) (*pipeline.Summary, error) { return f(ctx) }
