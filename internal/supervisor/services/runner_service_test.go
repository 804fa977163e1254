// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/folio/internal/eventprocessor"
	"github.com/tomtom215/folio/internal/recommend/pipeline"
)

type blockingExecutor struct {
	started chan struct{}
}

func (e *blockingExecutor) Run(ctx context.Context) (*pipeline.Summary, error) {
	close(e.started)
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestRunnerService_DrainsRunningJob(t *testing.T) {
	exec := &blockingExecutor{started: make(chan struct{})}
	runner := pipeline.NewRunner(exec, pipeline.RunnerConfig{RunTimeout: time.Minute}, zerolog.Nop())

	job, err := runner.Start(pipeline.TriggerManual)
	if err != nil {
		t.Fatal(err)
	}
	<-exec.started

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- NewRunnerService(runner, 5*time.Second).Serve(ctx) }()
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runner was not drained")
	}

	got, err := runner.Job(context.Background(), job.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != pipeline.StatusFailed {
		t.Errorf("Status = %s, want failed after drain", got.Status)
	}
}

type stubConsumer struct {
	starter eventprocessor.JobStarter
	err     error
}

func (c *stubConsumer) ServeTriggers(_ context.Context, starter eventprocessor.JobStarter) error {
	c.starter = starter
	return c.err
}

func TestTriggerService(t *testing.T) {
	brokerErr := errors.New("nats: connection closed")
	consumer := &stubConsumer{err: brokerErr}
	starter := &stubStarter{}

	svc := NewTriggerService(consumer, starter)
	if err := svc.Serve(context.Background()); !errors.Is(err, brokerErr) {
		t.Errorf("Serve() error = %v, want broker error for restart", err)
	}
	if consumer.starter != starter {
		t.Error("starter not passed to consumer")
	}
}
