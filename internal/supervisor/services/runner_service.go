// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package services

import (
	"context"
	"fmt"
	"time"
)

// Drainer stops accepting jobs and waits for the running one.
type Drainer interface {
	Shutdown(ctx context.Context) error
}

// RunnerService holds the job runner open for the life of the tree and
// drains it on shutdown, so an in-flight run is canceled and its job
// recorded as failed before the process exits.
type RunnerService struct {
	runner  Drainer
	timeout time.Duration
}

// NewRunnerService wraps runner. timeout bounds the drain.
func NewRunnerService(runner Drainer, timeout time.Duration) *RunnerService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RunnerService{runner: runner, timeout: timeout}
}

// Serve implements suture.Service.
func (s *RunnerService) Serve(ctx context.Context) error {
	<-ctx.Done()

	drainCtx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.runner.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("runner drain failed: %w", err)
	}
	return ctx.Err()
}

func (s *RunnerService) String() string {
	return "recommend-runner"
}
