// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/folio/internal/recommend/pipeline"
)

// JobStarter starts a background recommendation job.
type JobStarter interface {
	Start(trigger pipeline.Trigger) (*pipeline.Job, error)
}

// SchedulerConfig holds scheduling settings.
type SchedulerConfig struct {
	// Interval between scheduled runs. Zero disables the ticker.
	Interval time.Duration

	// RunOnStartup starts one run as soon as the service starts.
	RunOnStartup bool
}

// SchedulerService starts recommendation jobs on a fixed interval. A tick
// that lands while a job is running is skipped.
type SchedulerService struct {
	starter JobStarter
	config  SchedulerConfig
	logger  zerolog.Logger
}

// NewSchedulerService creates the scheduler.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSchedulerService(starter JobStarter, cfg SchedulerConfig, logger zerolog.Logger) *SchedulerService {
	return &SchedulerService{
		starter: starter,
		config:  cfg,
		logger:  logger.With().Str("service", "recommend-scheduler").Logger(),
	}
}

// Serve implements suture.Service.
func (s *SchedulerService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("run_on_startup", s.config.RunOnStartup).
		Dur("interval", s.config.Interval).
		Msg("recommendation scheduler starting")

	if s.config.RunOnStartup {
		s.start()
	}
	if s.config.Interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("recommendation scheduler stopping")
			return ctx.Err()
		case <-ticker.C:
			s.start()
		}
	}
}

func (s *SchedulerService) start() {
	job, err := s.starter.Start(pipeline.TriggerSchedule)
	switch {
	case errors.Is(err, pipeline.ErrJobRunning):
		s.logger.Info().Msg("scheduled run skipped: job already running")
	case err != nil:
		s.logger.Warn().Err(err).Msg("scheduled run not started")
	default:
		s.logger.Info().Str("job_id", job.ID).Msg("scheduled run started")
	}
}

func (s *SchedulerService) String() string {
	return "recommend-scheduler"
}
