// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package api

import (
	"context"
	"time"

	"github.com/tomtom215/folio/internal/database"
	"github.com/tomtom215/folio/internal/recommend"
	"github.com/tomtom215/folio/internal/recommend/pipeline"
)

// RecommendationStore reads the output relations.
type RecommendationStore interface {
	WorkRecommendations(ctx context.Context, userID int64, limit int) ([]recommend.WorkRecommendation, error)
	UserRecommendations(ctx context.Context, userID int64, limit int) ([]recommend.UserRecommendation, error)
	Interests(ctx context.Context, userID int64) ([]database.InterestGenre, error)
	OutputCounts(ctx context.Context) (map[string]int64, error)
	Ping(ctx context.Context) error
}

// JobRunner starts and reports recommendation jobs.
type JobRunner interface {
	Start(trigger pipeline.Trigger) (*pipeline.Job, error)
	Job(ctx context.Context, id string) (*pipeline.Job, error)
	Jobs(ctx context.Context, limit int) ([]*pipeline.Job, error)
	Current() *pipeline.Job
	IsRunning() bool
}

var (
	_ RecommendationStore = (*database.DB)(nil)
	_ JobRunner           = (*pipeline.Runner)(nil)
)

// Handler serves every API endpoint.
type Handler struct {
	store     RecommendationStore
	runner    JobRunner
	version   string
	startTime time.Time
}

// NewHandler creates a handler over store and runner.
func NewHandler(store RecommendationStore, runner JobRunner, version string) *Handler {
	return &Handler{
		store:     store,
		runner:    runner,
		version:   version,
		startTime: time.Now(),
	}
}
