// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/folio/internal/metrics"
	"github.com/tomtom215/folio/internal/recommend"
	"github.com/tomtom215/folio/internal/recommend/algorithms"
	"github.com/tomtom215/folio/internal/recommend/ranking"
)

// Summary describes a finished run.
type Summary struct {
	Ratings int `json:"ratings"`
	Users   int `json:"users"`
	Works   int `json:"works"`

	WorkRecommendations int `json:"work_recommendations"`
	UserRecommendations int `json:"user_recommendations"`
	Interests           int `json:"interests"`

	PredictionsFound       int `json:"predictions_found"`
	PredictionsFallback    int `json:"predictions_fallback"`
	PredictionsUnavailable int `json:"predictions_unavailable"`
	DroppedInterestLabels  int `json:"dropped_interest_labels"`

	DurationMS int64 `json:"duration_ms"`
}

// Engine computes and persists one recommendation run. It holds no model
// state between runs; every call to Run builds its models from scratch.
type Engine struct {
	cfg      *recommend.Config
	provider recommend.DataProvider
	writer   recommend.ResultWriter
	logger   zerolog.Logger
	workers  int
}

// NewEngine creates an engine. workers bounds the goroutines used by the
// pairwise similarity stages; zero means one per CPU.
func NewEngine(cfg *recommend.Config, provider recommend.DataProvider, writer recommend.ResultWriter, logger zerolog.Logger, workers int) (*Engine, error) {
	if cfg == nil {
		cfg = recommend.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if provider == nil {
		return nil, errors.New("data provider is required")
	}
	if writer == nil {
		return nil, errors.New("result writer is required")
	}

	return &Engine{
		cfg:      cfg.Clone(),
		provider: provider,
		writer:   writer,
		logger:   logger.With().Str("component", "recommend").Logger(),
		workers:  workers,
	}, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *recommend.Config {
	return e.cfg.Clone()
}

// Run loads the input relations, computes all three output relations and
// replaces them in a single transaction. On any error nothing is written.
func (e *Engine) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()

	result, summary, err := e.Compute(ctx)
	if err != nil {
		return summary, err
	}

	err = e.stage("persist", func() error {
		return e.writer.ReplaceRecommendations(ctx, result)
	})
	if err != nil {
		return summary, fmt.Errorf("persist recommendations: %w", err)
	}

	summary.DurationMS = time.Since(start).Milliseconds()
	metrics.RecordRowsWritten(summary.WorkRecommendations, summary.UserRecommendations, summary.Interests)

	e.logger.Info().
		Int("work_recommendations", summary.WorkRecommendations).
		Int("user_recommendations", summary.UserRecommendations).
		Int("interests", summary.Interests).
		Int64("duration_ms", summary.DurationMS).
		Msg("saved recommendation results")

	return summary, nil
}

// Compute runs every stage except persistence and returns the rows that
// Run would write.
func (e *Engine) Compute(ctx context.Context) (*recommend.Result, *Summary, error) {
	summary := &Summary{}

	var ds *recommend.Dataset
	err := e.stage("load", func() error {
		var err error
		ds, err = recommend.Load(ctx, e.provider, e.logger)
		return err
	})
	if err != nil {
		return nil, summary, err
	}
	summary.Ratings = len(ds.Ratings())
	summary.Users = len(ds.UserIDs())
	summary.Works = len(ds.WorkIDs())

	content := algorithms.NewContentSimilarity(e.workers)
	knn := algorithms.NewUserKNN(e.cfg.KNN, e.workers)
	users := ranking.NewUserSimilarityRanker(e.cfg, e.workers)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return e.stage("content_fit", func() error { return content.Fit(gctx, ds) })
	})
	g.Go(func() error {
		return e.stage("knn_fit", func() error { return knn.Fit(gctx, ds) })
	})
	g.Go(func() error {
		return e.stage("user_similarity_fit", func() error { return users.Fit(gctx, ds) })
	})
	if err := g.Wait(); err != nil {
		return nil, summary, fmt.Errorf("fit models: %w", err)
	}
	e.logger.Info().
		Int("works", len(content.WorkIDs())).
		Int("terms", len(content.Vocabulary())).
		Float64("global_mean", knn.GlobalMean()).
		Msg("fitted recommendation models")

	result := &recommend.Result{}

	var hybridStats ranking.HybridStats
	err = e.stage("hybrid_rank", func() error {
		var err error
		result.WorkRecommendations, hybridStats, err = ranking.NewHybridRanker(e.cfg, content, knn).Rank(ctx, ds)
		return err
	})
	if err != nil {
		return nil, summary, fmt.Errorf("rank works: %w", err)
	}
	summary.PredictionsFound = hybridStats.Found
	summary.PredictionsFallback = hybridStats.Fallback
	summary.PredictionsUnavailable = hybridStats.Unavailable
	metrics.RecordPredictions(hybridStats.Found, hybridStats.Fallback, hybridStats.Unavailable)

	err = e.stage("user_rank", func() error {
		var err error
		result.UserRecommendations, err = users.Rank(ctx)
		return err
	})
	if err != nil {
		return nil, summary, fmt.Errorf("rank users: %w", err)
	}

	var interestStats ranking.InterestStats
	err = e.stage("interests", func() error {
		var err error
		result.Interests, interestStats, err = ranking.NewInterestInferencer(e.cfg).Infer(ctx, ds)
		return err
	})
	if err != nil {
		return nil, summary, fmt.Errorf("infer interests: %w", err)
	}
	summary.DroppedInterestLabels = interestStats.DroppedLabels
	if interestStats.DroppedLabels > 0 {
		metrics.RecommendInterestLabelsDropped.Add(float64(interestStats.DroppedLabels))
		e.logger.Debug().Int("dropped", interestStats.DroppedLabels).Msg("interest labels missing from genre catalog")
	}

	summary.WorkRecommendations, summary.UserRecommendations, summary.Interests = result.Counts()

	e.logger.Info().
		Int("users", summary.Users).
		Int("work_recommendations", summary.WorkRecommendations).
		Int("predictions_fallback", summary.PredictionsFallback).
		Int("user_recommendations", summary.UserRecommendations).
		Int("interests", summary.Interests).
		Msg("computed recommendations")

	return result, summary, nil
}

// stage times fn and records it under name.
func (e *Engine) stage(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)

	metrics.RecordStage(name, elapsed)
	e.logger.Debug().Str("stage", name).Dur("elapsed", elapsed).Err(err).Msg("stage finished")
	return err
}
