// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/folio/internal/config"
	"github.com/tomtom215/folio/internal/joblock"
	"github.com/tomtom215/folio/internal/jobstore"
	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/recommend/pipeline"
)

const jobStoreGCInterval = 10 * time.Minute

// initJobStore opens the configured job history store.
func initJobStore(ctx context.Context, cfg *config.Config) (pipeline.JobStore, func(), error) {
	if cfg.Jobs.Store != "badger" {
		return pipeline.NewMemoryStore(cfg.Jobs.HistoryLimit), func() {}, nil
	}

	store, err := jobstore.Open(jobstore.Options{
		Path:      cfg.Jobs.Path,
		Retention: cfg.Jobs.Retention,
	}, logging.WithComponent("jobstore"))
	if err != nil {
		return nil, nil, fmt.Errorf("open job store: %w", err)
	}
	store.StartGCRoutine(ctx, jobStoreGCInterval)
	logging.Info().Str("path", cfg.Jobs.Path).Dur("retention", cfg.Jobs.Retention).Msg("Badger job store opened")

	return store, func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing job store")
		}
	}, nil
}

// initLocker connects the Redis run lock when enabled. It returns a nil
// Locker otherwise.
func initLocker(ctx context.Context, cfg *config.Config) (pipeline.Locker, func(), error) {
	if !cfg.Redis.Enabled {
		return nil, func() {}, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := joblock.Connect(connectCtx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	locker := joblock.New(client, joblock.Options{
		Key: cfg.Redis.LockKey,
		TTL: cfg.Redis.LockTTL,
	}, logging.WithComponent("joblock"))
	logging.Info().Str("addr", cfg.Redis.Addr).Str("key", cfg.Redis.LockKey).Msg("Redis run lock enabled")

	return locker, func() {
		if err := client.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing redis client")
		}
	}, nil
}
