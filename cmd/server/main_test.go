// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package main

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/folio/internal/config"
	"github.com/tomtom215/folio/internal/jobstore"
	"github.com/tomtom215/folio/internal/recommend/pipeline"
)

func TestInitJobStore(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tests := []struct {
		name      string
		jobs      config.JobsConfig
		wantBadge bool
	}{
		{name: "memory", jobs: config.JobsConfig{Store: "memory", HistoryLimit: 5}},
		{name: "badger in memory", jobs: config.JobsConfig{Store: "badger", HistoryLimit: 5, Retention: time.Hour}, wantBadge: true},
		{name: "badger on disk", jobs: config.JobsConfig{Store: "badger", Path: t.TempDir(), HistoryLimit: 5}, wantBadge: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, closeFn, err := initJobStore(ctx, &config.Config{Jobs: tt.jobs})
			if err != nil {
				t.Fatalf("initJobStore() error = %v", err)
			}
			defer closeFn()

			_, isBadger := store.(*jobstore.BadgerStore)
			if isBadger != tt.wantBadge {
				t.Errorf("store type = %T", store)
			}
			if err := store.Save(ctx, &pipeline.Job{ID: "j1", Status: pipeline.StatusSucceeded, CreatedAt: time.Now()}); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			if _, err := store.Get(ctx, "j1"); err != nil {
				t.Errorf("Get() error = %v", err)
			}
		})
	}
}

func TestInitLocker_Disabled(t *testing.T) {
	locker, closeFn, err := initLocker(context.Background(), &config.Config{})
	if err != nil {
		t.Fatalf("initLocker() error = %v", err)
	}
	defer closeFn()
	if locker != nil {
		t.Errorf("locker = %T, want nil when redis is disabled", locker)
	}
}

func TestInitNATS_Disabled(t *testing.T) {
	bus, err := initNATS(&config.Config{})
	if err != nil || bus != nil {
		t.Errorf("initNATS() = %v, %v; want nil, nil", bus, err)
	}
}

func TestNewRouter_AdminClosedWithoutSecret(t *testing.T) {
	cfg := &config.Config{Security: config.SecurityConfig{AdminRole: "admin", RateLimitReqs: 10, RateLimitWindow: time.Minute, TriggerLimitReqs: 1}}
	if newRouter(cfg, nil, nil).Setup() == nil {
		t.Fatal("Setup() = nil")
	}
}
