// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package recommend

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("ranking constants match production", func(t *testing.T) {
		if cfg.HighRatingThreshold != 4.0 {
			t.Errorf("HighRatingThreshold = %f, want 4.0", cfg.HighRatingThreshold)
		}
		if cfg.SimilarWorksPerSeed != 20 {
			t.Errorf("SimilarWorksPerSeed = %d, want 20", cfg.SimilarWorksPerSeed)
		}
		if cfg.TopWorks != 20 {
			t.Errorf("TopWorks = %d, want 20", cfg.TopWorks)
		}
		if cfg.TopUsers != 10 {
			t.Errorf("TopUsers = %d, want 10", cfg.TopUsers)
		}
		if cfg.TopInterests != 3 {
			t.Errorf("TopInterests = %d, want 3", cfg.TopInterests)
		}
	})

	t.Run("blend weights", func(t *testing.T) {
		if cfg.ContentWeight != 0.5 {
			t.Errorf("ContentWeight = %f, want 0.5", cfg.ContentWeight)
		}
		if cfg.CollaborativeWeight != 1.0 {
			t.Errorf("CollaborativeWeight = %f, want 1.0", cfg.CollaborativeWeight)
		}
	})

	t.Run("knn defaults", func(t *testing.T) {
		if cfg.KNN.K != 40 || cfg.KNN.MinK != 1 {
			t.Errorf("KNN = %+v, want K=40 MinK=1", cfg.KNN)
		}
		if cfg.KNN.RatingMin != 0.5 || cfg.KNN.RatingMax != 5.0 {
			t.Errorf("KNN scale = [%f, %f], want [0.5, 5.0]", cfg.KNN.RatingMin, cfg.KNN.RatingMax)
		}
	})

	t.Run("positional self exclusion", func(t *testing.T) {
		if cfg.SelfExclusion != SelfExclusionPosition {
			t.Errorf("SelfExclusion = %q, want %q", cfg.SelfExclusion, SelfExclusionPosition)
		}
	})

	t.Run("default config is valid", func(t *testing.T) {
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantError bool
	}{
		{
			name:      "valid default config",
			modify:    func(c *Config) {},
			wantError: false,
		},
		{
			name:      "negative threshold",
			modify:    func(c *Config) { c.HighRatingThreshold = -1 },
			wantError: true,
		},
		{
			name:      "zero top works",
			modify:    func(c *Config) { c.TopWorks = 0 },
			wantError: true,
		},
		{
			name:      "zero top users",
			modify:    func(c *Config) { c.TopUsers = 0 },
			wantError: true,
		},
		{
			name:      "zero top interests",
			modify:    func(c *Config) { c.TopInterests = 0 },
			wantError: true,
		},
		{
			name:      "negative content weight",
			modify:    func(c *Config) { c.ContentWeight = -0.5 },
			wantError: true,
		},
		{
			name:      "unknown self exclusion",
			modify:    func(c *Config) { c.SelfExclusion = "skip" },
			wantError: true,
		},
		{
			name:      "identity self exclusion",
			modify:    func(c *Config) { c.SelfExclusion = SelfExclusionIdentity },
			wantError: false,
		},
		{
			name:      "min_k above k",
			modify:    func(c *Config) { c.KNN.MinK = 41 },
			wantError: true,
		},
		{
			name:      "empty rating scale",
			modify:    func(c *Config) { c.KNN.RatingMin = 5; c.KNN.RatingMax = 5 },
			wantError: true,
		},
		{
			name:      "negative run timeout",
			modify:    func(c *Config) { c.RunTimeout = -time.Second },
			wantError: true,
		},
		{
			name:      "zero similar works per seed disables content",
			modify:    func(c *Config) { c.SimilarWorksPerSeed = 0 },
			wantError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestConfig_Clone(t *testing.T) {
	original := DefaultConfig()
	clone := original.Clone()

	clone.TopWorks = 5
	clone.KNN.K = 3

	if original.TopWorks != 20 {
		t.Errorf("original TopWorks modified to %d", original.TopWorks)
	}
	if original.KNN.K != 40 {
		t.Errorf("original KNN.K modified to %d", original.KNN.K)
	}
}
