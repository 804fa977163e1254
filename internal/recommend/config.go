// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package recommend

import (
	"fmt"
	"time"
)

// Config contains the tunables of a recommendation run.
// The defaults reproduce the production behavior and should only be
// changed together with a re-baseline of downstream expectations.
type Config struct {
	// HighRatingThreshold is the minimum rating that makes a work a seed
	// for content similarity and for interest inference.
	// Default: 4.0.
	HighRatingThreshold float64 `json:"high_rating_threshold"`

	// SimilarWorksPerSeed is how many similar works each seed contributes
	// to the content score.
	// Default: 20.
	SimilarWorksPerSeed int `json:"similar_works_per_seed"`

	// TopWorks is the number of work recommendations kept per user.
	// Default: 20.
	TopWorks int `json:"top_works"`

	// TopUsers is the number of similar users kept per user.
	// Default: 10.
	TopUsers int `json:"top_users"`

	// TopInterests is the number of interest genres kept per user.
	// Default: 3.
	TopInterests int `json:"top_interests"`

	// ContentWeight multiplies the accumulated content similarity.
	// Default: 0.5.
	ContentWeight float64 `json:"content_weight"`

	// CollaborativeWeight multiplies the predicted rating.
	// Default: 1.0.
	CollaborativeWeight float64 `json:"collaborative_weight"`

	// SelfExclusion controls how a seed work or a user is removed from
	// its own neighbor list.
	// Default: position.
	SelfExclusion SelfExclusion `json:"self_exclusion"`

	// KNN configures the collaborative predictor.
	KNN KNNConfig `json:"knn"`

	// RunTimeout bounds a single background run.
	// Default: 30m.
	RunTimeout time.Duration `json:"run_timeout"`
}

// KNNConfig configures the user-based KNN predictor.
type KNNConfig struct {
	// K is the maximum number of neighbors used per estimate.
	// Default: 40.
	K int `json:"k"`

	// MinK is the minimum number of positively similar neighbors
	// required for a neighborhood estimate. Below it the global mean is used.
	// Default: 1.
	MinK int `json:"min_k"`

	// MinSupport is the minimum number of co-rated works for two users
	// to have non-zero similarity.
	// Default: 1.
	MinSupport int `json:"min_support"`

	// RatingMin and RatingMax bound every estimate.
	// Default: 0.5 and 5.0.
	RatingMin float64 `json:"rating_min"`
	RatingMax float64 `json:"rating_max"`
}

// DefaultConfig returns the production configuration.
func DefaultConfig() *Config {
	return &Config{
		HighRatingThreshold: 4.0,
		SimilarWorksPerSeed: 20,
		TopWorks:            20,
		TopUsers:            10,
		TopInterests:        3,
		ContentWeight:       0.5,
		CollaborativeWeight: 1.0,
		SelfExclusion:       SelfExclusionPosition,
		KNN:                 DefaultKNNConfig(),
		RunTimeout:          30 * time.Minute,
	}
}

// DefaultKNNConfig returns the production KNN settings.
func DefaultKNNConfig() KNNConfig {
	return KNNConfig{
		K:          40,
		MinK:       1,
		MinSupport: 1,
		RatingMin:  0.5,
		RatingMax:  5.0,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.HighRatingThreshold < 0 {
		return fmt.Errorf("high_rating_threshold must be non-negative, got %f", c.HighRatingThreshold)
	}
	if c.SimilarWorksPerSeed < 0 {
		return fmt.Errorf("similar_works_per_seed must be non-negative, got %d", c.SimilarWorksPerSeed)
	}
	if c.TopWorks <= 0 {
		return fmt.Errorf("top_works must be positive, got %d", c.TopWorks)
	}
	if c.TopUsers <= 0 {
		return fmt.Errorf("top_users must be positive, got %d", c.TopUsers)
	}
	if c.TopInterests <= 0 {
		return fmt.Errorf("top_interests must be positive, got %d", c.TopInterests)
	}
	if c.ContentWeight < 0 || c.CollaborativeWeight < 0 {
		return fmt.Errorf("blend weights must be non-negative, got content=%f collaborative=%f",
			c.ContentWeight, c.CollaborativeWeight)
	}
	if !c.SelfExclusion.Valid() {
		return fmt.Errorf("self_exclusion must be %q or %q, got %q",
			SelfExclusionPosition, SelfExclusionIdentity, c.SelfExclusion)
	}
	if c.RunTimeout < 0 {
		return fmt.Errorf("run_timeout must be non-negative, got %v", c.RunTimeout)
	}
	return c.KNN.Validate()
}

// Validate checks the KNN configuration.
func (k KNNConfig) Validate() error {
	if k.K <= 0 {
		return fmt.Errorf("knn.k must be positive, got %d", k.K)
	}
	if k.MinK <= 0 || k.MinK > k.K {
		return fmt.Errorf("knn.min_k must be in [1, %d], got %d", k.K, k.MinK)
	}
	if k.MinSupport < 0 {
		return fmt.Errorf("knn.min_support must be non-negative, got %d", k.MinSupport)
	}
	if k.RatingMin >= k.RatingMax {
		return fmt.Errorf("knn rating scale is empty: [%f, %f]", k.RatingMin, k.RatingMax)
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
