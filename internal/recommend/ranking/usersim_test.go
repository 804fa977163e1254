// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package ranking

import (
	"context"
	"math"
	"testing"

	"github.com/tomtom215/folio/internal/recommend"
)

func rankUsers(t *testing.T, cfg *recommend.Config, ratings []recommend.Rating) map[int64][]recommend.UserRecommendation {
	t.Helper()
	ds := recommend.NewDataset(ratings, nil, nil)
	r := NewUserSimilarityRanker(cfg, 2)
	if err := r.Fit(context.Background(), ds); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	recs, err := r.Rank(context.Background())
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}

	byUser := make(map[int64][]recommend.UserRecommendation)
	for _, rec := range recs {
		byUser[rec.UserID] = append(byUser[rec.UserID], rec)
	}
	return byUser
}

func TestUserSimilarityRanker_Scenario(t *testing.T) {
	byUser := rankUsers(t, recommend.DefaultConfig(), []recommend.Rating{
		{UserID: 1, WorkID: 10, Value: 5.0},
		{UserID: 1, WorkID: 11, Value: 3.0},
		{UserID: 2, WorkID: 10, Value: 4.5},
		{UserID: 2, WorkID: 12, Value: 2.0},
	})

	// Dense vectors over works 10, 11, 12: [5 3 0] and [4.5 0 2].
	want := (5 * 4.5) / (math.Sqrt(34) * math.Sqrt(24.25))
	for _, user := range []int64{1, 2} {
		recs := byUser[user]
		if len(recs) != 1 {
			t.Fatalf("user %d: %d recommendations, want 1", user, len(recs))
		}
		if recs[0].TargetID == user {
			t.Errorf("user %d recommended to themself", user)
		}
		if math.Abs(recs[0].Score-want) > 1e-9 {
			t.Errorf("user %d score = %f, want %f", user, recs[0].Score, want)
		}
	}
}

func TestUserSimilarityRanker_AtMostTopUsers(t *testing.T) {
	var ratings []recommend.Rating
	for u := int64(1); u <= 15; u++ {
		for w := int64(1); w <= 6; w++ {
			ratings = append(ratings, recommend.Rating{UserID: u, WorkID: w + u%3, Value: float64((u*w)%5) + 0.5})
		}
	}

	byUser := rankUsers(t, recommend.DefaultConfig(), ratings)
	for user, recs := range byUser {
		if len(recs) > 10 {
			t.Errorf("user %d has %d similar users, want <= 10", user, len(recs))
		}
		for i := 1; i < len(recs); i++ {
			if recs[i].Score > recs[i-1].Score {
				t.Errorf("user %d not sorted by score at %d", user, i)
			}
		}
	}
}

func TestUserSimilarityRanker_SelfExclusion(t *testing.T) {
	// Users 3 and 5 have identical vectors, so each ties with the other's
	// self-similarity.
	ratings := []recommend.Rating{
		{UserID: 3, WorkID: 1, Value: 4}, {UserID: 3, WorkID: 2, Value: 2},
		{UserID: 5, WorkID: 1, Value: 4}, {UserID: 5, WorkID: 2, Value: 2},
		{UserID: 7, WorkID: 1, Value: 1}, {UserID: 7, WorkID: 3, Value: 5},
	}

	targets := func(recs []recommend.UserRecommendation) []int64 {
		ids := make([]int64, len(recs))
		for i, r := range recs {
			ids[i] = r.TargetID
		}
		return ids
	}

	t.Run("unique maximum never returns self", func(t *testing.T) {
		byUser := rankUsers(t, recommend.DefaultConfig(), ratings)
		for _, rec := range byUser[7] {
			if rec.TargetID == 7 {
				t.Error("user 7 recommended to themself")
			}
		}
	})

	t.Run("position mode keeps self under a tie", func(t *testing.T) {
		byUser := rankUsers(t, recommend.DefaultConfig(), ratings)
		got := targets(byUser[5])
		if len(got) != 2 || got[0] != 5 || got[1] != 7 {
			t.Errorf("user 5 targets = %v, want [5 7]", got)
		}
		got = targets(byUser[3])
		if len(got) != 2 || got[0] != 5 || got[1] != 7 {
			t.Errorf("user 3 targets = %v, want [5 7]", got)
		}
	})

	t.Run("identity mode drops self", func(t *testing.T) {
		cfg := recommend.DefaultConfig()
		cfg.SelfExclusion = recommend.SelfExclusionIdentity
		byUser := rankUsers(t, cfg, ratings)
		got := targets(byUser[5])
		if len(got) != 2 || got[0] != 3 || got[1] != 7 {
			t.Errorf("user 5 targets = %v, want [3 7]", got)
		}
	})
}

func TestUserSimilarityRanker_Symmetric(t *testing.T) {
	ds := recommend.NewDataset([]recommend.Rating{
		{UserID: 1, WorkID: 1, Value: 4}, {UserID: 1, WorkID: 2, Value: 3.5},
		{UserID: 2, WorkID: 2, Value: 1}, {UserID: 2, WorkID: 3, Value: 5},
		{UserID: 3, WorkID: 1, Value: 0.5}, {UserID: 3, WorkID: 3, Value: 2},
	}, nil, nil)

	r := NewUserSimilarityRanker(recommend.DefaultConfig(), 1)
	if err := r.Fit(context.Background(), ds); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if r.Similarity(i, j) != r.Similarity(j, i) {
				t.Errorf("Similarity(%d, %d) not symmetric", i, j)
			}
		}
	}
}
