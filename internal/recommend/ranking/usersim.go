// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package ranking

import (
	"context"

	"github.com/tomtom215/folio/internal/recommend"
	"github.com/tomtom215/folio/internal/recommend/algorithms"
)

// UserSimilarityRanker ranks users by the cosine similarity of their dense
// rating vectors.
type UserSimilarityRanker struct {
	cfg     *recommend.Config
	workers int

	users  []int64
	matrix []float64 // len(users)^2, row-major
}

// NewUserSimilarityRanker creates a ranker. workers bounds the goroutines used
// for the pairwise matrix; zero means one per CPU.
func NewUserSimilarityRanker(cfg *recommend.Config, workers int) *UserSimilarityRanker {
	return &UserSimilarityRanker{cfg: cfg, workers: workers}
}

// Fit builds the user-by-work matrix over the rated works of ds and the
// pairwise user similarity.
func (r *UserSimilarityRanker) Fit(ctx context.Context, ds *recommend.Dataset) error {
	users := ds.UserIDs()
	works := ds.RatedWorkIDs()

	column := make(map[int64]int, len(works))
	for i, w := range works {
		column[w] = i
	}

	vectors := make([][]float64, len(users))
	for i, u := range users {
		vectors[i] = make([]float64, len(works))
		for _, rating := range ds.RatingsOf(u) {
			vectors[i][column[rating.WorkID]] = rating.Value
		}
	}

	n := len(users)
	matrix := make([]float64, n*n)
	err := algorithms.ParallelRows(ctx, n, r.workers, func(i int) {
		for j := i; j < n; j++ {
			matrix[i*n+j] = algorithms.CosineSimilarity(vectors[i], vectors[j])
		}
	})
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			matrix[j*n+i] = matrix[i*n+j]
		}
	}

	r.users = users
	r.matrix = matrix
	return nil
}

// Similarity returns the fitted similarity of two users by matrix position.
func (r *UserSimilarityRanker) Similarity(i, j int) float64 {
	return r.matrix[i*len(r.users)+j]
}

// Rank returns at most TopUsers similar users for every fitted user.
//
// Each user's column, self included, is sorted by similarity descending and
// then by user ID. In position mode the first entry is skipped whatever its
// ID; in identity mode the user's own entry is removed.
func (r *UserSimilarityRanker) Rank(ctx context.Context) ([]recommend.UserRecommendation, error) {
	var out []recommend.UserRecommendation
	n := len(r.users)

	for i, user := range r.users {
		if algorithms.ContextCancelled(ctx) {
			return nil, ctx.Err()
		}

		column := make([]recommend.Neighbor, n)
		for j, other := range r.users {
			column[j] = recommend.Neighbor{ID: other, Similarity: r.matrix[j*n+i]}
		}
		algorithms.SortNeighbors(column)
		column = recommend.ExcludeSelf(column, user, r.cfg.SelfExclusion)

		for _, nb := range recommend.TopN(column, r.cfg.TopUsers) {
			out = append(out, recommend.UserRecommendation{
				UserID:   user,
				TargetID: nb.ID,
				Score:    nb.Similarity,
			})
		}
	}
	return out, nil
}
