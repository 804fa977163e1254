// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package ranking

import (
	"context"
	"sort"

	"github.com/tomtom215/folio/internal/recommend"
	"github.com/tomtom215/folio/internal/recommend/algorithms"
)

// WorkSimilarity is the content model view used by the hybrid ranker.
type WorkSimilarity interface {
	Contains(work int64) bool
	NearestWorks(work int64, k int) []recommend.Neighbor
}

// RatingPredictor is the collaborative model view used by the hybrid ranker.
type RatingPredictor interface {
	Predict(user, work int64) algorithms.Prediction
}

// HybridStats counts how collaborative scores were obtained during a Rank call.
type HybridStats struct {
	Users       int
	Found       int
	Fallback    int
	Unavailable int
}

// Record adds one prediction to the counters.
func (s *HybridStats) Record(p algorithms.Prediction) {
	switch p.Kind {
	case algorithms.PredictionFound:
		s.Found++
	case algorithms.PredictionFallback:
		s.Fallback++
	default:
		s.Unavailable++
	}
}

// HybridRanker blends content and collaborative scores into per-user
// work recommendations.
type HybridRanker struct {
	cfg       *recommend.Config
	content   WorkSimilarity
	predictor RatingPredictor
}

// NewHybridRanker creates a ranker over fitted models.
func NewHybridRanker(cfg *recommend.Config, content WorkSimilarity, predictor RatingPredictor) *HybridRanker {
	return &HybridRanker{cfg: cfg, content: content, predictor: predictor}
}

// Rank returns the recommendations of every user in ds, users ascending and
// each user's rows ordered by score.
func (h *HybridRanker) Rank(ctx context.Context, ds *recommend.Dataset) ([]recommend.WorkRecommendation, HybridStats, error) {
	var stats HybridStats
	var out []recommend.WorkRecommendation

	for _, user := range ds.UserIDs() {
		if algorithms.ContextCancelled(ctx) {
			return nil, stats, ctx.Err()
		}
		out = append(out, h.RankUser(ds, user, &stats)...)
		stats.Users++
	}
	return out, stats, nil
}

// RankUser returns at most TopWorks recommendations for user. Works the user
// rated are never included. stats may be nil.
func (h *HybridRanker) RankUser(ds *recommend.Dataset, user int64, stats *HybridStats) []recommend.WorkRecommendation {
	if stats == nil {
		stats = &HybridStats{}
	}

	content := h.contentScores(ds, user)

	collaborative := make(map[int64]float64)
	for _, work := range ds.WorkIDs() {
		if ds.HasRated(user, work) {
			continue
		}
		p := h.predictor.Predict(user, work)
		stats.Record(p)
		if !p.Usable() {
			continue
		}
		collaborative[work] = p.Estimate
	}

	hybrid := make(map[int64]float64, len(collaborative)+len(content))
	for work, score := range content {
		hybrid[work] += score * h.cfg.ContentWeight
	}
	for work, score := range collaborative {
		hybrid[work] += score * h.cfg.CollaborativeWeight
	}

	for _, r := range ds.RatingsOf(user) {
		delete(hybrid, r.WorkID)
	}

	ranked := make([]recommend.WorkRecommendation, 0, len(hybrid))
	for work, score := range hybrid {
		ranked = append(ranked, recommend.WorkRecommendation{UserID: user, WorkID: work, Score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].WorkID < ranked[j].WorkID
	})

	return recommend.TopN(ranked, h.cfg.TopWorks)
}

// contentScores accumulates the similarity of each seed's nearest works.
func (h *HybridRanker) contentScores(ds *recommend.Dataset, user int64) map[int64]float64 {
	scores := make(map[int64]float64)
	k := h.cfg.SimilarWorksPerSeed
	if k <= 0 {
		return scores
	}

	for _, r := range ds.RatingsOf(user) {
		if r.Value < h.cfg.HighRatingThreshold || !h.content.Contains(r.WorkID) {
			continue
		}

		// One extra entry covers the seed's own position in the column.
		nearest := h.content.NearestWorks(r.WorkID, k+1)
		nearest = recommend.ExcludeSelf(nearest, r.WorkID, h.cfg.SelfExclusion)
		for _, n := range recommend.TopN(nearest, k) {
			scores[n.ID] += n.Similarity
		}
	}
	return scores
}
