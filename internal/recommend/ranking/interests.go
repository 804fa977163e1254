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

// InterestStats counts the outcome of an Infer call.
type InterestStats struct {
	Users int
	// DroppedLabels counts top labels that had no genre catalog entry.
	DroppedLabels int
}

// InterestInferencer derives each user's most frequent genres among the
// works they rated highly.
type InterestInferencer struct {
	cfg *recommend.Config
}

// NewInterestInferencer creates an inferencer.
func NewInterestInferencer(cfg *recommend.Config) *InterestInferencer {
	return &InterestInferencer{cfg: cfg}
}

type labelCount struct {
	label string
	count int
}

// Infer returns at most TopInterests genres per user. Users without a rating
// at or above the threshold produce no rows.
func (i *InterestInferencer) Infer(ctx context.Context, ds *recommend.Dataset) ([]recommend.Interest, InterestStats, error) {
	var stats InterestStats
	var out []recommend.Interest

	for _, user := range ds.UserIDs() {
		if algorithms.ContextCancelled(ctx) {
			return nil, stats, ctx.Err()
		}

		labels := i.TopLabels(ds, user)
		if len(labels) == 0 {
			continue
		}
		stats.Users++

		added := make(map[int64]struct{}, len(labels))
		for _, label := range labels {
			id, ok := ds.LookupGenre(label)
			if !ok {
				stats.DroppedLabels++
				continue
			}
			if _, dup := added[id]; dup {
				continue
			}
			added[id] = struct{}{}
			out = append(out, recommend.Interest{UserID: user, GenreID: id})
		}
	}
	return out, stats, nil
}

// TopLabels returns the user's most frequent genre labels among highly rated
// works, by count descending and then label ascending.
func (i *InterestInferencer) TopLabels(ds *recommend.Dataset, user int64) []string {
	counts := make(map[string]int)
	for _, r := range ds.RatingsOf(user) {
		if r.Value < i.cfg.HighRatingThreshold {
			continue
		}
		for _, label := range ds.GenresOf(r.WorkID) {
			counts[label]++
		}
	}
	if len(counts) == 0 {
		return nil
	}

	ranked := make([]labelCount, 0, len(counts))
	for label, c := range counts {
		ranked = append(ranked, labelCount{label: label, count: c})
	}
	sort.Slice(ranked, func(a, b int) bool {
		if ranked[a].count != ranked[b].count {
			return ranked[a].count > ranked[b].count
		}
		return ranked[a].label < ranked[b].label
	})
	ranked = recommend.TopN(ranked, i.cfg.TopInterests)

	labels := make([]string, len(ranked))
	for idx, lc := range ranked {
		labels[idx] = lc.label
	}
	return labels
}
