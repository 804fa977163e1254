// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package recommend

import (
	"context"
)

// Rating is a single user rating of a work.
type Rating struct {
	// UserID is the rating author.
	UserID int64 `json:"user_id"`

	// WorkID is the rated work.
	WorkID int64 `json:"work_id"`

	// Value is the rating on the 0.5-5.0 scale.
	Value float64 `json:"rating"`
}

// WorkGenre associates a work with one genre label.
type WorkGenre struct {
	WorkID int64  `json:"work_id"`
	Label  string `json:"label"`
}

// Genre is a genre catalog entry.
type Genre struct {
	ID    int64  `json:"genre_id"`
	Label string `json:"label"`
}

// WorkRecommendation is one row of recommend_work.
type WorkRecommendation struct {
	UserID int64   `json:"user_id"`
	WorkID int64   `json:"work_id"`
	Score  float64 `json:"score"`
}

// UserRecommendation is one row of recommend_user.
type UserRecommendation struct {
	UserID   int64   `json:"user_id"`
	TargetID int64   `json:"target_id"`
	Score    float64 `json:"score"`
}

// Interest is one row of user_interest.
type Interest struct {
	UserID  int64 `json:"user_id"`
	GenreID int64 `json:"genre_id"`
}

// Result is the complete output of one recommendation run.
// It replaces all three output relations as a unit.
type Result struct {
	WorkRecommendations []WorkRecommendation `json:"work_recommendations"`
	UserRecommendations []UserRecommendation `json:"user_recommendations"`
	Interests           []Interest           `json:"interests"`
}

// Counts summarizes a Result for logs and job summaries.
func (r *Result) Counts() (works, users, interests int) {
	if r == nil {
		return 0, 0, 0
	}
	return len(r.WorkRecommendations), len(r.UserRecommendations), len(r.Interests)
}

// DataProvider supplies the input relations of a run.
// Implementations must return rows in a stable order for a given database state.
type DataProvider interface {
	// LoadRatings returns every (user, work, rating) row.
	LoadRatings(ctx context.Context) ([]Rating, error)

	// LoadWorkGenres returns every (work, genre label) association.
	LoadWorkGenres(ctx context.Context) ([]WorkGenre, error)

	// LoadGenres returns the genre catalog.
	LoadGenres(ctx context.Context) ([]Genre, error)
}

// ResultWriter persists the output relations of a run.
type ResultWriter interface {
	// ReplaceRecommendations atomically swaps the previous output relations
	// for the rows in result. On error the previous rows remain in place.
	ReplaceRecommendations(ctx context.Context, result *Result) error
}

// SelfExclusion selects how a ranker removes an entity's similarity to itself
// from its own neighbor list.
type SelfExclusion string

const (
	// SelfExclusionPosition drops the first entry of the sorted neighbor list.
	// When another entity ties with the maximal self-similarity and sorts
	// first, that entity is dropped and the self entry is kept.
	SelfExclusionPosition SelfExclusion = "position"

	// SelfExclusionIdentity drops the entry whose ID equals the subject's ID.
	SelfExclusionIdentity SelfExclusion = "identity"
)

// Valid reports whether m is a known exclusion mode.
func (m SelfExclusion) Valid() bool {
	return m == SelfExclusionPosition || m == SelfExclusionIdentity
}

// Neighbor is an entity paired with its similarity to a subject.
type Neighbor struct {
	ID         int64
	Similarity float64
}

// ExcludeSelf removes the subject from a neighbor list sorted by similarity
// descending, using the given mode.
func ExcludeSelf(sorted []Neighbor, subject int64, mode SelfExclusion) []Neighbor {
	if mode == SelfExclusionIdentity {
		out := make([]Neighbor, 0, len(sorted))
		for _, n := range sorted {
			if n.ID != subject {
				out = append(out, n)
			}
		}
		return out
	}
	if len(sorted) == 0 {
		return sorted
	}
	return sorted[1:]
}

// TopN returns at most n leading entries of s.
func TopN[T any](s []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if len(s) > n {
		return s[:n]
	}
	return s
}
