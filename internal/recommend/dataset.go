// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package recommend

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
)

// Dataset is the in-memory view of the input relations for one run.
// It is immutable after Load returns.
type Dataset struct {
	ratings    []Rating
	byUser     map[int64][]Rating
	seen       map[int64]map[int64]float64
	workGenres map[int64][]string
	genres     map[string]int64

	userIDs      []int64
	workIDs      []int64
	ratedWorkIDs []int64
}

// Load reads the input relations from provider and builds a Dataset.
// It returns ErrInsufficientData when there are no ratings or no
// work-genre associations.
func Load(ctx context.Context, provider DataProvider, logger zerolog.Logger) (*Dataset, error) {
	ratings, err := provider.LoadRatings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ratings: %w", err)
	}
	workGenres, err := provider.LoadWorkGenres(ctx)
	if err != nil {
		return nil, fmt.Errorf("load work genres: %w", err)
	}

	if len(ratings) == 0 || len(workGenres) == 0 {
		logger.Warn().
			Int("ratings", len(ratings)).
			Int("work_genres", len(workGenres)).
			Msg("not enough data to compute recommendations")
		return nil, fmt.Errorf("%w: ratings=%d work_genres=%d", ErrInsufficientData, len(ratings), len(workGenres))
	}

	genres, err := provider.LoadGenres(ctx)
	if err != nil {
		return nil, fmt.Errorf("load genres: %w", err)
	}

	ds := NewDataset(ratings, workGenres, genres)
	if dropped := len(ratings) - len(ds.ratings); dropped > 0 {
		logger.Warn().Int("duplicates", dropped).Msg("collapsed duplicate ratings, last row wins")
	}

	logger.Info().
		Int("ratings", len(ds.ratings)).
		Int("users", len(ds.userIDs)).
		Int("works", len(ds.workIDs)).
		Int("genres", len(ds.genres)).
		Msg("loaded recommendation input")

	return ds, nil
}

// NewDataset builds a Dataset from raw rows. Duplicate (user, work) ratings
// collapse to the last row. The work universe is the union of works that
// have genre associations and works that have ratings.
func NewDataset(ratings []Rating, workGenres []WorkGenre, genres []Genre) *Dataset {
	ds := &Dataset{
		byUser:     make(map[int64][]Rating),
		seen:       make(map[int64]map[int64]float64),
		workGenres: make(map[int64][]string),
		genres:     make(map[string]int64, len(genres)),
	}

	// Last row wins; keep the position of the first occurrence.
	index := make(map[[2]int64]int, len(ratings))
	for _, r := range ratings {
		key := [2]int64{r.UserID, r.WorkID}
		if i, ok := index[key]; ok {
			ds.ratings[i].Value = r.Value
			continue
		}
		index[key] = len(ds.ratings)
		ds.ratings = append(ds.ratings, r)
	}

	works := make(map[int64]struct{})
	rated := make(map[int64]struct{})
	for _, r := range ds.ratings {
		ds.byUser[r.UserID] = append(ds.byUser[r.UserID], r)
		if ds.seen[r.UserID] == nil {
			ds.seen[r.UserID] = make(map[int64]float64)
		}
		ds.seen[r.UserID][r.WorkID] = r.Value
		works[r.WorkID] = struct{}{}
		rated[r.WorkID] = struct{}{}
	}

	for _, wg := range workGenres {
		ds.workGenres[wg.WorkID] = append(ds.workGenres[wg.WorkID], wg.Label)
		works[wg.WorkID] = struct{}{}
	}

	for _, g := range genres {
		ds.genres[g.Label] = g.ID
	}

	ds.userIDs = sortedKeys(ds.byUser)
	ds.workIDs = sortedSet(works)
	ds.ratedWorkIDs = sortedSet(rated)
	return ds
}

// Ratings returns the de-duplicated ratings in load order.
func (d *Dataset) Ratings() []Rating { return d.ratings }

// UserIDs returns every user with at least one rating, ascending.
func (d *Dataset) UserIDs() []int64 { return d.userIDs }

// WorkIDs returns the work universe, ascending.
func (d *Dataset) WorkIDs() []int64 { return d.workIDs }

// RatedWorkIDs returns the works that have at least one rating, ascending.
func (d *Dataset) RatedWorkIDs() []int64 { return d.ratedWorkIDs }

// RatingsOf returns the ratings authored by user in load order.
func (d *Dataset) RatingsOf(user int64) []Rating { return d.byUser[user] }

// HasRated reports whether user rated work.
func (d *Dataset) HasRated(user, work int64) bool {
	_, ok := d.seen[user][work]
	return ok
}

// RatingOf returns the user's rating of work.
func (d *Dataset) RatingOf(user, work int64) (float64, bool) {
	v, ok := d.seen[user][work]
	return v, ok
}

// GenresOf returns the genre labels of work. Works without associations
// return nil.
func (d *Dataset) GenresOf(work int64) []string { return d.workGenres[work] }

// WorkGenres returns the label lists of every work in the universe,
// including empty lists for works without associations.
func (d *Dataset) WorkGenres() map[int64][]string {
	out := make(map[int64][]string, len(d.workIDs))
	for _, id := range d.workIDs {
		out[id] = d.workGenres[id]
	}
	return out
}

// LookupGenre returns the catalog ID of label. The boolean is false when
// the label is not in the catalog.
func (d *Dataset) LookupGenre(label string) (int64, bool) {
	id, ok := d.genres[label]
	return id, ok
}

// GenreCount returns the number of distinct catalog labels.
func (d *Dataset) GenreCount() int { return len(d.genres) }

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func sortedSet(m map[int64]struct{}) []int64 {
	return sortedKeys(m)
}
