// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package algorithms

import (
	"context"
	"math"
	"sort"

	"github.com/tomtom215/folio/internal/recommend"
)

// PredictionKind distinguishes a neighborhood estimate from a fallback.
type PredictionKind int

const (
	// PredictionUnavailable means the model has no data to estimate from.
	PredictionUnavailable PredictionKind = iota
	// PredictionFallback means the global mean was used because the user or
	// work was unknown or too few neighbors were positively similar.
	PredictionFallback
	// PredictionFound means the estimate came from the user's neighborhood.
	PredictionFound
)

// String returns a human-readable name for the prediction kind.
func (k PredictionKind) String() string {
	switch k {
	case PredictionFound:
		return "found"
	case PredictionFallback:
		return "fallback"
	case PredictionUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Prediction is the result of UserKNN.Predict.
type Prediction struct {
	UserID int64
	WorkID int64

	// Estimate is the predicted rating clipped to the rating scale.
	// It is zero when Kind is PredictionUnavailable.
	Estimate float64

	// Kind records how Estimate was obtained.
	Kind PredictionKind

	// Neighbors is the number of positively similar raters that
	// contributed to a PredictionFound estimate.
	Neighbors int
}

// Usable reports whether the prediction carries an estimate.
func (p Prediction) Usable() bool {
	return p.Kind != PredictionUnavailable
}

// rater is a user's rating of one work, referenced by user index.
type rater struct {
	user  int
	value float64
}

// workRating is one of a user's ratings, referenced by work ID.
type workRating struct {
	work  int64
	value float64
}

// UserKNN predicts ratings from the K most similar users who rated a work.
//
// Similarity between users u and v is computed over their co-rated works:
//
//	sim(u, v) = Σ r_u·r_v / sqrt(Σ r_u² · Σ r_v²)
//
// and is 0 when they share fewer than MinSupport works. The estimate for
// (u, w) takes the K raters of w most similar to u, keeps those with
// positive similarity, and returns Σ sim·r / Σ sim when at least MinK remain.
type UserKNN struct {
	BaseAlgorithm

	config  recommend.KNNConfig
	workers int

	users      []int64
	userIndex  map[int64]int
	byUser     [][]workRating // sorted by work ID
	raters     map[int64][]rater
	similarity []float64 // len(users)^2, row-major
	globalMean float64
}

// NewUserKNN creates an unfitted predictor. workers bounds the goroutines
// used for the pairwise similarity matrix; zero means one per CPU.
func NewUserKNN(cfg recommend.KNNConfig, workers int) *UserKNN {
	defaults := recommend.DefaultKNNConfig()
	if cfg.K <= 0 {
		cfg.K = defaults.K
	}
	if cfg.MinK <= 0 {
		cfg.MinK = defaults.MinK
	}
	if cfg.RatingMin >= cfg.RatingMax {
		cfg.RatingMin, cfg.RatingMax = defaults.RatingMin, defaults.RatingMax
	}

	return &UserKNN{
		BaseAlgorithm: NewBaseAlgorithm("usercf"),
		config:        cfg,
		workers:       workers,
	}
}

// Fit trains on every rating in the dataset.
func (u *UserKNN) Fit(ctx context.Context, ds *recommend.Dataset) error {
	return u.FitRatings(ctx, ds.Ratings())
}

// FitRatings trains on the given ratings. Each (user, work) pair is expected
// at most once.
func (u *UserKNN) FitRatings(ctx context.Context, ratings []recommend.Rating) error {
	u.acquireTrainLock()
	defer u.releaseTrainLock()

	if ContextCancelled(ctx) {
		return ctx.Err()
	}

	userIndex := make(map[int64]int)
	var users []int64
	for _, r := range ratings {
		if _, ok := userIndex[r.UserID]; !ok {
			userIndex[r.UserID] = 0
			users = append(users, r.UserID)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })
	for i, id := range users {
		userIndex[id] = i
	}

	byUser := make([][]workRating, len(users))
	raters := make(map[int64][]rater)
	var sum float64
	for _, r := range ratings {
		ui := userIndex[r.UserID]
		byUser[ui] = append(byUser[ui], workRating{work: r.WorkID, value: r.Value})
		raters[r.WorkID] = append(raters[r.WorkID], rater{user: ui, value: r.Value})
		sum += r.Value
	}
	for _, list := range byUser {
		sort.Slice(list, func(i, j int) bool { return list[i].work < list[j].work })
	}

	n := len(users)
	similarity := make([]float64, n*n)
	err := ParallelRows(ctx, n, u.workers, func(i int) {
		similarity[i*n+i] = 1
		for j := i + 1; j < n; j++ {
			similarity[i*n+j] = cosineCoRated(byUser[i], byUser[j], u.config.MinSupport)
		}
	})
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			similarity[j*n+i] = similarity[i*n+j]
		}
	}

	u.users = users
	u.userIndex = userIndex
	u.byUser = byUser
	u.raters = raters
	u.similarity = similarity
	u.globalMean = 0
	if len(ratings) > 0 {
		u.globalMean = sum / float64(len(ratings))
	}
	u.markTrained()
	return nil
}

// cosineCoRated computes cosine similarity over the works both users rated.
// Both lists must be sorted by work ID.
func cosineCoRated(a, b []workRating, minSupport int) float64 {
	var prods, sqA, sqB float64
	common := 0
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].work == b[j].work:
			prods += a[i].value * b[j].value
			sqA += a[i].value * a[i].value
			sqB += b[j].value * b[j].value
			common++
			i++
			j++
		case a[i].work < b[j].work:
			i++
		default:
			j++
		}
	}

	if common == 0 || common < minSupport || sqA == 0 || sqB == 0 {
		return 0
	}
	return prods / math.Sqrt(sqA*sqB)
}

// Predict estimates user's rating of work. It never fails; see Prediction.
func (u *UserKNN) Predict(user, work int64) Prediction {
	u.acquirePredictLock()
	defer u.releasePredictLock()

	p := Prediction{UserID: user, WorkID: work}
	if len(u.users) == 0 {
		return p
	}

	ui, knownUser := u.userIndex[user]
	workRaters, knownWork := u.raters[work]
	if !knownUser || !knownWork {
		return u.fallback(p)
	}

	n := len(u.users)
	neighbors := make([]recommend.Neighbor, len(workRaters))
	values := make(map[int64]float64, len(workRaters))
	for i, r := range workRaters {
		id := u.users[r.user]
		neighbors[i] = recommend.Neighbor{ID: id, Similarity: u.similarity[ui*n+r.user]}
		values[id] = r.value
	}
	SortNeighbors(neighbors)
	neighbors = recommend.TopN(neighbors, u.config.K)

	var sumSim, sumRatings float64
	actualK := 0
	for _, nb := range neighbors {
		if nb.Similarity > 0 {
			sumSim += nb.Similarity
			sumRatings += nb.Similarity * values[nb.ID]
			actualK++
		}
	}

	if actualK < u.config.MinK || sumSim == 0 {
		return u.fallback(p)
	}

	p.Kind = PredictionFound
	p.Estimate = u.clip(sumRatings / sumSim)
	p.Neighbors = actualK
	return p
}

func (u *UserKNN) fallback(p Prediction) Prediction {
	p.Kind = PredictionFallback
	p.Estimate = u.clip(u.globalMean)
	return p
}

func (u *UserKNN) clip(v float64) float64 {
	return math.Min(math.Max(v, u.config.RatingMin), u.config.RatingMax)
}

// Similarity returns the trained similarity of two users, or 0 if either
// is unknown.
func (u *UserKNN) Similarity(a, b int64) float64 {
	u.acquirePredictLock()
	defer u.releasePredictLock()

	i, okA := u.userIndex[a]
	j, okB := u.userIndex[b]
	if !okA || !okB {
		return 0
	}
	return u.similarity[i*len(u.users)+j]
}

// GlobalMean returns the mean of all training ratings.
func (u *UserKNN) GlobalMean() float64 {
	u.acquirePredictLock()
	defer u.releasePredictLock()
	return u.globalMean
}
