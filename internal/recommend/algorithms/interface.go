// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package algorithms

import (
	"context"
	"math"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/folio/internal/recommend"
)

// Model is a component fitted once per run from the loaded dataset.
type Model interface {
	// Name returns the model identifier used in logs and metrics.
	Name() string

	// Fit builds the model from ds. It may be called again to refit.
	Fit(ctx context.Context, ds *recommend.Dataset) error

	// IsTrained reports whether Fit has completed successfully.
	IsTrained() bool
}

// BaseAlgorithm provides the bookkeeping shared by all models.
type BaseAlgorithm struct {
	name          string
	trained       bool
	lastTrainedAt time.Time
	mu            sync.RWMutex
}

// NewBaseAlgorithm creates a new base with the given name.
func NewBaseAlgorithm(name string) BaseAlgorithm {
	return BaseAlgorithm{name: name}
}

// Name returns the model identifier.
func (b *BaseAlgorithm) Name() string {
	return b.name
}

// IsTrained returns whether the model has been fitted.
func (b *BaseAlgorithm) IsTrained() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.trained
}

// LastTrainedAt returns when the model was last fitted.
func (b *BaseAlgorithm) LastTrainedAt() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastTrainedAt
}

// markTrained must be called while holding the training lock.
func (b *BaseAlgorithm) markTrained() {
	b.trained = true
	b.lastTrainedAt = time.Now()
}

func (b *BaseAlgorithm) acquireTrainLock()   { b.mu.Lock() }
func (b *BaseAlgorithm) releaseTrainLock()   { b.mu.Unlock() }
func (b *BaseAlgorithm) acquirePredictLock() { b.mu.RLock() }
func (b *BaseAlgorithm) releasePredictLock() { b.mu.RUnlock() }

// CosineSimilarity computes the cosine similarity of two dense vectors.
// It returns 0 when either vector has zero norm.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// SortNeighbors orders neighbors by similarity descending, breaking ties
// by ascending ID.
func SortNeighbors(n []recommend.Neighbor) {
	sort.SliceStable(n, func(i, j int) bool {
		if n[i].Similarity != n[j].Similarity {
			return n[i].Similarity > n[j].Similarity
		}
		return n[i].ID < n[j].ID
	})
}

// ParallelRows calls fn for every row index in [0, n) using up to workers
// goroutines. Rows are split into contiguous chunks; fn must only write to
// state owned by its row. It returns ctx.Err() if the context was canceled.
func ParallelRows(ctx context.Context, n, workers int, fn func(row int)) error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if n == 0 {
		return ctx.Err()
	}

	chunkSize := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for row := start; row < end; row++ {
				if ContextCancelled(ctx) {
					return
				}
				fn(row)
			}
		}(start, end)
	}
	wg.Wait()

	return ctx.Err()
}

// ContextCancelled checks if the context has been canceled.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// Ensure all models implement the interface.
var (
	_ Model = (*ContentSimilarity)(nil)
	_ Model = (*UserKNN)(nil)
)
