// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Package algorithms implements the two models a recommendation run fits.
//
// # Models
//
// ContentSimilarity vectorizes each work's genre labels with TF-IDF
// (lowercased, tokens of two or more word characters, smoothed idf,
// L2-normalized rows) and holds the full work-by-work cosine matrix.
//
// UserKNN is a user-based k-nearest-neighbor rating predictor. User
// similarity is cosine over co-rated works only; an estimate is the
// similarity-weighted mean of the K most similar raters of the work.
// Predict never fails: unknown users or works and thin neighborhoods fall
// back to the global mean, and the result records which case applied.
//
// # Thread Safety
//
// Fit acquires an exclusive lock and queries take a shared lock, so a
// fitted model can be queried from several goroutines.
package algorithms
