// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Package ranking turns fitted models into the rows of the three output
// relations.
//
// # Rankers
//
// HybridRanker:
//   - Seeds are the works a user rated at or above the high-rating threshold
//   - Each seed adds its nearest works' content similarity to a content score
//   - Every unrated work gets a predicted rating as its collaborative score
//   - score = content_weight*content + collaborative_weight*collaborative
//
// UserSimilarityRanker:
//   - Dense user-by-work rating matrix, missing ratings are 0
//   - Cosine similarity between every pair of users
//
// InterestInferencer:
//   - Most frequent genre labels among a user's highly rated works
//   - Labels missing from the genre catalog are dropped
//
// All rankers iterate users in ascending ID order and break score ties by
// ascending ID, so output order is stable across runs.
package ranking
