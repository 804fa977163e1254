// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Package recommend holds the shared types, configuration and data loading
// for Folio's batch recommendation job.
//
// # Architecture
//
// A recommendation run derives three output relations from the ratings table
// and the genre taxonomy:
//
//   - recommend_work: per-user ranked works, blending a content signal (TF-IDF
//     over genre labels) with a collaborative signal (user-based KNN)
//   - recommend_user: per-user ranked similar users (cosine over ratings)
//   - user_interest: per-user top genres among highly rated works
//
// The packages below this one split the run into stages:
//
//   - algorithms: content similarity and the KNN rating predictor
//   - ranking: hybrid, user-similarity and interest rankers
//   - pipeline: the engine that wires the stages and the job runner
//
// # Determinism
//
// Every stage orders its inputs by ID before iterating and breaks score ties
// by ID, so the same input always produces the same output rows.
//
// # Usage
//
//	cfg := recommend.DefaultConfig()
//	ds, err := recommend.Load(ctx, provider, logger)
//	if errors.Is(err, recommend.ErrInsufficientData) {
//	    // nothing to recommend from
//	}
package recommend
