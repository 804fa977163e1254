// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Package database is the DuckDB store behind the recommendation job.
//
// It reads the input relations (rating, works, work_genre, genre), replaces
// the output relations (recommend_work, recommend_user, user_interest) in a
// single transaction, and serves the read queries of the recommendation API.
//
// DB implements recommend.DataProvider and recommend.ResultWriter:
//
//	db, err := database.New(&cfg.Database, logger)
//	engine, err := pipeline.NewEngine(rc, db, db, logger, workers)
//
// The input relations belong to the main Folio backend. CreateSchema creates
// every relation with CREATE TABLE IF NOT EXISTS and exists for local runs
// and tests.
package database
