// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package database

import (
	"context"
	"fmt"
	"time"
)

// tableCreationQueries mirror the relations owned by the main backend.
var tableCreationQueries = []string{
	`CREATE TABLE IF NOT EXISTS works (
		work_id BIGINT PRIMARY KEY,
		title VARCHAR,
		work_type VARCHAR
	)`,
	`CREATE TABLE IF NOT EXISTS genre (
		genre_id BIGINT PRIMARY KEY,
		label VARCHAR NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS work_genre (
		work_id BIGINT NOT NULL,
		genre_id BIGINT NOT NULL,
		PRIMARY KEY (work_id, genre_id)
	)`,
	`CREATE TABLE IF NOT EXISTS rating (
		user_id BIGINT NOT NULL,
		work_id BIGINT NOT NULL,
		rating DOUBLE,
		PRIMARY KEY (user_id, work_id)
	)`,
	`CREATE TABLE IF NOT EXISTS recommend_work (
		user_id BIGINT NOT NULL,
		work_id BIGINT NOT NULL,
		score DOUBLE NOT NULL,
		PRIMARY KEY (user_id, work_id)
	)`,
	`CREATE TABLE IF NOT EXISTS recommend_user (
		user_id BIGINT NOT NULL,
		target_id BIGINT NOT NULL,
		score DOUBLE NOT NULL,
		PRIMARY KEY (user_id, target_id)
	)`,
	`CREATE TABLE IF NOT EXISTS user_interest (
		user_id BIGINT NOT NULL,
		genre_id BIGINT NOT NULL,
		PRIMARY KEY (user_id, genre_id)
	)`,
}

// CreateSchema creates missing input and output relations.
func (db *DB) CreateSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	for _, q := range tableCreationQueries {
		if _, err := db.conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", q, err)
		}
	}
	return nil
}
