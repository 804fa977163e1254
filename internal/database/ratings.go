// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/folio/internal/recommend"
)

// LoadRatings returns every non-null rating in a stable order.
func (db *DB) LoadRatings(ctx context.Context) (out []recommend.Rating, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	defer func(start time.Time) { err = observe("select", "rating", start, err) }(time.Now())

	rows, err := db.conn.QueryContext(ctx, `
		SELECT user_id, work_id, rating
		FROM rating
		WHERE rating IS NOT NULL
		ORDER BY user_id, work_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer closeWithLog(rows, db.logger, "rows")

	for rows.Next() {
		var r recommend.Rating
		if err := rows.Scan(&r.UserID, &r.WorkID, &r.Value); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ratings: %w", err)
	}
	return out, nil
}

// LoadWorkGenres returns (work, label) pairs for works present in works.
// Labels of one work keep genre_id order.
func (db *DB) LoadWorkGenres(ctx context.Context) (out []recommend.WorkGenre, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	defer func(start time.Time) { err = observe("select", "work_genre", start, err) }(time.Now())

	rows, err := db.conn.QueryContext(ctx, `
		SELECT w.work_id, g.label
		FROM works w
		JOIN work_genre wg ON w.work_id = wg.work_id
		JOIN genre g ON wg.genre_id = g.genre_id
		ORDER BY w.work_id, g.genre_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query work genres: %w", err)
	}
	defer closeWithLog(rows, db.logger, "rows")

	for rows.Next() {
		var wg recommend.WorkGenre
		if err := rows.Scan(&wg.WorkID, &wg.Label); err != nil {
			return nil, fmt.Errorf("failed to scan work genre: %w", err)
		}
		out = append(out, wg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating work genres: %w", err)
	}
	return out, nil
}

// LoadGenres returns the genre catalog ordered by id.
func (db *DB) LoadGenres(ctx context.Context) (out []recommend.Genre, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	defer func(start time.Time) { err = observe("select", "genre", start, err) }(time.Now())

	rows, err := db.conn.QueryContext(ctx, `SELECT genre_id, label FROM genre ORDER BY genre_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query genres: %w", err)
	}
	defer closeWithLog(rows, db.logger, "rows")

	for rows.Next() {
		var g recommend.Genre
		if err := rows.Scan(&g.ID, &g.Label); err != nil {
			return nil, fmt.Errorf("failed to scan genre: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating genres: %w", err)
	}
	return out, nil
}

var _ recommend.DataProvider = (*DB)(nil)
