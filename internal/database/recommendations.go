// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/folio/internal/recommend"
)

// Output relation names.
const (
	TableRecommendWork = "recommend_work"
	TableRecommendUser = "recommend_user"
	TableUserInterest  = "user_interest"
)

// ReplaceRecommendations deletes the three output relations and inserts
// result in one transaction. Readers observe either the old or the new
// contents, never a mix.
func (db *DB) ReplaceRecommendations(ctx context.Context, result *recommend.Result) (err error) {
	if result == nil {
		result = &recommend.Result{}
	}
	start := time.Now()
	defer func() { err = observe("replace", "recommendations", start, err) }()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				db.logger.Error().Err(rbErr).AnErr("original_error", err).Msg("transaction rollback failed")
			}
		}
	}()

	for _, table := range []string{TableRecommendWork, TableRecommendUser, TableUserInterest} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err = db.insertRows(ctx, tx, TableRecommendWork,
		`INSERT INTO recommend_work (user_id, work_id, score) VALUES (?, ?, ?)`,
		len(result.WorkRecommendations), func(stmt *sql.Stmt, i int) error {
			r := result.WorkRecommendations[i]
			_, err := stmt.ExecContext(ctx, r.UserID, r.WorkID, r.Score)
			return err
		}); err != nil {
		return err
	}

	if err = db.insertRows(ctx, tx, TableRecommendUser,
		`INSERT INTO recommend_user (user_id, target_id, score) VALUES (?, ?, ?)`,
		len(result.UserRecommendations), func(stmt *sql.Stmt, i int) error {
			r := result.UserRecommendations[i]
			_, err := stmt.ExecContext(ctx, r.UserID, r.TargetID, r.Score)
			return err
		}); err != nil {
		return err
	}

	if err = db.insertRows(ctx, tx, TableUserInterest,
		`INSERT INTO user_interest (user_id, genre_id) VALUES (?, ?)`,
		len(result.Interests), func(stmt *sql.Stmt, i int) error {
			r := result.Interests[i]
			_, err := stmt.ExecContext(ctx, r.UserID, r.GenreID)
			return err
		}); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit recommendations: %w", err)
	}
	return nil
}

// insertRows prepares query once and executes it for n rows.
func (db *DB) insertRows(ctx context.Context, tx *sql.Tx, table, query string, n int, exec func(*sql.Stmt, int) error) error {
	if db.beforeInsert != nil {
		if err := db.beforeInsert(table); err != nil {
			return fmt.Errorf("failed before inserting into %s: %w", table, err)
		}
	}
	if n == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare insert into %s: %w", table, err)
	}
	defer closeWithLog(stmt, db.logger, "statement")

	for i := 0; i < n; i++ {
		if err := exec(stmt, i); err != nil {
			return fmt.Errorf("failed to insert into %s (row %d): %w", table, i, err)
		}
	}
	return nil
}

var _ recommend.ResultWriter = (*DB)(nil)

// WorkRecommendations returns a user's recommended works, best first.
func (db *DB) WorkRecommendations(ctx context.Context, userID int64, limit int) (out []recommend.WorkRecommendation, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	defer func(start time.Time) { err = observe("select", TableRecommendWork, start, err) }(time.Now())

	rows, err := db.conn.QueryContext(ctx, `
		SELECT user_id, work_id, score
		FROM recommend_work
		WHERE user_id = ?
		ORDER BY score DESC, work_id
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query work recommendations: %w", err)
	}
	defer closeWithLog(rows, db.logger, "rows")

	out = []recommend.WorkRecommendation{}
	for rows.Next() {
		var r recommend.WorkRecommendation
		if err := rows.Scan(&r.UserID, &r.WorkID, &r.Score); err != nil {
			return nil, fmt.Errorf("failed to scan work recommendation: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating work recommendations: %w", err)
	}
	return out, nil
}

// UserRecommendations returns a user's similar users, most similar first.
func (db *DB) UserRecommendations(ctx context.Context, userID int64, limit int) (out []recommend.UserRecommendation, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	defer func(start time.Time) { err = observe("select", TableRecommendUser, start, err) }(time.Now())

	rows, err := db.conn.QueryContext(ctx, `
		SELECT user_id, target_id, score
		FROM recommend_user
		WHERE user_id = ?
		ORDER BY score DESC, target_id
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query user recommendations: %w", err)
	}
	defer closeWithLog(rows, db.logger, "rows")

	out = []recommend.UserRecommendation{}
	for rows.Next() {
		var r recommend.UserRecommendation
		if err := rows.Scan(&r.UserID, &r.TargetID, &r.Score); err != nil {
			return nil, fmt.Errorf("failed to scan user recommendation: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user recommendations: %w", err)
	}
	return out, nil
}

// InterestGenre is one inferred interest with its catalog label.
type InterestGenre struct {
	GenreID int64  `json:"genre_id"`
	Label   string `json:"label"`
}

// Interests returns a user's inferred genres ordered by genre id.
func (db *DB) Interests(ctx context.Context, userID int64) (out []InterestGenre, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	defer func(start time.Time) { err = observe("select", TableUserInterest, start, err) }(time.Now())

	rows, err := db.conn.QueryContext(ctx, `
		SELECT ui.genre_id, COALESCE(g.label, '')
		FROM user_interest ui
		LEFT JOIN genre g ON g.genre_id = ui.genre_id
		WHERE ui.user_id = ?
		ORDER BY ui.genre_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query interests: %w", err)
	}
	defer closeWithLog(rows, db.logger, "rows")

	out = []InterestGenre{}
	for rows.Next() {
		var g InterestGenre
		if err := rows.Scan(&g.GenreID, &g.Label); err != nil {
			return nil, fmt.Errorf("failed to scan interest: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating interests: %w", err)
	}
	return out, nil
}

// OutputCounts returns the row count of each output relation.
func (db *DB) OutputCounts(ctx context.Context) (map[string]int64, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	counts := make(map[string]int64, 3)
	for _, table := range []string{TableRecommendWork, TableRecommendUser, TableUserInterest} {
		var n int64
		if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}
