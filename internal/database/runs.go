// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/tanimoto/internal/metrics"
	"github.com/tomtom215/tanimoto/internal/models"
)

// RecordRun stores the summary of a completed batch run.
func (db *DB) RecordRun(ctx context.Context, run *models.RunSummary) (err error) {
	if run == nil || run.RunID == "" {
		return fmt.Errorf("run summary requires a run id")
	}
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("insert", tableRuns, time.Since(start), err)
	}()

	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO similarity_runs (
			run_id, source, started_at, finished_at, records, skipped, items, users,
			interactions, duplicates, eligible_items, min_users, pairs, scored_pairs, limit_k
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Source, run.StartedAt.UTC(), run.FinishedAt.UTC(),
		run.Records, run.Skipped, run.Items, run.Users,
		run.Interactions, run.Duplicates, run.Eligible, run.MinUsers,
		run.Pairs, run.ScoredPairs, run.Limit,
	)
	if err != nil {
		return fmt.Errorf("failed to record run %s: %w", run.RunID, err)
	}
	return nil
}

// LatestRun returns the most recently finished run, or ErrNoRuns.
func (db *DB) LatestRun(ctx context.Context) (run *models.RunSummary, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() {
		if errors.Is(err, ErrNoRuns) {
			metrics.RecordDBQuery("select", tableRuns, time.Since(start), nil)
			return
		}
		metrics.RecordDBQuery("select", tableRuns, time.Since(start), err)
	}()

	row := db.conn.QueryRowContext(ctx, `
		SELECT run_id, source, started_at, finished_at, records, skipped, items, users,
			interactions, duplicates, eligible_items, min_users, pairs, scored_pairs, limit_k
		FROM similarity_runs
		ORDER BY finished_at DESC
		LIMIT 1`)

	r := &models.RunSummary{}
	err = row.Scan(
		&r.RunID, &r.Source, &r.StartedAt, &r.FinishedAt, &r.Records, &r.Skipped, &r.Items, &r.Users,
		&r.Interactions, &r.Duplicates, &r.Eligible, &r.MinUsers, &r.Pairs, &r.ScoredPairs, &r.Limit,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRuns
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read latest run: %w", err)
	}
	r.Duration = r.FinishedAt.Sub(r.StartedAt)
	return r, nil
}
