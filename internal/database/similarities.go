// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

package database

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/tomtom215/tanimoto/internal/logging"
	"github.com/tomtom215/tanimoto/internal/metrics"
	"github.com/tomtom215/tanimoto/internal/similarity"
)

// ReplaceSimilarities swaps the stored neighbor lists for results in a single
// transaction. Items with empty lists produce no rows.
func (db *DB) ReplaceSimilarities(ctx context.Context, runID string, results map[similarity.ItemID]similarity.RankedNeighborList) (err error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("replace", tableSimilarities, time.Since(start), err)
	}()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	if _, err = tx.ExecContext(ctx, "DELETE FROM item_similarities"); err != nil {
		return fmt.Errorf("failed to clear similarities: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO item_similarities (item_id, rank, neighbor_id, score, run_id) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer closeWithLog(stmt, "prepared statement")

	items := make([]similarity.ItemID, 0, len(results))
	for item := range results {
		items = append(items, item)
	}
	slices.Sort(items)

	rows := 0
	for _, item := range items {
		if err = ctx.Err(); err != nil {
			return err
		}
		for rank, n := range results[item] {
			if _, err = stmt.ExecContext(ctx, int64(item), rank+1, int64(n.ItemID), n.Score, runID); err != nil {
				return fmt.Errorf("failed to insert similarity %d -> %d: %w", item, n.ItemID, err)
			}
			rows++
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit similarities: %w", err)
	}

	logging.Debug().
		Str("run_id", runID).
		Int("items", len(items)).
		Int("rows", rows).
		Dur("duration", time.Since(start)).
		Msg("Similarities replaced")
	return nil
}

// GetSimilarItems returns the stored neighbors of item in rank order. A
// non-positive limit returns every stored neighbor. Items without rows
// yield an empty list.
func (db *DB) GetSimilarItems(ctx context.Context, item similarity.ItemID, limit int) (result similarity.RankedNeighborList, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("select", tableSimilarities, time.Since(start), err)
	}()

	query := "SELECT neighbor_id, score FROM item_similarities WHERE item_id = ? ORDER BY rank"
	args := []interface{}{int64(item)}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query similar items: %w", err)
	}
	defer closeWithLog(rows, "rows")

	result = similarity.RankedNeighborList{}
	for rows.Next() {
		var neighbor int64
		var score float64
		if err = rows.Scan(&neighbor, &score); err != nil {
			return nil, fmt.Errorf("failed to scan similar item: %w", err)
		}
		result = append(result, similarity.Neighbor{ItemID: similarity.ItemID(neighbor), Score: score})
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate similar items: %w", err)
	}
	return result, nil
}

// CountSimilarities returns the number of stored (item, neighbor) rows.
func (db *DB) CountSimilarities(ctx context.Context) (int64, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var n int64
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM item_similarities").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count similarities: %w", err)
	}
	return n, nil
}
