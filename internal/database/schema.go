// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

package database

import (
	"context"
	"fmt"
)

// Table names.
const (
	tableSimilarities = "item_similarities"
	tableRuns         = "similarity_runs"
)

func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), defaultQueryTimeout)
}

// createTables creates the result tables if they do not exist.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

func tableCreationQueries() []string {
	return []string{
		// One row per (item, neighbor); rank is 1-based within the item.
		`CREATE TABLE IF NOT EXISTS item_similarities (
			item_id BIGINT NOT NULL,
			rank INTEGER NOT NULL,
			neighbor_id BIGINT NOT NULL,
			score DOUBLE NOT NULL,
			run_id VARCHAR NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_item_similarities_item ON item_similarities(item_id)`,

		`CREATE TABLE IF NOT EXISTS similarity_runs (
			run_id VARCHAR PRIMARY KEY,
			source VARCHAR NOT NULL,
			started_at TIMESTAMP NOT NULL,
			finished_at TIMESTAMP NOT NULL,
			records BIGINT NOT NULL,
			skipped BIGINT NOT NULL,
			items BIGINT NOT NULL,
			users BIGINT NOT NULL,
			interactions BIGINT NOT NULL,
			duplicates BIGINT NOT NULL,
			eligible_items BIGINT NOT NULL,
			min_users INTEGER NOT NULL,
			pairs BIGINT NOT NULL,
			scored_pairs BIGINT NOT NULL,
			limit_k INTEGER NOT NULL
		)`,
	}
}
