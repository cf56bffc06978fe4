// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

package sink

import (
	"context"
	"fmt"

	"github.com/tomtom215/tanimoto/internal/models"
	"github.com/tomtom215/tanimoto/internal/similarity"
)

// SimilarityDB is the part of the DuckDB store the database sink needs.
type SimilarityDB interface {
	ReplaceSimilarities(ctx context.Context, runID string, results map[similarity.ItemID]similarity.RankedNeighborList) error
	RecordRun(ctx context.Context, run *models.RunSummary) error
}

// SnapshotStore is the part of the Badger store the snapshot sink needs.
type SnapshotStore interface {
	PutAll(ctx context.Context, runID string, results map[similarity.ItemID]similarity.RankedNeighborList) error
	SaveRun(run *models.RunSummary) error
}

// Database writes results and the run summary to DuckDB.
type Database struct {
	db SimilarityDB
}

// NewDatabase creates a database sink.
func NewDatabase(db SimilarityDB) *Database {
	return &Database{db: db}
}

// Name implements Sink.
func (d *Database) Name() string { return "duckdb" }

// Write implements Sink.
func (d *Database) Write(ctx context.Context, run *models.RunSummary, results Results) error {
	if err := d.db.ReplaceSimilarities(ctx, run.RunID, results); err != nil {
		return err
	}
	if err := d.db.RecordRun(ctx, run); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// Snapshot writes results and the run summary to the Badger result store.
type Snapshot struct {
	store SnapshotStore
}

// NewSnapshot creates a result store sink.
func NewSnapshot(store SnapshotStore) *Snapshot {
	return &Snapshot{store: store}
}

// Name implements Sink.
func (s *Snapshot) Name() string { return "badger" }

// Write implements Sink.
func (s *Snapshot) Write(ctx context.Context, run *models.RunSummary, results Results) error {
	if err := s.store.PutAll(ctx, run.RunID, results); err != nil {
		return err
	}
	if err := s.store.SaveRun(run); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}
