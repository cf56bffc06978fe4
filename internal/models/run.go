// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

package models

import "time"

// RunSummary describes one batch run: ingest, index build, exhaustive
// similarity computation and result persistence.
type RunSummary struct {
	RunID        string        `json:"run_id"`
	Source       string        `json:"source"`
	StartedAt    time.Time     `json:"started_at"`
	FinishedAt   time.Time     `json:"finished_at"`
	Duration     time.Duration `json:"duration_ns"`
	Records      int           `json:"records"`
	Skipped      int           `json:"skipped"`
	Items        int           `json:"items"`
	Users        int           `json:"users"`
	Interactions int           `json:"interactions"`
	Duplicates   int           `json:"duplicates"`
	Eligible     int           `json:"eligible_items"`
	Limit        int           `json:"limit"`
	MinUsers     int           `json:"min_users"`
	Pairs        int64         `json:"pairs_evaluated"`
	ScoredPairs  int64         `json:"pairs_scored"`
}
