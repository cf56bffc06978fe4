// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

package models

import (
	"time"

	"github.com/tomtom215/tanimoto/internal/similarity"
)

// APIResponse is the envelope for every HTTP response.
type APIResponse struct {
	Status   string      `json:"status"` // "success" or "error"
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries timing information for a response.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
	RunID       string    `json:"run_id,omitempty"` // batch run that produced the serving index
}

// APIError is a machine-readable error.
//
// Codes: VALIDATION_ERROR, INVALID_ARGUMENT, UNKNOWN_ITEM, NOT_READY,
// TIMEOUT, INTERNAL_ERROR.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// SimilarItemsResponse is the payload of GET /items/{itemID}/similar.
type SimilarItemsResponse struct {
	ItemID    similarity.ItemID             `json:"item_id"`
	Limit     int                           `json:"limit"`
	Neighbors similarity.RankedNeighborList `json:"neighbors"`
}

// AllSimilarItemsResponse is the payload of GET /similar.
type AllSimilarItemsResponse struct {
	Limit int                                                `json:"limit"`
	Items map[similarity.ItemID]similarity.RankedNeighborList `json:"items"`
}

// WatchersResponse is the payload of GET /items/{itemID}/watchers.
type WatchersResponse struct {
	ItemID   similarity.ItemID   `json:"item_id"`
	Count    int                 `json:"count"`
	Watchers []similarity.UserID `json:"watchers"`
}

// ItemsPage is the payload of GET /items.
type ItemsPage struct {
	Items  []similarity.ItemID `json:"items"`
	Total  int                 `json:"total"`
	Offset int                 `json:"offset"`
	Limit  int                 `json:"limit"`
}

// StatsResponse is the payload of GET /stats.
type StatsResponse struct {
	Index    similarity.IndexStats `json:"index"`
	Eligible int                   `json:"eligible_items"`
	MinUsers int                   `json:"min_users"`
	LastRun  *RunSummary           `json:"last_run,omitempty"`
	Cache    interface{}           `json:"cache,omitempty"`
}

// HealthResponse is the payload of GET /health.
type HealthResponse struct {
	Status      string `json:"status"` // "ok" or "loading"
	IndexLoaded bool   `json:"index_loaded"`
	Items       int    `json:"items"`
}
