// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

package api

import (
	"context"
	"strconv"
	"time"

	"github.com/tomtom215/tanimoto/internal/batch"
	"github.com/tomtom215/tanimoto/internal/cache"
	"github.com/tomtom215/tanimoto/internal/config"
	"github.com/tomtom215/tanimoto/internal/models"
	"github.com/tomtom215/tanimoto/internal/similarity"
)

// RunHistory looks up the last persisted batch run. *database.DB implements it.
type RunHistory interface {
	LatestRun(ctx context.Context) (*models.RunSummary, error)
}

// Snapshot serves persisted neighbor lists while no engine is loaded.
// *resultstore.Store implements it.
type Snapshot interface {
	Get(item similarity.ItemID) (similarity.RankedNeighborList, error)
}

// HandlerConfig holds the query surface limits.
type HandlerConfig struct {
	DefaultLimit  int
	MaxLimit      int
	MaxPageSize   int
	MaxAllResults int // eligible-item cap for GET /similar, 0 = no cap
	CacheSize     int // 0 disables the response cache
	CacheTTL      time.Duration
	QueryTimeout  time.Duration
}

// HandlerConfigFrom builds a HandlerConfig from the service configuration.
func HandlerConfigFrom(cfg *config.Config) HandlerConfig {
	return HandlerConfig{
		DefaultLimit:  cfg.Engine.DefaultLimit,
		MaxLimit:      cfg.Engine.MaxLimit,
		MaxPageSize:   cfg.API.MaxPageSize,
		MaxAllResults: cfg.API.MaxAllResults,
		CacheSize:     cfg.API.CacheSize,
		CacheTTL:      cfg.API.CacheTTL,
		QueryTimeout:  cfg.Server.Timeout,
	}
}

// allKey identifies a cached exhaustive result.
type allKey struct {
	limit int
}

// Handler serves the similarity API from the engine published in a
// batch.Holder.
type Handler struct {
	holder   *batch.Holder
	cfg      HandlerConfig
	history  RunHistory
	snapshot Snapshot

	similar *cache.LRU[string, similarity.RankedNeighborList]
	all     *cache.LRU[allKey, map[similarity.ItemID]similarity.RankedNeighborList]
}

// NewHandler creates a handler. The response cache is purged whenever the
// holder publishes a new engine.
func NewHandler(holder *batch.Holder, cfg HandlerConfig) *Handler {
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = 1000
	}
	h := &Handler{holder: holder, cfg: cfg}

	if cfg.CacheSize > 0 {
		h.similar = cache.NewLRU[string, similarity.RankedNeighborList](cfg.CacheSize, cfg.CacheTTL)
		h.all = cache.NewLRU[allKey, map[similarity.ItemID]similarity.RankedNeighborList](4, cfg.CacheTTL)
		holder.OnPublish(func(*batch.Snapshot) {
			h.similar.Purge()
			h.all.Purge()
		})
	}
	return h
}

// WithRunHistory enables last-run lookup in /stats before the first run of
// this process completes.
func (h *Handler) WithRunHistory(history RunHistory) *Handler {
	h.history = history
	return h
}

// WithSnapshot enables serving persisted results while the engine loads.
func (h *Handler) WithSnapshot(s Snapshot) *Handler {
	h.snapshot = s
	return h
}

// CacheStats returns the per-item response cache statistics.
func (h *Handler) CacheStats() cache.Stats {
	if h.similar == nil {
		return cache.Stats{}
	}
	return h.similar.Stats()
}

func similarKey(item similarity.ItemID, limit int) string {
	return strconv.FormatInt(int64(item), 10) + ":" + strconv.Itoa(limit)
}

func (h *Handler) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.cfg.QueryTimeout > 0 {
		return context.WithTimeout(ctx, h.cfg.QueryTimeout)
	}
	return ctx, func() {}
}

// runID returns the id of the run behind a snapshot.
func runID(snap *batch.Snapshot) string {
	if snap == nil || snap.Run == nil {
		return ""
	}
	return snap.Run.RunID
}
