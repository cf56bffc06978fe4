// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/tanimoto/internal/metrics"
	"github.com/tomtom215/tanimoto/internal/models"
	"github.com/tomtom215/tanimoto/internal/resultstore"
	"github.com/tomtom215/tanimoto/internal/similarity"
	"github.com/tomtom215/tanimoto/internal/validation"
)

// Health handles GET /api/v1/health. It returns 503 until the first engine
// is published.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	snap := h.holder.Load()
	if snap == nil {
		respondJSON(w, http.StatusServiceUnavailable, &models.APIResponse{
			Status:   "error",
			Data:     models.HealthResponse{Status: "loading"},
			Metadata: models.Metadata{Timestamp: time.Now()},
			Error:    &models.APIError{Code: "NOT_READY", Message: "Similarity index is still loading"},
		})
		return
	}

	respondSuccess(w, models.HealthResponse{
		Status:      "ok",
		IndexLoaded: true,
		Items:       snap.Engine.Index().Len(),
	}, models.Metadata{RunID: runID(snap)})
}

// Stats handles GET /api/v1/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	snap := h.holder.Load()

	resp := models.StatsResponse{}
	if snap != nil {
		resp.Index = snap.Engine.Index().Stats()
		resp.Eligible = len(snap.Engine.EligibleItems())
		resp.MinUsers = snap.Engine.Options().MinUsers
		resp.LastRun = snap.Run
	}
	if resp.LastRun == nil && h.history != nil {
		if run, err := h.history.LatestRun(r.Context()); err == nil {
			resp.LastRun = run
		}
	}
	if h.similar != nil {
		resp.Cache = h.similar.Stats()
	}

	respondSuccess(w, resp, models.Metadata{
		QueryTimeMS: time.Since(start).Milliseconds(),
		RunID:       runID(snap),
	})
}

// SimilarItems handles GET /api/v1/items/{itemID}/similar?limit=K.
func (h *Handler) SimilarItems(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	item, err := parseItemID(r)
	if err != nil {
		respondQueryError(w, r, err)
		return
	}
	limit, verr := h.parseLimit(r)
	if verr != nil {
		respondValidationError(w, verr)
		return
	}

	snap := h.holder.Load()
	if snap == nil {
		h.similarFromSnapshot(w, r, item, limit, start)
		return
	}

	key := similarKey(item, limit)
	if h.similar != nil {
		if cached, ok := h.similar.Get(key); ok {
			metrics.RecordCacheLookup(true)
			respondSuccess(w, models.SimilarItemsResponse{ItemID: item, Limit: limit, Neighbors: cached}, models.Metadata{
				QueryTimeMS: time.Since(start).Milliseconds(),
				Cached:      true,
				RunID:       runID(snap),
			})
			return
		}
		metrics.RecordCacheLookup(false)
	}

	ctx, cancel := h.queryContext(r.Context())
	defer cancel()

	neighbors, err := snap.Engine.SimilarItemsTo(ctx, item, limit)
	metrics.RecordQuery("similar_items", time.Since(start), metrics.ErrorType(err))
	if err != nil {
		respondQueryError(w, r, err)
		return
	}

	// Only cache under the engine the result came from.
	if h.similar != nil && h.holder.Load() == snap {
		h.similar.Add(key, neighbors)
	}

	respondSuccess(w, models.SimilarItemsResponse{ItemID: item, Limit: limit, Neighbors: neighbors}, models.Metadata{
		QueryTimeMS: time.Since(start).Milliseconds(),
		RunID:       runID(snap),
	})
}

// similarFromSnapshot answers from persisted results until the first
// engine is published.
func (h *Handler) similarFromSnapshot(w http.ResponseWriter, r *http.Request, item similarity.ItemID, limit int, start time.Time) {
	if h.snapshot == nil {
		respondError(w, r, http.StatusServiceUnavailable, "NOT_READY", "Similarity index is still loading", nil)
		return
	}

	neighbors, err := h.snapshot.Get(item)
	if errors.Is(err, resultstore.ErrNotFound) {
		respondError(w, r, http.StatusNotFound, "UNKNOWN_ITEM", fmt.Sprintf("%v: %d", similarity.ErrUnknownItem, item), nil)
		return
	}
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Snapshot lookup failed", err)
		return
	}
	if limit < len(neighbors) {
		neighbors = neighbors[:limit]
	}

	respondSuccess(w, models.SimilarItemsResponse{ItemID: item, Limit: limit, Neighbors: neighbors}, models.Metadata{
		QueryTimeMS: time.Since(start).Milliseconds(),
		Cached:      true,
	})
}

// Watchers handles GET /api/v1/items/{itemID}/watchers.
func (h *Handler) Watchers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	item, err := parseItemID(r)
	if err != nil {
		respondQueryError(w, r, err)
		return
	}
	snap := h.holder.Load()
	if snap == nil {
		respondError(w, r, http.StatusServiceUnavailable, "NOT_READY", "Similarity index is still loading", nil)
		return
	}

	users, err := snap.Engine.Index().WatchersOf(item)
	metrics.RecordQuery("watchers", time.Since(start), metrics.ErrorType(err))
	if err != nil {
		respondQueryError(w, r, err)
		return
	}

	watchers := users.Sorted()
	respondSuccess(w, models.WatchersResponse{ItemID: item, Count: len(watchers), Watchers: watchers}, models.Metadata{
		QueryTimeMS: time.Since(start).Milliseconds(),
		RunID:       runID(snap),
	})
}

// Items handles GET /api/v1/items?offset=&limit=. Items are listed in
// first-appearance order.
func (h *Handler) Items(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	offset, verr := intQuery(r, "offset", 0)
	if verr != nil {
		respondValidationError(w, verr)
		return
	}
	limit, verr := intQuery(r, "limit", 100)
	if verr != nil {
		respondValidationError(w, verr)
		return
	}
	req := ItemsRequest{Offset: offset, Limit: limit}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, verr)
		return
	}
	if req.Limit > h.cfg.MaxPageSize {
		req.Limit = h.cfg.MaxPageSize
	}

	snap := h.holder.Load()
	if snap == nil {
		respondError(w, r, http.StatusServiceUnavailable, "NOT_READY", "Similarity index is still loading", nil)
		return
	}

	all := snap.Engine.Index().Items()
	page := []similarity.ItemID{}
	if req.Offset < len(all) {
		end := req.Offset + req.Limit
		if end > len(all) {
			end = len(all)
		}
		page = all[req.Offset:end]
	}

	respondSuccess(w, models.ItemsPage{Items: page, Total: len(all), Offset: req.Offset, Limit: req.Limit}, models.Metadata{
		QueryTimeMS: time.Since(start).Milliseconds(),
		RunID:       runID(snap),
	})
}

// AllSimilarItems handles GET /api/v1/similar?limit=K, the exhaustive
// neighbor listing of every eligible item.
func (h *Handler) AllSimilarItems(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit, verr := h.parseLimit(r)
	if verr != nil {
		respondValidationError(w, verr)
		return
	}
	snap := h.holder.Load()
	if snap == nil {
		respondError(w, r, http.StatusServiceUnavailable, "NOT_READY", "Similarity index is still loading", nil)
		return
	}

	if eligible := len(snap.Engine.EligibleItems()); h.cfg.MaxAllResults > 0 && eligible > h.cfg.MaxAllResults {
		respondError(w, r, http.StatusRequestEntityTooLarge, "RESULT_TOO_LARGE",
			fmt.Sprintf("%d eligible items exceed the listing cap of %d; query items individually", eligible, h.cfg.MaxAllResults), nil)
		return
	}

	key := allKey{limit: limit}
	if h.all != nil {
		if cached, ok := h.all.Get(key); ok {
			metrics.RecordCacheLookup(true)
			respondSuccess(w, models.AllSimilarItemsResponse{Limit: limit, Items: cached}, models.Metadata{
				QueryTimeMS: time.Since(start).Milliseconds(),
				Cached:      true,
				RunID:       runID(snap),
			})
			return
		}
		metrics.RecordCacheLookup(false)
	}

	ctx, cancel := h.queryContext(r.Context())
	defer cancel()

	result, err := snap.Engine.SimilarItemsForAllItems(ctx, limit)
	metrics.RecordQuery("similar_all", time.Since(start), metrics.ErrorType(err))
	if err != nil {
		respondQueryError(w, r, err)
		return
	}
	if h.all != nil && h.holder.Load() == snap {
		h.all.Add(key, result)
	}

	respondSuccess(w, models.AllSimilarItemsResponse{Limit: limit, Items: result}, models.Metadata{
		QueryTimeMS: time.Since(start).Milliseconds(),
		RunID:       runID(snap),
	})
}
