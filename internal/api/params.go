// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/tanimoto/internal/similarity"
	"github.com/tomtom215/tanimoto/internal/validation"
)

// SimilarItemsRequest holds the query parameters of the similarity endpoints.
type SimilarItemsRequest struct {
	Limit int `query:"limit" validate:"gte=0"`
}

// ItemsRequest holds the query parameters of GET /items.
type ItemsRequest struct {
	Offset int `query:"offset" validate:"gte=0"`
	Limit  int `query:"limit" validate:"gte=1"`
}

// parseItemID reads the {itemID} path parameter.
func parseItemID(r *http.Request) (similarity.ItemID, error) {
	raw := chi.URLParam(r, "itemID")
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: item id %q is not an integer", similarity.ErrInvalidArgument, raw)
	}
	return similarity.ItemID(id), nil
}

// intQuery parses an integer query parameter. Missing values use def;
// malformed values are an error rather than silently defaulted.
func intQuery(r *http.Request, key string, def int) (int, *validation.RequestValidationError) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &validation.RequestValidationError{Fields: []validation.FieldError{{
			Field:   key,
			Tag:     "integer",
			Value:   raw,
			Message: key + " must be an integer",
		}}}
	}
	return v, nil
}

// parseLimit reads ?limit= and enforces the configured maximum.
func (h *Handler) parseLimit(r *http.Request) (int, *validation.RequestValidationError) {
	limit, verr := intQuery(r, "limit", h.cfg.DefaultLimit)
	if verr != nil {
		return 0, verr
	}
	req := SimilarItemsRequest{Limit: limit}
	if verr := validation.ValidateStruct(&req); verr != nil {
		return 0, verr
	}
	if h.cfg.MaxLimit > 0 && req.Limit > h.cfg.MaxLimit {
		return 0, &validation.RequestValidationError{Fields: []validation.FieldError{{
			Field:   "limit",
			Tag:     "lte",
			Param:   strconv.Itoa(h.cfg.MaxLimit),
			Value:   req.Limit,
			Message: fmt.Sprintf("limit must be at most %d", h.cfg.MaxLimit),
		}}}
	}
	return req.Limit, nil
}
