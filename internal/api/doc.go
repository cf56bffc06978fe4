// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

/*
Package api serves similarity queries over HTTP using the chi router.

Endpoints:

	GET /api/v1/health                     200 once an index is loaded, 503 before
	GET /api/v1/stats                      index size, last run, cache stats
	GET /api/v1/items?offset=&limit=       item listing in first-appearance order
	GET /api/v1/items/{itemID}/similar     ranked neighbors (?limit=K)
	GET /api/v1/items/{itemID}/watchers    users who interacted with the item
	GET /api/v1/similar?limit=K            neighbors of every eligible item
	GET /metrics                           Prometheus

Every JSON response uses the models.APIResponse envelope. Engine errors map
to HTTP status codes: unknown items are 404 UNKNOWN_ITEM, bad arguments are
400 INVALID_ARGUMENT or VALIDATION_ERROR, and queries issued before the
first batch run completes are 503 NOT_READY (unless a persisted snapshot is
configured, which then answers per-item queries).

Handlers read the engine from a batch.Holder once per request, so a batch
run publishing a new index never changes results halfway through a
response. Per-item and exhaustive responses are cached in LRUs that are
purged on every publish.
*/
package api
