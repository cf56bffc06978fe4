// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

/*
Command tanimoto computes item-to-item Tanimoto similarities from a log of
(user, item) interactions and serves the ranked neighbor lists over HTTP.

Startup order:

 1. Configuration: koanf defaults, then config.yaml (or CONFIG_PATH), then environment
 2. Storage: DuckDB and Badger, each optional
 3. Source: a user,item file (plain or gzip) or a DuckDB table
 4. Pipeline: ingest, compute every item's neighbors, publish, persist
 5. Supervisor tree: BatchService in the data layer, the HTTP API in the api layer

With server.enabled=false and no batch.interval the pipeline runs once and
the process exits with status 1 if the run failed:

	INPUT_PATH=watches.csv.gz HTTP_ENABLED=false DUCKDB_ENABLED=true ./tanimoto

Otherwise the API serves:

	GET /api/v1/health
	GET /api/v1/stats
	GET /api/v1/items?offset=0&limit=100
	GET /api/v1/items/{itemID}/similar?limit=10
	GET /api/v1/items/{itemID}/watchers
	GET /api/v1/similar?limit=10
	GET /metrics

SIGINT and SIGTERM drain in-flight requests for server.shutdown_timeout.
*/
package main
