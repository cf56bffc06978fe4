// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

/*
Package metrics registers the Prometheus collectors exported at /metrics.

# Available Metrics

Ingest and index:
  - tanimoto_ingest_records_total, tanimoto_ingest_skipped_lines_total
  - tanimoto_index_items, tanimoto_index_users, tanimoto_index_interactions

Engine:
  - tanimoto_query_duration_seconds{operation}
  - tanimoto_query_errors_total{operation,error_type}
  - tanimoto_pairs_evaluated_total, tanimoto_pairs_scored_total

Batch and sinks:
  - tanimoto_batch_runs_total{status}, tanimoto_batch_duration_seconds
  - tanimoto_batch_last_success_timestamp
  - tanimoto_sink_writes_total{sink,status}, tanimoto_sink_write_duration_seconds{sink}
  - tanimoto_circuit_breaker_state{name}
  - duckdb_query_duration_seconds{operation,table}, duckdb_query_errors_total

HTTP:
  - api_requests_total{method,endpoint,status_code}
  - api_request_duration_seconds{method,endpoint}, api_active_requests
  - tanimoto_cache_hits_total, tanimoto_cache_misses_total

All collectors are registered with the default registry through promauto.
*/
package metrics
