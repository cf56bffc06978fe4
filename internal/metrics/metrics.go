// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/tanimoto/internal/similarity"
)

var (
	// Ingest Metrics
	IngestRecords = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tanimoto_ingest_records_total",
			Help: "Total number of interaction records ingested",
		},
	)

	IngestSkippedLines = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tanimoto_ingest_skipped_lines_total",
			Help: "Total number of malformed input lines skipped",
		},
	)

	IndexItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tanimoto_index_items",
			Help: "Number of distinct items in the active index",
		},
	)

	IndexUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tanimoto_index_users",
			Help: "Number of distinct users in the active index",
		},
	)

	IndexInteractions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tanimoto_index_interactions",
			Help: "Number of distinct (user, item) pairs in the active index",
		},
	)

	// Engine Metrics
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tanimoto_query_duration_seconds",
			Help:    "Duration of similarity queries in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5, 30, 120},
		},
		[]string{"operation"}, // "similar_items_to", "similar_items_for_all"
	)

	QueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tanimoto_query_errors_total",
			Help: "Total number of failed similarity queries",
		},
		[]string{"operation", "error_type"},
	)

	PairsEvaluated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tanimoto_pairs_evaluated_total",
			Help: "Total number of unordered item pairs whose overlap was computed",
		},
	)

	PairsScored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tanimoto_pairs_scored_total",
			Help: "Total number of item pairs with at least one common user",
		},
	)

	// Batch Metrics
	BatchRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tanimoto_batch_runs_total",
			Help: "Total number of batch runs by outcome",
		},
		[]string{"status"}, // "success", "error"
	)

	BatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tanimoto_batch_duration_seconds",
			Help:    "Duration of complete batch runs in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 10),
		},
	)

	BatchLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tanimoto_batch_last_success_timestamp",
			Help: "Unix timestamp of the last successful batch run",
		},
	)

	// Sink Metrics
	SinkWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tanimoto_sink_writes_total",
			Help: "Total number of result sink writes by sink and outcome",
		},
		[]string{"sink", "status"}, // status: "success", "error", "rejected"
	)

	SinkWriteDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tanimoto_sink_write_duration_seconds",
			Help:    "Duration of result sink writes in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"sink"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tanimoto_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of API requests currently being processed",
		},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tanimoto_cache_hits_total",
			Help: "Total number of neighbor list cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tanimoto_cache_misses_total",
			Help: "Total number of neighbor list cache misses",
		},
	)
)

// RecordIngest records the outcome of an ingest pass.
func RecordIngest(records, skipped int) {
	IngestRecords.Add(float64(records))
	IngestSkippedLines.Add(float64(skipped))
}

// SetIndexStats publishes the size of the active index.
func SetIndexStats(items, users, interactions int) {
	IndexItems.Set(float64(items))
	IndexUsers.Set(float64(users))
	IndexInteractions.Set(float64(interactions))
}

// RecordQuery records a similarity query. errorType classifies failures
// ("unknown_item", "invalid_argument", "cancelled", "other").
func RecordQuery(operation string, duration time.Duration, errorType string) {
	QueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if errorType != "" {
		QueryErrors.WithLabelValues(operation, errorType).Inc()
	}
}

// RecordPairs adds the pair counters of an exhaustive computation.
func RecordPairs(evaluated, scored int64) {
	PairsEvaluated.Add(float64(evaluated))
	PairsScored.Add(float64(scored))
}

// RecordBatchRun records a batch run.
func RecordBatchRun(duration time.Duration, err error) {
	BatchDuration.Observe(duration.Seconds())
	if err != nil {
		BatchRuns.WithLabelValues("error").Inc()
		return
	}
	BatchRuns.WithLabelValues("success").Inc()
	BatchLastSuccess.Set(float64(time.Now().Unix()))
}

// RecordSinkWrite records a sink write. Writes refused by an open breaker are "rejected".
func RecordSinkWrite(sink string, duration time.Duration, err error) {
	SinkWriteDuration.WithLabelValues(sink).Observe(duration.Seconds())
	switch {
	case err == nil:
		SinkWrites.WithLabelValues(sink, "success").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		SinkWrites.WithLabelValues(sink, "rejected").Inc()
	default:
		SinkWrites.WithLabelValues(sink, "error").Inc()
	}
}

// SetCircuitBreakerState publishes a breaker transition.
func SetCircuitBreakerState(name string, state gobreaker.State) {
	var v float64
	switch state {
	case gobreaker.StateClosed:
		v = 0
	case gobreaker.StateHalfOpen:
		v = 1
	case gobreaker.StateOpen:
		v = 2
	}
	CircuitBreakerState.WithLabelValues(name).Set(v)
}

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordCacheLookup counts a neighbor list cache lookup.
func RecordCacheLookup(hit bool) {
	if hit {
		CacheHits.Inc()
		return
	}
	CacheMisses.Inc()
}

// ErrorType classifies an error for the error_type label.
func ErrorType(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, similarity.ErrUnknownItem):
		return "unknown_item"
	case errors.Is(err, similarity.ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "other"
	}
}
