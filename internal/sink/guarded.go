// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

package sink

import (
	"context"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/tanimoto/internal/logging"
	"github.com/tomtom215/tanimoto/internal/metrics"
	"github.com/tomtom215/tanimoto/internal/models"
)

// BreakerConfig tunes the circuit breaker of a guarded sink.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold uint32

	// Timeout is how long the breaker stays open before allowing a trial write.
	Timeout time.Duration
}

// Guarded protects a sink with a circuit breaker. While the breaker is open
// writes fail fast with gobreaker.ErrOpenState instead of reaching the
// store.
type Guarded struct {
	next    Sink
	breaker *gobreaker.CircuitBreaker[struct{}]
}

// NewGuarded wraps next in a circuit breaker named after the sink.
func NewGuarded(next Sink, cfg BreakerConfig) *Guarded {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 3
	}

	name := next.Name()
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.SetCircuitBreakerState(name, to)
			logging.Warn().
				Str("sink", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Sink circuit breaker state changed")
		},
	}
	metrics.SetCircuitBreakerState(name, gobreaker.StateClosed)

	return &Guarded{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[struct{}](settings),
	}
}

// Name implements Sink.
func (g *Guarded) Name() string { return g.next.Name() }

// State returns the current breaker state.
func (g *Guarded) State() gobreaker.State { return g.breaker.State() }

// Write implements Sink.
func (g *Guarded) Write(ctx context.Context, run *models.RunSummary, results Results) error {
	_, err := g.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, g.next.Write(ctx, run, results)
	})
	return err
}
