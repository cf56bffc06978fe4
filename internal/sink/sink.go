// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

package sink

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/tanimoto/internal/logging"
	"github.com/tomtom215/tanimoto/internal/metrics"
	"github.com/tomtom215/tanimoto/internal/models"
	"github.com/tomtom215/tanimoto/internal/similarity"
)

// Results is the exhaustive output of one batch run.
type Results = map[similarity.ItemID]similarity.RankedNeighborList

// Sink receives the results of a batch run.
type Sink interface {
	// Name identifies the sink in logs and metrics.
	Name() string

	// Write replaces the sink's stored results with results.
	Write(ctx context.Context, run *models.RunSummary, results Results) error
}

// Func adapts a function to the Sink interface.
type Func struct {
	SinkName string
	Fn       func(ctx context.Context, run *models.RunSummary, results Results) error
}

// Name implements Sink.
func (f Func) Name() string { return f.SinkName }

// Write implements Sink.
func (f Func) Write(ctx context.Context, run *models.RunSummary, results Results) error {
	return f.Fn(ctx, run, results)
}

// Multi writes to every sink in order. A failing sink does not stop the
// others; all failures are joined into the returned error.
type Multi struct {
	sinks []Sink
}

// NewMulti creates a fan-out sink. Nil sinks are ignored.
func NewMulti(sinks ...Sink) *Multi {
	m := &Multi{}
	for _, s := range sinks {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
	return m
}

// Name implements Sink.
func (m *Multi) Name() string { return "multi" }

// Len returns the number of wrapped sinks.
func (m *Multi) Len() int { return len(m.sinks) }

// Write implements Sink.
func (m *Multi) Write(ctx context.Context, run *models.RunSummary, results Results) error {
	var errs []error
	for _, s := range m.sinks {
		start := time.Now()
		err := s.Write(ctx, run, results)
		metrics.RecordSinkWrite(s.Name(), time.Since(start), err)
		if err != nil {
			logging.Warn().
				Err(err).
				Str("sink", s.Name()).
				Str("run_id", run.RunID).
				Msg("Sink write failed")
			errs = append(errs, fmt.Errorf("sink %s: %w", s.Name(), err))
			continue
		}
		logging.Debug().
			Str("sink", s.Name()).
			Str("run_id", run.RunID).
			Dur("duration", time.Since(start)).
			Msg("Sink write complete")
	}
	return errors.Join(errs...)
}
