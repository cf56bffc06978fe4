// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/tanimoto/internal/logging"
	"github.com/tomtom215/tanimoto/internal/metrics"
	"github.com/tomtom215/tanimoto/internal/models"
	"github.com/tomtom215/tanimoto/internal/similarity"
	"github.com/tomtom215/tanimoto/internal/sink"
)

// ErrRunInProgress is returned when Run is called while another run is active.
var ErrRunInProgress = errors.New("batch run already in progress")

// Config controls a pipeline run.
type Config struct {
	// Limit is the neighbor count computed per item.
	Limit int

	// Engine is passed to every engine the pipeline builds.
	Engine similarity.Options

	// Timeout bounds a single run (0 = unbounded).
	Timeout time.Duration
}

// Pipeline ingests interactions, computes every item's neighbors, writes the
// results to the sink and publishes the new engine to the holder.
type Pipeline struct {
	source Source
	out    sink.Sink
	holder *Holder
	cfg    Config
	logger zerolog.Logger

	running sync.Mutex

	mu      sync.RWMutex
	lastRun *models.RunSummary
	lastErr error
}

// New creates a pipeline. out may be nil when results are only served from
// memory.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(source Source, out sink.Sink, holder *Holder, cfg Config, logger zerolog.Logger) (*Pipeline, error) {
	if source == nil {
		return nil, fmt.Errorf("batch: source is required")
	}
	if holder == nil {
		return nil, fmt.Errorf("batch: holder is required")
	}
	if cfg.Limit < 0 {
		return nil, fmt.Errorf("%w: batch limit must be >= 0, got %d", similarity.ErrInvalidArgument, cfg.Limit)
	}
	if err := cfg.Engine.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{
		source: source,
		out:    out,
		holder: holder,
		cfg:    cfg,
		logger: logger.With().Str("component", "batch").Logger(),
	}, nil
}

// Holder returns the holder the pipeline publishes to.
func (p *Pipeline) Holder() *Holder {
	return p.holder
}

// LastRun returns the summary and error of the most recent run.
func (p *Pipeline) LastRun() (*models.RunSummary, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastRun, p.lastErr
}

// Run performs one full batch run. The engine is published as soon as the
// neighbor lists are computed, so a failing sink does not keep a fresh index
// from being served; the sink error is still returned.
func (p *Pipeline) Run(ctx context.Context) (summary *models.RunSummary, err error) {
	if !p.running.TryLock() {
		return nil, ErrRunInProgress
	}
	defer p.running.Unlock()

	runID := uuid.New().String()
	ctx = logging.ContextWithCorrelationID(ctx, runID[:8])
	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	logger := p.logger.With().Str("run_id", runID).Str("source", p.source.Name()).Logger()
	start := time.Now()
	summary = &models.RunSummary{
		RunID:     runID,
		Source:    p.source.Name(),
		StartedAt: start.UTC(),
		Limit:     p.cfg.Limit,
		MinUsers:  p.cfg.Engine.MinUsers,
	}

	defer func() {
		metrics.RecordBatchRun(time.Since(start), err)
		p.mu.Lock()
		p.lastRun, p.lastErr = summary, err
		p.mu.Unlock()
	}()

	logger.Info().Int("limit", p.cfg.Limit).Int("min_users", p.cfg.Engine.MinUsers).Msg("Batch run started")

	engine, err := p.buildEngine(ctx, summary, logger)
	if err != nil {
		return summary, err
	}

	result, err := engine.ComputeAll(ctx, p.cfg.Limit)
	if err != nil {
		return summary, fmt.Errorf("compute similarities: %w", err)
	}
	metrics.RecordPairs(result.PairsEvaluated, result.PairsScored)

	summary.Eligible = len(engine.EligibleItems())
	summary.Pairs = result.PairsEvaluated
	summary.ScoredPairs = result.PairsScored
	summary.FinishedAt = time.Now().UTC()
	summary.Duration = summary.FinishedAt.Sub(summary.StartedAt)

	p.holder.Publish(engine, summary)
	metrics.SetIndexStats(summary.Items, summary.Users, summary.Interactions)

	if p.out != nil {
		if err = p.out.Write(ctx, summary, result.Neighbors); err != nil {
			logger.Error().Err(err).Msg("Batch results not fully persisted")
			return summary, fmt.Errorf("write results: %w", err)
		}
	}

	logger.Info().
		Int("items", summary.Items).
		Int("eligible", summary.Eligible).
		Int("users", summary.Users).
		Int64("pairs", summary.Pairs).
		Int64("scored_pairs", summary.ScoredPairs).
		Dur("compute", result.Duration).
		Dur("duration", time.Since(start)).
		Msg("Batch run complete")

	return summary, nil
}

// buildEngine ingests the source into a fresh index.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func (p *Pipeline) buildEngine(ctx context.Context, summary *models.RunSummary, logger zerolog.Logger) (*similarity.Engine, error) {
	stream, err := p.source.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open %s source: %w", p.source.Name(), err)
	}
	defer func() {
		if cerr := stream.Close(); cerr != nil {
			logger.Warn().Err(cerr).Msg("Failed to close interaction source")
		}
	}()

	builder := similarity.NewIndexBuilder()
	n, err := builder.Ingest(ctx, stream)
	summary.Records = n
	summary.Skipped = stream.Skipped()
	metrics.RecordIngest(n, summary.Skipped)
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}

	index := builder.Build()
	stats := index.Stats()
	summary.Items = stats.Items
	summary.Users = stats.Users
	summary.Interactions = stats.Interactions
	summary.Duplicates = stats.Duplicates

	logger.Debug().
		Int("records", n).
		Int("skipped", summary.Skipped).
		Int("items", stats.Items).
		Int("users", stats.Users).
		Int("duplicates", stats.Duplicates).
		Msg("Interaction index built")

	engine, err := similarity.NewEngine(index, p.cfg.Engine, logger)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}
	return engine, nil
}
