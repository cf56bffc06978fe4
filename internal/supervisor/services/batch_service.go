// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/tanimoto/internal/batch"
	"github.com/tomtom215/tanimoto/internal/models"
)

// BatchRunner is the part of batch.Pipeline the service drives.
type BatchRunner interface {
	Run(ctx context.Context) (*models.RunSummary, error)
}

// BatchServiceConfig holds scheduling for the batch service.
type BatchServiceConfig struct {
	// Interval re-runs the pipeline periodically. Zero runs it once.
	Interval time.Duration
}

// BatchService runs the similarity pipeline under supervision.
//
// With a zero Interval the pipeline runs once at startup. A failed one-shot
// run is returned so the supervisor retries it with backoff; a successful
// one stops the service for good. With a positive Interval the pipeline
// runs at startup and on every tick, and failed runs are logged and
// retried on the next tick.
type BatchService struct {
	runner BatchRunner
	config BatchServiceConfig
	logger zerolog.Logger
}

// NewBatchService creates a new batch service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBatchService(runner BatchRunner, cfg BatchServiceConfig, logger zerolog.Logger) *BatchService {
	return &BatchService{
		runner: runner,
		config: cfg,
		logger: logger.With().Str("service", "batch").Logger(),
	}
}

// Serve implements suture.Service.
func (s *BatchService) Serve(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.config.Interval).Msg("batch service starting")

	err := s.run(ctx)
	if s.config.Interval <= 0 {
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("batch run failed: %w", err)
		}
		s.logger.Info().Msg("one-shot batch run finished")
		return suture.ErrDoNotRestart
	}
	if err != nil {
		s.logger.Warn().Err(err).Msg("initial batch run failed (will retry on schedule)")
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("batch service shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.logger.Debug().Msg("scheduled batch run triggered")
			if err := s.run(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("scheduled batch run failed")
			}
		}
	}
}

func (s *BatchService) run(ctx context.Context) error {
	summary, err := s.runner.Run(ctx)
	if errors.Is(err, batch.ErrRunInProgress) {
		s.logger.Debug().Msg("batch run skipped, previous run still active")
		return nil
	}
	if err != nil {
		return err
	}
	if summary != nil {
		s.logger.Debug().Str("run_id", summary.RunID).Dur("duration", summary.Duration).Msg("batch run recorded")
	}
	return nil
}

// String implements fmt.Stringer for suture's event log.
func (s *BatchService) String() string {
	return "batch-pipeline"
}
