// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

package main

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/rs/zerolog"

	"github.com/tomtom215/tanimoto/internal/batch"
	"github.com/tomtom215/tanimoto/internal/config"
	"github.com/tomtom215/tanimoto/internal/database"
	"github.com/tomtom215/tanimoto/internal/logging"
	"github.com/tomtom215/tanimoto/internal/resultstore"
	"github.com/tomtom215/tanimoto/internal/similarity"
	"github.com/tomtom215/tanimoto/internal/sink"
)

// stores holds the optional persistence backends. Either field may be nil.
type stores struct {
	db    *database.DB
	store *resultstore.Store
}

// openStores opens DuckDB and Badger when enabled.
func openStores(cfg *config.Config) (*stores, error) {
	s := &stores{}
	if cfg.Database.Enabled {
		db, err := database.New(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		s.db = db
	}
	if cfg.Store.Enabled {
		store, err := resultstore.Open(cfg.Store.Path)
		if err != nil {
			s.close()
			return nil, fmt.Errorf("open result store: %w", err)
		}
		s.store = store
	}
	return s, nil
}

func (s *stores) close() {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing result store")
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}
}

// newSource selects the interaction source named by input.source.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func newSource(cfg *config.Config, s *stores, logger zerolog.Logger) (batch.Source, error) {
	switch cfg.Input.Source {
	case config.SourceFile:
		return &batch.FileSource{Path: cfg.Input.Path, Logger: logger}, nil
	case config.SourceDuckDB:
		if s.db == nil {
			return nil, errors.New("duckdb input requires database.enabled")
		}
		return &batch.TableSource{DB: s.db, Table: cfg.Input.Table}, nil
	default:
		return nil, fmt.Errorf("unknown input source %q", cfg.Input.Source)
	}
}

// newSink fans results out to every enabled store, each behind its own
// circuit breaker. It returns nil when nothing is persisted.
func newSink(cfg *config.Config, s *stores) sink.Sink {
	breaker := sink.BreakerConfig{
		FailureThreshold: cfg.Sink.BreakerFailures,
		Timeout:          cfg.Sink.BreakerTimeout,
	}

	var outs []sink.Sink
	if s.db != nil {
		outs = append(outs, sink.NewGuarded(sink.NewDatabase(s.db), breaker))
	}
	if s.store != nil {
		outs = append(outs, sink.NewGuarded(sink.NewSnapshot(s.store), breaker))
	}
	if len(outs) == 0 {
		return nil
	}
	return sink.NewMulti(outs...)
}

// pipelineConfig maps engine and batch settings onto batch.Config.
func pipelineConfig(cfg *config.Config) batch.Config {
	workers := cfg.Engine.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	return batch.Config{
		Limit:   cfg.BatchLimit(),
		Timeout: cfg.Batch.Timeout,
		Engine: similarity.Options{
			MinUsers: cfg.Engine.MinUsers,
			Workers:  workers,
		},
	}
}
