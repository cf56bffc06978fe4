// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/tanimoto/internal/api"
	"github.com/tomtom215/tanimoto/internal/batch"
	"github.com/tomtom215/tanimoto/internal/config"
	"github.com/tomtom215/tanimoto/internal/logging"
	"github.com/tomtom215/tanimoto/internal/supervisor"
	"github.com/tomtom215/tanimoto/internal/supervisor/services"
)

func main() {
	os.Exit(run())
}

//nolint:gocyclo // sequential setup steps
func run() int {
	cfg, err := config.Load()
	if err != nil {
		logging.Error().Err(err).Msg("Failed to load configuration")
		return 1
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	logging.Info().
		Str("source", cfg.Input.Source).
		Int("limit", cfg.BatchLimit()).
		Int("min_users", cfg.Engine.MinUsers).
		Bool("database", cfg.Database.Enabled).
		Bool("store", cfg.Store.Enabled).
		Bool("server", cfg.Server.Enabled).
		Msg("Configuration loaded")

	st, err := openStores(cfg)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to open storage")
		return 1
	}
	defer st.close()

	logger := logging.Logger()
	source, err := newSource(cfg, st, logging.WithComponent("interactions"))
	if err != nil {
		logging.Error().Err(err).Msg("Failed to configure interaction source")
		return 1
	}

	holder := batch.NewHolder()
	pipeline, err := batch.New(source, newSink(cfg, st), holder, pipelineConfig(cfg), logger)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to create batch pipeline")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Without a server and a schedule there is nothing to supervise.
	if !cfg.Server.Enabled && cfg.Batch.Interval <= 0 {
		if _, err := pipeline.Run(ctx); err != nil {
			logging.Error().Err(err).Msg("Batch run failed")
			return 1
		}
		return 0
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Error().Err(err).Msg("Failed to create supervisor tree")
		return 1
	}

	tree.AddDataService(services.NewBatchService(pipeline, services.BatchServiceConfig{
		Interval: cfg.Batch.Interval,
	}, logger))

	if cfg.Server.Enabled {
		handler := api.NewHandler(holder, api.HandlerConfigFrom(cfg))
		if st.db != nil {
			handler.WithRunHistory(st.db)
		}
		if st.store != nil {
			handler.WithSnapshot(st.store)
		}
		router := api.NewRouter(handler, api.ChiMiddlewareConfigFromSecurity(cfg.Security))

		server := &http.Server{
			Addr:              cfg.Server.Addr(),
			Handler:           router.Setup(),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       cfg.Server.Timeout,
			WriteTimeout:      cfg.Server.Timeout,
			IdleTimeout:       60 * time.Second,
		}
		tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	}

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	exit := 0
	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
			exit = 1
		}
	}
	stop()

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}
	tree.LogUnstopped()

	logging.Info().Msg("Tanimoto stopped")
	return exit
}
