// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

// Package logging provides the process-wide zerolog logger.
//
// Call Init once from main with values from the logging section of the
// configuration. Components derive child loggers with WithComponent; request
// and batch scoped code uses Ctx(ctx) to pick up request and correlation ids.
//
//	logging.Init(logging.Config{Level: "info", Format: "json", Timestamp: true})
//	logging.Info().Str("path", path).Msg("Reading interaction log")
//	logging.Ctx(ctx).Debug().Int("items", n).Msg("Index built")
//
// NewSlogLogger bridges zerolog to log/slog for the supervisor tree.
package logging
