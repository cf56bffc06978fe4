// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

// Package middleware provides the HTTP middleware used by the API router:
// request ids wired into the logging context, Prometheus request metrics
// and gzip response compression. All middleware have the
// func(http.Handler) http.Handler shape expected by chi's r.Use.
package middleware
