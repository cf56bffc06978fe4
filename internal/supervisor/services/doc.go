// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

/*
Package services adapts application components to suture.Service.

HTTPServerService turns the ListenAndServe/Shutdown pair of *http.Server
into a context-aware Serve. BatchService drives batch.Pipeline once at
startup and then on a fixed interval.

Return values drive the supervisor:

	suture.ErrDoNotRestart -> finished, never restarted
	ctx.Err()              -> shutdown requested
	other error            -> crashed, restarted with backoff
*/
package services
