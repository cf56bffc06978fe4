// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

// Package interactions reads implicit-feedback logs into similarity records.
//
// The expected format is one interaction per line:
//
//	<user_id>,<item_id>[,<ignored>...]
//
// Plain and gzip-compressed files are both accepted; compression is detected
// from the content, not the file name. Lines that do not parse are skipped and
// counted rather than failing the whole ingest.
package interactions
