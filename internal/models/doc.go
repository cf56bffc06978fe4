// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

// Package models holds the types shared between the batch pipeline, the
// result stores and the HTTP API: the response envelope, response payloads
// and the batch run summary.
package models
