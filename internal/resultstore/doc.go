// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

// Package resultstore is a BadgerDB snapshot of the latest batch results.
//
// Each item's ranked neighbor list is stored as JSON under "sim:<item_id>"
// and the producing run summary under "meta:last_run". PutAll replaces the
// whole snapshot.
package resultstore
