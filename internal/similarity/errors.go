// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

package similarity

import "errors"

// Sentinel errors. Returned errors wrap these with context; match with errors.Is.
var (
	// ErrUnknownItem is returned when a query names an item never seen during ingest.
	ErrUnknownItem = errors.New("unknown item")

	// ErrInvalidArgument is returned for out-of-range query parameters such as a negative limit.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidRecord is returned when raw interaction fields are not integers.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrIndexBuilt is returned when a builder is used after Build.
	ErrIndexBuilt = errors.New("index already built")
)
