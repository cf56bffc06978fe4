// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

/*
Package batch runs the offline similarity pipeline.

A run opens a Source (interaction log file or DuckDB table), ingests it into
a fresh InteractionIndex, computes the ranked neighbors of every eligible
item, publishes the new engine through a Holder and finally hands the
results to a sink. Each run gets a UUID that is stored with its results and
used as the log correlation id.

The Holder is how the HTTP API sees the data: handlers Load the current
snapshot once per request and query it without locks. Listeners registered
with OnPublish (the API response cache) are told when a new engine replaces
the old one.
*/
package batch
