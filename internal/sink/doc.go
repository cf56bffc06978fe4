// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

/*
Package sink fans batch results out to the configured stores.

A Sink receives the exhaustive neighbor lists and the run summary of one
batch run. Database and Snapshot adapt the DuckDB and Badger stores; Guarded
puts a gobreaker circuit breaker in front of a sink so a store that keeps
failing is skipped until its timeout elapses; Multi writes to every sink and
joins the failures.

Typical wiring:

	out := sink.NewMulti(
		sink.NewGuarded(sink.NewDatabase(db), breaker),
		sink.NewGuarded(sink.NewSnapshot(store), breaker),
	)
	err := out.Write(ctx, run, results)
*/
package sink
