// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

/*
Package database persists similarity results in DuckDB.

Two tables are maintained:

  - item_similarities: one row per (item, neighbor) with a 1-based rank,
    replaced wholesale by each batch run inside a single transaction
  - similarity_runs: one summary row per completed batch run

The package also exposes a DuckDB table as an interaction source through
LoadInteractions, so a batch run can read (user_id, item_id) rows that were
loaded into the same database by other tooling.

Paths of ":memory:" (or empty) open a private in-process database, which is
what the tests use.
*/
package database
