// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

package database

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"regexp"

	"github.com/tomtom215/tanimoto/internal/logging"
	"github.com/tomtom215/tanimoto/internal/similarity"
)

// identifierPattern accepts "table" or "schema.table".
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// TableReader streams (user_id, item_id) rows from a DuckDB table. It
// implements similarity.RecordReader. Rows whose ids are NULL or cannot be
// cast to BIGINT are skipped and counted.
type TableReader struct {
	rows    *sql.Rows
	table   string
	records int
	skipped int
	done    bool
}

// LoadInteractions opens a record stream over table. The caller must Close
// the reader; it is also closed once Next reaches io.EOF.
func (db *DB) LoadInteractions(ctx context.Context, table string) (*TableReader, error) {
	if !identifierPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid interaction table name %q", table)
	}

	// The identifier is validated above; placeholders cannot bind table names.
	query := fmt.Sprintf("SELECT TRY_CAST(user_id AS BIGINT), TRY_CAST(item_id AS BIGINT) FROM %s", table) // #nosec G201
	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query interactions from %s: %w", table, err)
	}
	return &TableReader{rows: rows, table: table}, nil
}

// Next returns the next record or io.EOF.
func (r *TableReader) Next() (similarity.Record, error) {
	for !r.done {
		if !r.rows.Next() {
			r.done = true
			err := r.rows.Err()
			closeWithLog(r.rows, "rows")
			if err != nil {
				return similarity.Record{}, fmt.Errorf("failed to read interactions from %s: %w", r.table, err)
			}
			break
		}

		var user, item sql.NullInt64
		if err := r.rows.Scan(&user, &item); err != nil {
			return similarity.Record{}, fmt.Errorf("failed to scan interaction: %w", err)
		}
		if !user.Valid || !item.Valid {
			r.skipped++
			logging.Debug().Str("table", r.table).Msg("Skipping interaction row with missing id")
			continue
		}
		r.records++
		return similarity.Record{UserID: similarity.UserID(user.Int64), ItemID: similarity.ItemID(item.Int64)}, nil
	}
	return similarity.Record{}, io.EOF
}

// Records returns the number of rows returned so far.
func (r *TableReader) Records() int {
	return r.records
}

// Skipped returns the number of rows dropped so far.
func (r *TableReader) Skipped() int {
	return r.skipped
}

// Close releases the underlying result set.
func (r *TableReader) Close() error {
	if r.done {
		return nil
	}
	r.done = true
	return r.rows.Close()
}
