// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

package batch

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tomtom215/tanimoto/internal/database"
	"github.com/tomtom215/tanimoto/internal/interactions"
	"github.com/tomtom215/tanimoto/internal/similarity"
)

// Stream is an open record stream.
type Stream interface {
	similarity.RecordReader

	// Skipped returns the number of malformed records dropped so far.
	Skipped() int

	Close() error
}

// Source opens a fresh record stream for each run.
type Source interface {
	Name() string
	Open(ctx context.Context) (Stream, error)
}

// FileSource reads a "user_id,item_id" log, optionally gzipped.
type FileSource struct {
	Path   string
	Logger zerolog.Logger
}

// Name implements Source.
func (s *FileSource) Name() string { return "file" }

// Open implements Source.
func (s *FileSource) Open(context.Context) (Stream, error) {
	r, err := interactions.Open(s.Path, s.Logger)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// TableLoader is implemented by *database.DB.
type TableLoader interface {
	LoadInteractions(ctx context.Context, table string) (*database.TableReader, error)
}

// TableSource reads (user_id, item_id) rows from a DuckDB table.
type TableSource struct {
	DB    TableLoader
	Table string
}

// Name implements Source.
func (s *TableSource) Name() string { return "duckdb" }

// Open implements Source.
func (s *TableSource) Open(ctx context.Context) (Stream, error) {
	r, err := s.DB.LoadInteractions(ctx, s.Table)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// StaticSource replays a fixed record slice. It is used for tests and for
// seeding a server without an interaction log.
type StaticSource struct {
	Records []similarity.Record
}

// Name implements Source.
func (s *StaticSource) Name() string { return "static" }

// Open implements Source.
func (s *StaticSource) Open(context.Context) (Stream, error) {
	return &staticStream{SliceReader: similarity.NewSliceReader(s.Records)}, nil
}

type staticStream struct {
	*similarity.SliceReader
}

func (staticStream) Skipped() int { return 0 }
func (staticStream) Close() error { return nil }
