// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

package interactions

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog"

	"github.com/tomtom215/tanimoto/internal/similarity"
)

// maxLineBytes bounds a single input line.
const maxLineBytes = 1 << 20

var gzipMagic = []byte{0x1f, 0x8b}

// Reader streams (user, item) records from "<user_id>,<item_id>[,...]" lines.
// Gzip input is detected from the leading magic bytes. Blank lines and lines
// starting with '#' are ignored; malformed lines are skipped and counted.
// Reader implements similarity.RecordReader.
type Reader struct {
	scanner *bufio.Scanner
	closers []io.Closer
	logger  zerolog.Logger

	lines   int
	records int
	skipped int
}

// NewReader wraps r, transparently decompressing gzip input.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewReader(r io.Reader, logger zerolog.Logger) (*Reader, error) {
	br := bufio.NewReaderSize(r, 64*1024)

	var src io.Reader = br
	var closers []io.Closer

	magic, err := br.Peek(len(gzipMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("peek input: %w", err)
	}
	if bytes.Equal(magic, gzipMagic) {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("open gzip stream: %w", err)
		}
		src = gz
		closers = append(closers, gz)
	}

	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	return &Reader{
		scanner: scanner,
		closers: closers,
		logger:  logger.With().Str("component", "interactions").Logger(),
	}, nil
}

// Open opens the log file at path. The caller must Close the reader.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func Open(path string, logger zerolog.Logger) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open interaction log: %w", err)
	}

	r, err := NewReader(f, logger)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	r.closers = append(r.closers, f)
	return r, nil
}

// Next implements similarity.RecordReader.
func (r *Reader) Next() (similarity.Record, error) {
	for r.scanner.Scan() {
		r.lines++
		line := strings.TrimSpace(r.scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}

		rec, err := ParseLine(line)
		if err != nil {
			r.skipped++
			r.logger.Debug().Int("line", r.lines).Err(err).Msg("Skipping malformed interaction line")
			continue
		}
		r.records++
		return rec, nil
	}

	if err := r.scanner.Err(); err != nil {
		return similarity.Record{}, fmt.Errorf("read line %d: %w", r.lines+1, err)
	}
	return similarity.Record{}, io.EOF
}

// Lines returns the number of lines consumed so far.
func (r *Reader) Lines() int { return r.lines }

// Records returns the number of records returned so far.
func (r *Reader) Records() int { return r.records }

// Skipped returns the number of malformed lines skipped so far.
func (r *Reader) Skipped() int { return r.skipped }

// Close releases the decompressor and the underlying file, if any.
func (r *Reader) Close() error {
	var errs []error
	for _, c := range r.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}

// ParseLine parses "<user_id>,<item_id>[,...]". Fields beyond the second are ignored.
func ParseLine(line string) (similarity.Record, error) {
	userField, rest, ok := strings.Cut(line, ",")
	if !ok {
		return similarity.Record{}, fmt.Errorf("%w: expected at least 2 fields", similarity.ErrInvalidRecord)
	}
	itemField, _, _ := strings.Cut(rest, ",")

	user, err := strconv.ParseInt(strings.TrimSpace(userField), 10, 64)
	if err != nil {
		return similarity.Record{}, fmt.Errorf("%w: user id %q", similarity.ErrInvalidRecord, userField)
	}
	item, err := strconv.ParseInt(strings.TrimSpace(itemField), 10, 64)
	if err != nil {
		return similarity.Record{}, fmt.Errorf("%w: item id %q", similarity.ErrInvalidRecord, itemField)
	}

	return similarity.Record{UserID: similarity.UserID(user), ItemID: similarity.ItemID(item)}, nil
}
