// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

package similarity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ctxCheckInterval is how many records are ingested between cancellation checks.
const ctxCheckInterval = 4096

// RecordReader is a stream of interactions. Next returns io.EOF when exhausted.
type RecordReader interface {
	Next() (Record, error)
}

// SliceReader serves records from memory.
type SliceReader struct {
	records []Record
	pos     int
}

// NewSliceReader returns a RecordReader over records.
func NewSliceReader(records []Record) *SliceReader {
	return &SliceReader{records: records}
}

// Next implements RecordReader.
func (r *SliceReader) Next() (Record, error) {
	if r.pos >= len(r.records) {
		return Record{}, io.EOF
	}
	rec := r.records[r.pos]
	r.pos++
	return rec, nil
}

// IndexBuilder accumulates interactions for an InteractionIndex.
// It is the exclusive write phase: not safe for concurrent use, and
// unusable once Build has been called.
type IndexBuilder struct {
	watchers     map[ItemID]UserSet
	order        []ItemID
	users        map[UserID]struct{}
	interactions int
	duplicates   int
	built        bool
}

// NewIndexBuilder creates an empty builder.
func NewIndexBuilder() *IndexBuilder {
	return &IndexBuilder{
		watchers: make(map[ItemID]UserSet),
		users:    make(map[UserID]struct{}),
	}
}

// Add records that user interacted with item. Repeating a pair has no
// effect on the watcher sets; it is only counted as a duplicate.
func (b *IndexBuilder) Add(user UserID, item ItemID) error {
	if b.built {
		return ErrIndexBuilt
	}

	set, ok := b.watchers[item]
	if !ok {
		set = make(UserSet)
		b.watchers[item] = set
		b.order = append(b.order, item)
	}

	if _, seen := set[user]; seen {
		b.duplicates++
		return nil
	}

	set[user] = struct{}{}
	b.users[user] = struct{}{}
	b.interactions++
	return nil
}

// AddRaw parses base-10 integer fields and adds the pair.
// Surrounding whitespace is ignored; anything else fails with ErrInvalidRecord.
func (b *IndexBuilder) AddRaw(userField, itemField string) error {
	user, err := strconv.ParseInt(strings.TrimSpace(userField), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: user id %q", ErrInvalidRecord, userField)
	}
	item, err := strconv.ParseInt(strings.TrimSpace(itemField), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: item id %q", ErrInvalidRecord, itemField)
	}
	return b.Add(UserID(user), ItemID(item))
}

// Ingest drains r into the builder and returns the number of records read.
// Reader errors other than io.EOF abort the pass.
func (b *IndexBuilder) Ingest(ctx context.Context, r RecordReader) (int, error) {
	n := 0
	for {
		if n%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return n, fmt.Errorf("ingest cancelled after %d records: %w", n, err)
			}
		}

		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, fmt.Errorf("read record %d: %w", n+1, err)
		}

		if err := b.Add(rec.UserID, rec.ItemID); err != nil {
			return n, err
		}
		n++
	}
}

// Build freezes the accumulated interactions into an immutable index.
// The builder must not be used afterwards.
func (b *IndexBuilder) Build() *InteractionIndex {
	b.built = true

	idx := &InteractionIndex{
		watchers: b.watchers,
		items:    b.order,
		stats: IndexStats{
			Items:        len(b.order),
			Users:        len(b.users),
			Interactions: b.interactions,
			Duplicates:   b.duplicates,
		},
	}

	b.watchers = nil
	b.order = nil
	b.users = nil
	return idx
}

// BuildIndex ingests r into a fresh builder and returns the built index.
func BuildIndex(ctx context.Context, r RecordReader) (*InteractionIndex, error) {
	b := NewIndexBuilder()
	if _, err := b.Ingest(ctx, r); err != nil {
		return nil, err
	}
	return b.Build(), nil
}

// InteractionIndex maps items to the users who interacted with them.
// Every listed item has at least one watcher. It is read-only after Build.
type InteractionIndex struct {
	watchers map[ItemID]UserSet
	items    []ItemID // first-appearance order
	stats    IndexStats
}

// Items returns every item with at least one watcher, in order of first appearance.
func (x *InteractionIndex) Items() []ItemID {
	out := make([]ItemID, len(x.items))
	copy(out, x.items)
	return out
}

// WatchersOf returns a copy of the users who interacted with item.
func (x *InteractionIndex) WatchersOf(item ItemID) (UserSet, error) {
	set, ok := x.watchers[item]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownItem, item)
	}
	return set.clone(), nil
}

// Contains reports whether item was observed during ingest.
func (x *InteractionIndex) Contains(item ItemID) bool {
	_, ok := x.watchers[item]
	return ok
}

// UserCount returns the number of watchers of item, 0 if unknown.
func (x *InteractionIndex) UserCount(item ItemID) int {
	return len(x.watchers[item])
}

// Len returns the number of items.
func (x *InteractionIndex) Len() int {
	return len(x.items)
}

// Stats returns the ingest summary.
func (x *InteractionIndex) Stats() IndexStats {
	return x.stats
}

// watchersOf returns the shared set without copying. Callers must not mutate it.
func (x *InteractionIndex) watchersOf(item ItemID) (UserSet, bool) {
	set, ok := x.watchers[item]
	return set, ok
}
