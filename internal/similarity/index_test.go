// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

package similarity

import (
	"context"
	"errors"
	"io"
	"reflect"
	"testing"
)

// buildIndex creates an index from (user, item) pairs.
func buildIndex(t *testing.T, pairs ...[2]int64) *InteractionIndex {
	t.Helper()

	b := NewIndexBuilder()
	for _, p := range pairs {
		if err := b.Add(UserID(p[0]), ItemID(p[1])); err != nil {
			t.Fatalf("Add(%d, %d) failed: %v", p[0], p[1], err)
		}
	}
	return b.Build()
}

func TestIndexBuilder_ItemsInFirstAppearanceOrder(t *testing.T) {
	idx := buildIndex(t,
		[2]int64{1, 30},
		[2]int64{2, 10},
		[2]int64{1, 20},
		[2]int64{3, 10},
		[2]int64{4, 30},
	)

	want := []ItemID{30, 10, 20}
	if got := idx.Items(); !reflect.DeepEqual(got, want) {
		t.Errorf("Items() = %v, want %v", got, want)
	}
	if idx.Len() != 3 {
		t.Errorf("Len() = %d, want 3", idx.Len())
	}
}

func TestIndexBuilder_DuplicatesAreIdempotent(t *testing.T) {
	once := buildIndex(t, [2]int64{1, 5}, [2]int64{2, 5})
	twice := buildIndex(t, [2]int64{1, 5}, [2]int64{1, 5}, [2]int64{2, 5}, [2]int64{1, 5})

	w1, err := once.WatchersOf(5)
	if err != nil {
		t.Fatalf("WatchersOf failed: %v", err)
	}
	w2, err := twice.WatchersOf(5)
	if err != nil {
		t.Fatalf("WatchersOf failed: %v", err)
	}
	if !reflect.DeepEqual(w1, w2) {
		t.Errorf("watcher sets differ: %v vs %v", w1.Sorted(), w2.Sorted())
	}

	stats := twice.Stats()
	if stats.Interactions != 2 {
		t.Errorf("Interactions = %d, want 2", stats.Interactions)
	}
	if stats.Duplicates != 2 {
		t.Errorf("Duplicates = %d, want 2", stats.Duplicates)
	}
	if stats.Users != 2 || stats.Items != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestInteractionIndex_WatchersOf(t *testing.T) {
	idx := buildIndex(t, [2]int64{7, 1}, [2]int64{3, 1}, [2]int64{7, 2})

	got, err := idx.WatchersOf(1)
	if err != nil {
		t.Fatalf("WatchersOf(1) failed: %v", err)
	}
	if want := []UserID{3, 7}; !reflect.DeepEqual(got.Sorted(), want) {
		t.Errorf("WatchersOf(1) = %v, want %v", got.Sorted(), want)
	}

	// Mutating the returned set must not leak into the index.
	got[99] = struct{}{}
	again, _ := idx.WatchersOf(1)
	if again.Has(99) {
		t.Error("WatchersOf returned a shared set")
	}

	if _, err := idx.WatchersOf(404); !errors.Is(err, ErrUnknownItem) {
		t.Errorf("WatchersOf(404) error = %v, want ErrUnknownItem", err)
	}

	if !idx.Contains(2) || idx.Contains(404) {
		t.Error("Contains returned wrong result")
	}
	if idx.UserCount(1) != 2 || idx.UserCount(404) != 0 {
		t.Error("UserCount returned wrong result")
	}
}

func TestInteractionIndex_ItemsReturnsCopy(t *testing.T) {
	idx := buildIndex(t, [2]int64{1, 1}, [2]int64{1, 2})

	items := idx.Items()
	items[0] = 999

	if got := idx.Items()[0]; got != 1 {
		t.Errorf("Items() leaked internal slice, first item = %d", got)
	}
}

func TestIndexBuilder_AddRaw(t *testing.T) {
	tests := []struct {
		name    string
		user    string
		item    string
		wantErr error
	}{
		{name: "valid", user: "12", item: "34"},
		{name: "whitespace", user: " 12 ", item: "\t34"},
		{name: "negative ids", user: "-1", item: "-2"},
		{name: "large ids", user: "9223372036854775807", item: "1"},
		{name: "non-numeric user", user: "abc", item: "1", wantErr: ErrInvalidRecord},
		{name: "non-numeric item", user: "1", item: "x1", wantErr: ErrInvalidRecord},
		{name: "empty user", user: "", item: "1", wantErr: ErrInvalidRecord},
		{name: "float item", user: "1", item: "1.5", wantErr: ErrInvalidRecord},
		{name: "overflow", user: "99999999999999999999", item: "1", wantErr: ErrInvalidRecord},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewIndexBuilder()
			err := b.AddRaw(tt.user, tt.item)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("AddRaw() error = %v, want %v", err, tt.wantErr)
				}
				if b.Build().Len() != 0 {
					t.Error("invalid record must not be indexed")
				}
				return
			}
			if err != nil {
				t.Fatalf("AddRaw() unexpected error: %v", err)
			}
			if b.Build().Len() != 1 {
				t.Error("expected one indexed item")
			}
		})
	}
}

func TestIndexBuilder_UseAfterBuild(t *testing.T) {
	b := NewIndexBuilder()
	_ = b.Add(1, 1)
	b.Build()

	if err := b.Add(2, 2); !errors.Is(err, ErrIndexBuilt) {
		t.Errorf("Add after Build error = %v, want ErrIndexBuilt", err)
	}
}

func TestIndexBuilder_Ingest(t *testing.T) {
	records := []Record{
		{UserID: 1, ItemID: 1},
		{UserID: 2, ItemID: 1},
		{UserID: 2, ItemID: 2},
		{UserID: 2, ItemID: 2},
	}

	b := NewIndexBuilder()
	n, err := b.Ingest(context.Background(), NewSliceReader(records))
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if n != 4 {
		t.Errorf("Ingest read %d records, want 4", n)
	}

	idx := b.Build()
	if idx.Len() != 2 {
		t.Errorf("Len() = %d, want 2", idx.Len())
	}
	if idx.Stats().Duplicates != 1 {
		t.Errorf("Duplicates = %d, want 1", idx.Stats().Duplicates)
	}
}

type failingReader struct {
	after int
	err   error
}

func (r *failingReader) Next() (Record, error) {
	if r.after == 0 {
		return Record{}, r.err
	}
	r.after--
	return Record{UserID: 1, ItemID: ItemID(r.after)}, nil
}

func TestIndexBuilder_IngestReaderError(t *testing.T) {
	boom := errors.New("disk on fire")

	_, err := NewIndexBuilder().Ingest(context.Background(), &failingReader{after: 3, err: boom})
	if !errors.Is(err, boom) {
		t.Errorf("Ingest error = %v, want wrapped %v", err, boom)
	}
}

func TestIndexBuilder_IngestCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewIndexBuilder().Ingest(ctx, &failingReader{after: 10, err: io.EOF})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Ingest error = %v, want context.Canceled", err)
	}
}

func TestBuildIndex(t *testing.T) {
	idx, err := BuildIndex(context.Background(), NewSliceReader([]Record{{UserID: 5, ItemID: 9}}))
	if err != nil {
		t.Fatalf("BuildIndex failed: %v", err)
	}
	if !idx.Contains(9) {
		t.Error("expected item 9 in index")
	}
}

func TestEmptyIndex(t *testing.T) {
	idx := NewIndexBuilder().Build()

	if idx.Len() != 0 || len(idx.Items()) != 0 {
		t.Error("expected empty index")
	}
	if _, err := idx.WatchersOf(1); !errors.Is(err, ErrUnknownItem) {
		t.Errorf("WatchersOf on empty index error = %v, want ErrUnknownItem", err)
	}
}
