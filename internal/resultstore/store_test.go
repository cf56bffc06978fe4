// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

package resultstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/tanimoto/internal/models"
	"github.com/tomtom215/tanimoto/internal/similarity"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return s
}

func equalLists(a, b similarity.RankedNeighborList) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestStore_PutGet(t *testing.T) {
	s := newTestStore(t)
	if !s.InMemory() {
		t.Error("InMemory() = false for empty path")
	}

	if _, err := s.Get(1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() on empty store error = %v, want ErrNotFound", err)
	}

	want := similarity.RankedNeighborList{{ItemID: 2, Score: 2.0 / 3.0}, {ItemID: 3, Score: 0.1}}
	if err := s.Put("run-1", 1, want); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	got, err := s.Get(1)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !equalLists(got, want) {
		t.Errorf("Get() = %v, want %v", got, want)
	}

	if err := s.Put("run-1", 7, nil); err != nil {
		t.Fatalf("Put(nil) error = %v", err)
	}
	got, err = s.Get(7)
	if err != nil {
		t.Fatalf("Get(7) error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Get(7) = %#v, want empty non-nil list", got)
	}
}

func TestStore_PutAllReplaces(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := map[similarity.ItemID]similarity.RankedNeighborList{
		1: {{ItemID: 2, Score: 0.5}},
		2: {{ItemID: 1, Score: 0.5}},
		3: {},
	}
	if err := s.PutAll(ctx, "run-1", first); err != nil {
		t.Fatalf("PutAll() error = %v", err)
	}
	if n, err := s.Count(); err != nil || n != 3 {
		t.Fatalf("Count() = %d, %v; want 3", n, err)
	}

	second := map[similarity.ItemID]similarity.RankedNeighborList{
		-5: {{ItemID: 4, Score: 1}},
		4:  {{ItemID: -5, Score: 1}},
	}
	if err := s.PutAll(ctx, "run-2", second); err != nil {
		t.Fatalf("PutAll() error = %v", err)
	}
	if n, _ := s.Count(); n != 2 {
		t.Errorf("Count() after replace = %d, want 2", n)
	}
	if _, err := s.Get(1); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(1) after replace error = %v, want ErrNotFound", err)
	}
	got, err := s.Get(-5)
	if err != nil {
		t.Fatalf("Get(-5) error = %v", err)
	}
	if !equalLists(got, second[-5]) {
		t.Errorf("Get(-5) = %v, want %v", got, second[-5])
	}
}

func TestStore_PutAllCanceled(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.PutAll(ctx, "run", map[similarity.ItemID]similarity.RankedNeighborList{1: {}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("PutAll() error = %v, want context.Canceled", err)
	}
}

func TestStore_Runs(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.LoadRun(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("LoadRun() on empty store error = %v, want ErrNotFound", err)
	}

	started := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	run := &models.RunSummary{
		RunID:      "9d7e0a52-2c7c-4a43-a4a4-0e5f7c1d9b11",
		Source:     "file",
		StartedAt:  started,
		FinishedAt: started.Add(3 * time.Second),
		Duration:   3 * time.Second,
		Items:      12,
		Pairs:      66,
	}
	if err := s.SaveRun(run); err != nil {
		t.Fatalf("SaveRun() error = %v", err)
	}
	got, err := s.LoadRun()
	if err != nil {
		t.Fatalf("LoadRun() error = %v", err)
	}
	if got.RunID != run.RunID || got.Items != 12 || got.Pairs != 66 || got.Duration != run.Duration {
		t.Errorf("LoadRun() = %+v, want %+v", got, run)
	}
	if !got.StartedAt.Equal(started) {
		t.Errorf("LoadRun().StartedAt = %v, want %v", got.StartedAt, started)
	}
}

func TestStore_Persistent(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	want := similarity.RankedNeighborList{{ItemID: 9, Score: 0.75}}
	if err := s.Put("run", 8, want); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	s, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s.Close()

	got, err := s.Get(8)
	if err != nil {
		t.Fatalf("Get() after reopen error = %v", err)
	}
	if !equalLists(got, want) {
		t.Errorf("Get() after reopen = %v, want %v", got, want)
	}
}
