// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

package batch

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog"

	"github.com/tomtom215/tanimoto/internal/models"
	"github.com/tomtom215/tanimoto/internal/similarity"
	"github.com/tomtom215/tanimoto/internal/sink"
)

// exampleRecords: 1:{u1,u2}, 2:{u2,u3}, 3:{u1,u2,u3}, plus one duplicate.
func exampleRecords() []similarity.Record {
	return []similarity.Record{
		{UserID: 1, ItemID: 1}, {UserID: 2, ItemID: 1},
		{UserID: 2, ItemID: 2}, {UserID: 3, ItemID: 2},
		{UserID: 1, ItemID: 3}, {UserID: 2, ItemID: 3}, {UserID: 3, ItemID: 3},
		{UserID: 1, ItemID: 1},
	}
}

type recordingSink struct {
	run     *models.RunSummary
	results sink.Results
	err     error
}

func (r *recordingSink) Name() string { return "recording" }

func (r *recordingSink) Write(_ context.Context, run *models.RunSummary, results sink.Results) error {
	r.run = run
	r.results = results
	return r.err
}

func newTestPipeline(t *testing.T, src Source, out sink.Sink, cfg Config) *Pipeline {
	t.Helper()
	p, err := New(src, out, NewHolder(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return p
}

func TestPipeline_Run(t *testing.T) {
	out := &recordingSink{}
	p := newTestPipeline(t, &StaticSource{Records: exampleRecords()}, out, Config{Limit: 10, Engine: similarity.Options{Workers: 2}})

	var published *Snapshot
	p.Holder().OnPublish(func(s *Snapshot) { published = s })

	summary, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if _, err := uuid.Parse(summary.RunID); err != nil {
		t.Errorf("RunID %q is not a UUID: %v", summary.RunID, err)
	}
	if summary.Source != "static" {
		t.Errorf("Source = %q, want static", summary.Source)
	}
	if summary.Records != 8 || summary.Items != 3 || summary.Users != 3 || summary.Interactions != 7 || summary.Duplicates != 1 {
		t.Errorf("summary counts = %+v", summary)
	}
	if summary.Pairs != 3 || summary.ScoredPairs != 3 || summary.Eligible != 3 {
		t.Errorf("summary pairs = %d/%d eligible = %d, want 3/3/3", summary.Pairs, summary.ScoredPairs, summary.Eligible)
	}
	if summary.FinishedAt.Before(summary.StartedAt) {
		t.Errorf("FinishedAt %v before StartedAt %v", summary.FinishedAt, summary.StartedAt)
	}

	if published == nil || published.Run != summary {
		t.Fatal("OnPublish listener did not receive the run")
	}
	engine := p.Holder().Engine()
	if engine == nil {
		t.Fatal("Holder().Engine() = nil after run")
	}
	got, err := engine.SimilarItemsTo(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("SimilarItemsTo() error = %v", err)
	}
	if len(got) != 2 || got[0].ItemID != 3 || got[1].ItemID != 2 {
		t.Fatalf("SimilarItemsTo(1) = %v, want [3 2]", got)
	}
	if math.Abs(got[0].Score-2.0/3.0) > 1e-12 {
		t.Errorf("score(1,3) = %v, want 2/3", got[0].Score)
	}

	if out.run != summary || len(out.results) != 3 {
		t.Errorf("sink got run=%v results=%d", out.run, len(out.results))
	}

	last, lastErr := p.LastRun()
	if last != summary || lastErr != nil {
		t.Errorf("LastRun() = %v, %v", last, lastErr)
	}
}

func TestPipeline_SinkFailureStillPublishes(t *testing.T) {
	errDown := errors.New("down")
	out := &recordingSink{err: errDown}
	p := newTestPipeline(t, &StaticSource{Records: exampleRecords()}, out, Config{Limit: 5})

	_, err := p.Run(context.Background())
	if !errors.Is(err, errDown) {
		t.Fatalf("Run() error = %v, want errDown", err)
	}
	if !p.Holder().Ready() {
		t.Error("engine not published after sink failure")
	}
	if _, lastErr := p.LastRun(); !errors.Is(lastErr, errDown) {
		t.Errorf("LastRun() error = %v, want errDown", lastErr)
	}
}

func TestPipeline_MinUsers(t *testing.T) {
	p := newTestPipeline(t, &StaticSource{Records: exampleRecords()}, nil, Config{Limit: 10, Engine: similarity.Options{MinUsers: 3}})

	summary, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Eligible != 1 || summary.Pairs != 0 {
		t.Errorf("Eligible = %d Pairs = %d, want 1 and 0", summary.Eligible, summary.Pairs)
	}
}

type failingSource struct{ err error }

func (f *failingSource) Name() string { return "failing" }

func (f *failingSource) Open(context.Context) (Stream, error) { return nil, f.err }

func TestPipeline_SourceErrors(t *testing.T) {
	errOpen := errors.New("no such log")
	p := newTestPipeline(t, &failingSource{err: errOpen}, nil, Config{Limit: 1})

	if _, err := p.Run(context.Background()); !errors.Is(err, errOpen) {
		t.Errorf("Run() error = %v, want errOpen", err)
	}
	if p.Holder().Ready() {
		t.Error("engine published despite source failure")
	}
}

func TestPipeline_CanceledContext(t *testing.T) {
	p := newTestPipeline(t, &StaticSource{Records: exampleRecords()}, nil, Config{Limit: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

type blockingSource struct {
	opened  chan struct{}
	release chan struct{}
}

func (b *blockingSource) Name() string { return "blocking" }

func (b *blockingSource) Open(context.Context) (Stream, error) {
	close(b.opened)
	<-b.release
	return (&StaticSource{}).Open(context.Background())
}

func TestPipeline_RunInProgress(t *testing.T) {
	src := &blockingSource{opened: make(chan struct{}), release: make(chan struct{})}
	p := newTestPipeline(t, src, nil, Config{Limit: 1})

	done := make(chan error, 1)
	go func() {
		_, err := p.Run(context.Background())
		done <- err
	}()

	<-src.opened
	if _, err := p.Run(context.Background()); !errors.Is(err, ErrRunInProgress) {
		t.Errorf("concurrent Run() error = %v, want ErrRunInProgress", err)
	}
	close(src.release)

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("first Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("first Run() did not finish")
	}
}

func TestNew_Validation(t *testing.T) {
	src := &StaticSource{}
	tests := []struct {
		name   string
		source Source
		holder *Holder
		cfg    Config
	}{
		{"nil source", nil, NewHolder(), Config{}},
		{"nil holder", src, nil, Config{}},
		{"negative limit", src, NewHolder(), Config{Limit: -1}},
		{"negative min users", src, NewHolder(), Config{Engine: similarity.Options{MinUsers: -1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.source, nil, tt.holder, tt.cfg, zerolog.Nop()); err == nil {
				t.Error("New() expected error")
			}
		})
	}
}

func TestFileSource_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.csv.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := gzip.NewWriter(f)
	if _, err := zw.Write([]byte("# user,item\n1,10\n2,10\nbad line\n2,20\n")); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	p := newTestPipeline(t, &FileSource{Path: path, Logger: zerolog.Nop()}, nil, Config{Limit: 5})
	summary, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Records != 3 || summary.Skipped != 1 || summary.Items != 2 {
		t.Errorf("summary = %+v, want 3 records, 1 skipped, 2 items", summary)
	}
	if summary.ScoredPairs != 1 {
		t.Errorf("ScoredPairs = %d, want 1", summary.ScoredPairs)
	}
}

func TestHolder(t *testing.T) {
	h := NewHolder()
	if h.Ready() || h.Load() != nil || h.Engine() != nil {
		t.Fatal("new holder should be empty")
	}

	idx, err := similarity.BuildIndex(context.Background(), similarity.NewSliceReader(exampleRecords()))
	if err != nil {
		t.Fatal(err)
	}
	engine, err := similarity.NewEngine(idx, similarity.Options{}, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	calls := 0
	h.OnPublish(func(*Snapshot) { calls++ })
	first := h.Publish(engine, &models.RunSummary{RunID: "a"})
	second := h.Publish(engine, &models.RunSummary{RunID: "b"})

	if calls != 2 {
		t.Errorf("listener calls = %d, want 2", calls)
	}
	if h.Load() != second || first == second {
		t.Error("Load() did not return the latest snapshot")
	}
	if h.Load().Run.RunID != "b" {
		t.Errorf("Run.RunID = %q, want b", h.Load().Run.RunID)
	}
}
