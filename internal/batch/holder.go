// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

package batch

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/tanimoto/internal/models"
	"github.com/tomtom215/tanimoto/internal/similarity"
)

// Snapshot is an engine together with the run that built it.
type Snapshot struct {
	Engine      *similarity.Engine
	Run         *models.RunSummary
	PublishedAt time.Time
}

// Holder publishes the most recent engine to concurrent readers. Readers
// that called Load before a Publish keep their snapshot; engines are
// immutable so old and new snapshots can be queried side by side.
type Holder struct {
	current atomic.Pointer[Snapshot]

	mu        sync.Mutex
	listeners []func(*Snapshot)
}

// NewHolder creates an empty holder.
func NewHolder() *Holder {
	return &Holder{}
}

// Load returns the current snapshot, or nil before the first Publish.
func (h *Holder) Load() *Snapshot {
	return h.current.Load()
}

// Engine returns the current engine, or nil before the first Publish.
func (h *Holder) Engine() *similarity.Engine {
	if s := h.current.Load(); s != nil {
		return s.Engine
	}
	return nil
}

// Ready reports whether an engine has been published.
func (h *Holder) Ready() bool {
	return h.current.Load() != nil
}

// Publish swaps in engine and notifies listeners.
func (h *Holder) Publish(engine *similarity.Engine, run *models.RunSummary) *Snapshot {
	snap := &Snapshot{Engine: engine, Run: run, PublishedAt: time.Now()}

	h.mu.Lock()
	h.current.Store(snap)
	listeners := make([]func(*Snapshot), len(h.listeners))
	copy(listeners, h.listeners)
	h.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
	return snap
}

// OnPublish registers fn to run after every Publish, on the publishing
// goroutine.
func (h *Holder) OnPublish(fn func(*Snapshot)) {
	h.mu.Lock()
	h.listeners = append(h.listeners, fn)
	h.mu.Unlock()
}
