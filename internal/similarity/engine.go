// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

package similarity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options tunes an Engine. The zero value computes over every item on a
// single goroutine.
type Options struct {
	// MinUsers excludes items with fewer watchers from candidates and from
	// exhaustive results. 0 disables the threshold.
	MinUsers int

	// Workers is the number of goroutines used by SimilarItemsForAllItems.
	// Values <= 1 use a single worker.
	Workers int
}

// Validate checks option ranges.
func (o Options) Validate() error {
	if o.MinUsers < 0 {
		return fmt.Errorf("%w: min users must be >= 0, got %d", ErrInvalidArgument, o.MinUsers)
	}
	if o.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidArgument, o.Workers)
	}
	return nil
}

// Engine answers similarity queries over an immutable InteractionIndex.
// It holds no mutable state, so a single Engine may serve concurrent queries.
type Engine struct {
	index    *InteractionIndex
	opts     Options
	eligible []ItemID // items meeting MinUsers, index order
	logger   zerolog.Logger
}

// NewEngine creates an engine over index.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEngine(index *InteractionIndex, opts Options, logger zerolog.Logger) (*Engine, error) {
	if index == nil {
		return nil, fmt.Errorf("%w: nil index", ErrInvalidArgument)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	eligible := make([]ItemID, 0, len(index.items))
	for _, item := range index.items {
		if len(index.watchers[item]) >= opts.MinUsers {
			eligible = append(eligible, item)
		}
	}

	return &Engine{
		index:    index,
		opts:     opts,
		eligible: eligible,
		logger:   logger.With().Str("component", "similarity").Logger(),
	}, nil
}

// Index returns the index the engine reads from.
func (e *Engine) Index() *InteractionIndex {
	return e.index
}

// Options returns the effective options.
func (e *Engine) Options() Options {
	return e.opts
}

// EligibleItems returns the items that pass the MinUsers threshold, in index order.
func (e *Engine) EligibleItems() []ItemID {
	out := make([]ItemID, len(e.eligible))
	copy(out, e.eligible)
	return out
}

// Similarity returns the score between two distinct items. ok is false when
// they share no watcher, in which case the pair has no score.
func (e *Engine) Similarity(a, b ItemID) (score float64, ok bool, err error) {
	if a == b {
		return 0, false, fmt.Errorf("%w: self-similarity of item %d", ErrInvalidArgument, a)
	}
	setA, found := e.index.watchersOf(a)
	if !found {
		return 0, false, fmt.Errorf("%w: %d", ErrUnknownItem, a)
	}
	setB, found := e.index.watchersOf(b)
	if !found {
		return 0, false, fmt.Errorf("%w: %d", ErrUnknownItem, b)
	}

	score, common := Tanimoto(setA, setB)
	return score, common > 0, nil
}

// SimilarItemsTo returns up to limit items most similar to item, excluding
// item itself and any item sharing no watcher with it.
func (e *Engine) SimilarItemsTo(ctx context.Context, item ItemID, limit int) (RankedNeighborList, error) {
	if err := validateLimit(limit); err != nil {
		return nil, err
	}

	target, found := e.index.watchersOf(item)
	if !found {
		return nil, fmt.Errorf("%w: %d", ErrUnknownItem, item)
	}

	if limit == 0 || len(target) < e.opts.MinUsers {
		return RankedNeighborList{}, nil
	}

	candidates := make([]Neighbor, 0, 64)
	for i, other := range e.eligible {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("similar items to %d: %w", item, err)
			}
		}
		if other == item {
			continue
		}

		score, common := Tanimoto(target, e.index.watchers[other])
		if common == 0 {
			continue
		}
		candidates = append(candidates, Neighbor{ItemID: other, Score: score})
	}

	return rankNeighbors(candidates, limit), nil
}

// AllItemsResult is the output of an exhaustive computation.
type AllItemsResult struct {
	// Neighbors has a key for every eligible item, possibly with an empty list.
	Neighbors map[ItemID]RankedNeighborList

	// PairsEvaluated counts unordered pairs whose intersection was computed.
	PairsEvaluated int64

	// PairsScored counts pairs with at least one common watcher.
	PairsScored int64

	Duration time.Duration
}

// SimilarItemsForAllItems returns the top limit neighbors of every eligible item.
// For any item A, the entry for A equals SimilarItemsTo(A, limit).
func (e *Engine) SimilarItemsForAllItems(ctx context.Context, limit int) (map[ItemID]RankedNeighborList, error) {
	res, err := e.ComputeAll(ctx, limit)
	if err != nil {
		return nil, err
	}
	return res.Neighbors, nil
}

// scoredPair is a canonical (i < j) pair of positions in eligible.
type scoredPair struct {
	i, j  int32
	score float64
}

// ComputeAll evaluates every unordered pair of eligible items exactly once and
// ranks each item's neighbors. Rows of the pair triangle are striped across
// Options.Workers goroutines; scores are merged into both items' lists afterwards.
func (e *Engine) ComputeAll(ctx context.Context, limit int) (*AllItemsResult, error) {
	if err := validateLimit(limit); err != nil {
		return nil, err
	}

	start := time.Now()
	n := len(e.eligible)
	result := &AllItemsResult{
		Neighbors: make(map[ItemID]RankedNeighborList, n),
	}

	if limit == 0 || n < 2 {
		for _, item := range e.eligible {
			result.Neighbors[item] = RankedNeighborList{}
		}
		result.Duration = time.Since(start)
		return result, nil
	}

	sets := make([]UserSet, n)
	for i, item := range e.eligible {
		sets[i] = e.index.watchers[item]
	}

	workers := e.opts.Workers
	if workers > n {
		workers = n
	}

	// Phase 1: score the upper triangle.
	pairs := make([][]scoredPair, workers)
	evaluated := make([]int64, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()

			local := make([]scoredPair, 0, 256)
			for i := w; i < n-1; i += workers {
				if ctx.Err() != nil {
					return
				}
				for j := i + 1; j < n; j++ {
					score, common := Tanimoto(sets[i], sets[j])
					evaluated[w]++
					if common == 0 {
						continue
					}
					local = append(local, scoredPair{i: int32(i), j: int32(j), score: score})
				}
			}
			pairs[w] = local
		}(w)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("similar items for all items: %w", err)
	}

	// Phase 2: write each symmetric score into both rows.
	rows := make([][]Neighbor, n)
	for w := range pairs {
		result.PairsEvaluated += evaluated[w]
		result.PairsScored += int64(len(pairs[w]))
		for _, p := range pairs[w] {
			rows[p.i] = append(rows[p.i], Neighbor{ItemID: e.eligible[p.j], Score: p.score})
			rows[p.j] = append(rows[p.j], Neighbor{ItemID: e.eligible[p.i], Score: p.score})
		}
		pairs[w] = nil
	}

	// Phase 3: rank rows. Each row is owned by exactly one worker.
	ranked := make([]RankedNeighborList, n)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := w; i < n; i += workers {
				ranked[i] = rankNeighbors(rows[i], limit)
				rows[i] = nil
			}
		}(w)
	}
	wg.Wait()

	for i, item := range e.eligible {
		result.Neighbors[item] = ranked[i]
	}
	result.Duration = time.Since(start)

	e.logger.Debug().
		Int("items", n).
		Int("limit", limit).
		Int("workers", workers).
		Int64("pairs_evaluated", result.PairsEvaluated).
		Int64("pairs_scored", result.PairsScored).
		Dur("duration", result.Duration).
		Msg("Computed similarities for all items")

	return result, nil
}
