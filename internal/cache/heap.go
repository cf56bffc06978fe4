// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

package cache

import "sort"

// TopK keeps the k best values seen so far.
//
// It is a bounded min-heap whose root is the worst retained value, so a
// candidate is admitted in O(log k) only when it beats the root. better
// must be a strict total order for results to be deterministic.
//
// TopK is not safe for concurrent use; callers own one per query.
type TopK[T any] struct {
	heap   []T
	k      int
	better func(a, b T) bool
}

// NewTopK creates a selector retaining at most k values. k <= 0 retains nothing.
func NewTopK[T any](k int, better func(a, b T) bool) *TopK[T] {
	if k < 0 {
		k = 0
	}
	capacity := k
	if capacity > 1024 {
		capacity = 1024
	}
	return &TopK[T]{
		heap:   make([]T, 0, capacity),
		k:      k,
		better: better,
	}
}

// Push offers a value. Returns true if it was retained.
func (h *TopK[T]) Push(v T) bool {
	if h.k == 0 {
		return false
	}

	if len(h.heap) < h.k {
		h.heap = append(h.heap, v)
		h.bubbleUp(len(h.heap) - 1)
		return true
	}

	if !h.better(v, h.heap[0]) {
		return false
	}
	h.heap[0] = v
	h.bubbleDown(0)
	return true
}

// Len returns the number of retained values.
func (h *TopK[T]) Len() int {
	return len(h.heap)
}

// Worst returns the lowest ranked retained value.
func (h *TopK[T]) Worst() (T, bool) {
	if len(h.heap) == 0 {
		var zero T
		return zero, false
	}
	return h.heap[0], true
}

// Sorted returns the retained values best first. The selector is left intact.
func (h *TopK[T]) Sorted() []T {
	out := make([]T, len(h.heap))
	copy(out, h.heap)
	sort.Slice(out, func(i, j int) bool {
		return h.better(out[i], out[j])
	})
	return out
}

// worse reports whether heap[i] ranks below heap[j].
func (h *TopK[T]) worse(i, j int) bool {
	return h.better(h.heap[j], h.heap[i])
}

func (h *TopK[T]) bubbleUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.worse(i, parent) {
			break
		}
		h.heap[i], h.heap[parent] = h.heap[parent], h.heap[i]
		i = parent
	}
}

func (h *TopK[T]) bubbleDown(i int) {
	n := len(h.heap)
	for {
		smallest := i
		left := 2*i + 1
		right := 2*i + 2

		if left < n && h.worse(left, smallest) {
			smallest = left
		}
		if right < n && h.worse(right, smallest) {
			smallest = right
		}

		if smallest == i {
			break
		}

		h.heap[i], h.heap[smallest] = h.heap[smallest], h.heap[i]
		i = smallest
	}
}
