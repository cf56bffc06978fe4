// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

/*
Package cache provides the in-memory data structures shared by the engine and
the HTTP layer.

  - LRU: generic thread-safe least recently used cache with optional TTL,
    used by the API to memoize per-item neighbor lists between index reloads.
  - TopK: bounded min-heap that selects the k best values from a stream,
    used by the engine to truncate ranked neighbor lists without a full sort.

# Usage Example

	lru := cache.NewLRU[string, []int](1000, 5*time.Minute)
	lru.Add("k", []int{1, 2})
	if v, ok := lru.Get("k"); ok {
	    _ = v
	}

	top := cache.NewTopK(3, func(a, b int) bool { return a > b })
	for _, v := range []int{5, 1, 9, 7} {
	    top.Push(v)
	}
	top.Sorted() // [9 7 5]

# Thread Safety

LRU guards all state with a mutex. TopK is single-owner and must not be
shared between goroutines.
*/
package cache
