// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

package similarity

import (
	"fmt"
	"sort"

	"github.com/tomtom215/tanimoto/internal/cache"
)

// rankedBefore is the total order used for every neighbor list:
// higher score first, then lower item ID.
func rankedBefore(a, b Neighbor) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.ItemID < b.ItemID
}

// validateLimit rejects negative limits.
func validateLimit(limit int) error {
	if limit < 0 {
		return fmt.Errorf("%w: limit must be >= 0, got %d", ErrInvalidArgument, limit)
	}
	return nil
}

// rankNeighbors orders candidates and truncates to limit. The candidate
// slice may be reordered in place.
func rankNeighbors(candidates []Neighbor, limit int) RankedNeighborList {
	if limit <= 0 || len(candidates) == 0 {
		return RankedNeighborList{}
	}

	// Partial selection pays off once the limit is well below the candidate count.
	if limit < len(candidates)/2 {
		top := cache.NewTopK(limit, rankedBefore)
		for _, n := range candidates {
			top.Push(n)
		}
		return RankedNeighborList(top.Sorted())
	}

	sort.Slice(candidates, func(i, j int) bool {
		return rankedBefore(candidates[i], candidates[j])
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make(RankedNeighborList, len(candidates))
	copy(out, candidates)
	return out
}
