// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

/*
Package similarity computes item-to-item recommendations from implicit
user-interaction data using the Tanimoto (Jaccard) coefficient.

# Overview

The package has two parts, built bottom-up:

  - InteractionIndex: maps each item to the set of distinct users who
    interacted with it. Populated once through an IndexBuilder and
    immutable afterwards.
  - Engine: answers "most similar items to X" and "top-K similar items for
    every item" over a fixed index.

# Scoring

For the watcher sets A and B of two items:

	similarity(A, B) = |A ∩ B| / (|A| + |B| - |A ∩ B|)

The intersection is counted by probing the larger set with members of the
smaller one. Pairs without a common user have no score and never appear in
any result. An item is never reported as similar to itself.

# Ranking

Neighbor lists are ordered by descending score, ties broken by ascending
item ID, then truncated to the requested limit. A limit of 0 yields an empty
list; a negative limit fails with ErrInvalidArgument.

# Usage Example

	b := similarity.NewIndexBuilder()
	if _, err := b.Ingest(ctx, reader); err != nil {
	    return err
	}
	idx := b.Build()

	engine := similarity.NewEngine(idx, similarity.Options{Workers: 4}, logger)
	neighbors, err := engine.SimilarItemsTo(ctx, 42, 10)
	all, err := engine.SimilarItemsForAllItems(ctx, 10)

# Thread Safety

IndexBuilder is single-writer. Once Build returns, the index and any Engine
over it are read-only and safe for concurrent queries without locking.

# Scaling

SimilarItemsForAllItems evaluates every unordered pair once, which is
quadratic in the number of items. Options.MinUsers drops rarely watched items
before pairing; Options.Workers spreads the pair loop across goroutines.
*/
package similarity
