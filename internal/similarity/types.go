// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

package similarity

import "sort"

// ItemID identifies an item. Values are opaque.
type ItemID int64

// UserID identifies a user. Values are opaque.
type UserID int64

// Record is a single (user, item) interaction.
type Record struct {
	UserID UserID `json:"user_id"`
	ItemID ItemID `json:"item_id"`
}

// UserSet is a set of distinct users.
type UserSet map[UserID]struct{}

// Len returns the number of users in the set.
func (s UserSet) Len() int {
	return len(s)
}

// Has reports whether u is in the set.
func (s UserSet) Has(u UserID) bool {
	_, ok := s[u]
	return ok
}

// Sorted returns the members in ascending order.
func (s UserSet) Sorted() []UserID {
	out := make([]UserID, 0, len(s))
	for u := range s {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// clone returns an independent copy.
func (s UserSet) clone() UserSet {
	out := make(UserSet, len(s))
	for u := range s {
		out[u] = struct{}{}
	}
	return out
}

// Neighbor is a similar item and its score in (0, 1].
type Neighbor struct {
	ItemID ItemID  `json:"item_id"`
	Score  float64 `json:"score"`
}

// RankedNeighborList is ordered by descending Score, then ascending ItemID.
type RankedNeighborList []Neighbor

// ItemIDs returns the neighbor IDs in rank order.
func (l RankedNeighborList) ItemIDs() []ItemID {
	out := make([]ItemID, len(l))
	for i, n := range l {
		out[i] = n.ItemID
	}
	return out
}

// IndexStats summarizes an ingest pass.
type IndexStats struct {
	Items        int `json:"items"`
	Users        int `json:"users"`
	Interactions int `json:"interactions"` // distinct (user, item) pairs
	Duplicates   int `json:"duplicates"`   // repeated pairs ignored during ingest
}
