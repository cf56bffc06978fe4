// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

package similarity

// Tanimoto returns |a ∩ b| / (|a| + |b| - |a ∩ b|) and the intersection size.
// When the sets share no user the score is 0 and common is 0; callers must
// treat that as "no score" rather than a zero similarity.
//
// Cost is O(min(|a|, |b|)). The result is symmetric bit for bit because
// both the intersection and the union size are order-independent.
func Tanimoto(a, b UserSet) (score float64, common int) {
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}

	for u := range small {
		if _, ok := large[u]; ok {
			common++
		}
	}
	if common == 0 {
		return 0, 0
	}

	union := len(a) + len(b) - common
	return float64(common) / float64(union), common
}
