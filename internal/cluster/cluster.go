// Package cluster groups near-duplicate free-text values (typically advisor
// names typed with inconsistent spelling, casing, or accents) into canonical
// representatives using normalized edit-distance similarity.
package cluster

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/labdeskapp/labdesk-server/internal/normalize"
)

// DefaultThreshold is the inclusive similarity bound at or above which two
// values are considered the same name.
const DefaultThreshold = 0.86

// Similarity returns the normalized edit-distance similarity of a and b in
// [0, 1], computed on accent-stripped lowercase forms. Identical strings
// score 1.0 regardless of accents or case.
func Similarity(a, b string) float64 {
	na, nb := normalize.ASCIILower(a), normalize.ASCIILower(b)
	if na == "" && nb == "" {
		return 1.0
	}
	maxLen := max(len(na), len(nb), 1)
	return 1.0 - float64(fuzzy.LevenshteinDistance(na, nb))/float64(maxLen)
}

// BuildCanonicalMap clusters the given raw values and maps every distinct
// value to its cluster's representative. Representatives are chosen greedily
// in descending frequency order (ties broken lexicographically), so the most
// frequent spelling of a name wins.
//
// The greedy single pass is order-dependent: a later, higher-frequency value
// can be absorbed into an earlier representative's cluster. This matches the
// historical grouping behavior and keeps runs reproducible; it is not a
// globally optimal clustering.
//
// Every distinct non-empty input value appears as a key; canonical values are
// always drawn from the input set. Blank values are ignored.
func BuildCanonicalMap(values []string, threshold float64) map[string]string {
	freq := make(map[string]int)
	for _, v := range values {
		if normalize.Basic(v) == "" {
			continue
		}
		freq[v]++
	}
	if len(freq) == 0 {
		return map[string]string{}
	}

	ordered := make([]string, 0, len(freq))
	for v := range freq {
		ordered = append(ordered, v)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if freq[ordered[i]] != freq[ordered[j]] {
			return freq[ordered[i]] > freq[ordered[j]]
		}
		return ordered[i] < ordered[j]
	})

	canonical := make(map[string]string, len(ordered))
	assigned := make(map[string]bool, len(ordered))

	for _, base := range ordered {
		if assigned[base] {
			continue
		}
		canonical[base] = base
		assigned[base] = true

		for _, other := range ordered {
			if assigned[other] {
				continue
			}
			if Similarity(base, other) >= threshold {
				canonical[other] = base
				assigned[other] = true
			}
		}
	}

	return canonical
}
