package padjust

import (
	"sort"
)

// DefaultAlpha is the significance threshold on adjusted p-values.
const DefaultAlpha = 0.05

// Significant returns the genes whose adjusted p-value is below alpha,
// sorted by gene identifier. Gene IDs and adjusted p-values are
// index-aligned.
func Significant(genes []string, adjusted []float64, alpha float64) []string {
	out := make([]string, 0)
	for i, g := range genes {
		if i < len(adjusted) && adjusted[i] < alpha {
			out = append(out, g)
		}
	}
	sort.Strings(out)
	return out
}

// Intersect returns the genes present in every input set, sorted by gene
// identifier. With no input sets the intersection is empty.
func Intersect(sets ...[]string) []string {
	if len(sets) == 0 {
		return []string{}
	}

	counts := make(map[string]int)
	for _, set := range sets {
		seen := make(map[string]struct{}, len(set))
		for _, g := range set {
			if _, dup := seen[g]; dup {
				continue
			}
			seen[g] = struct{}{}
			counts[g]++
		}
	}

	out := make([]string, 0)
	for g, c := range counts {
		if c == len(sets) {
			out = append(out, g)
		}
	}
	sort.Strings(out)
	return out
}
