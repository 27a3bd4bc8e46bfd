// Package stattest implements the per-gene univariate hypothesis tests:
// normality (Shapiro-Wilk), variance homogeneity (Brown-Forsythe Levene),
// rank correlation (Spearman), two-group rank-sum (Wilcoxon) and k-group
// rank test (Kruskal-Wallis). Every test is a pure function over one
// gene's expression vector; ties are handled with midranks and all
// p-values come from asymptotic approximations, never exact enumeration.
package stattest

import (
	"errors"
	"math"
	"sort"
)

// ErrNotComputable marks degenerate statistical input: too few values,
// too few unique values, or a single-level grouping factor. Callers treat
// it as a per-gene local condition, not a batch failure.
var ErrNotComputable = errors.New("statistic not computable for this input")

// midranks returns 1-based ranks with ties sharing the average of their
// rank span.
func midranks(x []float64) []float64 {
	n := len(x)

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return x[order[a]] < x[order[b]] })

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && x[order[j+1]] == x[order[i]] {
			j++
		}
		// positions i..j share the same value
		mean := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[order[k]] = mean
		}
		i = j + 1
	}

	return ranks
}

// tieTerm computes sum(t^3 - t) over the tie groups of x, the shared
// correction term of the rank tests.
func tieTerm(x []float64) float64 {
	sorted := make([]float64, len(x))
	copy(sorted, x)
	sort.Float64s(sorted)

	var sum float64
	for i := 0; i < len(sorted); {
		j := i
		for j+1 < len(sorted) && sorted[j+1] == sorted[i] {
			j++
		}
		t := float64(j - i + 1)
		if t > 1 {
			sum += t*t*t - t
		}
		i = j + 1
	}
	return sum
}

// uniqueCount returns the number of distinct finite values in x.
func uniqueCount(x []float64) int {
	seen := make(map[float64]struct{}, len(x))
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		seen[v] = struct{}{}
	}
	return len(seen)
}

// splitByLabel groups the values of x by their parallel label.
func splitByLabel(x []float64, labels []string) map[string][]float64 {
	out := make(map[string][]float64)
	for i, v := range x {
		out[labels[i]] = append(out[labels[i]], v)
	}
	return out
}

// sortedKeys returns the group labels in deterministic order.
func sortedKeys(groups map[string][]float64) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
