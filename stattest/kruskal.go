package stattest

import (
	"github.com/tokenme/probab/dst"
)

// KruskalWallis performs the k-group rank test across the groups defined
// by labels, with tie correction and the chi-square approximation for the
// p-value. Fewer than two groups, an empty group, or a completely tied
// pooled sample is not computable.
func KruskalWallis(x []float64, labels []string) (h, p float64, err error) {
	if len(x) != len(labels) {
		return 0, 0, ErrNotComputable
	}

	groups := splitByLabel(x, labels)
	if len(groups) < 2 {
		return 0, 0, ErrNotComputable
	}
	for _, g := range groups {
		if len(g) == 0 {
			return 0, 0, ErrNotComputable
		}
	}

	n := float64(len(x))
	ranks := midranks(x)

	// Per-group rank sums
	rankSum := make(map[string]float64, len(groups))
	for i, label := range labels {
		rankSum[label] += ranks[i]
	}

	for label, g := range groups {
		r := rankSum[label]
		h += r * r / float64(len(g))
	}
	h = 12/(n*(n+1))*h - 3*(n+1)

	// Tie correction
	correction := 1 - tieTerm(x)/(n*n*n-n)
	if correction <= 0 {
		return 0, 0, ErrNotComputable
	}
	h /= correction

	df := len(groups) - 1
	p = chiSquareTail(h, df)

	return h, p, nil
}

// chiSquareTail returns the upper tail of the chi-square distribution.
// The CDF call is recover-guarded because the underlying routine panics
// on some extreme inputs.
func chiSquareTail(stat float64, df int) (p float64) {
	p = 1
	defer func() { recover() }()

	p = 1.0 - dst.ChiSquareCDF(int64(df))(stat)

	return
}
