package stattest

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// RankSum performs the two-sided Wilcoxon rank-sum test between the two
// groups defined by labels, using the tie-corrected normal approximation
// with continuity correction. Anything other than exactly two non-empty
// groups, or a completely tied pooled sample, is not computable.
func RankSum(x []float64, labels []string) (w, p float64, err error) {
	if len(x) != len(labels) {
		return 0, 0, ErrNotComputable
	}

	groups := splitByLabel(x, labels)
	if len(groups) != 2 {
		return 0, 0, ErrNotComputable
	}

	keys := sortedKeys(groups)
	n1 := float64(len(groups[keys[0]]))
	n2 := float64(len(groups[keys[1]]))
	if n1 == 0 || n2 == 0 {
		return 0, 0, ErrNotComputable
	}

	n := n1 + n2
	ranks := midranks(x)

	// Rank sum of the first group (alphabetically first label)
	for i, label := range labels {
		if label == keys[0] {
			w += ranks[i]
		}
	}

	mean := n1 * (n + 1) / 2

	ties := tieTerm(x)
	variance := n1 * n2 / 12 * ((n + 1) - ties/(n*(n-1)))
	if variance <= 0 {
		return 0, 0, ErrNotComputable
	}

	// Continuity correction pulls the statistic half a rank toward the mean
	diff := w - mean
	var correction float64
	switch {
	case diff > 0:
		correction = -0.5
	case diff < 0:
		correction = 0.5
	}
	z := (diff + correction) / math.Sqrt(variance)

	norm := distuv.Normal{Mu: 0, Sigma: 1}
	p = 2 * norm.CDF(-math.Abs(z))
	if p > 1 {
		p = 1
	}

	return w, p, nil
}
