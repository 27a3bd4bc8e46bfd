package stattest

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Levene tests homogeneity of variance across the groups defined by
// labels, using the Brown-Forsythe variant (absolute deviations from the
// group median). A single-level grouping factor, a group with fewer than
// two values, or zero within-group spread is not computable.
func Levene(x []float64, labels []string) (stat, p float64, err error) {
	if len(x) != len(labels) {
		return 0, 0, ErrNotComputable
	}

	groups := splitByLabel(x, labels)
	if len(groups) < 2 {
		return 0, 0, ErrNotComputable
	}

	keys := sortedKeys(groups)

	n := float64(len(x))
	k := float64(len(groups))

	// Absolute deviations from each group's median
	deviations := make(map[string][]float64, len(groups))
	var grandSum float64
	for _, key := range keys {
		g := groups[key]
		if len(g) < 2 {
			return 0, 0, ErrNotComputable
		}
		med, medErr := stats.Median(g)
		if medErr != nil {
			return 0, 0, ErrNotComputable
		}
		z := make([]float64, len(g))
		for i, v := range g {
			z[i] = math.Abs(v - med)
			grandSum += z[i]
		}
		deviations[key] = z
	}
	grandMean := grandSum / n

	var between, within float64
	for _, key := range keys {
		z := deviations[key]
		var groupSum float64
		for _, v := range z {
			groupSum += v
		}
		groupMean := groupSum / float64(len(z))
		between += float64(len(z)) * (groupMean - grandMean) * (groupMean - grandMean)
		for _, v := range z {
			within += (v - groupMean) * (v - groupMean)
		}
	}

	if within <= 0 {
		return 0, 0, ErrNotComputable
	}

	stat = ((n - k) / (k - 1)) * (between / within)

	f := distuv.F{D1: k - 1, D2: n - k}
	p = 1 - f.CDF(stat)

	return stat, p, nil
}
