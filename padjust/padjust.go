// Package padjust implements multiple-comparison corrections over a
// vector of raw p-values, with the same semantics as R's p.adjust family,
// plus a permutation-based minimum-p adjustment, and the significant
// gene-set arithmetic downstream of them.
package padjust

import (
	"fmt"
	"math"
	"sort"

	"github.com/carbocation/pfx"
)

// Method names one correction procedure.
type Method string

const (
	Bonferroni Method = "bonferroni"
	Holm       Method = "holm"
	Hochberg   Method = "hochberg"
	BH         Method = "bh"
	BY         Method = "by"
)

// Production is the correction used to call significance: of the methods
// that control an error rate across the family, Benjamini-Hochberg
// rejects the most hypotheses, which is the explicit design choice here.
// The other methods are still reported for comparison.
const Production = BH

// Methods lists every supported correction in report order.
var Methods = []Method{Bonferroni, Holm, Hochberg, BH, BY}

// Adjust returns the adjusted p-values for the chosen method. The output
// is index-aligned with the input. Raw p-values must lie in [0,1].
func Adjust(p []float64, method Method) ([]float64, error) {
	for i, v := range p {
		if v < 0 || v > 1 || math.IsNaN(v) {
			return nil, pfx.Err(fmt.Errorf("padjust: p[%d]=%v outside [0,1]", i, v))
		}
	}

	m := len(p)
	if m == 0 {
		return []float64{}, nil
	}

	switch method {
	case Bonferroni:
		out := make([]float64, m)
		for i, v := range p {
			out[i] = math.Min(1, v*float64(m))
		}
		return out, nil
	case Holm:
		return holm(p), nil
	case Hochberg:
		return hochberg(p), nil
	case BH:
		return stepUp(p, func(i int) float64 { return float64(len(p)) / float64(i+1) }), nil
	case BY:
		var q float64
		for j := 1; j <= m; j++ {
			q += 1 / float64(j)
		}
		return stepUp(p, func(i int) float64 { return q * float64(len(p)) / float64(i+1) }), nil
	default:
		return nil, pfx.Err(fmt.Errorf("padjust: unknown method %q", method))
	}
}

// ascendingOrder returns indices of p sorted by increasing p-value.
func ascendingOrder(p []float64) []int {
	order := make([]int, len(p))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return p[order[a]] < p[order[b]] })
	return order
}

// holm: step-down, running maximum of (m-i)*p over ascending p.
func holm(p []float64) []float64 {
	m := len(p)
	order := ascendingOrder(p)

	out := make([]float64, m)
	running := 0.0
	for i, idx := range order {
		v := float64(m-i) * p[idx]
		if v > running {
			running = v
		}
		out[idx] = math.Min(1, running)
	}
	return out
}

// hochberg: step-up, running minimum of (m-i)*p over descending p.
func hochberg(p []float64) []float64 {
	m := len(p)
	order := ascendingOrder(p)

	out := make([]float64, m)
	running := math.Inf(1)
	for i := m - 1; i >= 0; i-- {
		idx := order[i]
		v := float64(m-i) * p[idx]
		if v < running {
			running = v
		}
		out[idx] = math.Min(1, running)
	}
	return out
}

// stepUp runs the generic step-up procedure with a per-rank scale factor
// (BH and BY differ only in that factor).
func stepUp(p []float64, scale func(rank int) float64) []float64 {
	m := len(p)
	order := ascendingOrder(p)

	out := make([]float64, m)
	running := math.Inf(1)
	for i := m - 1; i >= 0; i-- {
		idx := order[i]
		v := scale(i) * p[idx]
		if v < running {
			running = v
		}
		out[idx] = math.Min(1, running)
	}
	return out
}
