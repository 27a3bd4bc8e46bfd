package expr

import (
	"fmt"
	"math"
	"sort"

	"github.com/carbocation/pfx"
	"github.com/carbocation/runningvariance"
	"gonum.org/v1/gonum/stat"
)

// CVResult reports the variability of one gene across samples.
type CVResult struct {
	Gene string
	CV   float64

	// Computable is false when the gene's mean is zero or near zero, or
	// when fewer than two finite values were observed. Such genes are
	// always excluded by FilterByCV.
	Computable bool
}

// nearZero guards the CV denominator. Means closer to zero than this
// would blow the ratio up into numerical noise.
const nearZero = 1e-12

// CoefficientOfVariation computes SD/mean per gene across samples.
// Non-finite sample values are skipped.
func (m *Matrix) CoefficientOfVariation() []CVResult {
	out := make([]CVResult, len(m.Genes))

	for i, gene := range m.Genes {
		rs := runningvariance.NewRunningStat()
		for _, v := range m.Values[i] {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			rs.Push(v)
		}

		mean := rs.Mean()
		if rs.NumDataValues() < 2 || math.Abs(mean) < nearZero {
			out[i] = CVResult{Gene: gene, CV: math.NaN()}
			continue
		}

		out[i] = CVResult{Gene: gene, CV: rs.StandardDeviation() / mean, Computable: true}
	}

	return out
}

// FilterByCV retains only the genes whose coefficient of variation is
// strictly greater than the q-quantile of all computable CVs. A gene
// sitting exactly at the threshold is excluded. Genes whose CV is not
// computable are excluded without error.
func (m *Matrix) FilterByCV(q float64) (*Matrix, error) {
	if q < 0 || q > 1 {
		return nil, pfx.Err(fmt.Errorf("expr: CV quantile %f outside [0,1]", q))
	}

	cvs := m.CoefficientOfVariation()

	computable := make([]float64, 0, len(cvs))
	for _, r := range cvs {
		if r.Computable {
			computable = append(computable, r.CV)
		}
	}
	if len(computable) == 0 {
		return nil, pfx.Err(fmt.Errorf("expr: no gene has a computable coefficient of variation"))
	}

	sort.Float64s(computable)
	threshold := stat.Quantile(q, stat.Empirical, computable, nil)

	keep := make([]string, 0, len(cvs))
	for _, r := range cvs {
		if r.Computable && r.CV > threshold {
			keep = append(keep, r.Gene)
		}
	}
	if len(keep) == 0 {
		return nil, pfx.Err(fmt.Errorf("expr: CV filter at quantile %g removed every gene", q))
	}

	return m.Subset(keep)
}
