package stattest

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// SpearmanTest computes Spearman's rank correlation between x and y and
// its two-sided p-value from the t approximation with n-2 degrees of
// freedom. Constant inputs or n < 4 are not computable.
func SpearmanTest(x, y []float64) (rho, p float64, err error) {
	n := len(x)
	if n != len(y) || n < 4 {
		return 0, 0, ErrNotComputable
	}
	if uniqueCount(x) < 2 || uniqueCount(y) < 2 {
		return 0, 0, ErrNotComputable
	}

	rho = stat.Correlation(midranks(x), midranks(y), nil)
	if math.IsNaN(rho) {
		return 0, 0, ErrNotComputable
	}

	// Perfect monotone association: the t statistic diverges
	if rho >= 1 || rho <= -1 {
		return rho, 0, nil
	}

	df := float64(n - 2)
	t := rho * math.Sqrt(df/(1-rho*rho))

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p = 2 * dist.CDF(-math.Abs(t))

	return rho, p, nil
}
