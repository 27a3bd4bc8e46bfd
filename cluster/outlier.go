package cluster

import (
	"fmt"
	"sort"

	"github.com/carbocation/pfx"
	"github.com/gonum/stat"

	"github.com/Mijroy/Prostate-Gene-Profile-Analysis/expr"
)

// OutlierReport flags samples whose mean pairwise correlation with the
// other samples is unusually low. Flagging is advisory: the exclusion
// list actually applied to the matrix is caller-supplied configuration,
// so the judgment call stays visible and overridable.
type OutlierReport struct {
	Samples  []string
	MeanCorr []float64
	Flagged  []string

	Cutoff float64
}

// FlagLowCorrelation computes each sample's mean Pearson correlation with
// every other sample and flags those more than nStandardDeviations below
// the mean of those means.
func FlagLowCorrelation(m *expr.Matrix, nStandardDeviations float64) (*OutlierReport, error) {
	n := m.NSamples()
	if n < 3 {
		return nil, pfx.Err(fmt.Errorf("cluster: outlier flagging needs at least 3 samples, have %d", n))
	}

	columns := make([][]float64, n)
	for j := 0; j < n; j++ {
		columns[j] = m.Column(j)
	}

	// Pass 1: populate the per-sample mean correlations
	meanCorr := make([]float64, n)
	for i := 0; i < n; i++ {
		var sum float64
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			sum += stat.Correlation(columns[i], columns[j], nil)
		}
		meanCorr[i] = sum / float64(n-1)
	}

	mean, sd := stat.MeanStdDev(meanCorr, nil)
	cutoff := mean - nStandardDeviations*sd

	// Pass 2: flag samples below the cutoff
	var flagged []string
	for i, s := range m.Samples {
		if meanCorr[i] < cutoff {
			flagged = append(flagged, s)
		}
	}
	sort.Strings(flagged)

	samples := make([]string, n)
	copy(samples, m.Samples)

	return &OutlierReport{Samples: samples, MeanCorr: meanCorr, Flagged: flagged, Cutoff: cutoff}, nil
}
