package rma

import (
	"math"

	"github.com/montanaflynn/stats"
)

// medianPolish decomposes a probes-by-samples block into overall +
// row effects + column effects + residuals by alternately sweeping row
// and column medians. The returned per-sample summaries are overall +
// column effect, which is the RMA gene-level expression estimate.
func medianPolish(block [][]float64) []float64 {
	nRows := len(block)
	nCols := len(block[0])

	residuals := make([][]float64, nRows)
	for i := range block {
		residuals[i] = make([]float64, nCols)
		copy(residuals[i], block[i])
	}

	var overall float64
	rowEffect := make([]float64, nRows)
	colEffect := make([]float64, nCols)

	const maxSweeps = 10
	const tolerance = 0.01

	prevSAR := math.Inf(1)
	for sweep := 0; sweep < maxSweeps; sweep++ {
		// Row sweep
		for i := 0; i < nRows; i++ {
			m := rowMedian(residuals[i])
			rowEffect[i] += m
			for j := 0; j < nCols; j++ {
				residuals[i][j] -= m
			}
		}
		if m := median(colEffect); m != 0 {
			overall += m
			for j := range colEffect {
				colEffect[j] -= m
			}
		}

		// Column sweep
		for j := 0; j < nCols; j++ {
			col := make([]float64, nRows)
			for i := 0; i < nRows; i++ {
				col[i] = residuals[i][j]
			}
			m := median(col)
			colEffect[j] += m
			for i := 0; i < nRows; i++ {
				residuals[i][j] -= m
			}
		}
		if m := median(rowEffect); m != 0 {
			overall += m
			for i := range rowEffect {
				rowEffect[i] -= m
			}
		}

		sar := sumAbsResiduals(residuals)
		if prevSAR-sar < tolerance*sar || sar == 0 {
			break
		}
		prevSAR = sar
	}

	out := make([]float64, nCols)
	for j := 0; j < nCols; j++ {
		out[j] = overall + colEffect[j]
	}
	return out
}

func rowMedian(row []float64) float64 { return median(row) }

func median(values []float64) float64 {
	m, err := stats.Median(values)
	if err != nil {
		return 0
	}
	return m
}

func sumAbsResiduals(residuals [][]float64) float64 {
	var sum float64
	for _, row := range residuals {
		for _, v := range row {
			sum += math.Abs(v)
		}
	}
	return sum
}
