package rma

import (
	"sort"
)

// quantileNormalize forces every sample (column) onto the same intensity
// distribution: values are ranked within each column and replaced by the
// across-column mean of the values sharing that rank. Ties within a
// column receive the mean of the reference values spanning their ranks.
func quantileNormalize(values [][]float64) [][]float64 {
	nRows := len(values)
	if nRows == 0 {
		return nil
	}
	nCols := len(values[0])

	// Per-column sorted copies
	sorted := make([][]float64, nCols)
	for j := 0; j < nCols; j++ {
		col := make([]float64, nRows)
		for i := 0; i < nRows; i++ {
			col[i] = values[i][j]
		}
		sort.Float64s(col)
		sorted[j] = col
	}

	// Reference distribution: mean across columns at each rank
	reference := make([]float64, nRows)
	for i := 0; i < nRows; i++ {
		var sum float64
		for j := 0; j < nCols; j++ {
			sum += sorted[j][i]
		}
		reference[i] = sum / float64(nCols)
	}

	out := make([][]float64, nRows)
	for i := range out {
		out[i] = make([]float64, nCols)
	}

	// Substitute the reference value at each value's midrank
	for j := 0; j < nCols; j++ {
		ranks := midranks(values, j, sorted[j])
		for i := 0; i < nRows; i++ {
			out[i][j] = interpolateRank(reference, ranks[i])
		}
	}

	return out
}

// midranks returns, for column j, each row's average rank (0-based) among
// the column's sorted values. Ties share the mean of their rank span.
func midranks(values [][]float64, j int, sortedCol []float64) []float64 {
	nRows := len(values)

	// value -> mean 0-based rank across its occurrences
	rankOf := make(map[float64]float64, nRows)
	for i := 0; i < nRows; i++ {
		v := sortedCol[i]
		if _, seen := rankOf[v]; seen {
			continue
		}
		lo := sort.SearchFloat64s(sortedCol, v)
		hi := lo
		for hi+1 < nRows && sortedCol[hi+1] == v {
			hi++
		}
		rankOf[v] = float64(lo+hi) / 2
	}

	out := make([]float64, nRows)
	for i := 0; i < nRows; i++ {
		out[i] = rankOf[values[i][j]]
	}
	return out
}

// interpolateRank reads the reference distribution at a possibly
// fractional rank.
func interpolateRank(reference []float64, rank float64) float64 {
	lo := int(rank)
	if float64(lo) == rank || lo+1 >= len(reference) {
		return reference[lo]
	}
	frac := rank - float64(lo)
	return reference[lo]*(1-frac) + reference[lo+1]*frac
}
