// Package expr holds the gene-by-sample expression matrix and the
// column-aligned operations the analysis stages are built from. Every
// operation returns a fresh Matrix so that each pipeline stage has its own
// named output and no stage can accidentally operate on stale data.
package expr

import (
	"fmt"
	"math"

	"github.com/carbocation/pfx"
)

// Matrix is an expression matrix with genes as rows and samples as
// columns. Values[i][j] is the expression of Genes[i] in Samples[j].
type Matrix struct {
	Genes   []string
	Samples []string
	Values  [][]float64
}

// NewMatrix validates shape and builds a Matrix. The values slice is used
// directly, not copied.
func NewMatrix(genes, samples []string, values [][]float64) (*Matrix, error) {
	if len(values) != len(genes) {
		return nil, pfx.Err(fmt.Errorf("expr: %d gene labels for %d rows", len(genes), len(values)))
	}
	for i, row := range values {
		if len(row) != len(samples) {
			return nil, pfx.Err(fmt.Errorf("expr: gene %s has %d values for %d samples", genes[i], len(row), len(samples)))
		}
	}
	return &Matrix{Genes: genes, Samples: samples, Values: values}, nil
}

// NGenes returns the number of rows.
func (m *Matrix) NGenes() int { return len(m.Genes) }

// NSamples returns the number of columns.
func (m *Matrix) NSamples() int { return len(m.Samples) }

// Row returns a copy of the expression values for one gene.
func (m *Matrix) Row(i int) []float64 {
	out := make([]float64, len(m.Values[i]))
	copy(out, m.Values[i])
	return out
}

// Column returns a copy of the expression values for one sample.
func (m *Matrix) Column(j int) []float64 {
	out := make([]float64, len(m.Genes))
	for i := range m.Values {
		out[i] = m.Values[i][j]
	}
	return out
}

// GeneIndex returns the row index for a gene identifier.
func (m *Matrix) GeneIndex(gene string) (int, bool) {
	for i, g := range m.Genes {
		if g == gene {
			return i, true
		}
	}
	return 0, false
}

// Log2 returns a new matrix with every value log2-transformed. Values at
// or below zero become NaN rather than -Inf so downstream per-gene tests
// can flag them as not computable.
func (m *Matrix) Log2() *Matrix {
	out := m.clone()
	for i := range out.Values {
		for j, v := range out.Values[i] {
			if v <= 0 {
				out.Values[i][j] = math.NaN()
				continue
			}
			out.Values[i][j] = math.Log2(v)
		}
	}
	return out
}

// Subset returns a new matrix restricted to the named genes, in the given
// order. Unknown genes are an error.
func (m *Matrix) Subset(genes []string) (*Matrix, error) {
	idx := make(map[string]int, len(m.Genes))
	for i, g := range m.Genes {
		idx[g] = i
	}

	values := make([][]float64, 0, len(genes))
	kept := make([]string, 0, len(genes))
	for _, g := range genes {
		i, ok := idx[g]
		if !ok {
			return nil, pfx.Err(fmt.Errorf("expr: gene %s not present in matrix", g))
		}
		kept = append(kept, g)
		values = append(values, m.Row(i))
	}

	samples := make([]string, len(m.Samples))
	copy(samples, m.Samples)

	return &Matrix{Genes: kept, Samples: samples, Values: values}, nil
}

// DropSamples returns a new matrix without the named samples. Naming a
// sample that is not in the matrix is an error, since the exclusion list
// is caller-maintained configuration and a stale entry likely means the
// wrong input file.
func (m *Matrix) DropSamples(exclude []string) (*Matrix, error) {
	drop := make(map[string]bool, len(exclude))
	for _, s := range exclude {
		drop[s] = true
	}
	for s := range drop {
		if !contains(m.Samples, s) {
			return nil, pfx.Err(fmt.Errorf("expr: excluded sample %s not present in matrix", s))
		}
	}

	keep := make([]int, 0, len(m.Samples))
	samples := make([]string, 0, len(m.Samples))
	for j, s := range m.Samples {
		if drop[s] {
			continue
		}
		keep = append(keep, j)
		samples = append(samples, s)
	}

	values := make([][]float64, len(m.Genes))
	for i := range m.Values {
		row := make([]float64, len(keep))
		for jj, j := range keep {
			row[jj] = m.Values[i][j]
		}
		values[i] = row
	}

	genes := make([]string, len(m.Genes))
	copy(genes, m.Genes)

	return &Matrix{Genes: genes, Samples: samples, Values: values}, nil
}

func (m *Matrix) clone() *Matrix {
	genes := make([]string, len(m.Genes))
	copy(genes, m.Genes)
	samples := make([]string, len(m.Samples))
	copy(samples, m.Samples)
	values := make([][]float64, len(m.Values))
	for i := range m.Values {
		values[i] = m.Row(i)
	}
	return &Matrix{Genes: genes, Samples: samples, Values: values}
}

func contains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}
