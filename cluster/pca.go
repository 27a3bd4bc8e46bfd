// Package cluster provides the exploratory sample-structure tools:
// principal components, k-means, complete-linkage hierarchical clustering,
// low-correlation outlier flagging and the cluster-vs-status association
// test.
package cluster

import (
	"fmt"
	"math"

	"github.com/carbocation/pfx"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/Mijroy/Prostate-Gene-Profile-Analysis/expr"
)

// PCAResult holds the projection of the samples onto the principal
// components of the expression matrix.
type PCAResult struct {
	Samples []string

	// Scores[i] is sample i projected onto the components.
	Scores [][]float64

	// PercentVariance[c] is the percent of total variance explained by
	// component c.
	PercentVariance []float64
}

// Component returns one column of the score matrix.
func (r *PCAResult) Component(c int) []float64 {
	out := make([]float64, len(r.Scores))
	for i := range r.Scores {
		out[i] = r.Scores[i][c]
	}
	return out
}

// TopTwo returns per-sample (PC1, PC2) score pairs. The decomposition
// yields min(samples, genes) components, so a matrix reduced to a single
// gene has no second component; that is an error here rather than a
// panic at the call site.
func (r *PCAResult) TopTwo() ([][]float64, error) {
	if len(r.PercentVariance) < 2 {
		return nil, pfx.Err(fmt.Errorf("cluster: only %d principal component(s) available; two are needed for projection", len(r.PercentVariance)))
	}

	out := make([][]float64, len(r.Scores))
	for i, s := range r.Scores {
		out[i] = []float64{s[0], s[1]}
	}
	return out, nil
}

// PCA decomposes the samples-by-genes view of the matrix. Genes are
// centered, and unit-variance scaled when scale is set; genes with zero
// variance are dropped before scaling. An empty matrix is an error.
func PCA(m *expr.Matrix, scale bool) (*PCAResult, error) {
	nSamples := m.NSamples()
	nGenes := m.NGenes()
	if nSamples < 2 || nGenes == 0 {
		return nil, pfx.Err(fmt.Errorf("cluster: PCA needs at least 2 samples and 1 gene, have %d x %d", nSamples, nGenes))
	}

	// Build samples-by-genes with per-gene centering/scaling
	cols := make([][]float64, 0, nGenes)
	for i := 0; i < nGenes; i++ {
		gene := m.Row(i)
		mean, sd := stat.MeanStdDev(gene, nil)
		if scale && (sd == 0 || math.IsNaN(sd)) {
			continue
		}
		for j := range gene {
			gene[j] -= mean
			if scale {
				gene[j] /= sd
			}
		}
		cols = append(cols, gene)
	}
	if len(cols) == 0 {
		return nil, pfx.Err(fmt.Errorf("cluster: every gene has zero variance; nothing to decompose"))
	}

	data := mat.NewDense(nSamples, len(cols), nil)
	for g, col := range cols {
		for s, v := range col {
			data.Set(s, g, v)
		}
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(data, nil); !ok {
		return nil, pfx.Err(fmt.Errorf("cluster: principal component decomposition failed"))
	}

	vars := pc.VarsTo(nil)
	var total float64
	for _, v := range vars {
		total += v
	}

	percent := make([]float64, len(vars))
	for i, v := range vars {
		percent[i] = 100 * v / total
	}

	var vectors mat.Dense
	pc.VectorsTo(&vectors)

	var proj mat.Dense
	proj.Mul(data, &vectors)

	rows, comps := proj.Dims()
	scores := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		scores[i] = make([]float64, comps)
		for c := 0; c < comps; c++ {
			scores[i][c] = proj.At(i, c)
		}
	}

	samples := make([]string, nSamples)
	copy(samples, m.Samples)

	return &PCAResult{Samples: samples, Scores: scores, PercentVariance: percent}, nil
}
