// Package rma normalizes raw probe intensities into gene-level, log-scale
// expression values: per-sample background correction, quantile
// normalization across samples, log2 transform, then probe-to-gene
// summarization by median polish.
package rma

import (
	"fmt"
	"sort"

	"github.com/carbocation/pfx"

	"github.com/Mijroy/Prostate-Gene-Profile-Analysis/expr"
)

// Normalize converts a probe-level intensity matrix into a gene-level,
// log2-scale expression matrix. probeToGene maps each probe row of m to
// its gene symbol; probes absent from the map are dropped with an error
// only if nothing is left.
func Normalize(m *expr.Matrix, probeToGene map[string]string) (*expr.Matrix, error) {
	if m.NGenes() == 0 || m.NSamples() == 0 {
		return nil, pfx.Err(fmt.Errorf("rma: empty intensity matrix"))
	}

	// 1. Background-correct each sample independently
	corrected := make([][]float64, m.NGenes())
	for i := range corrected {
		corrected[i] = make([]float64, m.NSamples())
	}
	for j := 0; j < m.NSamples(); j++ {
		col := m.Column(j)
		bg := backgroundCorrect(col)
		for i, v := range bg {
			corrected[i][j] = v
		}
	}

	// 2. Force every sample onto the same distribution
	quantiled := quantileNormalize(corrected)

	// 3. Log scale. Background correction keeps every value strictly
	// positive, so the transform cannot produce NaN here.
	probes := make([]string, m.NGenes())
	copy(probes, m.Genes)
	samples := make([]string, m.NSamples())
	copy(samples, m.Samples)

	probeLevel, err := expr.NewMatrix(probes, samples, quantiled)
	if err != nil {
		return nil, pfx.Err(err)
	}
	normalized := probeLevel.Log2().Values

	// 4. Summarize probes into genes by median polish
	probeRows := make(map[string][]int)
	for i, probe := range m.Genes {
		gene, ok := probeToGene[probe]
		if !ok {
			continue
		}
		probeRows[gene] = append(probeRows[gene], i)
	}
	if len(probeRows) == 0 {
		return nil, pfx.Err(fmt.Errorf("rma: no probe in the matrix maps to a gene"))
	}

	genes := make([]string, 0, len(probeRows))
	for gene := range probeRows {
		genes = append(genes, gene)
	}
	sort.Strings(genes)

	values := make([][]float64, len(genes))
	for gi, gene := range genes {
		rows := probeRows[gene]
		block := make([][]float64, len(rows))
		for bi, i := range rows {
			block[bi] = normalized[i]
		}
		values[gi] = medianPolish(block)
	}

	return expr.NewMatrix(genes, samples, values)
}
