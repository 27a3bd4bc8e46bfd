package expr

import (
	"fmt"
	"strings"

	"github.com/carbocation/pfx"
)

// AlignSamples reorders the matrix columns to match the given annotation
// sample order. This is an explicit validated join on sample identifier:
// any sample present on only one side is a hard failure, never a silent
// positional realignment.
func AlignSamples(m *Matrix, annotationOrder []string) (*Matrix, error) {
	colIdx := make(map[string]int, len(m.Samples))
	for j, s := range m.Samples {
		colIdx[s] = j
	}

	var missingFromMatrix []string
	for _, s := range annotationOrder {
		if _, ok := colIdx[s]; !ok {
			missingFromMatrix = append(missingFromMatrix, s)
		}
	}

	inAnnotation := make(map[string]bool, len(annotationOrder))
	for _, s := range annotationOrder {
		inAnnotation[s] = true
	}
	var missingFromAnnotation []string
	for _, s := range m.Samples {
		if !inAnnotation[s] {
			missingFromAnnotation = append(missingFromAnnotation, s)
		}
	}

	if len(missingFromMatrix) > 0 || len(missingFromAnnotation) > 0 {
		return nil, pfx.Err(fmt.Errorf(
			"expr: sample join mismatch: annotated but not in matrix: [%s]; in matrix but not annotated: [%s]",
			strings.Join(missingFromMatrix, ", "),
			strings.Join(missingFromAnnotation, ", ")))
	}

	values := make([][]float64, len(m.Genes))
	for i := range m.Values {
		row := make([]float64, len(annotationOrder))
		for jj, s := range annotationOrder {
			row[jj] = m.Values[i][colIdx[s]]
		}
		values[i] = row
	}

	genes := make([]string, len(m.Genes))
	copy(genes, m.Genes)
	samples := make([]string, len(annotationOrder))
	copy(samples, annotationOrder)

	return &Matrix{Genes: genes, Samples: samples, Values: values}, nil
}
