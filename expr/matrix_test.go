package expr

import (
	"math"
	"strings"
	"testing"
)

func mustMatrix(t *testing.T, genes, samples []string, values [][]float64) *Matrix {
	t.Helper()
	m, err := NewMatrix(genes, samples, values)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestNewMatrixShapeChecks(t *testing.T) {
	if _, err := NewMatrix([]string{"g1"}, []string{"s1"}, [][]float64{}); err == nil {
		t.Fatal("expected gene/row mismatch error")
	}
	if _, err := NewMatrix([]string{"g1"}, []string{"s1", "s2"}, [][]float64{{1}}); err == nil {
		t.Fatal("expected sample/column mismatch error")
	}
}

func TestSubsetAndDrop(t *testing.T) {
	m := mustMatrix(t,
		[]string{"g1", "g2", "g3"},
		[]string{"s1", "s2", "s3"},
		[][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}},
	)

	sub, err := m.Subset([]string{"g3", "g1"})
	if err != nil {
		t.Fatal(err)
	}
	if sub.Genes[0] != "g3" || sub.Values[0][0] != 7 {
		t.Fatalf("subset did not preserve requested order: %+v", sub)
	}
	if _, err := m.Subset([]string{"missing"}); err == nil {
		t.Fatal("expected error for unknown gene")
	}

	dropped, err := m.DropSamples([]string{"s2"})
	if err != nil {
		t.Fatal(err)
	}
	if dropped.NSamples() != 2 || dropped.Samples[1] != "s3" || dropped.Values[0][1] != 3 {
		t.Fatalf("drop produced wrong matrix: %+v", dropped)
	}
	if _, err := m.DropSamples([]string{"ghost"}); err == nil {
		t.Fatal("a stale exclusion entry must be an error")
	}

	// The source matrix is untouched by both operations
	if m.NGenes() != 3 || m.NSamples() != 3 || m.Values[0][1] != 2 {
		t.Fatal("source matrix was mutated")
	}
}

func TestLog2(t *testing.T) {
	m := mustMatrix(t, []string{"g"}, []string{"s1", "s2", "s3"}, [][]float64{{8, 1, 0}})

	l := m.Log2()
	if l.Values[0][0] != 3 || l.Values[0][1] != 0 {
		t.Fatalf("log2 wrong: %v", l.Values[0])
	}
	if !math.IsNaN(l.Values[0][2]) {
		t.Fatalf("log2 of 0 should be NaN, got %v", l.Values[0][2])
	}
}

func TestAlignSamplesReorders(t *testing.T) {
	m := mustMatrix(t,
		[]string{"g1"},
		[]string{"s2", "s1", "s3"},
		[][]float64{{20, 10, 30}},
	)

	aligned, err := AlignSamples(m, []string{"s1", "s2", "s3"})
	if err != nil {
		t.Fatal(err)
	}
	if aligned.Samples[0] != "s1" || aligned.Values[0][0] != 10 || aligned.Values[0][1] != 20 {
		t.Fatalf("alignment wrong: %+v", aligned)
	}
}

func TestAlignSamplesFailsHardOnMismatch(t *testing.T) {
	m := mustMatrix(t, []string{"g1"}, []string{"s1", "s2"}, [][]float64{{1, 2}})

	_, err := AlignSamples(m, []string{"s1", "s3"})
	if err == nil {
		t.Fatal("a one-sided sample must fail the join")
	}
	if !strings.Contains(err.Error(), "s3") || !strings.Contains(err.Error(), "s2") {
		t.Fatalf("error should name both one-sided samples: %v", err)
	}
}
