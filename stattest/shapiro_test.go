package stattest

import (
	"testing"

	"gonum.org/v1/gonum/stat/distuv"
)

func TestShapiroWilkNormalData(t *testing.T) {
	// Blom scores are exactly the expected normal order statistics, so
	// they are the most normal-looking sample of their size possible.
	norm := distuv.Normal{Mu: 0, Sigma: 1}
	n := 20
	x := make([]float64, n)
	for i := range x {
		x[i] = norm.Quantile((float64(i+1) - 0.375) / (float64(n) + 0.25))
	}

	w, p, err := ShapiroWilk(x)
	if err != nil {
		t.Fatal(err)
	}
	if w <= 0.95 || w > 1 {
		t.Fatalf("W = %f, want close to 1", w)
	}
	if p <= 0.05 {
		t.Fatalf("p = %f for ideal normal data, want > 0.05", p)
	}
}

func TestShapiroWilkSkewedData(t *testing.T) {
	x := []float64{1, 1.1, 1.2, 1.3, 1.5, 2, 3, 5, 9, 20, 50, 100}

	w, p, err := ShapiroWilk(x)
	if err != nil {
		t.Fatal(err)
	}
	if w >= 0.9 {
		t.Fatalf("W = %f for heavily skewed data, want well below 1", w)
	}
	if p >= 0.05 {
		t.Fatalf("p = %f for heavily skewed data, want < 0.05", p)
	}
}

func TestShapiroWilkSmallN(t *testing.T) {
	// The n=4..11 branch of the p-value transform
	x := []float64{2, 9, 4, 7, 1, 6}
	w, p, err := ShapiroWilk(x)
	if err != nil {
		t.Fatal(err)
	}
	if w <= 0 || w > 1 {
		t.Fatalf("W = %f outside (0,1]", w)
	}
	if p < 0 || p > 1 {
		t.Fatalf("p = %f outside [0,1]", p)
	}
}

func TestShapiroWilkNotComputable(t *testing.T) {
	for _, v := range [][]float64{
		{},
		{1, 2},
		{5, 5, 5, 5, 5},          // zero range
		{1, 1, 2, 2, 3, 3, 1, 2}, // only 3 unique values
	} {
		if _, _, err := ShapiroWilk(v); err != ErrNotComputable {
			t.Fatalf("ShapiroWilk(%v): expected ErrNotComputable, got %v", v, err)
		}
	}
}
