package stattest

import (
	"math"
	"testing"
)

func TestMidranks(t *testing.T) {
	for _, v := range []struct {
		in   []float64
		want []float64
	}{
		{[]float64{3, 1, 2}, []float64{3, 1, 2}},
		{[]float64{1, 1, 1, 10, 10, 10}, []float64{2, 2, 2, 5, 5, 5}},
		{[]float64{5, 5}, []float64{1.5, 1.5}},
		{[]float64{7}, []float64{1}},
	} {
		got := midranks(v.in)
		for i := range v.want {
			if got[i] != v.want[i] {
				t.Fatalf("midranks(%v) = %v, want %v", v.in, got, v.want)
			}
		}
	}
}

func TestTieTerm(t *testing.T) {
	for _, v := range []struct {
		in   []float64
		want float64
	}{
		{[]float64{1, 2, 3}, 0},
		{[]float64{1, 1, 2}, 6},                 // 2^3-2
		{[]float64{1, 1, 1, 10, 10, 10}, 48},    // 2*(27-3)
		{[]float64{4, 4, 4, 4}, 60},             // 64-4
	} {
		if got := tieTerm(v.in); got != v.want {
			t.Fatalf("tieTerm(%v) = %v, want %v", v.in, got, v.want)
		}
	}
}

// The rank-sum scenario from the analysis plan: a clean mean shift across
// a 3-vs-3 comparison must come out significant under the tie-corrected
// normal approximation.
func TestRankSumMeanShift(t *testing.T) {
	x := []float64{1, 1, 1, 10, 10, 10}
	labels := []string{"Normal", "Normal", "Normal", "Disease", "Disease", "Disease"}

	_, p, err := RankSum(x, labels)
	if err != nil {
		t.Fatal(err)
	}
	if p >= 0.05 {
		t.Fatalf("p = %f, want < 0.05", p)
	}
	if p <= 0 {
		t.Fatalf("p = %f, want > 0", p)
	}
}

func TestRankSumDegenerate(t *testing.T) {
	for _, v := range []struct {
		x      []float64
		labels []string
	}{
		// one group
		{[]float64{1, 2, 3}, []string{"a", "a", "a"}},
		// three groups
		{[]float64{1, 2, 3}, []string{"a", "b", "c"}},
		// fully tied pooled sample: zero variance
		{[]float64{5, 5, 5, 5}, []string{"a", "a", "b", "b"}},
		// length mismatch
		{[]float64{1, 2}, []string{"a"}},
	} {
		if _, _, err := RankSum(v.x, v.labels); err != ErrNotComputable {
			t.Fatalf("RankSum(%v, %v): expected ErrNotComputable, got %v", v.x, v.labels, err)
		}
	}
}

// Truth values from R: kruskal.test(list(c(1,2,3), c(4,5,6), c(7,8,9)))
// gives chi-squared = 7.2, df = 2, p-value = 0.02732.
func TestKruskalWallisKnownValues(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}
	labels := []string{"a", "a", "a", "b", "b", "b", "c", "c", "c"}

	h, p, err := KruskalWallis(x, labels)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(h-7.2) > 1e-9 {
		t.Fatalf("H = %f, want 7.2", h)
	}
	if math.Abs(p-0.02732) > 1e-3 {
		t.Fatalf("p = %f, want 0.02732", p)
	}
}

func TestKruskalWallisDegenerate(t *testing.T) {
	if _, _, err := KruskalWallis([]float64{1, 2, 3}, []string{"a", "a", "a"}); err != ErrNotComputable {
		t.Fatalf("expected ErrNotComputable, got %v", err)
	}
	if _, _, err := KruskalWallis([]float64{5, 5, 5, 5}, []string{"a", "a", "b", "b"}); err != ErrNotComputable {
		t.Fatalf("fully tied sample: expected ErrNotComputable, got %v", err)
	}
}

// rho for a paired-swap permutation of 1..8 is exactly 1 - 6*8/(8*63).
func TestSpearmanKnownValues(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	y := []float64{2, 1, 4, 3, 6, 5, 8, 7}

	rho, p, err := SpearmanTest(x, y)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(rho-0.9047619047619048) > 1e-12 {
		t.Fatalf("rho = %v, want 0.904762", rho)
	}
	if p <= 0 || p >= 0.01 {
		t.Fatalf("p = %v, want a small positive value", p)
	}
}

func TestSpearmanPerfectMonotone(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{10, 20, 30, 40, 50}

	rho, p, err := SpearmanTest(x, y)
	if err != nil {
		t.Fatal(err)
	}
	if rho != 1 || p != 0 {
		t.Fatalf("rho = %v p = %v, want rho=1 p=0", rho, p)
	}
}

func TestSpearmanDegenerate(t *testing.T) {
	if _, _, err := SpearmanTest([]float64{1, 2, 3}, []float64{1, 2, 3}); err != ErrNotComputable {
		t.Fatalf("n<4: expected ErrNotComputable, got %v", err)
	}
	if _, _, err := SpearmanTest([]float64{1, 1, 1, 1}, []float64{1, 2, 3, 4}); err != ErrNotComputable {
		t.Fatalf("constant x: expected ErrNotComputable, got %v", err)
	}
}

// Truth values computed by hand for the Brown-Forsythe statistic:
// groups {1,2,3,4} and {10,20,30,40} give W = 6*162/101.
func TestLevene(t *testing.T) {
	x := []float64{1, 2, 3, 4, 10, 20, 30, 40}
	labels := []string{"a", "a", "a", "a", "b", "b", "b", "b"}

	stat, p, err := Levene(x, labels)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(stat-6*162.0/101.0) > 1e-9 {
		t.Fatalf("stat = %v, want %v", stat, 6*162.0/101.0)
	}
	if p <= 0.01 || p >= 0.05 {
		t.Fatalf("p = %v, want about 0.021", p)
	}
}

func TestLeveneDegenerate(t *testing.T) {
	// single-level grouping factor
	if _, _, err := Levene([]float64{1, 2, 3}, []string{"a", "a", "a"}); err != ErrNotComputable {
		t.Fatalf("expected ErrNotComputable, got %v", err)
	}
	// a group with a single observation
	if _, _, err := Levene([]float64{1, 2, 3}, []string{"a", "a", "b"}); err != ErrNotComputable {
		t.Fatalf("expected ErrNotComputable, got %v", err)
	}
	// zero within-group spread
	if _, _, err := Levene([]float64{1, 1, 2, 2}, []string{"a", "a", "b", "b"}); err != ErrNotComputable {
		t.Fatalf("expected ErrNotComputable, got %v", err)
	}
}
