package stattest

import (
	"fmt"

	"github.com/carbocation/pfx"

	"github.com/Mijroy/Prostate-Gene-Profile-Analysis/expr"
)

// TestKind names the covariate-appropriate test applied to a gene.
type TestKind string

const (
	TestSpearman      TestKind = "spearman"
	TestRankSum       TestKind = "ranksum"
	TestKruskalWallis TestKind = "kruskalwallis"
)

// Result reports one gene's test against one covariate, alongside the
// distributional diagnostics used to select the test. A non-empty Err
// means the statistic could not be computed for this gene; such rows are
// local failures that never abort the batch.
type Result struct {
	Gene      string
	Covariate string
	Test      TestKind

	Stat float64
	P    float64
	Err  string

	// Diagnostics. ShapiroErr / LeveneErr are set when the diagnostic
	// itself was not computable.
	ShapiroW   float64
	ShapiroP   float64
	ShapiroErr string
	LeveneStat float64
	LeveneP    float64
	LeveneErr  string
}

// OK reports whether the covariate test computed a p-value.
func (r Result) OK() bool { return r.Err == "" }

// Battery runs one covariate's test across every gene of a matrix. The
// length of the covariate vector must match the matrix sample count;
// mismatch is a batch failure, since it means the upstream sample join
// was skipped.
type Battery struct {
	Matrix *expr.Matrix
}

// Continuous tests every gene against a continuous covariate with the
// Spearman rank correlation test.
func (b Battery) Continuous(covariate string, values []float64) ([]Result, error) {
	if len(values) != b.Matrix.NSamples() {
		return nil, pfx.Err(fmt.Errorf("stattest: covariate %s has %d values for %d samples", covariate, len(values), b.Matrix.NSamples()))
	}

	out := make([]Result, 0, b.Matrix.NGenes())
	for i, gene := range b.Matrix.Genes {
		row := b.Matrix.Row(i)

		res := Result{Gene: gene, Covariate: covariate, Test: TestSpearman}
		res.ShapiroW, res.ShapiroP, res.ShapiroErr = diagnose(ShapiroWilk(row))
		res.LeveneErr = "no grouping factor for a continuous covariate"

		rho, p, err := SpearmanTest(row, values)
		if err != nil {
			res.Err = err.Error()
		} else {
			res.Stat, res.P = rho, p
		}

		out = append(out, res)
	}

	return out, nil
}

// Grouped tests every gene against a categorical covariate: RankSum for
// two levels, KruskalWallis for more.
func (b Battery) Grouped(covariate string, labels []string) ([]Result, error) {
	if len(labels) != b.Matrix.NSamples() {
		return nil, pfx.Err(fmt.Errorf("stattest: covariate %s has %d labels for %d samples", covariate, len(labels), b.Matrix.NSamples()))
	}

	levels := make(map[string]struct{})
	for _, l := range labels {
		levels[l] = struct{}{}
	}

	kind := TestKruskalWallis
	if len(levels) == 2 {
		kind = TestRankSum
	}

	out := make([]Result, 0, b.Matrix.NGenes())
	for i, gene := range b.Matrix.Genes {
		row := b.Matrix.Row(i)

		res := Result{Gene: gene, Covariate: covariate, Test: kind}
		res.ShapiroW, res.ShapiroP, res.ShapiroErr = diagnose(ShapiroWilk(row))
		res.LeveneStat, res.LeveneP, res.LeveneErr = diagnose(Levene(row, labels))

		var stat, p float64
		var err error
		if kind == TestRankSum {
			stat, p, err = RankSum(row, labels)
		} else {
			stat, p, err = KruskalWallis(row, labels)
		}
		if err != nil {
			res.Err = err.Error()
		} else {
			res.Stat, res.P = stat, p
		}

		out = append(out, res)
	}

	return out, nil
}

func diagnose(stat, p float64, err error) (float64, float64, string) {
	if err != nil {
		return 0, 0, err.Error()
	}
	return stat, p, ""
}
