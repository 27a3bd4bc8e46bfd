package classify

import (
	"fmt"

	"github.com/carbocation/pfx"
	"gonum.org/v1/gonum/mat"

	"github.com/Mijroy/Prostate-Gene-Profile-Analysis/expr"
)

// FeatureMatrix transposes the gene-by-sample expression matrix into a
// samples-by-features design matrix restricted to the given sample
// indices. Genes become feature columns in matrix row order.
func FeatureMatrix(m *expr.Matrix, sampleIdx []int) *mat.Dense {
	out := mat.NewDense(len(sampleIdx), m.NGenes(), nil)
	for r, j := range sampleIdx {
		for g := 0; g < m.NGenes(); g++ {
			out.Set(r, g, m.Values[g][j])
		}
	}
	return out
}

// Evaluation bundles one target's trained split and its held-out
// confusion matrix.
type Evaluation struct {
	Target    string
	Split     *Split
	Confusion *Confusion
}

// Evaluate runs the fixed protocol for one target label vector: a
// stratified 75/25 split, a linear SVC fit on the training side (wrapped
// one-vs-rest when the target carries more than two levels, e.g. an
// Unknown placeholder alongside positive/negative), and a confusion
// matrix on the held-out side. The matrix must already be subset to the
// reduced gene set; an empty gene set fails before any training happens.
func Evaluate(m *expr.Matrix, target string, labels []string, seed int64) (*Evaluation, error) {
	if m.NGenes() == 0 {
		return nil, pfx.Err(fmt.Errorf("classify: target %s: empty feature set; the significant-gene intersection is empty", target))
	}
	if len(labels) != m.NSamples() {
		return nil, pfx.Err(fmt.Errorf("classify: target %s: %d labels for %d samples", target, len(labels), m.NSamples()))
	}

	const trainFraction = 0.75

	split, err := StratifiedSplit(labels, trainFraction, seed)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("classify: target %s: %w", target, err))
	}

	trainLabels := pick(labels, split.Train)
	testLabels := pick(labels, split.Test)

	var model interface {
		Fit(mat.Matrix, []string) error
		Predict(mat.Matrix) ([]string, error)
	}
	if len(distinct(trainLabels)) > 2 {
		model = NewOneVsRest(seed)
	} else {
		model = NewSVC(seed)
	}

	if err := model.Fit(FeatureMatrix(m, split.Train), trainLabels); err != nil {
		return nil, pfx.Err(fmt.Errorf("classify: target %s: %w", target, err))
	}

	predicted, err := model.Predict(FeatureMatrix(m, split.Test))
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("classify: target %s: %w", target, err))
	}

	confusion, err := NewConfusion(testLabels, predicted)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("classify: target %s: %w", target, err))
	}

	return &Evaluation{Target: target, Split: split, Confusion: confusion}, nil
}

func pick(labels []string, idx []int) []string {
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = labels[j]
	}
	return out
}
