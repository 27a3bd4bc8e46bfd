package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/Mijroy/Prostate-Gene-Profile-Analysis/expr"
)

func TestStratifiedSplitDeterministicAndStratified(t *testing.T) {
	labels := []string{
		"Disease", "Disease", "Disease", "Disease", "Disease", "Disease", "Disease", "Disease",
		"Normal", "Normal", "Normal", "Normal",
	}

	first, err := StratifiedSplit(labels, 0.75, 99)
	require.NoError(t, err)
	second, err := StratifiedSplit(labels, 0.75, 99)
	require.NoError(t, err)
	assert.Equal(t, first, second, "same seed must produce identical membership")

	assert.Len(t, first.Train, 9)
	assert.Len(t, first.Test, 3)

	count := func(idx []int, label string) int {
		n := 0
		for _, i := range idx {
			if labels[i] == label {
				n++
			}
		}
		return n
	}
	// 75% within each label: 6/8 disease and 3/4 normal in train
	assert.Equal(t, 6, count(first.Train, "Disease"))
	assert.Equal(t, 3, count(first.Train, "Normal"))
	assert.Equal(t, 2, count(first.Test, "Disease"))
	assert.Equal(t, 1, count(first.Test, "Normal"))

	// No overlap, full coverage
	seen := make(map[int]bool)
	for _, i := range append(append([]int(nil), first.Train...), first.Test...) {
		assert.False(t, seen[i], "index %d assigned twice", i)
		seen[i] = true
	}
	assert.Len(t, seen, len(labels))
}

func TestStratifiedSplitErrors(t *testing.T) {
	_, err := StratifiedSplit([]string{"a", "a", "b"}, 0.75, 1)
	assert.Error(t, err, "a label with a single sample cannot be stratified")

	_, err = StratifiedSplit([]string{"a", "a"}, 1.0, 1)
	assert.Error(t, err)
	_, err = StratifiedSplit([]string{"a", "a"}, 0, 1)
	assert.Error(t, err)
}

func TestSVCSeparable(t *testing.T) {
	// Two well-separated blobs in two dimensions
	x := mat.NewDense(8, 2, []float64{
		0, 0,
		0.5, 0.2,
		0.1, 0.6,
		0.4, 0.4,
		10, 10,
		10.5, 9.8,
		9.8, 10.4,
		10.2, 10.1,
	})
	labels := []string{"low", "low", "low", "low", "high", "high", "high", "high"}

	svc := NewSVC(42)
	require.NoError(t, svc.Fit(x, labels))

	predicted, err := svc.Predict(x)
	require.NoError(t, err)
	assert.Equal(t, labels, predicted, "separable training data must be classified perfectly")

	// Held-out points on either side
	test := mat.NewDense(2, 2, []float64{0.3, 0.3, 9.9, 10.2})
	predicted, err = svc.Predict(test)
	require.NoError(t, err)
	assert.Equal(t, []string{"low", "high"}, predicted)
}

func TestOneVsRestThreeClasses(t *testing.T) {
	// Three well-separated blobs
	x := mat.NewDense(9, 2, []float64{
		0, 0,
		0.4, 0.2,
		0.1, 0.5,
		10, 0,
		10.3, 0.4,
		9.8, 0.2,
		0, 10,
		0.3, 10.2,
		0.5, 9.7,
	})
	labels := []string{"a", "a", "a", "b", "b", "b", "c", "c", "c"}

	ovr := NewOneVsRest(42)
	require.NoError(t, ovr.Fit(x, labels))
	assert.Equal(t, []string{"a", "b", "c"}, ovr.Classes())

	predicted, err := ovr.Predict(x)
	require.NoError(t, err)
	assert.Equal(t, labels, predicted, "separable three-class training data must be classified perfectly")

	test := mat.NewDense(3, 2, []float64{0.2, 0.3, 9.9, 0.1, 0.2, 10.1})
	predicted, err = ovr.Predict(test)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, predicted)
}

func TestOneVsRestErrors(t *testing.T) {
	ovr := NewOneVsRest(1)

	err := ovr.Fit(mat.NewDense(2, 1, []float64{1, 2}), []string{"a", "a"})
	assert.Error(t, err, "a single-level target cannot be trained")

	_, err = NewOneVsRest(1).Predict(mat.NewDense(1, 1, []float64{1}))
	assert.Error(t, err, "predict before fit must fail")
}

func TestEvaluateThreeLevelTarget(t *testing.T) {
	// A margin-status style target where imputation left an Unknown level:
	// three separable expression profiles over two genes
	m, err := expr.NewMatrix(
		[]string{"g1", "g2"},
		[]string{"s1", "s2", "s3", "s4", "s5", "s6", "s7", "s8", "s9", "s10", "s11", "s12"},
		[][]float64{
			{1, 1.2, 0.9, 1.1, 9, 9.2, 8.9, 9.1, 1.1, 0.8, 1.0, 1.2},
			{1, 0.9, 1.1, 1.0, 1.1, 0.9, 1.2, 1.0, 9, 9.1, 8.8, 9.2},
		},
	)
	require.NoError(t, err)

	labels := []string{
		"negative", "negative", "negative", "negative",
		"positive", "positive", "positive", "positive",
		"Unknown", "Unknown", "Unknown", "Unknown",
	}

	evaluation, err := Evaluate(m, "margin_status", labels, 42)
	require.NoError(t, err, "a three-level target must train, not be skipped")

	assert.Len(t, evaluation.Split.Train, 9)
	assert.Len(t, evaluation.Split.Test, 3)
	assert.Equal(t, 1.0, evaluation.Confusion.Accuracy())
	assert.ElementsMatch(t, []string{"Unknown", "negative", "positive"}, evaluation.Confusion.Labels)
}

func TestSVCErrors(t *testing.T) {
	svc := NewSVC(1)

	err := svc.Fit(mat.NewDense(3, 1, []float64{1, 2, 3}), []string{"a", "b", "c"})
	assert.Error(t, err, "three classes must fail the binary SVC")

	_, err = (&SVC{}).Predict(mat.NewDense(1, 1, []float64{1}))
	assert.Error(t, err, "predict before fit must fail")
}

func TestConfusionStatistics(t *testing.T) {
	actual := []string{"a", "a", "a", "b", "b", "b"}
	predicted := []string{"a", "a", "b", "b", "b", "a"}

	c, err := NewConfusion(actual, predicted)
	require.NoError(t, err)

	assert.InDelta(t, 4.0/6, c.Accuracy(), 1e-12)
	assert.InDelta(t, 2.0/3, c.Sensitivity("a"), 1e-12)
	assert.InDelta(t, 2.0/3, c.Specificity("a"), 1e-12)
	assert.InDelta(t, 2.0/3, c.Sensitivity("b"), 1e-12)

	report := c.Report()
	assert.Contains(t, report, "accuracy")
	assert.Contains(t, report, "sensitivity")
}

func TestEvaluateEndToEnd(t *testing.T) {
	// 8 samples, one strongly separating gene
	m, err := expr.NewMatrix(
		[]string{"g1", "g2"},
		[]string{"s1", "s2", "s3", "s4", "s5", "s6", "s7", "s8"},
		[][]float64{
			{1, 1.2, 0.9, 1.1, 9, 9.2, 8.9, 9.1},
			{5, 5.1, 4.9, 5.2, 5.1, 4.8, 5.0, 5.2},
		},
	)
	require.NoError(t, err)

	labels := []string{"Normal", "Normal", "Normal", "Normal", "Disease", "Disease", "Disease", "Disease"}

	evaluation, err := Evaluate(m, "status", labels, 42)
	require.NoError(t, err)

	assert.Equal(t, "status", evaluation.Target)
	assert.Len(t, evaluation.Split.Train, 6)
	assert.Len(t, evaluation.Split.Test, 2)
	assert.Equal(t, 1.0, evaluation.Confusion.Accuracy(), "a cleanly separating gene must classify the held-out samples")

	// Deterministic rerun
	again, err := Evaluate(m, "status", labels, 42)
	require.NoError(t, err)
	assert.Equal(t, evaluation.Split, again.Split)
}

func TestEvaluateEmptyFeatureSet(t *testing.T) {
	m, err := expr.NewMatrix(nil, []string{"s1", "s2"}, nil)
	require.NoError(t, err)

	_, err = Evaluate(m, "status", []string{"a", "b"}, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty feature set")
}
