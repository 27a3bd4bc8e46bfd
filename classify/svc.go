package classify

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/carbocation/pfx"
	"gonum.org/v1/gonum/mat"
)

// SVC is a binary linear-kernel support-vector classifier trained with
// the Pegasos stochastic sub-gradient method. Training is deterministic
// for a fixed seed. The feature values are assumed to be on comparable
// scales (log expression values are).
type SVC struct {
	// Lambda is the regularization strength; Epochs the number of full
	// passes over the training set.
	Lambda float64
	Epochs int
	Seed   int64

	weights *mat.VecDense
	bias    float64
	classes []string
}

// NewSVC returns an SVC with the fixed defaults used by the analysis: no
// hyperparameter search is performed anywhere in this pipeline.
func NewSVC(seed int64) *SVC {
	return &SVC{Lambda: 0.01, Epochs: 200, Seed: seed}
}

// Fit trains on X (samples by features) with one label per row. Exactly
// two distinct labels are required; the alphabetically first maps to -1,
// the second to +1. An empty feature set is a configuration error: it
// means the upstream significant-gene intersection was empty.
func (s *SVC) Fit(x mat.Matrix, labels []string) error {
	n, d := x.Dims()
	if d == 0 {
		return pfx.Err(fmt.Errorf("classify: empty feature set; the significant-gene intersection is empty, so there is nothing to train on"))
	}
	if n != len(labels) {
		return pfx.Err(fmt.Errorf("classify: %d rows for %d labels", n, len(labels)))
	}

	classes := distinct(labels)
	if len(classes) != 2 {
		return pfx.Err(fmt.Errorf("classify: SVC is binary; got %d distinct labels %v", len(classes), classes))
	}
	s.classes = classes

	y := make([]float64, n)
	for i, l := range labels {
		if l == classes[0] {
			y[i] = -1
		} else {
			y[i] = 1
		}
	}

	s.train(x, y)

	return nil
}

// train runs the Pegasos loop on already-encoded -1/+1 targets.
func (s *SVC) train(x mat.Matrix, y []float64) {
	n, d := x.Dims()

	rng := rand.New(rand.NewSource(s.Seed))

	w := mat.NewVecDense(d, nil)
	var b float64

	t := 0
	for epoch := 0; epoch < s.Epochs; epoch++ {
		for _, i := range rng.Perm(n) {
			t++
			eta := 1 / (s.Lambda * float64(t))

			xi := rowVector(x, i)
			margin := y[i] * (mat.Dot(w, xi) + b)

			// Sub-gradient step on the hinge loss
			w.ScaleVec(1-eta*s.Lambda, w)
			if margin < 1 {
				w.AddScaledVec(w, eta*y[i], xi)
				b += eta * y[i]
			}
		}
	}

	s.weights = w
	s.bias = b
}

// decisionValues returns the signed margin per row; positive means the
// +1-encoded class.
func (s *SVC) decisionValues(x mat.Matrix) ([]float64, error) {
	if s.weights == nil {
		return nil, pfx.Err(fmt.Errorf("classify: Predict called before Fit"))
	}

	n, d := x.Dims()
	if d != s.weights.Len() {
		return nil, pfx.Err(fmt.Errorf("classify: %d features at predict time, trained on %d", d, s.weights.Len()))
	}

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = mat.Dot(s.weights, rowVector(x, i)) + s.bias
	}

	return out, nil
}

// Predict returns one label per row of X.
func (s *SVC) Predict(x mat.Matrix) ([]string, error) {
	scores, err := s.decisionValues(x)
	if err != nil {
		return nil, err
	}

	out := make([]string, len(scores))
	for i, score := range scores {
		if score < 0 {
			out[i] = s.classes[0]
		} else {
			out[i] = s.classes[1]
		}
	}

	return out, nil
}

// Classes returns the two class labels in their -1/+1 order.
func (s *SVC) Classes() []string {
	return append([]string(nil), s.classes...)
}

func rowVector(x mat.Matrix, i int) *mat.VecDense {
	_, d := x.Dims()
	v := mat.NewVecDense(d, nil)
	for j := 0; j < d; j++ {
		v.SetVec(j, x.At(i, j))
	}
	return v
}

func distinct(labels []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	sort.Strings(out)
	return out
}
