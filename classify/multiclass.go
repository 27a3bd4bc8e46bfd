package classify

import (
	"fmt"

	"github.com/carbocation/pfx"
	"gonum.org/v1/gonum/mat"
)

// OneVsRest extends the binary SVC to targets with more than two levels,
// which the clinical covariates produce whenever the Unknown placeholder
// appears: one Pegasos classifier is trained per level against the rest,
// and prediction takes the level with the largest margin.
type OneVsRest struct {
	Seed int64

	classes []string
	models  []*SVC
}

// NewOneVsRest returns a one-vs-rest ensemble sharing the binary SVC
// defaults and seed discipline.
func NewOneVsRest(seed int64) *OneVsRest {
	return &OneVsRest{Seed: seed}
}

// Fit trains one binary classifier per distinct label. At least two
// distinct labels are required; an empty feature set is the same
// configuration error the binary SVC reports.
func (o *OneVsRest) Fit(x mat.Matrix, labels []string) error {
	n, d := x.Dims()
	if d == 0 {
		return pfx.Err(fmt.Errorf("classify: empty feature set; the significant-gene intersection is empty, so there is nothing to train on"))
	}
	if n != len(labels) {
		return pfx.Err(fmt.Errorf("classify: %d rows for %d labels", n, len(labels)))
	}

	classes := distinct(labels)
	if len(classes) < 2 {
		return pfx.Err(fmt.Errorf("classify: one-vs-rest needs at least 2 distinct labels; got %d", len(classes)))
	}
	o.classes = classes

	o.models = make([]*SVC, len(classes))
	for ci, class := range classes {
		y := make([]float64, n)
		for i, l := range labels {
			if l == class {
				y[i] = 1
			} else {
				y[i] = -1
			}
		}

		m := NewSVC(o.Seed)
		m.train(x, y)
		o.models[ci] = m
	}

	return nil
}

// Predict returns the label whose classifier scores each row highest.
func (o *OneVsRest) Predict(x mat.Matrix) ([]string, error) {
	if o.models == nil {
		return nil, pfx.Err(fmt.Errorf("classify: Predict called before Fit"))
	}

	n, _ := x.Dims()

	scores := make([][]float64, len(o.models))
	for ci, m := range o.models {
		s, err := m.decisionValues(x)
		if err != nil {
			return nil, err
		}
		scores[ci] = s
	}

	out := make([]string, n)
	for i := 0; i < n; i++ {
		best := 0
		for ci := range o.models {
			if scores[ci][i] > scores[best][i] {
				best = ci
			}
		}
		out[i] = o.classes[best]
	}

	return out, nil
}

// Classes returns the label set in training order.
func (o *OneVsRest) Classes() []string {
	return append([]string(nil), o.classes...)
}
