// Package classify trains and evaluates linear support-vector classifiers
// on the reduced gene set: stratified train/test splitting, a
// Pegasos-trained linear SVC, and confusion-matrix reporting.
package classify

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/carbocation/pfx"
)

// Split holds deterministic train/test membership as indices into the
// original sample order.
type Split struct {
	Train []int
	Test  []int
}

// StratifiedSplit partitions sample indices into train/test with the
// train fraction applied within each label separately, so class balance
// carries over. The shuffle is seeded; the same seed always yields the
// same membership. Every label must contribute at least one sample to
// each side.
func StratifiedSplit(labels []string, trainFraction float64, seed int64) (*Split, error) {
	if trainFraction <= 0 || trainFraction >= 1 {
		return nil, pfx.Err(fmt.Errorf("classify: train fraction %f outside (0,1)", trainFraction))
	}

	byLabel := make(map[string][]int)
	for i, l := range labels {
		byLabel[l] = append(byLabel[l], i)
	}

	// Deterministic label order so the RNG consumption is stable
	levels := make([]string, 0, len(byLabel))
	for l := range byLabel {
		levels = append(levels, l)
	}
	sort.Strings(levels)

	rng := rand.New(rand.NewSource(seed))

	out := &Split{}
	for _, level := range levels {
		idx := byLabel[level]
		if len(idx) < 2 {
			return nil, pfx.Err(fmt.Errorf("classify: label %q has only %d sample(s); cannot stratify", level, len(idx)))
		}

		shuffled := append([]int(nil), idx...)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		nTrain := int(math.Round(trainFraction * float64(len(shuffled))))
		if nTrain < 1 {
			nTrain = 1
		}
		if nTrain >= len(shuffled) {
			nTrain = len(shuffled) - 1
		}

		out.Train = append(out.Train, shuffled[:nTrain]...)
		out.Test = append(out.Test, shuffled[nTrain:]...)
	}

	sort.Ints(out.Train)
	sort.Ints(out.Test)

	return out, nil
}
