package padjust

import (
	"fmt"
	"math/rand"

	"github.com/carbocation/pfx"
)

// PValueFunc recomputes the raw per-gene p-value vector after reordering
// the covariate by the given sample permutation. It must be a pure
// function of the permutation; the expression data it closes over is
// never mutated. Genes whose test is not computable should carry p=1.
type PValueFunc func(perm []int) []float64

// MinP computes the permutation-based minimum-p adjustment (single-step
// min-p): the covariate is permuted nPerm times with a seeded generator,
// the minimum p-value of each permuted pass forms the null distribution,
// and each gene's adjusted p is the fraction of null minima at or below
// its observed p, with the +1 correction so no adjusted value is exactly
// zero.
func MinP(observed []float64, nSamples int, pvals PValueFunc, nPerm int, seed int64) ([]float64, error) {
	if nPerm < 1 {
		return nil, pfx.Err(fmt.Errorf("padjust: need at least 1 permutation, got %d", nPerm))
	}
	if nSamples < 2 {
		return nil, pfx.Err(fmt.Errorf("padjust: need at least 2 samples to permute, got %d", nSamples))
	}

	rng := rand.New(rand.NewSource(seed))

	nullMinima := make([]float64, nPerm)
	for b := 0; b < nPerm; b++ {
		p := pvals(rng.Perm(nSamples))
		if len(p) != len(observed) {
			return nil, pfx.Err(fmt.Errorf("padjust: permutation pass returned %d p-values, expected %d", len(p), len(observed)))
		}

		minP := 1.0
		for _, v := range p {
			if v < minP {
				minP = v
			}
		}
		nullMinima[b] = minP
	}

	out := make([]float64, len(observed))
	for g, obs := range observed {
		count := 0
		for _, nullMin := range nullMinima {
			if nullMin <= obs {
				count++
			}
		}
		out[g] = float64(1+count) / float64(1+nPerm)
	}

	return out, nil
}
