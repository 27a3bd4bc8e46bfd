package cluster

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/carbocation/pfx"
)

// KMeans runs Lloyd's algorithm over the points with a fixed k and a
// seeded generator, so reruns with the same seed produce identical
// assignments. Points are rows; the returned slice assigns each point a
// cluster in [0,k).
func KMeans(points [][]float64, k int, seed int64) ([]int, error) {
	n := len(points)
	if k < 1 || n < k {
		return nil, pfx.Err(fmt.Errorf("cluster: cannot form %d clusters from %d points", k, n))
	}
	dim := len(points[0])
	for i, p := range points {
		if len(p) != dim {
			return nil, pfx.Err(fmt.Errorf("cluster: point %d has %d dimensions, expected %d", i, len(p), dim))
		}
	}

	rng := rand.New(rand.NewSource(seed))

	// Initialize centroids at k distinct points
	perm := rng.Perm(n)
	centroids := make([][]float64, k)
	for c := 0; c < k; c++ {
		centroids[c] = append([]float64(nil), points[perm[c]]...)
	}

	assignments := make([]int, n)

	const maxIterations = 100
	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i, p := range points {
			best := 0
			bestDist := math.Inf(1)
			for c, centroid := range centroids {
				d := squaredDistance(p, centroid)
				if d < bestDist {
					best, bestDist = c, d
				}
			}
			if assignments[i] != best {
				assignments[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		// Recompute centroids; an emptied cluster keeps its old position
		counts := make([]int, k)
		sums := make([][]float64, k)
		for c := range sums {
			sums[c] = make([]float64, dim)
		}
		for i, p := range points {
			c := assignments[i]
			counts[c]++
			for d, v := range p {
				sums[c][d] += v
			}
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				continue
			}
			for d := 0; d < dim; d++ {
				centroids[c][d] = sums[c][d] / float64(counts[c])
			}
		}
	}

	return assignments, nil
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
