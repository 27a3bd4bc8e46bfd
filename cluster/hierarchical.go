package cluster

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/carbocation/pfx"
)

// Merge records one agglomeration step: the two clusters joined and the
// complete-linkage distance at which they merged. Cluster indices below
// the number of points are leaves; higher indices refer to earlier merge
// steps, offset by the point count.
type Merge struct {
	A, B     int
	Distance float64
}

// Dendrogram is the full complete-linkage merge trace over a point set.
type Dendrogram struct {
	Labels []string
	Merges []Merge

	// members[c] lists the leaves under cluster index c.
	members [][]int
}

// Hierarchical builds a complete-linkage dendrogram over the points using
// Euclidean distance.
func Hierarchical(points [][]float64, labels []string) (*Dendrogram, error) {
	n := len(points)
	if n < 2 {
		return nil, pfx.Err(fmt.Errorf("cluster: hierarchical clustering needs at least 2 points, have %d", n))
	}
	if len(labels) != n {
		return nil, pfx.Err(fmt.Errorf("cluster: %d labels for %d points", len(labels), n))
	}

	// Pairwise Euclidean distances between live clusters. Complete
	// linkage: the distance between two clusters is the max pairwise
	// leaf distance, maintained incrementally on merge.
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
		for j := range dist[i] {
			if i != j {
				dist[i][j] = math.Sqrt(squaredDistance(points[i], points[j]))
			}
		}
	}

	d := &Dendrogram{
		Labels:  append([]string(nil), labels...),
		members: make([][]int, n, 2*n-1),
	}
	for i := 0; i < n; i++ {
		d.members[i] = []int{i}
	}

	// live maps a current row of dist to its cluster index
	live := make([]int, n)
	for i := range live {
		live[i] = i
	}

	for len(live) > 1 {
		// Find the closest live pair
		bi, bj := 0, 1
		best := math.Inf(1)
		for i := 0; i < len(live); i++ {
			for j := i + 1; j < len(live); j++ {
				if dv := dist[i][j]; dv < best {
					best, bi, bj = dv, i, j
				}
			}
		}

		merged := append(append([]int(nil), d.members[live[bi]]...), d.members[live[bj]]...)
		d.Merges = append(d.Merges, Merge{A: live[bi], B: live[bj], Distance: best})
		d.members = append(d.members, merged)
		newCluster := len(d.members) - 1

		// Complete linkage update: new row = elementwise max of the two
		for i := 0; i < len(live); i++ {
			if i == bi || i == bj {
				continue
			}
			dist[bi][i] = math.Max(dist[bi][i], dist[bj][i])
			dist[i][bi] = dist[bi][i]
		}
		live[bi] = newCluster

		// Remove row/column bj
		last := len(live) - 1
		live[bj] = live[last]
		live = live[:last]
		for i := range dist {
			dist[i][bj] = dist[i][last]
		}
		dist[bj] = dist[last]
		dist = dist[:last]
		for i := range dist {
			dist[i] = dist[i][:last]
		}
	}

	return d, nil
}

// Cut assigns each leaf to one of k clusters by undoing the last k-1
// merges. Cluster numbers are assigned in leaf order, so the labeling is
// deterministic.
func (d *Dendrogram) Cut(k int) ([]int, error) {
	n := len(d.Labels)
	if k < 1 || k > n {
		return nil, pfx.Err(fmt.Errorf("cluster: cannot cut %d leaves into %d clusters", n, k))
	}

	// The clusters after cutting are the roots remaining once the top
	// k-1 merges are removed.
	removed := make(map[int]bool)
	roots := make(map[int]bool)
	top := len(d.Merges) - 1
	roots[n+top] = true
	for step := top; step > top-(k-1); step-- {
		idx := n + step
		delete(roots, idx)
		removed[idx] = true
		roots[d.Merges[step].A] = true
		roots[d.Merges[step].B] = true
	}

	rootList := make([]int, 0, len(roots))
	for r := range roots {
		rootList = append(rootList, r)
	}
	// Order clusters by their smallest leaf for determinism
	sort.Slice(rootList, func(a, b int) bool {
		return minLeaf(d.members[rootList[a]]) < minLeaf(d.members[rootList[b]])
	})

	out := make([]int, n)
	for c, root := range rootList {
		for _, leaf := range d.members[root] {
			out[leaf] = c
		}
	}
	return out, nil
}

func minLeaf(leaves []int) int {
	m := leaves[0]
	for _, l := range leaves {
		if l < m {
			m = l
		}
	}
	return m
}

// String renders the merge trace as an indented text dendrogram, one
// merge per line from the last join downward.
func (d *Dendrogram) String() string {
	var b strings.Builder
	for i := len(d.Merges) - 1; i >= 0; i-- {
		m := d.Merges[i]
		fmt.Fprintf(&b, "%*sjoin %s + %s at %.4f\n",
			2*(len(d.Merges)-1-i), "",
			d.clusterName(m.A), d.clusterName(m.B), m.Distance)
	}
	return b.String()
}

func (d *Dendrogram) clusterName(idx int) string {
	if idx < len(d.Labels) {
		return d.Labels[idx]
	}
	return fmt.Sprintf("(%d leaves)", len(d.members[idx]))
}
