package cluster

import (
	"fmt"

	"github.com/carbocation/pfx"
	fet "github.com/glycerine/golang-fisher-exact"
)

// ClusterStatusAssociation tests whether a two-cluster assignment is
// associated with a two-level sample status, via Fisher's exact test on
// the 2x2 contingency table. Returns the two-sided p-value.
func ClusterStatusAssociation(assignments []int, status []string) (float64, error) {
	if len(assignments) != len(status) {
		return 0, pfx.Err(fmt.Errorf("cluster: %d assignments for %d status labels", len(assignments), len(status)))
	}

	levels := make([]string, 0, 2)
	seen := make(map[string]bool)
	for _, s := range status {
		if !seen[s] {
			seen[s] = true
			levels = append(levels, s)
		}
	}
	if len(levels) != 2 {
		return 0, pfx.Err(fmt.Errorf("cluster: association test needs exactly 2 status levels, have %d", len(levels)))
	}

	var table [2][2]int
	for i, c := range assignments {
		if c < 0 || c > 1 {
			return 0, pfx.Err(fmt.Errorf("cluster: association test needs a 2-cluster assignment, saw cluster %d", c))
		}
		col := 0
		if status[i] == levels[1] {
			col = 1
		}
		table[c][col]++
	}

	_, _, _, twop := fet.FisherExactTest(table[0][0], table[0][1], table[1][0], table[1][1])

	return twop, nil
}
