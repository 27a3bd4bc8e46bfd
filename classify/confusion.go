package classify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/carbocation/pfx"
)

// Confusion is a confusion matrix over an arbitrary label set.
// Counts[actual][predicted] holds the cell counts.
type Confusion struct {
	Labels []string
	Counts map[string]map[string]int
	Total  int
}

// NewConfusion tallies predictions against truth.
func NewConfusion(actual, predicted []string) (*Confusion, error) {
	if len(actual) != len(predicted) {
		return nil, pfx.Err(fmt.Errorf("classify: %d actual labels for %d predictions", len(actual), len(predicted)))
	}
	if len(actual) == 0 {
		return nil, pfx.Err(fmt.Errorf("classify: empty evaluation set"))
	}

	seen := make(map[string]bool)
	var labels []string
	for _, l := range append(append([]string(nil), actual...), predicted...) {
		if !seen[l] {
			seen[l] = true
			labels = append(labels, l)
		}
	}
	sort.Strings(labels)

	counts := make(map[string]map[string]int, len(labels))
	for _, l := range labels {
		counts[l] = make(map[string]int, len(labels))
	}
	for i := range actual {
		counts[actual[i]][predicted[i]]++
	}

	return &Confusion{Labels: labels, Counts: counts, Total: len(actual)}, nil
}

// Accuracy is the fraction of correct predictions.
func (c *Confusion) Accuracy() float64 {
	correct := 0
	for _, l := range c.Labels {
		correct += c.Counts[l][l]
	}
	return float64(correct) / float64(c.Total)
}

// Sensitivity is the fraction of samples of the given class that were
// predicted as that class (recall).
func (c *Confusion) Sensitivity(label string) float64 {
	var actualTotal int
	for _, p := range c.Labels {
		actualTotal += c.Counts[label][p]
	}
	if actualTotal == 0 {
		return 0
	}
	return float64(c.Counts[label][label]) / float64(actualTotal)
}

// Specificity is the fraction of samples not of the given class that were
// predicted as something else.
func (c *Confusion) Specificity(label string) float64 {
	var trueNegative, negativeTotal int
	for _, a := range c.Labels {
		if a == label {
			continue
		}
		for _, p := range c.Labels {
			negativeTotal += c.Counts[a][p]
			if p != label {
				trueNegative += c.Counts[a][p]
			}
		}
	}
	if negativeTotal == 0 {
		return 0
	}
	return float64(trueNegative) / float64(negativeTotal)
}

// Report renders the matrix and the summary statistics as text.
func (c *Confusion) Report() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%-12s", "actual\\pred")
	for _, p := range c.Labels {
		fmt.Fprintf(&b, "%12s", p)
	}
	b.WriteString("\n")

	for _, a := range c.Labels {
		fmt.Fprintf(&b, "%-12s", a)
		for _, p := range c.Labels {
			fmt.Fprintf(&b, "%12d", c.Counts[a][p])
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "accuracy: %.4f\n", c.Accuracy())
	for _, l := range c.Labels {
		fmt.Fprintf(&b, "%s: sensitivity %.4f, specificity %.4f\n", l, c.Sensitivity(l), c.Specificity(l))
	}

	return b.String()
}
