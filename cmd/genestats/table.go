package main

import (
	"bufio"
	"fmt"
	"math"
	"os"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"

	"github.com/Mijroy/Prostate-Gene-Profile-Analysis/padjust"
	"github.com/Mijroy/Prostate-Gene-Profile-Analysis/stattest"
)

// statsRow is one gene x covariate line of the output table. Adjusted
// p-values are NaN when the underlying test was not computable.
type statsRow struct {
	Gene      string  `csv:"gene"`
	Covariate string  `csv:"covariate"`
	Test      string  `csv:"test"`
	Stat      float64 `csv:"stat"`
	P         float64 `csv:"p"`
	Err       string  `csv:"error"`

	ShapiroP float64 `csv:"shapiro_p"`
	LeveneP  float64 `csv:"levene_p"`

	PBonferroni float64 `csv:"p_bonferroni"`
	PHolm       float64 `csv:"p_holm"`
	PHochberg   float64 `csv:"p_hochberg"`
	PBH         float64 `csv:"p_bh"`
	PBY         float64 `csv:"p_by"`
	PMinP       float64 `csv:"p_minp"`
}

// adjustedSet carries the per-method adjusted vectors, index-aligned with
// the battery results.
type adjustedSet struct {
	byMethod map[padjust.Method][]float64
	minP     []float64
}

// adjustAll corrects the computable p-values with every method and
// scatters them back into full-length vectors, NaN where the gene's test
// failed.
func adjustAll(results []stattest.Result) (adjustedSet, error) {
	out := adjustedSet{byMethod: make(map[padjust.Method][]float64)}

	var computable []float64
	var indices []int
	for i, r := range results {
		if r.OK() {
			computable = append(computable, r.P)
			indices = append(indices, i)
		}
	}

	for _, method := range padjust.Methods {
		adjusted, err := padjust.Adjust(computable, method)
		if err != nil {
			return out, pfx.Err(err)
		}

		full := make([]float64, len(results))
		for i := range full {
			full[i] = math.NaN()
		}
		for k, i := range indices {
			full[i] = adjusted[k]
		}
		out.byMethod[method] = full
	}

	return out, nil
}

// permutationMinP runs the min-p baseline for one covariate: the
// covariate vector is permuted and the full battery re-run, with p=1
// standing in for genes whose permuted test is not computable.
func permutationMinP(battery stattest.Battery, cov *covariate, results []stattest.Result, nPerm int, seed int64) ([]float64, error) {
	observed := make([]float64, len(results))
	for i, r := range results {
		if r.OK() {
			observed[i] = r.P
		} else {
			observed[i] = 1
		}
	}

	pvals := func(perm []int) []float64 {
		var permuted []stattest.Result
		var err error
		if cov.continuous {
			values := make([]float64, len(cov.values))
			for i, j := range perm {
				values[i] = cov.values[j]
			}
			permuted, err = battery.Continuous(cov.name, values)
		} else {
			labels := make([]string, len(cov.labels))
			for i, j := range perm {
				labels[i] = cov.labels[j]
			}
			permuted, err = battery.Grouped(cov.name, labels)
		}
		if err != nil {
			// The battery only errors on shape mismatch, which a
			// permutation cannot introduce
			panic(err)
		}

		p := make([]float64, len(permuted))
		for i, r := range permuted {
			if r.OK() {
				p[i] = r.P
			} else {
				p[i] = 1
			}
		}
		return p
	}

	adjusted, err := padjust.MinP(observed, battery.Matrix.NSamples(), pvals, nPerm, seed)
	if err != nil {
		return nil, pfx.Err(err)
	}

	// Non-computable genes keep NaN in the output table
	for i, r := range results {
		if !r.OK() {
			adjusted[i] = math.NaN()
		}
	}

	return adjusted, nil
}

func buildRows(results []stattest.Result, adjusted adjustedSet, withMinP bool) []*statsRow {
	rows := make([]*statsRow, 0, len(results))
	for i, r := range results {
		row := &statsRow{
			Gene:      r.Gene,
			Covariate: r.Covariate,
			Test:      string(r.Test),
			Stat:      r.Stat,
			P:         r.P,
			Err:       r.Err,
			ShapiroP:  r.ShapiroP,
			LeveneP:   r.LeveneP,

			PBonferroni: adjusted.byMethod[padjust.Bonferroni][i],
			PHolm:       adjusted.byMethod[padjust.Holm][i],
			PHochberg:   adjusted.byMethod[padjust.Hochberg][i],
			PBH:         adjusted.byMethod[padjust.BH][i],
			PBY:         adjusted.byMethod[padjust.BY][i],
			PMinP:       math.NaN(),
		}
		if !r.OK() {
			row.Stat, row.P = math.NaN(), math.NaN()
		}
		if r.ShapiroErr != "" {
			row.ShapiroP = math.NaN()
		}
		if r.LeveneErr != "" {
			row.LeveneP = math.NaN()
		}
		if withMinP {
			row.PMinP = adjusted.minP[i]
		}
		rows = append(rows, row)
	}
	return rows
}

func writeTable(path string, rows []*statsRow) error {
	f, err := os.Create(path)
	if err != nil {
		return pfx.Err(err)
	}
	defer f.Close()

	return pfx.Err(gocsv.MarshalFile(&rows, f))
}

func writeGeneList(path string, genes []string) error {
	f, err := os.Create(path)
	if err != nil {
		return pfx.Err(err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, g := range genes {
		fmt.Fprintln(w, g)
	}
	return pfx.Err(w.Flush())
}
