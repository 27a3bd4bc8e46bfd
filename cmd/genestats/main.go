// genestats runs the per-gene univariate testing stage: every gene is
// tested against each clinical covariate with the covariate-appropriate
// rank test, the raw p-values are corrected with the full family of
// multiple-comparison procedures (plus an optional permutation min-p
// baseline), and the per-covariate significant gene sets are intersected
// into the reduced feature set for classification. Benjamini-Hochberg is
// the correction used to call significance; the others are reported for
// comparison.
package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/aybabtme/uniplot/histogram"

	"github.com/Mijroy/Prostate-Gene-Profile-Analysis/expr"
	"github.com/Mijroy/Prostate-Gene-Profile-Analysis/padjust"
	"github.com/Mijroy/Prostate-Gene-Profile-Analysis/phenotype"
	"github.com/Mijroy/Prostate-Gene-Profile-Analysis/stattest"
)

func main() {
	var matrixFile, annotationFile, outFile, genesOutFile, excludeList string
	var cvQuantile, alpha float64
	var nPerm int
	var seed int64

	flag.StringVar(&matrixFile, "matrix", "", "Normalized gene x sample matrix (tab-separated, from normalizearray)")
	flag.StringVar(&annotationFile, "annotation", "", "Tab-separated sample annotation file")
	flag.StringVar(&outFile, "out", "", "Output CSV for the per-gene statistics table")
	flag.StringVar(&genesOutFile, "genesout", "", "Output file for the intersected significant gene set, one gene per line (optional)")
	flag.StringVar(&excludeList, "exclude", "", "Comma-separated sample IDs to exclude before testing (optional)")
	flag.Float64Var(&cvQuantile, "cvquantile", 0.75, "Keep genes with coefficient of variation strictly above this quantile")
	flag.Float64Var(&alpha, "alpha", padjust.DefaultAlpha, "Adjusted p-value threshold for significance")
	flag.IntVar(&nPerm, "permutations", 0, "Number of label permutations for the min-p baseline (0 disables)")
	flag.Int64Var(&seed, "seed", 42, "Random seed for the permutation baseline")
	flag.Parse()

	if matrixFile == "" {
		log.Fatalln("Please provide -matrix")
	}
	if annotationFile == "" {
		log.Fatalln("Please provide -annotation")
	}
	if outFile == "" {
		log.Fatalln("Please provide -out")
	}

	annotation, err := phenotype.ReadFile(annotationFile, phenotype.DefaultOptions())
	if err != nil {
		log.Fatalln(err)
	}

	matrix, err := expr.ReadTSVFile(matrixFile)
	if err != nil {
		log.Fatalln(err)
	}

	matrix, err = expr.AlignSamples(matrix, annotation.SampleIDs())
	if err != nil {
		log.Fatalln(err)
	}

	if excludeList != "" {
		matrix, err = matrix.DropSamples(strings.Split(excludeList, ","))
		if err != nil {
			log.Fatalln(err)
		}
		log.Println("Excluded samples by configuration:", excludeList)
	}

	filtered, err := matrix.FilterByCV(cvQuantile)
	if err != nil {
		log.Fatalln(err)
	}
	log.Println("Testing", filtered.NGenes(), "genes across", filtered.NSamples(), "samples")

	ages, err := annotation.Ages(filtered.Samples)
	if err != nil {
		log.Fatalln(err)
	}

	battery := stattest.Battery{Matrix: filtered}

	covariates := []covariate{
		{name: "age", continuous: true, values: ages},
		{name: "status", field: phenotype.FieldStatus},
		{name: "margin_status", field: phenotype.FieldMargin},
		{name: "bcr_status", field: phenotype.FieldBCR},
	}

	var table []*statsRow
	significant := make(map[string][]string)

	var allRawP []float64
	for i := range covariates {
		cov := &covariates[i]

		var results []stattest.Result
		if cov.continuous {
			results, err = battery.Continuous(cov.name, cov.values)
		} else {
			cov.labels, err = annotation.Labels(filtered.Samples, cov.field)
			if err != nil {
				log.Fatalln(err)
			}
			results, err = battery.Grouped(cov.name, cov.labels)
		}
		if err != nil {
			log.Fatalln(err)
		}

		notComputable := 0
		for _, r := range results {
			if !r.OK() {
				notComputable++
				continue
			}
			allRawP = append(allRawP, r.P)
		}
		if notComputable > 0 {
			log.Printf("%s: %d of %d genes not computable\n", cov.name, notComputable, len(results))
		}

		adjusted, err := adjustAll(results)
		if err != nil {
			log.Fatalln(err)
		}

		if nPerm > 0 {
			adjusted.minP, err = permutationMinP(battery, cov, results, nPerm, seed)
			if err != nil {
				log.Fatalln(err)
			}
		}

		table = append(table, buildRows(results, adjusted, nPerm > 0)...)

		sig := padjust.Significant(geneIDs(results), adjusted.byMethod[padjust.Production], alpha)
		significant[cov.name] = sig
		log.Printf("%s: %d genes significant at %s-adjusted p < %g\n", cov.name, len(sig), padjust.Production, alpha)
	}

	// The reduced feature set: genes significant for all three
	// classification targets
	reduced := padjust.Intersect(significant["status"], significant["margin_status"], significant["bcr_status"])
	log.Printf("Intersection of status/margin/bcr significant sets: %d genes: %s\n", len(reduced), strings.Join(reduced, ", "))

	if err := writeTable(outFile, table); err != nil {
		log.Fatalln(err)
	}
	log.Println("Wrote", outFile)

	if genesOutFile != "" {
		if err := writeGeneList(genesOutFile, reduced); err != nil {
			log.Fatalln(err)
		}
		log.Println("Wrote", genesOutFile)
	}

	// Raw p-value distribution across all covariates, for a quick flatness
	// check against the uniform null
	if len(allRawP) > 0 {
		hist := histogram.Hist(10, allRawP)
		if err := histogram.Fprint(os.Stderr, hist, histogram.Linear(40)); err != nil {
			log.Println("histogram:", err)
		}
	}
}

type covariate struct {
	name       string
	continuous bool
	field      phenotype.Field
	values     []float64
	labels     []string
}

func geneIDs(results []stattest.Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Gene
	}
	return out
}
