// classifyarray trains one linear support-vector classifier per clinical
// target (disease status, margin status, biochemical recurrence) on the
// reduced significant-gene set, with a fixed stratified 75/25 split, and
// reports a confusion matrix per target. No cross-validation and no
// hyperparameter search: one split, one kernel.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/Mijroy/Prostate-Gene-Profile-Analysis/classify"
	"github.com/Mijroy/Prostate-Gene-Profile-Analysis/expr"
	"github.com/Mijroy/Prostate-Gene-Profile-Analysis/phenotype"
)

var (
	BufferSize = 4096 * 8
	STDOUT     = bufio.NewWriterSize(os.Stdout, BufferSize)
)

func main() {
	defer STDOUT.Flush()

	var matrixFile, annotationFile, genesFile, excludeList string
	var seed int64

	flag.StringVar(&matrixFile, "matrix", "", "Normalized gene x sample matrix (tab-separated, from normalizearray)")
	flag.StringVar(&annotationFile, "annotation", "", "Tab-separated sample annotation file")
	flag.StringVar(&genesFile, "genes", "", "Reduced gene set, one gene per line (from genestats -genesout)")
	flag.StringVar(&excludeList, "exclude", "", "Comma-separated sample IDs to exclude before training (optional)")
	flag.Int64Var(&seed, "seed", 42, "Random seed for the train/test split and the classifier")
	flag.Parse()

	if matrixFile == "" {
		log.Fatalln("Please provide -matrix")
	}
	if annotationFile == "" {
		log.Fatalln("Please provide -annotation")
	}
	if genesFile == "" {
		log.Fatalln("Please provide -genes")
	}

	genes, err := readGeneList(genesFile)
	if err != nil {
		log.Fatalln(err)
	}
	if len(genes) == 0 {
		log.Fatalf("The gene list %s is empty: the significant-gene intersection produced no features, so there is nothing to train on. Revisit the testing stage (a larger alpha, or different covariates) before classifying.\n", genesFile)
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
	}

	reduced, err := matrix.Subset(genes)
	if err != nil {
		log.Fatalln(err)
	}
	log.Println("Training on", reduced.NGenes(), "genes x", reduced.NSamples(), "samples")

	targets := []struct {
		name  string
		field phenotype.Field
	}{
		{"status", phenotype.FieldStatus},
		{"margin_status", phenotype.FieldMargin},
		{"bcr_status", phenotype.FieldBCR},
	}

	for _, target := range targets {
		labels, err := annotation.Labels(reduced.Samples, target.field)
		if err != nil {
			log.Fatalln(err)
		}

		evaluation, err := classify.Evaluate(reduced, target.name, labels, seed)
		if err != nil {
			log.Println(err)
			continue
		}

		fmt.Fprintf(STDOUT, "=== %s (train %d / test %d) ===\n%s\n",
			target.name, len(evaluation.Split.Train), len(evaluation.Split.Test),
			evaluation.Confusion.Report())
	}
}

func readGeneList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if g := strings.TrimSpace(scanner.Text()); g != "" {
			out = append(out, g)
		}
	}
	return out, scanner.Err()
}
