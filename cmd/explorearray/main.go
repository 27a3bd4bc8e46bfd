// explorearray examines sample structure in a normalized expression
// matrix: variability filtering, principal components (with a PC1/PC2
// scatter), k-means and complete-linkage hierarchical clustering, a
// Fisher test of cluster membership against disease status, and a
// low-correlation outlier report. Sample exclusion is explicit: the
// -exclude list is the only thing that removes samples.
package main

import (
	"flag"
	"log"
	"strings"

	"github.com/Mijroy/Prostate-Gene-Profile-Analysis/cluster"
	"github.com/Mijroy/Prostate-Gene-Profile-Analysis/expr"
	"github.com/Mijroy/Prostate-Gene-Profile-Analysis/phenotype"
)

func main() {
	var matrixFile, annotationFile, scatterFile, excludeList string
	var cvQuantile, flagSD float64
	var k int
	var seed int64

	flag.StringVar(&matrixFile, "matrix", "", "Normalized gene x sample matrix (tab-separated, from normalizearray)")
	flag.StringVar(&annotationFile, "annotation", "", "Tab-separated sample annotation file")
	flag.StringVar(&scatterFile, "scatter", "", "Output PNG for the PC1/PC2 scatter (optional)")
	flag.StringVar(&excludeList, "exclude", "", "Comma-separated sample IDs to exclude before analysis (optional)")
	flag.Float64Var(&cvQuantile, "cvquantile", 0.75, "Keep genes with coefficient of variation strictly above this quantile")
	flag.Float64Var(&flagSD, "flagsd", 2, "Flag samples whose mean pairwise correlation is this many SDs below the mean")
	flag.IntVar(&k, "k", 2, "Number of k-means clusters")
	flag.Int64Var(&seed, "seed", 42, "Random seed for k-means")
	flag.Parse()

	if matrixFile == "" {
		log.Fatalln("Please provide -matrix")
	}
	if annotationFile == "" {
		log.Fatalln("Please provide -annotation")
	}

	annotation, err := phenotype.ReadFile(annotationFile, phenotype.DefaultOptions())
	if err != nil {
		log.Fatalln(err)
	}

	matrix, err := expr.ReadTSVFile(matrixFile)
	if err != nil {
		log.Fatalln(err)
	}
	log.Println("Loaded matrix:", matrix.NGenes(), "genes x", matrix.NSamples(), "samples")

	matrix, err = expr.AlignSamples(matrix, annotation.SampleIDs())
	if err != nil {
		log.Fatalln(err)
	}

	if excludeList != "" {
		excluded := strings.Split(excludeList, ",")
		matrix, err = matrix.DropSamples(excluded)
		if err != nil {
			log.Fatalln(err)
		}
		log.Println("Excluded", len(excluded), "samples by configuration:", excludeList)
	}

	filtered, err := matrix.FilterByCV(cvQuantile)
	if err != nil {
		log.Fatalln(err)
	}
	log.Println("CV filter kept", filtered.NGenes(), "of", matrix.NGenes(), "genes")

	// Outlier candidates are reported, never dropped automatically
	outliers, err := cluster.FlagLowCorrelation(filtered, flagSD)
	if err != nil {
		log.Fatalln(err)
	}
	if len(outliers.Flagged) > 0 {
		log.Println("Samples below the mean-correlation cutoff (candidates for -exclude):", strings.Join(outliers.Flagged, ", "))
	} else {
		log.Println("No low-correlation samples flagged")
	}

	pca, err := cluster.PCA(filtered, true)
	if err != nil {
		log.Fatalln(err)
	}
	points, err := pca.TopTwo()
	if err != nil {
		log.Fatalln(err)
	}
	log.Printf("PC1 explains %.1f%%, PC2 %.1f%% of variance\n", pca.PercentVariance[0], pca.PercentVariance[1])

	status, err := annotation.Labels(filtered.Samples, phenotype.FieldStatus)
	if err != nil {
		log.Fatalln(err)
	}

	if scatterFile != "" {
		if err := plotScores(scatterFile, pca, status); err != nil {
			log.Fatalln(err)
		}
		log.Println("Wrote", scatterFile)
	}

	// k-means over the first two components
	assignments, err := cluster.KMeans(points, k, seed)
	if err != nil {
		log.Fatalln(err)
	}
	for c := 0; c < k; c++ {
		var members []string
		for i, a := range assignments {
			if a == c {
				members = append(members, pca.Samples[i])
			}
		}
		log.Printf("k-means cluster %d: %s\n", c, strings.Join(members, ", "))
	}

	if k == 2 {
		p, err := cluster.ClusterStatusAssociation(assignments, status)
		if err != nil {
			log.Println("Cluster/status association not tested:", err)
		} else {
			log.Printf("Fisher exact test of cluster vs status: p = %.4g\n", p)
		}
	}

	dendrogram, err := cluster.Hierarchical(points, pca.Samples)
	if err != nil {
		log.Fatalln(err)
	}
	cut, err := dendrogram.Cut(k)
	if err != nil {
		log.Fatalln(err)
	}
	for c := 0; c < k; c++ {
		var members []string
		for i, a := range cut {
			if a == c {
				members = append(members, pca.Samples[i])
			}
		}
		log.Printf("hierarchical cluster %d: %s\n", c, strings.Join(members, ", "))
	}
	log.Printf("dendrogram:\n%s", dendrogram.String())
}
