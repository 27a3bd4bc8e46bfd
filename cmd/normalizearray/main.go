// normalizearray converts a directory of raw per-sample probe intensity
// files into a gene-level, log2-scale expression matrix: background
// correction, quantile normalization across samples, and probe-to-gene
// median-polish summarization. The matrix columns are joined against the
// sample annotation file and reordered to its sample order; any sample
// present on only one side is a fatal error.
package main

import (
	"flag"
	"log"

	"github.com/Mijroy/Prostate-Gene-Profile-Analysis/expr"
	"github.com/Mijroy/Prostate-Gene-Profile-Analysis/phenotype"
	"github.com/Mijroy/Prostate-Gene-Profile-Analysis/rma"
)

func main() {
	var intensityDir, annotationFile, probeMapFile, outFile string
	var normalTissue string
	var ageCutoff float64

	flag.StringVar(&intensityDir, "intensities", "", "Directory containing one raw intensity file per sample (probe_id, intensity)")
	flag.StringVar(&annotationFile, "annotation", "", "Tab-separated sample annotation file (sample_id, age, tissue, margin_status, bcr_status)")
	flag.StringVar(&probeMapFile, "probemap", "", "Two-column file mapping probe_id to gene symbol")
	flag.StringVar(&outFile, "out", "", "Output path for the normalized gene x sample matrix (tab-separated)")
	flag.StringVar(&normalTissue, "normaltissue", "Normal", "Tissue label that marks a non-diseased sample")
	flag.Float64Var(&ageCutoff, "agecutoff", 60, "Age cutoff for the derived age group")
	flag.Parse()

	if intensityDir == "" {
		log.Fatalln("Please provide -intensities")
	}
	if annotationFile == "" {
		log.Fatalln("Please provide -annotation")
	}
	if probeMapFile == "" {
		log.Fatalln("Please provide -probemap")
	}
	if outFile == "" {
		log.Fatalln("Please provide -out")
	}

	opts := phenotype.Options{NormalTissue: normalTissue, AgeCutoff: ageCutoff}
	annotation, err := phenotype.ReadFile(annotationFile, opts)
	if err != nil {
		log.Fatalln(err)
	}
	log.Println("Loaded annotation for", len(annotation.Samples), "samples")

	probeToGene, err := expr.ReadProbeMap(probeMapFile)
	if err != nil {
		log.Fatalln(err)
	}
	log.Println("Loaded probe map with", len(probeToGene), "probes")

	raw, err := expr.ReadIntensityDir(intensityDir)
	if err != nil {
		log.Fatalln(err)
	}
	log.Println("Loaded raw intensities:", raw.NGenes(), "probes x", raw.NSamples(), "samples")

	normalized, err := rma.Normalize(raw, probeToGene)
	if err != nil {
		log.Fatalln(err)
	}
	log.Println("Normalized to", normalized.NGenes(), "genes")

	aligned, err := expr.AlignSamples(normalized, annotation.SampleIDs())
	if err != nil {
		log.Fatalln(err)
	}

	if err := aligned.WriteTSVFile(outFile); err != nil {
		log.Fatalln(err)
	}
	log.Println("Wrote", outFile)
}
