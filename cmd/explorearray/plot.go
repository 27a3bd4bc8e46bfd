package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/Mijroy/Prostate-Gene-Profile-Analysis/cluster"
)

// plotScores renders the PC1/PC2 scatter with one dot series per status
// level.
func plotScores(filename string, pca *cluster.PCAResult, status []string) error {
	levels := make([]string, 0, 2)
	seen := make(map[string]bool)
	for _, s := range status {
		if !seen[s] {
			seen[s] = true
			levels = append(levels, s)
		}
	}

	series := make([]chart.Series, 0, len(levels))
	for _, level := range levels {
		var xs, ys []float64
		for i, s := range status {
			if s != level {
				continue
			}
			xs = append(xs, pca.Scores[i][0])
			ys = append(ys, pca.Scores[i][1])
		}
		series = append(series, chart.ContinuousSeries{
			Name: level,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    5,
			},
			XValues: xs,
			YValues: ys,
		})
	}

	graph := chart.Chart{
		Width:  640,
		Height: 480,
		XAxis: chart.XAxis{
			Name: fmt.Sprintf("PC1 (%.1f%%)", pca.PercentVariance[0]),
		},
		YAxis: chart.YAxis{
			Name: fmt.Sprintf("PC2 (%.1f%%)", pca.PercentVariance[1]),
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	// Render to a byte buffer
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return err
	}

	outFile, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer outFile.Close()
	if _, err := buffer.WriteTo(outFile); err != nil {
		return err
	}

	return nil
}
