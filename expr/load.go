package expr

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/csimplestring/go-csv/detector"
)

// determineDelimiter returns the single most likely rune that would
// delimit the values in the reader, assuming a CSV-like file.
func determineDelimiter(r io.Reader) rune {
	d := detector.New()
	delimiters := d.DetectDelimiter(r, '"')

	if len(delimiters) > 0 {
		return rune(delimiters[0][0])
	}

	return '\t'
}

// ReadIntensityDir loads one raw intensity file per sample from dir. Each
// file holds two delimited columns, probe identifier and intensity; the
// delimiter is sniffed per file. The file basename (minus extension)
// becomes the sample identifier. All files must report the same probe
// set. The returned matrix has probes as rows, in sorted probe order, and
// samples as columns in sorted filename order.
func ReadIntensityDir(dir string) (*Matrix, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, pfx.Err(err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		files = append(files, e.Name())
	}
	if len(files) == 0 {
		return nil, pfx.Err(fmt.Errorf("expr: no intensity files in %s", dir))
	}
	sort.Strings(files)

	perSample := make(map[string]map[string]float64, len(files))
	samples := make([]string, 0, len(files))

	var probes []string
	for _, name := range files {
		sampleID := strings.TrimSuffix(name, filepath.Ext(name))

		intensities, err := readIntensityFile(filepath.Join(dir, name))
		if err != nil {
			return nil, pfx.Err(fmt.Errorf("expr: reading sample %s: %w", sampleID, err))
		}

		if probes == nil {
			probes = make([]string, 0, len(intensities))
			for p := range intensities {
				probes = append(probes, p)
			}
			sort.Strings(probes)
		} else if len(intensities) != len(probes) {
			return nil, pfx.Err(fmt.Errorf("expr: sample %s has %d probes, expected %d", sampleID, len(intensities), len(probes)))
		}

		perSample[sampleID] = intensities
		samples = append(samples, sampleID)
	}

	values := make([][]float64, len(probes))
	for i, probe := range probes {
		row := make([]float64, len(samples))
		for j, sampleID := range samples {
			v, ok := perSample[sampleID][probe]
			if !ok {
				return nil, pfx.Err(fmt.Errorf("expr: sample %s is missing probe %s", sampleID, probe))
			}
			row[j] = v
		}
		values[i] = row
	}

	return &Matrix{Genes: probes, Samples: samples, Values: values}, nil
}

func readIntensityFile(path string) (map[string]float64, error) {
	fileBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	delim := determineDelimiter(bytes.NewReader(fileBytes))

	r := csv.NewReader(bytes.NewReader(fileBytes))
	r.Comma = delim
	r.FieldsPerRecord = 2

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no rows in %s", path)
	}

	out := make(map[string]float64, len(records))
	for i, rec := range records {
		// Tolerate a single header line
		v, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			if i == 0 {
				continue
			}
			return nil, fmt.Errorf("%s line %d: %v", path, i+1, err)
		}
		if _, seen := out[rec[0]]; seen {
			return nil, fmt.Errorf("%s: duplicate probe %s", path, rec[0])
		}
		out[rec[0]] = v
	}

	return out, nil
}

// ReadProbeMap loads a two-column delimited file mapping probe identifier
// to gene symbol.
func ReadProbeMap(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	out := make(map[string]string)

	scanner := bufio.NewScanner(f)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		fields := strings.FieldsFunc(text, func(r rune) bool { return r == '\t' || r == ',' })
		if len(fields) != 2 {
			return nil, pfx.Err(fmt.Errorf("expr: probe map %s line %d: expected 2 columns, got %d", path, line, len(fields)))
		}
		if fields[0] == "probe_id" {
			continue
		}
		out[fields[0]] = fields[1]
	}
	if err := scanner.Err(); err != nil {
		return nil, pfx.Err(err)
	}

	if len(out) == 0 {
		return nil, pfx.Err(fmt.Errorf("expr: probe map %s is empty", path))
	}

	return out, nil
}
