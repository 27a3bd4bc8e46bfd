package expr

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
)

// WriteTSV writes the matrix as a tab-delimited table: a header row of
// "gene" plus sample identifiers, then one row per gene.
func (m *Matrix) WriteTSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	header := append([]string{"gene"}, m.Samples...)
	if err := cw.Write(header); err != nil {
		return pfx.Err(err)
	}

	row := make([]string, 1+len(m.Samples))
	for i, gene := range m.Genes {
		row[0] = gene
		for j, v := range m.Values[i] {
			row[j+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return pfx.Err(err)
		}
	}

	cw.Flush()
	return pfx.Err(cw.Error())
}

// WriteTSVFile writes the matrix to a file path via WriteTSV.
func (m *Matrix) WriteTSVFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return pfx.Err(err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := m.WriteTSV(w); err != nil {
		return err
	}
	return pfx.Err(w.Flush())
}

// ReadTSV reads a matrix previously written by WriteTSV.
func ReadTSV(r io.Reader) (*Matrix, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'

	records, err := cr.ReadAll()
	if err != nil {
		return nil, pfx.Err(err)
	}
	if len(records) < 2 {
		return nil, pfx.Err(fmt.Errorf("expr: matrix table needs a header and at least one gene row"))
	}

	header := records[0]
	if len(header) < 2 || header[0] != "gene" {
		return nil, pfx.Err(fmt.Errorf("expr: malformed matrix header: %s", strings.Join(header, "\t")))
	}
	samples := header[1:]

	genes := make([]string, 0, len(records)-1)
	values := make([][]float64, 0, len(records)-1)
	for lineNo, rec := range records[1:] {
		if len(rec) != len(header) {
			return nil, pfx.Err(fmt.Errorf("expr: row %d has %d fields, expected %d", lineNo+2, len(rec), len(header)))
		}
		genes = append(genes, rec[0])
		row := make([]float64, len(samples))
		for j, field := range rec[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, pfx.Err(fmt.Errorf("expr: row %d gene %s: %v", lineNo+2, rec[0], err))
			}
			row[j] = v
		}
		values = append(values, row)
	}

	return &Matrix{Genes: genes, Samples: samples, Values: values}, nil
}

// ReadTSVFile reads a matrix from a file path via ReadTSV.
func ReadTSVFile(path string) (*Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	return ReadTSV(bufio.NewReader(f))
}
