// Package phenotype loads and derives the per-sample clinical annotation
// table that accompanies the expression arrays.
package phenotype

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
	"github.com/montanaflynn/stats"
	"gopkg.in/guregu/null.v3"
)

// UnknownLabel is the fixed fill-in for missing categorical fields.
const UnknownLabel = "Unknown"

// record mirrors one row of the tab-separated annotation file. Nullable
// types let gocsv distinguish empty cells from real values so that
// imputation can run afterwards.
type record struct {
	SampleID     string      `csv:"sample_id"`
	Age          null.Float  `csv:"age"`
	Tissue       null.String `csv:"tissue"`
	MarginStatus null.String `csv:"margin_status"`
	BCRStatus    null.String `csv:"bcr_status"`
}

// Sample is one annotated sample after imputation and derivation.
type Sample struct {
	SampleID     string
	Age          float64
	Tissue       string
	MarginStatus string
	BCRStatus    string

	// Derived, deterministic functions of the raw fields
	AgeGroup string
	Status   string
}

// Table holds the annotation rows in file order and indexes them by
// sample identifier.
type Table struct {
	Samples []Sample

	byID map[string]int
}

// Options configure loading. NormalTissue is the tissue label that marks
// a non-diseased sample; AgeCutoff splits the derived age groups.
type Options struct {
	NormalTissue string
	AgeCutoff    float64
}

// DefaultOptions match the labels used by the prostate annotation files.
func DefaultOptions() Options {
	return Options{NormalTissue: "Normal", AgeCutoff: 60}
}

// ReadFile loads a tab-separated annotation file, imputes missing fields,
// and computes the derived categoricals.
func ReadFile(path string, opts Options) (*Table, error) {
	fileBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	records := []*record{}

	// Tell gocsv to use tab as the delimiter
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.Comma = '\t'
		r.LazyQuotes = true
		return r
	})

	if err := gocsv.UnmarshalBytes(fileBytes, &records); err != nil {
		return nil, pfx.Err(err)
	}

	if len(records) == 0 {
		return nil, pfx.Err(fmt.Errorf("annotation file %s contains no samples", path))
	}

	return fromRecords(records, opts)
}

func fromRecords(records []*record, opts Options) (*Table, error) {
	// Median of the observed ages, used to fill the missing ones
	observedAges := make([]float64, 0, len(records))
	for _, r := range records {
		if r.Age.Valid {
			observedAges = append(observedAges, r.Age.Float64)
		}
	}

	medianAge := opts.AgeCutoff
	if len(observedAges) > 0 {
		m, err := stats.Median(observedAges)
		if err != nil {
			return nil, pfx.Err(err)
		}
		medianAge = m
	}

	t := &Table{byID: make(map[string]int)}

	for _, r := range records {
		if r.SampleID == "" {
			return nil, pfx.Err(fmt.Errorf("annotation row with empty sample_id"))
		}
		if _, exists := t.byID[r.SampleID]; exists {
			return nil, pfx.Err(fmt.Errorf("duplicate sample_id %s in annotation", r.SampleID))
		}

		s := Sample{
			SampleID:     r.SampleID,
			Age:          medianAge,
			Tissue:       UnknownLabel,
			MarginStatus: UnknownLabel,
			BCRStatus:    UnknownLabel,
		}
		if r.Age.Valid {
			s.Age = r.Age.Float64
		}
		if r.Tissue.Valid && r.Tissue.String != "" {
			s.Tissue = r.Tissue.String
		}
		if r.MarginStatus.Valid && r.MarginStatus.String != "" {
			s.MarginStatus = r.MarginStatus.String
		}
		if r.BCRStatus.Valid && r.BCRStatus.String != "" {
			s.BCRStatus = r.BCRStatus.String
		}

		s.AgeGroup = DeriveAgeGroup(s.Age, opts.AgeCutoff)
		s.Status = DeriveStatus(s.Tissue, opts.NormalTissue)

		t.byID[s.SampleID] = len(t.Samples)
		t.Samples = append(t.Samples, s)
	}

	return t, nil
}

// DeriveAgeGroup buckets an age at the cutoff.
func DeriveAgeGroup(age, cutoff float64) string {
	if age > cutoff {
		return fmt.Sprintf(">%g", cutoff)
	}
	return fmt.Sprintf("<=%g", cutoff)
}

// DeriveStatus maps tissue-of-origin onto a two-level disease status.
func DeriveStatus(tissue, normalLabel string) string {
	if tissue == normalLabel {
		return "Normal"
	}
	return "Disease"
}

// Lookup returns the annotated sample for an identifier.
func (t *Table) Lookup(sampleID string) (Sample, bool) {
	i, ok := t.byID[sampleID]
	if !ok {
		return Sample{}, false
	}
	return t.Samples[i], true
}

// SampleIDs returns the identifiers in annotation-file order.
func (t *Table) SampleIDs() []string {
	out := make([]string, len(t.Samples))
	for i, s := range t.Samples {
		out[i] = s.SampleID
	}
	return out
}

// Ages returns the age vector ordered to match the given sample IDs.
func (t *Table) Ages(sampleIDs []string) ([]float64, error) {
	out := make([]float64, len(sampleIDs))
	for i, id := range sampleIDs {
		s, ok := t.Lookup(id)
		if !ok {
			return nil, pfx.Err(fmt.Errorf("sample %s not present in annotation", id))
		}
		out[i] = s.Age
	}
	return out, nil
}

// Labels returns a categorical label vector ordered to match the given
// sample IDs. Field selects which annotation column to read.
func (t *Table) Labels(sampleIDs []string, field Field) ([]string, error) {
	out := make([]string, len(sampleIDs))
	for i, id := range sampleIDs {
		s, ok := t.Lookup(id)
		if !ok {
			return nil, pfx.Err(fmt.Errorf("sample %s not present in annotation", id))
		}
		switch field {
		case FieldStatus:
			out[i] = s.Status
		case FieldMargin:
			out[i] = s.MarginStatus
		case FieldBCR:
			out[i] = s.BCRStatus
		case FieldAgeGroup:
			out[i] = s.AgeGroup
		case FieldTissue:
			out[i] = s.Tissue
		default:
			return nil, pfx.Err(fmt.Errorf("unknown annotation field %q", field))
		}
	}
	return out, nil
}

// Field names an annotation column usable as a grouping factor.
type Field string

const (
	FieldStatus   Field = "status"
	FieldMargin   Field = "margin_status"
	FieldBCR      Field = "bcr_status"
	FieldAgeGroup Field = "age_group"
	FieldTissue   Field = "tissue"
)
