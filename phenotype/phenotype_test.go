package phenotype

import (
	"os"
	"path/filepath"
	"testing"
)

func writeAnnotation(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "annotation.tsv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

const header = "sample_id\tage\ttissue\tmargin_status\tbcr_status\n"

func TestReadFileDerivations(t *testing.T) {
	path := writeAnnotation(t, header+
		"s1\t55\tTumor\tpositive\tyes\n"+
		"s2\t70\tNormal\tnegative\tno\n")

	table, err := ReadFile(path, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	s1, ok := table.Lookup("s1")
	if !ok {
		t.Fatal("s1 missing")
	}
	if s1.Status != "Disease" || s1.AgeGroup != "<=60" {
		t.Fatalf("s1 derived fields: %+v", s1)
	}

	s2, _ := table.Lookup("s2")
	if s2.Status != "Normal" || s2.AgeGroup != ">60" {
		t.Fatalf("s2 derived fields: %+v", s2)
	}

	ids := table.SampleIDs()
	if len(ids) != 2 || ids[0] != "s1" || ids[1] != "s2" {
		t.Fatalf("sample order: %v", ids)
	}
}

func TestReadFileImputation(t *testing.T) {
	// Ages 50, 60, 70 observed; the missing age becomes their median.
	// The missing categoricals get the fixed Unknown label.
	path := writeAnnotation(t, header+
		"s1\t50\tTumor\tpositive\tyes\n"+
		"s2\t60\tTumor\tnegative\tno\n"+
		"s3\t70\tTumor\tpositive\tyes\n"+
		"s4\t\t\t\t\n")

	table, err := ReadFile(path, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	s4, _ := table.Lookup("s4")
	if s4.Age != 60 {
		t.Fatalf("imputed age %v, want the median 60", s4.Age)
	}
	if s4.Tissue != UnknownLabel || s4.MarginStatus != UnknownLabel || s4.BCRStatus != UnknownLabel {
		t.Fatalf("categorical imputation: %+v", s4)
	}
	// Unknown tissue is not the normal label, so it counts as disease
	if s4.Status != "Disease" {
		t.Fatalf("status for unknown tissue: %s", s4.Status)
	}
}

func TestReadFileRejectsDuplicatesAndEmpty(t *testing.T) {
	dup := writeAnnotation(t, header+"s1\t50\tTumor\tpositive\tyes\ns1\t51\tTumor\tnegative\tno\n")
	if _, err := ReadFile(dup, DefaultOptions()); err == nil {
		t.Fatal("duplicate sample_id must fail")
	}

	empty := writeAnnotation(t, header)
	if _, err := ReadFile(empty, DefaultOptions()); err == nil {
		t.Fatal("annotation with no samples must fail")
	}
}

func TestLabelsAndAges(t *testing.T) {
	path := writeAnnotation(t, header+
		"s1\t55\tTumor\tpositive\tyes\n"+
		"s2\t70\tNormal\tnegative\tno\n")

	table, err := ReadFile(path, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	// Order follows the requested sample IDs, not the file
	labels, err := table.Labels([]string{"s2", "s1"}, FieldMargin)
	if err != nil {
		t.Fatal(err)
	}
	if labels[0] != "negative" || labels[1] != "positive" {
		t.Fatalf("labels %v", labels)
	}

	ages, err := table.Ages([]string{"s2", "s1"})
	if err != nil {
		t.Fatal(err)
	}
	if ages[0] != 70 || ages[1] != 55 {
		t.Fatalf("ages %v", ages)
	}

	if _, err := table.Labels([]string{"ghost"}, FieldStatus); err == nil {
		t.Fatal("unknown sample must fail the lookup")
	}
}
