package expr

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteReadTSV(t *testing.T) {
	m := mustMatrix(t,
		[]string{"g1", "g2"},
		[]string{"s1", "s2", "s3"},
		[][]float64{{1.5, -2, 0.25}, {4, 5, 6}},
	)

	var buf bytes.Buffer
	if err := m.WriteTSV(&buf); err != nil {
		t.Fatal(err)
	}

	back, err := ReadTSV(&buf)
	if err != nil {
		t.Fatal(err)
	}

	if back.NGenes() != 2 || back.NSamples() != 3 {
		t.Fatalf("roundtrip shape %dx%d", back.NGenes(), back.NSamples())
	}
	if back.Genes[1] != "g2" || back.Samples[2] != "s3" || back.Values[0][1] != -2 {
		t.Fatalf("roundtrip content wrong: %+v", back)
	}
}

func TestReadTSVRejectsMalformed(t *testing.T) {
	for _, v := range []string{
		"",
		"gene\ts1\n",
		"wrong\ts1\ng1\t1\n",
		"gene\ts1\ng1\tnot-a-number\n",
	} {
		if _, err := ReadTSV(bytes.NewBufferString(v)); err == nil {
			t.Fatalf("expected error for %q", v)
		}
	}
}

func TestReadIntensityDir(t *testing.T) {
	dir := t.TempDir()

	// Tab-delimited with header, and comma-delimited without: the
	// delimiter is sniffed per file.
	writeFile(t, filepath.Join(dir, "sampleB.txt"), "probe_id\tintensity\np1\t100\np2\t200\n")
	writeFile(t, filepath.Join(dir, "sampleA.txt"), "p1,110\np2,210\n")

	m, err := ReadIntensityDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	if m.NGenes() != 2 || m.NSamples() != 2 {
		t.Fatalf("shape %dx%d, want 2x2", m.NGenes(), m.NSamples())
	}
	// Samples in sorted filename order
	if m.Samples[0] != "sampleA" || m.Samples[1] != "sampleB" {
		t.Fatalf("samples %v", m.Samples)
	}
	if m.Values[0][0] != 110 || m.Values[0][1] != 100 {
		t.Fatalf("p1 row %v", m.Values[0])
	}
}

func TestReadIntensityDirProbeMismatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "p1\t1\np2\t2\n")
	writeFile(t, filepath.Join(dir, "b.txt"), "p1\t1\n")

	if _, err := ReadIntensityDir(dir); err == nil {
		t.Fatal("expected probe-set mismatch error")
	}
}

func TestReadProbeMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.tsv")
	writeFile(t, path, "probe_id\tgene\np1\tKLK3\np2\tKLK3\np3\tTP53\n")

	m, err := ReadProbeMap(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(m) != 3 || m["p1"] != "KLK3" || m["p3"] != "TP53" {
		t.Fatalf("probe map %v", m)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}
