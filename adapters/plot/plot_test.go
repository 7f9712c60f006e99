package plot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"diffexpr/domain/expr"
)

func fixtureMatrix(t *testing.T) (*expr.Matrix, *expr.SampleSheet) {
	t.Helper()
	m := expr.NewMatrix([]string{"a1", "a2", "b1", "b2"})
	rows := map[string][]float64{
		"G1": {5.1, 4.9, 1.2, 1.0},
		"G2": {2.0, 2.1, 2.0, 1.9},
		"G3": {0.5, 0.4, 3.5, 3.6},
	}
	for _, g := range []string{"G1", "G2", "G3"} {
		if err := m.AppendRow(g, rows[g]); err != nil {
			t.Fatal(err)
		}
	}
	sheet := expr.NewSampleSheet([]expr.SampleRecord{
		{SampleID: "a1", Condition: "treated"},
		{SampleID: "a2", Condition: "treated"},
		{SampleID: "b1", Condition: "control"},
		{SampleID: "b2", Condition: "control"},
	})
	return m, sheet
}

func fixtureTable() *expr.ResultTable {
	return &expr.ResultTable{
		ConditionA: "treated",
		ConditionB: "control",
		Records: []expr.TestRecord{
			{GeneID: "G1", MeanA: 5, MeanB: 1.1, Log2FC: 3.9, PValue: 0, PAdj: 0},
			{GeneID: "G3", MeanA: 0.45, MeanB: 3.55, Log2FC: -3.1, PValue: 0.001, PAdj: 0.0015},
			{GeneID: "G2", MeanA: 2.05, MeanB: 1.95, Log2FC: 0.1, PValue: 0.8, PAdj: 0.8},
		},
	}
}

func assertHTMLWritten(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	if !strings.Contains(string(data), "echarts") {
		t.Errorf("%s does not look like a rendered chart", filepath.Base(path))
	}
}

func TestRenderCharts(t *testing.T) {
	dir := t.TempDir()
	m, sheet := fixtureMatrix(t)
	table := fixtureTable()

	if err := PCA(m, sheet, filepath.Join(dir, "pca.html")); err != nil {
		t.Fatalf("PCA: %v", err)
	}
	assertHTMLWritten(t, filepath.Join(dir, "pca.html"))

	if err := Heatmap(m, sheet, 2, filepath.Join(dir, "heatmap.html")); err != nil {
		t.Fatalf("Heatmap: %v", err)
	}
	assertHTMLWritten(t, filepath.Join(dir, "heatmap.html"))

	// The zero p-value must not blow up the -log10 axis.
	if err := Volcano(table, 0.05, 1.0, filepath.Join(dir, "volcano.html")); err != nil {
		t.Fatalf("Volcano: %v", err)
	}
	assertHTMLWritten(t, filepath.Join(dir, "volcano.html"))

	if err := MA(table, 0.05, filepath.Join(dir, "ma.html")); err != nil {
		t.Fatalf("MA: %v", err)
	}
	assertHTMLWritten(t, filepath.Join(dir, "ma.html"))
}

func TestPCA_RejectsSingleSample(t *testing.T) {
	m := expr.NewMatrix([]string{"only"})
	_ = m.AppendRow("G1", []float64{1})
	sheet := expr.NewSampleSheet([]expr.SampleRecord{{SampleID: "only", Condition: "treated"}})

	if err := PCA(m, sheet, filepath.Join(t.TempDir(), "pca.html")); err == nil {
		t.Error("expected an error for a single-sample matrix")
	}
}
