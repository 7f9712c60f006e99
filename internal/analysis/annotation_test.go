package analysis

import (
	"testing"

	"diffexpr/domain/expr"
)

func TestDetectAnnotationColumns(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		idCol   int
		symCol  int
		ok      bool
	}{
		{"canonical", []string{"gene_id", "gene_symbol"}, 0, 1, true},
		{"biomart style", []string{"Gene ID", "Associated Gene Name"}, 0, 1, true},
		{"short aliases", []string{"chrom", "id", "symbol"}, 1, 2, true},
		{"first match wins", []string{"gene_id", "id", "gene_name"}, 0, 2, true},
		{"no symbol column", []string{"gene_id", "description"}, 0, -1, false},
		{"nothing detectable", []string{"foo", "bar"}, -1, -1, false},
	}

	for _, tc := range tests {
		idCol, symCol, ok := DetectAnnotationColumns(tc.headers)
		if idCol != tc.idCol || symCol != tc.symCol || ok != tc.ok {
			t.Errorf("%s: got (%d, %d, %v), want (%d, %d, %v)",
				tc.name, idCol, symCol, ok, tc.idCol, tc.symCol, tc.ok)
		}
	}
}

func TestBuildSymbolMap(t *testing.T) {
	headers := []string{"gene_id", "gene_symbol"}
	rows := [][]string{
		{"ENSG1", "BRCA1"},
		{"ENSG2", ""},      // no symbol, dropped
		{"ENSG1", "OTHER"}, // duplicate id, first wins
		{"ENSG3", "TP53"},
	}

	symbols, ok := BuildSymbolMap(headers, rows)
	if !ok {
		t.Fatal("expected detectable columns")
	}
	if symbols["ENSG1"] != "BRCA1" {
		t.Errorf("ENSG1 = %q, want BRCA1 (first occurrence wins)", symbols["ENSG1"])
	}
	if _, exists := symbols["ENSG2"]; exists {
		t.Error("row without a symbol should be dropped")
	}
	if symbols["ENSG3"] != "TP53" {
		t.Errorf("ENSG3 = %q, want TP53", symbols["ENSG3"])
	}
}

func TestBuildSymbolMap_Undetectable(t *testing.T) {
	if _, ok := BuildSymbolMap([]string{"foo", "bar"}, nil); ok {
		t.Error("expected ok=false for an unrecognizable header")
	}
}

func TestRelabelGenes(t *testing.T) {
	m := expr.NewMatrix([]string{"s1"})
	_ = m.AppendRow("ENSG1", []float64{1})
	_ = m.AppendRow("ENSG2", []float64{2})
	_ = m.AppendRow("ENSG3", []float64{3})

	out := RelabelGenes(m, map[string]string{
		"ENSG1": "BRCA1",
		"ENSG3": "BRCA1", // collides after remap, first occurrence survives
	})

	if !out.HasGene("BRCA1") {
		t.Fatal("expected BRCA1 after remap")
	}
	if out.HasGene("ENSG1") || out.HasGene("ENSG3") {
		t.Error("remapped identifiers should not survive")
	}
	if !out.HasGene("ENSG2") {
		t.Error("unmapped identifiers keep their original label")
	}
	if out.NumGenes() != 2 {
		t.Errorf("NumGenes = %d, want 2 after the collision drop", out.NumGenes())
	}
	row, _ := out.Row("BRCA1")
	if row[0] != 1 {
		t.Errorf("BRCA1 value = %g, want 1 (the first ENSG1 row)", row[0])
	}
}
