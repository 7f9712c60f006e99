package analysis

import (
	"math"
	"testing"

	"diffexpr/domain/expr"
	"diffexpr/internal/errors"
)

func buildCounts(t *testing.T, samples []string, rows map[string][]float64, order []string) *expr.Matrix {
	t.Helper()
	m := expr.NewMatrix(samples)
	for _, gene := range order {
		if err := m.AppendRow(gene, rows[gene]); err != nil {
			t.Fatalf("AppendRow(%s): %v", gene, err)
		}
	}
	return m
}

func TestLog2CPM_Values(t *testing.T) {
	counts := buildCounts(t, []string{"s1", "s2"}, map[string][]float64{
		"G1": {5, 0},
		"G2": {5, 10},
	}, []string{"G1", "G2"})

	normalized, err := Log2CPM(counts, []string{"s1", "s2"})
	if err != nil {
		t.Fatalf("Log2CPM: %v", err)
	}

	// Column totals are 10 each, so 5 counts is 500000 CPM.
	row, _ := normalized.Row("G1")
	if math.Abs(row[0]-18.93157) > 1e-4 {
		t.Errorf("G1 s1 = %g, want ~18.93157", row[0])
	}
	if row[1] != 0 {
		t.Errorf("G1 s2 = %g, want 0 (zero count maps to log2(1))", row[1])
	}

	row, _ = normalized.Row("G2")
	if math.Abs(row[1]-19.93157) > 1e-4 {
		t.Errorf("G2 s2 = %g, want ~19.93157", row[1])
	}
}

// TestLog2CPM_ReordersToRequest verifies the output columns follow the
// requested sample order, not the counts file order.
func TestLog2CPM_ReordersToRequest(t *testing.T) {
	counts := buildCounts(t, []string{"s1", "s2"}, map[string][]float64{
		"G1": {5, 10},
		"G2": {5, 0},
	}, []string{"G1", "G2"})

	normalized, err := Log2CPM(counts, []string{"s2", "s1"})
	if err != nil {
		t.Fatalf("Log2CPM: %v", err)
	}

	samples := normalized.Samples()
	if samples[0] != "s2" || samples[1] != "s1" {
		t.Errorf("samples = %v, want [s2 s1]", samples)
	}
	row, _ := normalized.Row("G2")
	if row[0] != 0 {
		t.Errorf("G2 first column = %g, want 0 (the zero count from s2)", row[0])
	}
}

func TestLog2CPM_ZeroTotalColumn(t *testing.T) {
	counts := buildCounts(t, []string{"s1", "s2"}, map[string][]float64{
		"G1": {5, 0},
		"G2": {5, 0},
	}, []string{"G1", "G2"})

	_, err := Log2CPM(counts, []string{"s1", "s2"})
	if err == nil {
		t.Fatal("expected an error for a zero-total sample column")
	}
	if !errors.HasCode(err, errors.CodeSchemaError) {
		t.Errorf("error code = %s, want %s", errors.GetCode(err), errors.CodeSchemaError)
	}
}

func TestLog2CPM_MissingSample(t *testing.T) {
	counts := buildCounts(t, []string{"s1"}, map[string][]float64{
		"G1": {5},
	}, []string{"G1"})

	_, err := Log2CPM(counts, []string{"s1", "s9"})
	if err == nil {
		t.Fatal("expected an error for a sample absent from the counts")
	}
	if !errors.HasCode(err, errors.CodeMissingSamples) {
		t.Errorf("error code = %s, want %s", errors.GetCode(err), errors.CodeMissingSamples)
	}
}
