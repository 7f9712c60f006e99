package analysis

import (
	"math"
	"strings"

	"diffexpr/domain/expr"
	"diffexpr/internal/errors"
)

// Log2CPM converts raw counts into log2(counts-per-million + 1) values,
// restricted and reordered to exactly the requested samples. Each sample
// column is scaled by its own total; there is no cross-sample normalization
// beyond that.
//
// A requested sample with no matching column fails with a
// MissingSamplesError naming every absent sample. A sample column whose total
// count is zero cannot be scaled and is rejected rather than producing
// non-finite values.
func Log2CPM(counts *expr.Matrix, samples []string) (*expr.Matrix, error) {
	selected, err := counts.Select(samples)
	if err != nil {
		return nil, err
	}

	totals := selected.ColumnTotals()
	var zeroed []string
	for i, total := range totals {
		if total == 0 {
			zeroed = append(zeroed, samples[i])
		}
	}
	if len(zeroed) > 0 {
		return nil, errors.Schemaf("sample columns with zero total counts: %s", strings.Join(zeroed, ", "))
	}

	out := expr.NewMatrix(samples)
	for i := 0; i < selected.NumGenes(); i++ {
		gene, row := selected.RowAt(i)
		normalized := make([]float64, len(row))
		for j, v := range row {
			cpm := v / totals[j] * 1_000_000
			normalized[j] = math.Log2(cpm + 1)
		}
		if err := out.AppendRow(gene, normalized); err != nil {
			return nil, err
		}
	}
	return out, nil
}
