package expr

import (
	"fmt"

	"diffexpr/internal/errors"
)

// Matrix is a gene-by-sample numeric table with a fixed, shared column order.
// Every gene row holds exactly one value per sample; there are no missing
// cells. Row order is the insertion order, which downstream steps rely on for
// deterministic tie-breaking.
type Matrix struct {
	samples   []string
	sampleIdx map[string]int
	genes     []string
	geneIdx   map[string]int
	values    [][]float64
}

// NewMatrix creates an empty matrix with the given sample column order.
func NewMatrix(samples []string) *Matrix {
	idx := make(map[string]int, len(samples))
	for i, s := range samples {
		idx[s] = i
	}
	return &Matrix{
		samples:   append([]string(nil), samples...),
		sampleIdx: idx,
		geneIdx:   make(map[string]int),
	}
}

// AppendRow adds a gene row. The row must have exactly one value per sample
// column and the gene identifier must not already be present.
func (m *Matrix) AppendRow(gene string, values []float64) error {
	if len(values) != len(m.samples) {
		return errors.Schemaf("gene %s has %d values, expected %d", gene, len(values), len(m.samples))
	}
	if _, ok := m.geneIdx[gene]; ok {
		return errors.InvalidInput(fmt.Sprintf("duplicate gene identifier: %s", gene))
	}
	m.geneIdx[gene] = len(m.genes)
	m.genes = append(m.genes, gene)
	m.values = append(m.values, append([]float64(nil), values...))
	return nil
}

// Samples returns the sample column order.
func (m *Matrix) Samples() []string {
	return append([]string(nil), m.samples...)
}

// Genes returns the gene row order.
func (m *Matrix) Genes() []string {
	return append([]string(nil), m.genes...)
}

// NumGenes returns the number of gene rows.
func (m *Matrix) NumGenes() int { return len(m.genes) }

// NumSamples returns the number of sample columns.
func (m *Matrix) NumSamples() int { return len(m.samples) }

// HasGene reports whether the gene identifier is present.
func (m *Matrix) HasGene(gene string) bool {
	_, ok := m.geneIdx[gene]
	return ok
}

// HasSample reports whether the sample column is present.
func (m *Matrix) HasSample(sample string) bool {
	_, ok := m.sampleIdx[sample]
	return ok
}

// Row returns a copy of the values for a gene.
func (m *Matrix) Row(gene string) ([]float64, bool) {
	i, ok := m.geneIdx[gene]
	if !ok {
		return nil, false
	}
	return append([]float64(nil), m.values[i]...), true
}

// RowAt returns the gene identifier and values at row index i. The returned
// slice is the matrix's own storage; callers must not mutate it.
func (m *Matrix) RowAt(i int) (string, []float64) {
	return m.genes[i], m.values[i]
}

// SampleIndex returns the column index of a sample.
func (m *Matrix) SampleIndex(sample string) (int, bool) {
	i, ok := m.sampleIdx[sample]
	return i, ok
}

// MissingSamples returns the requested samples that have no matching column,
// in request order.
func (m *Matrix) MissingSamples(requested []string) []string {
	var missing []string
	for _, s := range requested {
		if !m.HasSample(s) {
			missing = append(missing, s)
		}
	}
	return missing
}

// Select returns a new matrix restricted and reordered to exactly the
// requested samples. It fails with a MissingSamplesError naming every absent
// sample when any requested sample has no matching column.
func (m *Matrix) Select(requested []string) (*Matrix, error) {
	if missing := m.MissingSamples(requested); len(missing) > 0 {
		return nil, errors.MissingSamples(missing)
	}
	cols := make([]int, len(requested))
	for i, s := range requested {
		cols[i] = m.sampleIdx[s]
	}
	out := NewMatrix(requested)
	for r, gene := range m.genes {
		row := make([]float64, len(cols))
		for i, c := range cols {
			row[i] = m.values[r][c]
		}
		if err := out.AppendRow(gene, row); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ColumnTotals returns the per-sample column sums.
func (m *Matrix) ColumnTotals() []float64 {
	totals := make([]float64, len(m.samples))
	for _, row := range m.values {
		for i, v := range row {
			totals[i] += v
		}
	}
	return totals
}
