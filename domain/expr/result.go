package expr

import (
	"math"
	"sort"
)

// TestRecord holds the per-gene test result. Records are created once per
// engine run and never mutated afterwards.
type TestRecord struct {
	GeneID string  `json:"gene_id" db:"gene_id"`
	MeanA  float64 `json:"mean_a" db:"mean_a"`
	MeanB  float64 `json:"mean_b" db:"mean_b"`
	Log2FC float64 `json:"log2_fc" db:"log2_fc"`
	PValue float64 `json:"p_value" db:"p_value"`
	PAdj   float64 `json:"p_adj" db:"p_adj"`
}

// ResultTable is the ordered collection of per-gene test records. After the
// engine emits it, records are sorted ascending by raw p-value with ties kept
// in input order.
type ResultTable struct {
	ConditionA string       `json:"condition_a"`
	ConditionB string       `json:"condition_b"`
	Records    []TestRecord `json:"records"`
}

// Len returns the number of records.
func (t *ResultTable) Len() int { return len(t.Records) }

// SortByPValue orders records ascending by raw p-value. The sort is stable so
// exact ties preserve their original relative order.
func (t *ResultTable) SortByPValue() {
	sort.SliceStable(t.Records, func(i, j int) bool {
		return t.Records[i].PValue < t.Records[j].PValue
	})
}

// Significant returns the records passing both cutoffs.
func (t *ResultTable) Significant(pAdjCutoff, log2FCCutoff float64) []TestRecord {
	var out []TestRecord
	for _, r := range t.Records {
		if r.PAdj <= pAdjCutoff && math.Abs(r.Log2FC) >= log2FCCutoff {
			out = append(out, r)
		}
	}
	return out
}
