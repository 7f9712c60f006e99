package testkit

import (
	"fmt"
	"math/rand"

	"diffexpr/domain/expr"
)

// CountsConfig controls synthetic count generation.
type CountsConfig struct {
	Genes           int
	SamplesPerGroup int
	Regulated       int // genes with a real expression shift between groups
	FoldShift       float64
	Seed            int64
	ConditionA      string
	ConditionB      string
}

// DefaultCountsConfig returns a small, clearly separated dataset.
func DefaultCountsConfig() CountsConfig {
	return CountsConfig{
		Genes:           200,
		SamplesPerGroup: 4,
		Regulated:       20,
		FoldShift:       8.0,
		Seed:            42,
		ConditionA:      "treated",
		ConditionB:      "control",
	}
}

// GenerateCounts produces a deterministic raw count matrix and matching
// sample sheet. The first cfg.Regulated genes are shifted up in condition A
// by cfg.FoldShift.
func GenerateCounts(cfg CountsConfig) (*expr.Matrix, *expr.SampleSheet) {
	rng := rand.New(rand.NewSource(cfg.Seed))

	var records []expr.SampleRecord
	var samples []string
	for i := 0; i < cfg.SamplesPerGroup; i++ {
		id := fmt.Sprintf("%s_%d", cfg.ConditionA, i+1)
		samples = append(samples, id)
		records = append(records, expr.SampleRecord{SampleID: id, Condition: cfg.ConditionA})
	}
	for i := 0; i < cfg.SamplesPerGroup; i++ {
		id := fmt.Sprintf("%s_%d", cfg.ConditionB, i+1)
		samples = append(samples, id)
		records = append(records, expr.SampleRecord{SampleID: id, Condition: cfg.ConditionB})
	}

	m := expr.NewMatrix(samples)
	for g := 0; g < cfg.Genes; g++ {
		base := 50 + rng.Float64()*500
		row := make([]float64, len(samples))
		for s := range samples {
			level := base
			if g < cfg.Regulated && s < cfg.SamplesPerGroup {
				level *= cfg.FoldShift
			}
			// Mild multiplicative noise keeps variances non-degenerate.
			noise := 1 + (rng.Float64()-0.5)*0.2
			row[s] = float64(int(level * noise))
		}
		// Generated rows are unique by construction.
		_ = m.AppendRow(fmt.Sprintf("GENE%04d", g+1), row)
	}
	return m, expr.NewSampleSheet(records)
}
