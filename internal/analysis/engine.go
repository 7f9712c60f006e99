package analysis

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"

	"diffexpr/domain/expr"
	"diffexpr/internal"
	"diffexpr/internal/errors"
)

// Engine runs the differential testing stage: one Welch t-test per gene,
// followed by a single Benjamini-Hochberg correction over all raw p-values.
//
// Condition "A" is whichever condition label appears first in the metadata,
// which fixes the sign convention of the fold change: log2_fc = mean_A -
// mean_B. Values are already log2-CPM, so the difference of means is the log2
// fold change directly.
type Engine struct {
	workers int
	log     *internal.Logger
}

// NewEngine creates an engine bounding per-gene test concurrency to workers.
// Zero or negative means one worker per CPU.
func NewEngine(workers int) *Engine {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Engine{workers: workers, log: internal.DefaultLogger}
}

// Run tests every gene of the normalized matrix for a mean-level difference
// between the two conditions described by the sample sheet and returns the
// result table sorted ascending by raw p-value.
//
// Validation happens before any computation: the sheet must carry both
// required fields (SchemaError), describe exactly two conditions
// (UnsupportedDesignError), and reference only samples present in the matrix
// (MissingSamplesError, listing every absent sample across both groups).
func (e *Engine) Run(ctx context.Context, normalized *expr.Matrix, sheet *expr.SampleSheet) (*expr.ResultTable, error) {
	if err := sheet.Validate(); err != nil {
		return nil, err
	}

	conditions := sheet.Conditions()
	if len(conditions) != 2 {
		return nil, errors.UnsupportedDesign(fmt.Sprintf(
			"metadata must describe exactly two conditions, got %d (%s)",
			len(conditions), strings.Join(conditions, ", ")))
	}
	condA, condB := conditions[0], conditions[1]
	samplesA := sheet.SamplesFor(condA)
	samplesB := sheet.SamplesFor(condB)

	// Collect every missing sample across both groups before failing.
	missing := normalized.MissingSamples(samplesA)
	missing = append(missing, normalized.MissingSamples(samplesB)...)
	if len(missing) > 0 {
		return nil, errors.MissingSamples(missing)
	}

	idxA := sampleIndices(normalized, samplesA)
	idxB := sampleIndices(normalized, samplesB)

	n := normalized.NumGenes()
	e.log.Debug("testing %d genes (%s: %d samples, %s: %d samples, %d workers)",
		n, condA, len(samplesA), condB, len(samplesB), e.workers)

	records := make([]expr.TestRecord, n)

	// Per-gene tests are independent; each goroutine owns exactly one record
	// slot, so no locking is needed.
	sem := semaphore.NewWeighted(int64(e.workers))
	var wg sync.WaitGroup
	var acquireErr error
	for i := 0; i < n; i++ {
		if err := sem.Acquire(ctx, 1); err != nil {
			acquireErr = err
			break
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer sem.Release(1)
			gene, row := normalized.RowAt(i)
			groupA := gather(row, idxA)
			groupB := gather(row, idxB)
			test := WelchTTest(groupA, groupB)
			meanA := mean(groupA)
			meanB := mean(groupB)
			records[i] = expr.TestRecord{
				GeneID: gene,
				MeanA:  meanA,
				MeanB:  meanB,
				Log2FC: meanA - meanB,
				PValue: test.PValue,
			}
		}(i)
	}
	wg.Wait()
	if acquireErr != nil {
		return nil, errors.Wrap(acquireErr, "differential testing interrupted")
	}

	// FDR is a strict global barrier: every raw p-value exists before the
	// correction runs, and it runs exactly once.
	pvalues := make([]float64, n)
	for i := range records {
		pvalues[i] = records[i].PValue
	}
	for i, q := range BenjaminiHochberg(pvalues) {
		records[i].PAdj = q
	}

	table := &expr.ResultTable{
		ConditionA: condA,
		ConditionB: condB,
		Records:    records,
	}
	table.SortByPValue()
	return table, nil
}

func sampleIndices(m *expr.Matrix, samples []string) []int {
	idx := make([]int, len(samples))
	for i, s := range samples {
		idx[i], _ = m.SampleIndex(s)
	}
	return idx
}

func gather(row []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = row[j]
	}
	return out
}
