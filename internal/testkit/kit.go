// Package testkit provides deterministic fixtures and in-memory adapters for
// tests and for running the server without a database.
package testkit

import (
	"context"
	"sync"

	"diffexpr/domain/core"
	"diffexpr/domain/expr"
	"diffexpr/internal/errors"
	"diffexpr/ports"
)

// InMemoryRunRepository keeps runs in process memory.
type InMemoryRunRepository struct {
	mu     sync.RWMutex
	order  []core.RunID
	runs   map[core.RunID]*expr.AnalysisRun
	tables map[core.RunID]*expr.ResultTable
}

// NewInMemoryRunRepository creates an empty in-memory repository.
func NewInMemoryRunRepository() *InMemoryRunRepository {
	return &InMemoryRunRepository{
		runs:   make(map[core.RunID]*expr.AnalysisRun),
		tables: make(map[core.RunID]*expr.ResultTable),
	}
}

var _ ports.RunRepository = (*InMemoryRunRepository)(nil)

func (r *InMemoryRunRepository) SaveRun(ctx context.Context, run *expr.AnalysisRun, table *expr.ResultTable) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.runs[run.ID]; !exists {
		r.order = append(r.order, run.ID)
	}
	r.runs[run.ID] = run
	r.tables[run.ID] = table
	return nil
}

func (r *InMemoryRunRepository) GetRun(ctx context.Context, id core.RunID) (*expr.AnalysisRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	run, ok := r.runs[id]
	if !ok {
		return nil, errors.NotFound("run " + id.String())
	}
	return run, nil
}

func (r *InMemoryRunRepository) ListRuns(ctx context.Context) ([]*expr.AnalysisRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	runs := make([]*expr.AnalysisRun, 0, len(r.order))
	// Newest first, matching the database repository.
	for i := len(r.order) - 1; i >= 0; i-- {
		runs = append(runs, r.runs[r.order[i]])
	}
	return runs, nil
}

func (r *InMemoryRunRepository) GetResults(ctx context.Context, id core.RunID) (*expr.ResultTable, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	table, ok := r.tables[id]
	if !ok {
		return nil, errors.NotFound("run " + id.String())
	}
	return table, nil
}
