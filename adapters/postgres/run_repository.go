package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"diffexpr/domain/core"
	"diffexpr/domain/expr"
	apperrors "diffexpr/internal/errors"
	"diffexpr/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS analysis_runs (
	id TEXT PRIMARY KEY,
	condition_a TEXT NOT NULL,
	condition_b TEXT NOT NULL,
	samples_a INTEGER NOT NULL,
	samples_b INTEGER NOT NULL,
	genes_tested INTEGER NOT NULL,
	input_hash TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS analysis_results (
	run_id TEXT NOT NULL REFERENCES analysis_runs(id) ON DELETE CASCADE,
	rank INTEGER NOT NULL,
	gene_id TEXT NOT NULL,
	mean_a DOUBLE PRECISION NOT NULL,
	mean_b DOUBLE PRECISION NOT NULL,
	log2_fc DOUBLE PRECISION NOT NULL,
	p_value DOUBLE PRECISION NOT NULL,
	p_adj DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (run_id, rank)
);
`

// runRepository implements the RunRepository interface
type runRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *sqlx.DB) ports.RunRepository {
	return &runRepository{db: db}
}

// EnsureSchema creates the run tables when they do not exist yet.
func EnsureSchema(db *sqlx.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return apperrors.DatabaseError("failed to create run schema", err)
	}
	return nil
}

// SaveRun inserts a run and its result rows in one transaction. Result row
// rank follows table order (ascending p-value).
func (r *runRepository) SaveRun(ctx context.Context, run *expr.AnalysisRun, table *expr.ResultTable) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.DatabaseError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO analysis_runs (
		id, condition_a, condition_b, samples_a, samples_b, genes_tested, input_hash, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		run.ID, run.ConditionA, run.ConditionB, run.SamplesA, run.SamplesB, run.GenesTested, run.InputHash, run.CreatedAt,
	)
	if err != nil {
		return apperrors.DatabaseError("failed to insert run", err)
	}

	stmt, err := tx.PreparexContext(ctx, `INSERT INTO analysis_results (
		run_id, rank, gene_id, mean_a, mean_b, log2_fc, p_value, p_adj
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`)
	if err != nil {
		return apperrors.DatabaseError("failed to prepare result insert", err)
	}
	defer stmt.Close()

	for i, rec := range table.Records {
		if _, err := stmt.ExecContext(ctx, run.ID, i, rec.GeneID, rec.MeanA, rec.MeanB, rec.Log2FC, rec.PValue, rec.PAdj); err != nil {
			return apperrors.DatabaseError(fmt.Sprintf("failed to insert result for gene %s", rec.GeneID), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.DatabaseError("failed to commit run", err)
	}
	return nil
}

// GetRun retrieves a run by its ID
func (r *runRepository) GetRun(ctx context.Context, id core.RunID) (*expr.AnalysisRun, error) {
	var run expr.AnalysisRun
	err := r.db.GetContext(ctx, &run, `SELECT
		id, condition_a, condition_b, samples_a, samples_b, genes_tested, input_hash, created_at
	FROM analysis_runs WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound(fmt.Sprintf("run %s", id))
		}
		return nil, apperrors.DatabaseError("failed to get run", err)
	}
	return &run, nil
}

// ListRuns returns all runs, newest first
func (r *runRepository) ListRuns(ctx context.Context) ([]*expr.AnalysisRun, error) {
	var runs []*expr.AnalysisRun
	err := r.db.SelectContext(ctx, &runs, `SELECT
		id, condition_a, condition_b, samples_a, samples_b, genes_tested, input_hash, created_at
	FROM analysis_runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, apperrors.DatabaseError("failed to list runs", err)
	}
	return runs, nil
}

// GetResults returns the stored result table for a run, in rank order.
func (r *runRepository) GetResults(ctx context.Context, id core.RunID) (*expr.ResultTable, error) {
	run, err := r.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}

	var records []expr.TestRecord
	err = r.db.SelectContext(ctx, &records, `SELECT
		gene_id, mean_a, mean_b, log2_fc, p_value, p_adj
	FROM analysis_results WHERE run_id = $1 ORDER BY rank`, id)
	if err != nil {
		return nil, apperrors.DatabaseError("failed to get results", err)
	}

	return &expr.ResultTable{
		ConditionA: run.ConditionA,
		ConditionB: run.ConditionB,
		Records:    records,
	}, nil
}
