package app

import (
	"context"
	"time"

	"diffexpr/adapters/tabular"
	"diffexpr/domain/core"
	"diffexpr/domain/expr"
	"diffexpr/internal"
	"diffexpr/internal/analysis"
	"diffexpr/ports"
)

// DiffExpService runs the differential testing engine over a normalized
// matrix and records the run.
type DiffExpService struct {
	engine *analysis.Engine
	repo   ports.RunRepository // optional; nil disables persistence
	log    *internal.Logger
}

// DiffExpRequest defines the inputs for a differential testing run.
type DiffExpRequest struct {
	NormalizedPath string // normalized counts CSV; alternative to Matrix
	MetadataPath   string // sample metadata CSV; alternative to Sheet
	OutPath        string // optional; empty skips writing the CSV

	// In-memory inputs take precedence over paths when set.
	Matrix *expr.Matrix
	Sheet  *expr.SampleSheet

	// InputHash fingerprints the raw input; when empty and NormalizedPath is
	// set, the file itself is hashed.
	InputHash core.Hash
}

// NewDiffExpService creates a differential testing service.
func NewDiffExpService(engine *analysis.Engine, repo ports.RunRepository) *DiffExpService {
	return &DiffExpService{engine: engine, repo: repo, log: internal.DefaultLogger}
}

// Run executes the engine and returns the result table together with the run
// record. The table is already sorted ascending by raw p-value.
func (s *DiffExpService) Run(ctx context.Context, req DiffExpRequest) (*expr.ResultTable, *expr.AnalysisRun, error) {
	matrix := req.Matrix
	if matrix == nil {
		var err error
		matrix, err = tabular.NewDataReader(req.NormalizedPath).ReadCounts("")
		if err != nil {
			return nil, nil, err
		}
	}
	sheet := req.Sheet
	if sheet == nil {
		var err error
		sheet, err = tabular.ReadSampleSheet(req.MetadataPath)
		if err != nil {
			return nil, nil, err
		}
	}

	table, err := s.engine.Run(ctx, matrix, sheet)
	if err != nil {
		return nil, nil, err
	}

	inputHash := req.InputHash
	if inputHash.IsEmpty() && req.NormalizedPath != "" {
		if h, err := core.HashFile(req.NormalizedPath); err != nil {
			s.log.Warn("could not fingerprint %s: %v", req.NormalizedPath, err)
		} else {
			inputHash = h
		}
	}

	run := &expr.AnalysisRun{
		ID:          core.RunID(core.NewID()),
		ConditionA:  table.ConditionA,
		ConditionB:  table.ConditionB,
		SamplesA:    len(sheet.SamplesFor(table.ConditionA)),
		SamplesB:    len(sheet.SamplesFor(table.ConditionB)),
		GenesTested: table.Len(),
		InputHash:   inputHash,
		CreatedAt:   time.Now().UTC(),
	}

	if req.OutPath != "" {
		if err := tabular.WriteResults(req.OutPath, table); err != nil {
			return nil, nil, err
		}
		s.log.Info("wrote differential results (%d genes) to %s", table.Len(), req.OutPath)
	}

	if s.repo != nil {
		if err := s.repo.SaveRun(ctx, run, table); err != nil {
			return nil, nil, err
		}
		s.log.Info("persisted run %s (%s vs %s)", run.ID, run.ConditionA, run.ConditionB)
	}
	return table, run, nil
}
