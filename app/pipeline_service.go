package app

import (
	"context"
	"path/filepath"

	"diffexpr/adapters/plot"
	"diffexpr/adapters/tabular"
	"diffexpr/domain/core"
	"diffexpr/domain/expr"
	"diffexpr/internal"
	"diffexpr/internal/config"
)

// PipelineService ties the full analysis together: normalization,
// differential testing, the actionable report, and the report plots. Data
// flows strictly normalizer -> engine -> consumers; no stage feeds back.
type PipelineService struct {
	normalize  *NormalizeService
	diffexp    *DiffExpService
	actionable *ActionableService
	report     config.ReportConfig
	log        *internal.Logger
}

// PipelineRequest defines the inputs for a full pipeline run.
type PipelineRequest struct {
	CountsPath      string
	MetadataPath    string
	AnnotationsPath string // optional
	ActionablePath  string // optional; empty skips the actionable report
	OutDir          string
	SkipPlots       bool
}

// PipelineResult collects the artifacts of a pipeline run.
type PipelineResult struct {
	Run        *expr.AnalysisRun
	Table      *expr.ResultTable
	Summary    *ActionableSummary // nil when no actionable list was given
	OutputsDir string
}

// NewPipelineService creates a pipeline service.
func NewPipelineService(normalize *NormalizeService, diffexp *DiffExpService, actionable *ActionableService, report config.ReportConfig) *PipelineService {
	return &PipelineService{
		normalize:  normalize,
		diffexp:    diffexp,
		actionable: actionable,
		report:     report,
		log:        internal.DefaultLogger,
	}
}

// Run executes the pipeline, writing all artifacts under OutDir.
func (s *PipelineService) Run(ctx context.Context, req PipelineRequest) (*PipelineResult, error) {
	normalizedPath := filepath.Join(req.OutDir, "normalized_counts.csv")
	normalized, sheet, err := s.normalize.Run(NormalizeRequest{
		CountsPath:      req.CountsPath,
		MetadataPath:    req.MetadataPath,
		AnnotationsPath: req.AnnotationsPath,
		OutPath:         normalizedPath,
	})
	if err != nil {
		return nil, err
	}

	// Fingerprint the raw counts, not the normalized copy we just wrote.
	inputHash, err := core.HashFile(req.CountsPath)
	if err != nil {
		s.log.Warn("could not fingerprint %s: %v", req.CountsPath, err)
	}

	table, run, err := s.diffexp.Run(ctx, DiffExpRequest{
		Matrix:    normalized,
		Sheet:     sheet,
		OutPath:   filepath.Join(req.OutDir, "differential_expression.csv"),
		InputHash: inputHash,
	})
	if err != nil {
		return nil, err
	}

	result := &PipelineResult{Run: run, Table: table, OutputsDir: req.OutDir}

	if req.ActionablePath != "" {
		summary, err := s.actionable.Run(ActionableRequest{
			Table:          table,
			ActionablePath: req.ActionablePath,
			OutPath:        filepath.Join(req.OutDir, "actionable_genes.csv"),
			SummaryPath:    filepath.Join(req.OutDir, "summary.json"),
			PAdjCutoff:     s.report.PAdjCutoff,
			Log2FCCutoff:   s.report.Log2FCCutoff,
		})
		if err != nil {
			return nil, err
		}
		result.Summary = summary
	}

	if !req.SkipPlots {
		if err := s.RenderPlots(normalized, sheet, table, filepath.Join(req.OutDir, "plots")); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// RenderPlots writes the four report charts under dir.
func (s *PipelineService) RenderPlots(normalized *expr.Matrix, sheet *expr.SampleSheet, table *expr.ResultTable, dir string) error {
	if err := plot.PCA(normalized, sheet, filepath.Join(dir, "pca.html")); err != nil {
		return err
	}
	if err := plot.Heatmap(normalized, sheet, s.report.HeatmapTopN, filepath.Join(dir, "heatmap.html")); err != nil {
		return err
	}
	if err := plot.Volcano(table, 0.05, 1.0, filepath.Join(dir, "volcano.html")); err != nil {
		return err
	}
	if err := plot.MA(table, s.report.PAdjCutoff, filepath.Join(dir, "ma.html")); err != nil {
		return err
	}
	s.log.Info("wrote report plots to %s", dir)
	return nil
}

// LoadNormalized reads a previously written normalized matrix, for the
// plot-only entrypoint.
func LoadNormalized(path string) (*expr.Matrix, error) {
	return tabular.NewDataReader(path).ReadCounts("")
}
