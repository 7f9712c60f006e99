package ports

import (
	"context"

	"diffexpr/domain/core"
	"diffexpr/domain/expr"
)

// RunRepository persists engine runs and their result tables.
type RunRepository interface {
	SaveRun(ctx context.Context, run *expr.AnalysisRun, table *expr.ResultTable) error
	GetRun(ctx context.Context, id core.RunID) (*expr.AnalysisRun, error)
	ListRuns(ctx context.Context) ([]*expr.AnalysisRun, error)
	GetResults(ctx context.Context, id core.RunID) (*expr.ResultTable, error)
}
