package app

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"diffexpr/adapters/tabular"
	"diffexpr/domain/expr"
	"diffexpr/internal"
	"diffexpr/internal/errors"
)

// ActionableService intersects differential expression results with an
// actionable gene list.
type ActionableService struct {
	log *internal.Logger
}

// ActionableRequest defines the inputs for an actionable report.
type ActionableRequest struct {
	DifferentialPath string
	ActionablePath   string
	OutPath          string
	SummaryPath      string // optional; empty skips the summary JSON
	PAdjCutoff       float64
	Log2FCCutoff     float64

	// Table takes precedence over DifferentialPath when set.
	Table *expr.ResultTable
}

// ActionableSummary holds the key metrics for the run.
type ActionableSummary struct {
	TotalGenesTested int     `json:"total_genes_tested"`
	SignificantGenes int     `json:"significant_genes"`
	ActionableHits   int     `json:"actionable_hits"`
	PAdjCutoff       float64 `json:"p_adj_cutoff"`
	Log2FCCutoff     float64 `json:"log2_fc_cutoff"`
}

// NewActionableService creates an actionable report service.
func NewActionableService() *ActionableService {
	return &ActionableService{log: internal.DefaultLogger}
}

// Run filters results by both cutoffs, inner-joins against the actionable
// gene table on gene_id, writes the joined CSV, and returns the summary.
// Row order follows the result table (ascending p-value).
func (s *ActionableService) Run(req ActionableRequest) (*ActionableSummary, error) {
	table := req.Table
	if table == nil {
		var err error
		table, err = tabular.ReadResults(req.DifferentialPath)
		if err != nil {
			return nil, err
		}
	}

	actHeaders, geneCol, actRows, err := tabular.ReadGeneTable(req.ActionablePath)
	if err != nil {
		return nil, err
	}
	// gene_id -> actionable rows, preserving file order for repeated entries
	actionable := make(map[string][][]string)
	for _, row := range actRows {
		if geneCol >= len(row) {
			continue
		}
		gene := row[geneCol]
		actionable[gene] = append(actionable[gene], row)
	}

	filtered := table.Significant(req.PAdjCutoff, req.Log2FCCutoff)

	headers := []string{
		"gene_id",
		table.ConditionA + "_mean",
		table.ConditionB + "_mean",
		"log2_fc",
		"p_value",
		"p_adj",
	}
	for i, h := range actHeaders {
		if i == geneCol {
			continue
		}
		headers = append(headers, h)
	}

	var rows [][]string
	for _, r := range filtered {
		for _, actRow := range actionable[r.GeneID] {
			row := resultRow(r)
			for i, v := range actRow {
				if i == geneCol {
					continue
				}
				row = append(row, v)
			}
			rows = append(rows, row)
		}
	}

	if err := tabular.WriteTable(req.OutPath, headers, rows); err != nil {
		return nil, err
	}

	summary := &ActionableSummary{
		TotalGenesTested: table.Len(),
		SignificantGenes: len(filtered),
		ActionableHits:   len(rows),
		PAdjCutoff:       req.PAdjCutoff,
		Log2FCCutoff:     req.Log2FCCutoff,
	}
	if req.SummaryPath != "" {
		if err := writeSummary(req.SummaryPath, summary); err != nil {
			return nil, err
		}
	}
	s.log.Info("actionable report: %d/%d genes significant, %d actionable hits",
		summary.SignificantGenes, summary.TotalGenesTested, summary.ActionableHits)
	return summary, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func resultRow(r expr.TestRecord) []string {
	return []string{
		r.GeneID,
		formatFloat(r.MeanA),
		formatFloat(r.MeanB),
		formatFloat(r.Log2FC),
		formatFloat(r.PValue),
		formatFloat(r.PAdj),
	}
}

func writeSummary(path string, summary *ActionableSummary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal summary")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "failed to create directory for %s", path)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
