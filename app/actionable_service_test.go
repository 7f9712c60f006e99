package app

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diffexpr/domain/expr"
)

func TestActionableService_FilterAndJoin(t *testing.T) {
	dir := t.TempDir()

	table := &expr.ResultTable{
		ConditionA: "treated",
		ConditionB: "control",
		Records: []expr.TestRecord{
			{GeneID: "G1", MeanA: 6, MeanB: 2, Log2FC: 4, PValue: 0.0001, PAdj: 0.001},
			{GeneID: "G4", MeanA: 1, MeanB: 3, Log2FC: -2, PValue: 0.001, PAdj: 0.01},
			{GeneID: "G2", MeanA: 2.5, MeanB: 2, Log2FC: 0.5, PValue: 0.002, PAdj: 0.02},
			{GeneID: "G3", MeanA: 5, MeanB: 2, Log2FC: 3, PValue: 0.4, PAdj: 0.5},
		},
	}

	actionablePath := filepath.Join(dir, "actionable.csv")
	require.NoError(t, os.WriteFile(actionablePath, []byte(
		"gene_id,drug,phase\n"+
			"G1,alpha,approved\n"+
			"G1,beta,trial\n"+
			"G4,gamma,approved\n"+
			"G9,delta,approved\n"), 0644))

	outPath := filepath.Join(dir, "hits.csv")
	summaryPath := filepath.Join(dir, "summary.json")

	summary, err := NewActionableService().Run(ActionableRequest{
		Table:          table,
		ActionablePath: actionablePath,
		OutPath:        outPath,
		SummaryPath:    summaryPath,
		PAdjCutoff:     0.05,
		Log2FCCutoff:   1.0,
	})
	require.NoError(t, err)

	// G1 and G4 pass both cutoffs; G2 fails the fold-change cutoff and G3
	// fails the adjusted p-value cutoff. G1 carries two actionable entries.
	assert.Equal(t, 4, summary.TotalGenesTested)
	assert.Equal(t, 2, summary.SignificantGenes)
	assert.Equal(t, 3, summary.ActionableHits)
	assert.Equal(t, 0.05, summary.PAdjCutoff)
	assert.Equal(t, 1.0, summary.Log2FCCutoff)

	f, err := os.Open(outPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 4) // header + 3 hits
	assert.Equal(t, []string{"gene_id", "treated_mean", "control_mean", "log2_fc", "p_value", "p_adj", "drug", "phase"}, rows[0])
	assert.Equal(t, "G1", rows[1][0])
	assert.Equal(t, "alpha", rows[1][6])
	assert.Equal(t, "G1", rows[2][0])
	assert.Equal(t, "beta", rows[2][6])
	assert.Equal(t, "G4", rows[3][0])
	assert.Equal(t, "gamma", rows[3][6])

	data, err := os.ReadFile(summaryPath)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, key := range []string{"total_genes_tested", "significant_genes", "actionable_hits", "p_adj_cutoff", "log2_fc_cutoff"} {
		assert.Contains(t, decoded, key)
	}
}

func TestActionableService_NoHits(t *testing.T) {
	dir := t.TempDir()

	table := &expr.ResultTable{
		ConditionA: "treated",
		ConditionB: "control",
		Records: []expr.TestRecord{
			{GeneID: "G1", Log2FC: 0.1, PValue: 0.9, PAdj: 0.9},
		},
	}

	actionablePath := filepath.Join(dir, "actionable.csv")
	require.NoError(t, os.WriteFile(actionablePath, []byte("gene_id,drug\nG1,alpha\n"), 0644))

	summary, err := NewActionableService().Run(ActionableRequest{
		Table:          table,
		ActionablePath: actionablePath,
		OutPath:        filepath.Join(dir, "hits.csv"),
		PAdjCutoff:     0.05,
		Log2FCCutoff:   1.0,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.SignificantGenes)
	assert.Equal(t, 0, summary.ActionableHits)
}
