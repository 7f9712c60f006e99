package plot

import (
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/montanaflynn/stats"

	"diffexpr/domain/expr"
)

// Heatmap renders the topN most variable genes of the normalized matrix, with
// sample columns grouped by condition.
func Heatmap(m *expr.Matrix, sheet *expr.SampleSheet, topN int, path string) error {
	type geneVar struct {
		index    int
		variance float64
	}
	variances := make([]geneVar, m.NumGenes())
	for i := 0; i < m.NumGenes(); i++ {
		_, row := m.RowAt(i)
		v, err := stats.SampleVariance(row)
		if err != nil {
			v = 0
		}
		variances[i] = geneVar{index: i, variance: v}
	}
	sort.SliceStable(variances, func(i, j int) bool {
		return variances[i].variance > variances[j].variance
	})
	if topN > len(variances) {
		topN = len(variances)
	}

	// Group sample columns by condition label; stable, so within a condition
	// the metadata order is kept.
	records := sheet.Records()
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Condition < records[j].Condition
	})
	samples := make([]string, 0, len(records))
	for _, r := range records {
		if m.HasSample(r.SampleID) {
			samples = append(samples, r.SampleID)
		}
	}

	genes := make([]string, topN)
	var data []opts.HeatMapData
	minV, maxV := 0.0, 0.0
	for rank := 0; rank < topN; rank++ {
		gene, _ := m.RowAt(variances[rank].index)
		// Rows plot bottom-up, so put the most variable gene on top.
		y := topN - 1 - rank
		genes[y] = gene
		row, _ := m.Row(gene)
		for x, sample := range samples {
			col, _ := m.SampleIndex(sample)
			v := row[col]
			if len(data) == 0 || v < minV {
				minV = v
			}
			if len(data) == 0 || v > maxV {
				maxV = v
			}
			data = append(data, opts.HeatMapData{Value: [3]interface{}{x, y, v}})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{Title: "Top variable genes (log2 CPM)"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: samples, Name: "Samples"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: genes}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: true,
			Min:        float32(minV),
			Max:        float32(maxV),
		}),
	)
	hm.AddSeries("expression", data)
	return renderToFile(path, hm)
}
