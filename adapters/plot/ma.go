package plot

import (
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"diffexpr/domain/expr"
)

// MA renders mean expression against log2 fold change, highlighting genes
// with an adjusted p-value at or below the cutoff.
func MA(t *expr.ResultTable, pAdjCutoff float64, path string) error {
	var significant, rest []opts.ScatterData
	for _, r := range t.Records {
		meanExpr := (r.MeanA + r.MeanB) / 2
		point := opts.ScatterData{Value: []interface{}{meanExpr, r.Log2FC}, Name: r.GeneID}
		if r.PAdj <= pAdjCutoff {
			significant = append(significant, point)
		} else {
			rest = append(rest, point)
		}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{
			Title:    "MA plot",
			Subtitle: t.ConditionA + " vs " + t.ConditionB,
		}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "mean log2 CPM"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "log2 fold change"}),
	)
	scatter.AddSeries("Significant", significant).
		AddSeries("Other", rest)
	return renderToFile(path, scatter)
}
