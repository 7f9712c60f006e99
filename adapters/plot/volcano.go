package plot

import (
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"diffexpr/domain/expr"
)

// Volcano renders log2 fold change against -log10 raw p-value, splitting
// genes into up-regulated, down-regulated and non-significant series at the
// given cutoffs.
func Volcano(t *expr.ResultTable, pCutoff, log2FCCutoff float64, path string) error {
	var up, down, ns []opts.ScatterData
	for _, r := range t.Records {
		p := r.PValue
		if p == 0 {
			// Avoid an infinite y-value for p-values that underflow to zero.
			p = math.Nextafter(0, 1)
		}
		point := opts.ScatterData{Value: []interface{}{r.Log2FC, -math.Log10(p)}, Name: r.GeneID}
		switch {
		case r.PValue <= pCutoff && r.Log2FC >= log2FCCutoff:
			up = append(up, point)
		case r.PValue <= pCutoff && r.Log2FC <= -log2FCCutoff:
			down = append(down, point)
		default:
			ns = append(ns, point)
		}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Volcano plot",
			Subtitle: t.ConditionA + " vs " + t.ConditionB,
		}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "log2 fold change"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "-log10 p-value"}),
	)
	scatter.AddSeries("Down", down).
		AddSeries("Up", up).
		AddSeries("NS", ns)
	return renderToFile(path, scatter)
}
