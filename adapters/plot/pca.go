package plot

import (
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"gonum.org/v1/gonum/mat"

	"diffexpr/domain/expr"
	"diffexpr/internal/errors"
)

// PCA renders a sample-level scatter of the first two principal components
// of the normalized matrix, colored by condition.
func PCA(m *expr.Matrix, sheet *expr.SampleSheet, path string) error {
	coords, err := sampleScores(m)
	if err != nil {
		return err
	}

	conditionOf := make(map[string]string, sheet.Len())
	for _, r := range sheet.Records() {
		conditionOf[r.SampleID] = r.Condition
	}

	series := make(map[string][]opts.ScatterData)
	for i, sample := range m.Samples() {
		cond := conditionOf[sample]
		series[cond] = append(series[cond], opts.ScatterData{
			Value: []interface{}{coords[i][0], coords[i][1]},
			Name:  sample,
		})
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{Title: "PCA of samples"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "PC1"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "PC2"}),
	)
	// Conditions in metadata order for a stable legend.
	for _, cond := range sheet.Conditions() {
		scatter.AddSeries(cond, series[cond])
	}
	return renderToFile(path, scatter)
}

// sampleScores projects samples onto the first two principal components of
// the genes-as-features space.
func sampleScores(m *expr.Matrix) ([][2]float64, error) {
	nSamples := m.NumSamples()
	nGenes := m.NumGenes()
	if nSamples < 2 || nGenes < 2 {
		return nil, errors.InvalidInput("PCA requires at least two samples and two genes")
	}

	// Samples are observations (rows), genes are features (columns).
	data := mat.NewDense(nSamples, nGenes, nil)
	for g := 0; g < nGenes; g++ {
		_, row := m.RowAt(g)
		mean := 0.0
		for _, v := range row {
			mean += v
		}
		mean /= float64(nSamples)
		for s, v := range row {
			data.Set(s, g, v-mean)
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(data, mat.SVDThin); !ok {
		return nil, errors.InternalError("SVD factorization failed")
	}
	var u mat.Dense
	svd.UTo(&u)
	values := svd.Values(nil)

	coords := make([][2]float64, nSamples)
	for i := 0; i < nSamples; i++ {
		coords[i][0] = u.At(i, 0) * values[0]
		coords[i][1] = u.At(i, 1) * values[1]
	}
	return coords, nil
}
