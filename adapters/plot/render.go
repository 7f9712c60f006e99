// Package plot renders report charts from the normalized matrix and the
// differential expression results as standalone HTML documents.
package plot

import (
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/components"

	"diffexpr/internal/errors"
)

func renderToFile(path string, chart components.Charter) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "failed to create directory for %s", path)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	defer f.Close()

	page := components.NewPage()
	page.AddCharts(chart)
	if err := page.Render(f); err != nil {
		return errors.Wrapf(err, "failed to render %s", path)
	}
	return nil
}
