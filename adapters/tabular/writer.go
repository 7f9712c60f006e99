package tabular

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"diffexpr/domain/expr"
	"diffexpr/internal/errors"
)

// WriteMatrix writes a matrix as CSV with the gene_id column first, then the
// sample columns in matrix order.
func WriteMatrix(path string, m *expr.Matrix) error {
	w, closeFn, err := createCSV(path)
	if err != nil {
		return err
	}
	defer closeFn()

	header := append([]string{"gene_id"}, m.Samples()...)
	if err := w.Write(header); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	for i := 0; i < m.NumGenes(); i++ {
		gene, row := m.RowAt(i)
		record := make([]string, 0, len(row)+1)
		record = append(record, gene)
		for _, v := range row {
			record = append(record, formatFloat(v))
		}
		if err := w.Write(record); err != nil {
			return errors.Wrapf(err, "failed to write %s", path)
		}
	}
	w.Flush()
	return errors.Wrapf(w.Error(), "failed to write %s", path)
}

// WriteResults writes a result table as CSV. Mean columns are named after the
// conditions, e.g. treated_mean and control_mean.
func WriteResults(path string, t *expr.ResultTable) error {
	w, closeFn, err := createCSV(path)
	if err != nil {
		return err
	}
	defer closeFn()

	header := []string{
		"gene_id",
		fmt.Sprintf("%s_mean", t.ConditionA),
		fmt.Sprintf("%s_mean", t.ConditionB),
		"log2_fc",
		"p_value",
		"p_adj",
	}
	if err := w.Write(header); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	for _, r := range t.Records {
		record := []string{
			r.GeneID,
			formatFloat(r.MeanA),
			formatFloat(r.MeanB),
			formatFloat(r.Log2FC),
			formatFloat(r.PValue),
			formatFloat(r.PAdj),
		}
		if err := w.Write(record); err != nil {
			return errors.Wrapf(err, "failed to write %s", path)
		}
	}
	w.Flush()
	return errors.Wrapf(w.Error(), "failed to write %s", path)
}

// WriteTable writes a generic header + rows table as CSV.
func WriteTable(path string, headers []string, rows [][]string) error {
	w, closeFn, err := createCSV(path)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := w.Write(headers); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return errors.Wrapf(err, "failed to write %s", path)
		}
	}
	w.Flush()
	return errors.Wrapf(w.Error(), "failed to write %s", path)
}

func createCSV(path string) (*csv.Writer, func(), error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, errors.Wrapf(err, "failed to create directory for %s", path)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to create %s", path)
	}
	return csv.NewWriter(f), func() { f.Close() }, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
