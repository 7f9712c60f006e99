package tabular

import (
	"strconv"
	"strings"

	"diffexpr/domain/expr"
	"diffexpr/internal/errors"
)

// ReadResults reads an engine output CSV back into a result table. The
// condition names are recovered from the <condition>_mean column headers.
func ReadResults(path string) (*expr.ResultTable, error) {
	headers, rows, err := readCSVRows(path, ',')
	if err != nil {
		return nil, err
	}
	if len(headers) < 6 || headers[0] != "gene_id" ||
		!strings.HasSuffix(headers[1], "_mean") || !strings.HasSuffix(headers[2], "_mean") ||
		headers[3] != "log2_fc" || headers[4] != "p_value" || headers[5] != "p_adj" {
		return nil, errors.Schemaf("%s does not look like a differential expression results table", path)
	}

	table := &expr.ResultTable{
		ConditionA: strings.TrimSuffix(headers[1], "_mean"),
		ConditionB: strings.TrimSuffix(headers[2], "_mean"),
	}
	for rowNum, row := range rows {
		if len(row) < 6 {
			return nil, errors.Schemaf("results row %d is incomplete", rowNum+2)
		}
		vals := make([]float64, 5)
		for i := 0; i < 5; i++ {
			v, err := strconv.ParseFloat(row[i+1], 64)
			if err != nil {
				return nil, errors.Schemaf("results row %d has a non-numeric %s value: %q", rowNum+2, headers[i+1], row[i+1])
			}
			vals[i] = v
		}
		table.Records = append(table.Records, expr.TestRecord{
			GeneID: row[0],
			MeanA:  vals[0],
			MeanB:  vals[1],
			Log2FC: vals[2],
			PValue: vals[3],
			PAdj:   vals[4],
		})
	}
	return table, nil
}
