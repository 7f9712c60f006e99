package tabular

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"diffexpr/domain/expr"
	"diffexpr/internal/errors"
)

// DataReader handles reading count tables from CSV and Excel files, chosen by
// file extension.
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a reader for the given counts file.
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "csv"
	if ext == ".xlsx" || ext == ".xls" {
		fileType = "xlsx"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// ReadCounts reads the gene-by-sample count matrix.
func (r *DataReader) ReadCounts(path string) (*expr.Matrix, error) {
	if path == "" {
		path = r.filePath
	}
	headers, rows, err := r.readRaw(path)
	if err != nil {
		return nil, err
	}
	return BuildCountMatrix(headers, rows)
}

func (r *DataReader) readRaw(path string) ([]string, [][]string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil, errors.NotFound(fmt.Sprintf("counts file %s", path))
	}
	if r.fileType == "xlsx" {
		return readExcelRows(path)
	}
	return readCSVRows(path, ',')
}

func readExcelRows(path string) ([]string, [][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to open Excel file %s", path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, errors.Schema("Excel file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to read sheet %s", sheets[0])
	}
	if len(rows) == 0 {
		return nil, nil, errors.Schema("Excel sheet is empty")
	}
	return rows[0], rows[1:], nil
}

func readCSVRows(path string, sep rune) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = sep
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	if len(records) == 0 {
		return nil, nil, errors.Schemaf("%s is empty", path)
	}
	return records[0], records[1:], nil
}

// BuildCountMatrix assembles a count matrix from tabular data. The header
// must contain a gene_id column; every other column is a sample. Counts must
// be non-negative numbers.
func BuildCountMatrix(headers []string, rows [][]string) (*expr.Matrix, error) {
	geneCol := -1
	for i, h := range headers {
		if h == "gene_id" {
			geneCol = i
			break
		}
	}
	if geneCol < 0 {
		return nil, errors.Schema("counts file must contain a 'gene_id' column")
	}

	samples := make([]string, 0, len(headers)-1)
	sampleCols := make([]int, 0, len(headers)-1)
	for i, h := range headers {
		if i == geneCol {
			continue
		}
		samples = append(samples, h)
		sampleCols = append(sampleCols, i)
	}

	m := expr.NewMatrix(samples)
	for rowNum, row := range rows {
		if geneCol >= len(row) {
			return nil, errors.Schemaf("row %d has no gene_id value", rowNum+2)
		}
		gene := strings.TrimSpace(row[geneCol])
		values := make([]float64, len(sampleCols))
		for i, c := range sampleCols {
			if c >= len(row) {
				return nil, errors.Schemaf("gene %s is missing a value for sample %s", gene, samples[i])
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(row[c]), 64)
			if err != nil {
				return nil, errors.Schemaf("gene %s has a non-numeric count for sample %s: %q", gene, samples[i], row[c])
			}
			if v < 0 {
				return nil, errors.InvalidInput(fmt.Sprintf("gene %s has a negative count for sample %s", gene, samples[i]))
			}
			values[i] = v
		}
		if err := m.AppendRow(gene, values); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ReadSampleSheet reads sample metadata from a CSV file. The header must
// contain sample_id and condition columns.
func ReadSampleSheet(path string) (*expr.SampleSheet, error) {
	headers, rows, err := readCSVRows(path, ',')
	if err != nil {
		return nil, err
	}
	return BuildSampleSheet(headers, rows)
}

// BuildSampleSheet assembles sample metadata from tabular data.
func BuildSampleSheet(headers []string, rows [][]string) (*expr.SampleSheet, error) {
	sampleCol, condCol := -1, -1
	for i, h := range headers {
		switch h {
		case "sample_id":
			sampleCol = i
		case "condition":
			condCol = i
		}
	}
	if sampleCol < 0 || condCol < 0 {
		return nil, errors.Schema("metadata must contain 'sample_id' and 'condition' columns")
	}

	records := make([]expr.SampleRecord, 0, len(rows))
	for rowNum, row := range rows {
		if sampleCol >= len(row) || condCol >= len(row) {
			return nil, errors.Schemaf("metadata row %d is incomplete", rowNum+2)
		}
		records = append(records, expr.SampleRecord{
			SampleID:  strings.TrimSpace(row[sampleCol]),
			Condition: strings.TrimSpace(row[condCol]),
		})
	}
	sheet := expr.NewSampleSheet(records)
	if err := sheet.Validate(); err != nil {
		return nil, err
	}
	return sheet, nil
}

// ReadAnnotations reads an annotation table, sniffing comma vs tab separation
// from the header line.
func ReadAnnotations(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to open %s", path)
	}
	headerLine := make([]byte, 4096)
	n, _ := f.Read(headerLine)
	f.Close()

	sep := ','
	if line := string(headerLine[:n]); strings.Count(firstLine(line), "\t") > strings.Count(firstLine(line), ",") {
		sep = '\t'
	}
	return readCSVRows(path, sep)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// ReadGeneTable reads a generic CSV table keyed by gene_id, returning its
// headers, the gene_id column index, and the rows.
func ReadGeneTable(path string) ([]string, int, [][]string, error) {
	headers, rows, err := readCSVRows(path, ',')
	if err != nil {
		return nil, -1, nil, err
	}
	geneCol := -1
	for i, h := range headers {
		if h == "gene_id" {
			geneCol = i
			break
		}
	}
	if geneCol < 0 {
		return nil, -1, nil, errors.Schemaf("%s must include a 'gene_id' column", path)
	}
	return headers, geneCol, rows, nil
}
