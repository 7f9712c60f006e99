package analysis

import (
	"strings"

	"diffexpr/domain/expr"
)

// Known header aliases for annotation tables, keyed by normalized form.
// Detection is explicit: unrecognized headers simply do not match, and the
// caller skips the remap step.
var (
	geneIDAliases = map[string]bool{
		"gene_id": true,
		"geneid":  true,
		"id":      true,
	}
	geneSymbolAliases = map[string]bool{
		"gene_symbol":          true,
		"symbol":               true,
		"associated_gene_name": true,
		"gene_name":            true,
	}
)

// normalizeHeader lowers the case and collapses spaces so that headers like
// "Gene ID" and "gene_id" compare equal.
func normalizeHeader(h string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
}

// DetectAnnotationColumns finds the identifier and symbol columns in an
// annotation header. The first header matching each alias set wins. ok is
// false when either role has no match.
func DetectAnnotationColumns(headers []string) (idCol, symbolCol int, ok bool) {
	idCol, symbolCol = -1, -1
	for i, h := range headers {
		n := normalizeHeader(h)
		if idCol < 0 && geneIDAliases[n] {
			idCol = i
		}
		if symbolCol < 0 && geneSymbolAliases[n] {
			symbolCol = i
		}
	}
	return idCol, symbolCol, idCol >= 0 && symbolCol >= 0
}

// BuildSymbolMap builds a one-to-one identifier-to-symbol mapping from an
// annotation table. Rows without a symbol are dropped; on duplicate
// identifiers the first occurrence wins. ok is false when the header has no
// detectable identifier or symbol column, in which case the remap step should
// be skipped silently.
func BuildSymbolMap(headers []string, rows [][]string) (map[string]string, bool) {
	idCol, symbolCol, ok := DetectAnnotationColumns(headers)
	if !ok {
		return nil, false
	}
	symbols := make(map[string]string)
	for _, row := range rows {
		if idCol >= len(row) || symbolCol >= len(row) {
			continue
		}
		id := strings.TrimSpace(row[idCol])
		symbol := strings.TrimSpace(row[symbolCol])
		if id == "" || symbol == "" {
			continue
		}
		if _, exists := symbols[id]; !exists {
			symbols[id] = symbol
		}
	}
	return symbols, true
}

// RelabelGenes renames each gene row to its symbol when the mapping has one,
// keeping the original identifier otherwise. Rows whose post-relabel
// identifier collides with an earlier row are dropped, so the first occurrence
// in matrix order is the surviving representative.
func RelabelGenes(m *expr.Matrix, symbols map[string]string) *expr.Matrix {
	out := expr.NewMatrix(m.Samples())
	for i := 0; i < m.NumGenes(); i++ {
		gene, row := m.RowAt(i)
		label := gene
		if symbol, ok := symbols[gene]; ok {
			label = symbol
		}
		if out.HasGene(label) {
			continue
		}
		// AppendRow copies the row and cannot collide after the HasGene check.
		_ = out.AppendRow(label, row)
	}
	return out
}
