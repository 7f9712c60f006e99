package ports

import (
	"diffexpr/domain/expr"
)

// MatrixReader loads a gene-by-sample count table from a file.
type MatrixReader interface {
	ReadCounts(path string) (*expr.Matrix, error)
}
