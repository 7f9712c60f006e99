package app

import (
	"diffexpr/adapters/tabular"
	"diffexpr/domain/expr"
	"diffexpr/internal"
	"diffexpr/internal/analysis"
	"diffexpr/ports"
)

// NormalizeService converts raw gene counts into log2(CPM + 1) values aligned
// with the sample metadata, with optional annotation-driven symbol remapping.
type NormalizeService struct {
	reader ports.MatrixReader
	log    *internal.Logger
}

// NormalizeRequest defines the inputs for a normalization run.
type NormalizeRequest struct {
	CountsPath      string
	MetadataPath    string
	AnnotationsPath string // optional; empty skips the remap step
	OutPath         string // optional; empty skips writing the CSV
}

// NewNormalizeService creates a normalize service.
func NewNormalizeService(reader ports.MatrixReader) *NormalizeService {
	return &NormalizeService{reader: reader, log: internal.DefaultLogger}
}

// Run produces the normalized matrix restricted and reordered to the samples
// the metadata describes, in metadata order.
func (s *NormalizeService) Run(req NormalizeRequest) (*expr.Matrix, *expr.SampleSheet, error) {
	counts, err := s.reader.ReadCounts(req.CountsPath)
	if err != nil {
		return nil, nil, err
	}
	sheet, err := tabular.ReadSampleSheet(req.MetadataPath)
	if err != nil {
		return nil, nil, err
	}

	if req.AnnotationsPath != "" {
		headers, rows, err := tabular.ReadAnnotations(req.AnnotationsPath)
		if err != nil {
			return nil, nil, err
		}
		if symbols, ok := analysis.BuildSymbolMap(headers, rows); ok {
			before := counts.NumGenes()
			counts = analysis.RelabelGenes(counts, symbols)
			if dropped := before - counts.NumGenes(); dropped > 0 {
				s.log.Info("dropped %d duplicate gene rows after symbol remap", dropped)
			}
		} else {
			// No detectable identifier/symbol columns is not an error.
			s.log.Info("no usable annotation columns in %s, skipping symbol remap", req.AnnotationsPath)
		}
	}

	normalized, err := analysis.Log2CPM(counts, sheet.SampleIDs())
	if err != nil {
		return nil, nil, err
	}

	if req.OutPath != "" {
		if err := tabular.WriteMatrix(req.OutPath, normalized); err != nil {
			return nil, nil, err
		}
		s.log.Info("wrote normalized matrix (%d genes, %d samples) to %s",
			normalized.NumGenes(), normalized.NumSamples(), req.OutPath)
	}
	return normalized, sheet, nil
}
