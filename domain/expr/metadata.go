package expr

import (
	"diffexpr/internal/errors"
)

// SampleRecord pairs a sample identifier with its condition label.
type SampleRecord struct {
	SampleID  string `json:"sample_id"`
	Condition string `json:"condition"`
}

// SampleSheet is the ordered sample metadata. Order matters: the first
// condition label observed becomes condition "A" for the testing engine,
// which fixes the sign of the fold change.
type SampleSheet struct {
	records []SampleRecord
}

// NewSampleSheet creates a sample sheet preserving record order.
func NewSampleSheet(records []SampleRecord) *SampleSheet {
	return &SampleSheet{records: append([]SampleRecord(nil), records...)}
}

// Records returns the ordered sample records.
func (s *SampleSheet) Records() []SampleRecord {
	return append([]SampleRecord(nil), s.records...)
}

// Len returns the number of samples described.
func (s *SampleSheet) Len() int { return len(s.records) }

// SampleIDs returns all sample identifiers in sheet order.
func (s *SampleSheet) SampleIDs() []string {
	ids := make([]string, len(s.records))
	for i, r := range s.records {
		ids[i] = r.SampleID
	}
	return ids
}

// Conditions returns the distinct condition labels in first-appearance order.
func (s *SampleSheet) Conditions() []string {
	seen := make(map[string]bool)
	var conds []string
	for _, r := range s.records {
		if !seen[r.Condition] {
			seen[r.Condition] = true
			conds = append(conds, r.Condition)
		}
	}
	return conds
}

// SamplesFor returns the sample identifiers carrying the given condition
// label, in sheet order.
func (s *SampleSheet) SamplesFor(condition string) []string {
	var ids []string
	for _, r := range s.records {
		if r.Condition == condition {
			ids = append(ids, r.SampleID)
		}
	}
	return ids
}

// Validate checks that every record carries both required fields.
func (s *SampleSheet) Validate() error {
	if len(s.records) == 0 {
		return errors.Schema("metadata describes no samples")
	}
	for i, r := range s.records {
		if r.SampleID == "" {
			return errors.Schemaf("metadata row %d has an empty sample_id", i+1)
		}
		if r.Condition == "" {
			return errors.Schemaf("metadata row %d has an empty condition", i+1)
		}
	}
	return nil
}
