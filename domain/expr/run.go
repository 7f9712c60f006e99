package expr

import (
	"time"

	"diffexpr/domain/core"
)

// AnalysisRun is the persisted record of one engine run.
type AnalysisRun struct {
	ID          core.RunID `json:"id" db:"id"`
	ConditionA  string     `json:"condition_a" db:"condition_a"`
	ConditionB  string     `json:"condition_b" db:"condition_b"`
	SamplesA    int        `json:"samples_a" db:"samples_a"`
	SamplesB    int        `json:"samples_b" db:"samples_b"`
	GenesTested int        `json:"genes_tested" db:"genes_tested"`
	InputHash   core.Hash  `json:"input_hash" db:"input_hash"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}
