package scoring

import (
	"time"

	"github.com/MikeSquared-Agency/Optimiser/internal/suggestions"
)

type OperationBreakdown struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Weight      float64            `json:"weight"`
	Score       float64            `json:"score"`
	State       State              `json:"state"`
	Suggestions []suggestions.Code `json:"suggestions"`
}

type FactorBreakdown struct {
	ID         string               `json:"id"`
	Name       string               `json:"name"`
	Weight     float64              `json:"weight"`
	Score      float64              `json:"score"`
	Complete   bool                 `json:"complete"`
	Operations []OperationBreakdown `json:"operations"`
}

type ContextBreakdown struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Weight   float64           `json:"weight"`
	Score    float64           `json:"score"`
	Complete bool              `json:"complete"`
	Factors  []FactorBreakdown `json:"factors"`
}

// Breakdown is the full nested projection of an Optimiser, used as the
// persisted breakdown payload and by the API.
type Breakdown struct {
	SubjectID  int64              `json:"subject_id"`
	Score      float64            `json:"score"`
	Complete   bool               `json:"complete"`
	AnalyzedAt *time.Time         `json:"analyzed_at,omitempty"`
	Contexts   []ContextBreakdown `json:"contexts"`
}
