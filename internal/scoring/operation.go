// Package scoring is the hierarchical weighted scoring engine: operations are
// grouped into factors, factors into contexts, and an Optimiser folds the
// contexts of one subject into a single score in [0,1] plus a deduplicated
// list of suggestion codes.
package scoring

import (
	"context"

	"github.com/MikeSquared-Agency/Optimiser/internal/content"
	"github.com/MikeSquared-Agency/Optimiser/internal/suggestions"
)

// Operation is one analysis rule.
//
// Run may do I/O through the provider and must map normal failure modes
// (missing content, missing schema, empty keyword, provider errors) to
// Unavailable rather than panic. CalculateScore and Suggestions are pure
// functions of the raw data returned by Run. Each operation decides its own
// no-data policy: 0 when a signal is absent, 1 when the check does not apply.
type Operation interface {
	Run(ctx context.Context, subjectID int64, cp content.Provider) any
	CalculateScore(raw any) float64
	Suggestions(raw any) []suggestions.Code
}

// Unavailable is the raw data of an operation that found nothing to analyze.
type Unavailable struct {
	Reason string `json:"reason"`
}

// IsUnavailable reports whether raw is the Unavailable sentinel.
func IsUnavailable(raw any) bool {
	switch raw.(type) {
	case Unavailable, *Unavailable:
		return true
	}
	return false
}

// State is the lifecycle of one operation within a factor.
type State string

const (
	StateNotRun State = "not_run"
	StateRan    State = "ran"
	StateScored State = "scored"
)

// OperationResult is what one operation produced. It is immutable once the
// operation reaches StateScored.
type OperationResult struct {
	RawData     any                `json:"raw_data,omitempty"`
	Score       float64            `json:"score"`
	Suggestions []suggestions.Code `json:"suggestions"`
}

// unit is an operation instance bound to its registration and weight.
type unit struct {
	reg    OperationRegistration
	op     Operation
	weight float64
	state  State
	result OperationResult
}

func newUnit(reg OperationRegistration, weight float64) *unit {
	return &unit{reg: reg, op: reg.New(), weight: weight, state: StateNotRun}
}

func (u *unit) reset() {
	u.state = StateNotRun
	u.result = OperationResult{}
}
