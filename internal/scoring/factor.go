package scoring

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MikeSquared-Agency/Optimiser/internal/content"
	"github.com/MikeSquared-Agency/Optimiser/internal/suggestions"
	"github.com/MikeSquared-Agency/Optimiser/internal/weights"
)

// Factor groups operations and folds their scores by operation weight.
type Factor struct {
	desc       Descriptor
	contextTag string
	weight     float64
	units      []*unit
	opts       options

	score       float64
	suggestions []suggestions.Code
	complete    bool
}

// NewFactor instantiates the registration's operations, keeping only those in
// allow when it is non-empty.
func NewFactor(reg FactorRegistration, w *weights.Registry, allow []string, opts ...Option) *Factor {
	o := buildOptions(append(opts, WithWeights(w)))
	return newFactor(reg, allowSet(allow), o)
}

func newFactor(reg FactorRegistration, allow map[string]bool, o options) *Factor {
	f := &Factor{
		desc:        reg.Descriptor,
		weight:      o.weights.Get(weights.NamespaceFactor, reg.Key()),
		opts:        o,
		suggestions: []suggestions.Code{},
	}
	for _, op := range reg.Operations {
		if allow != nil && !allow[op.TypeTag] {
			continue
		}
		f.units = append(f.units, newUnit(op, o.weights.Get(weights.NamespaceOperation, op.Key())))
	}
	return f
}

func (f *Factor) ID() string { return f.desc.TypeTag }
func (f *Factor) Weight() float64 { return f.weight }
func (f *Factor) Score() float64 { return f.score }
func (f *Factor) Complete() bool { return f.complete }
func (f *Factor) Len() int { return len(f.units) }
func (f *Factor) Descriptor() Descriptor { return f.desc }

// Suggestions returns the deduplicated codes of all operations in
// registration order.
func (f *Factor) Suggestions() []suggestions.Code { return f.suggestions }

// Execute runs every operation, waits for all of them and aggregates. On
// cancellation it returns the context error and the factor stays incomplete
// with score 0.
func (f *Factor) Execute(ctx context.Context, subjectID int64, cp content.Provider) error {
	f.reset()

	g := new(errgroup.Group)
	g.SetLimit(f.opts.parallelism)
	for _, u := range f.units {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f.runUnit(ctx, subjectID, cp, u)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	f.aggregate()
	f.complete = true
	return nil
}

func (f *Factor) reset() {
	f.score = 0
	f.suggestions = []suggestions.Code{}
	f.complete = false
	for _, u := range f.units {
		u.reset()
	}
}

func (f *Factor) runUnit(ctx context.Context, subjectID int64, cp content.Provider, u *unit) {
	start := time.Now()
	panicked := f.evaluate(ctx, subjectID, cp, u)
	unknown := f.checkCodes(u)

	if f.opts.observer != nil {
		f.opts.observer(OperationEvent{
			SubjectID:    subjectID,
			Context:      f.contextTag,
			Factor:       f.desc.TypeTag,
			Operation:    u.reg.TypeTag,
			Score:        u.result.Score,
			Duration:     time.Since(start),
			Unavailable:  IsUnavailable(u.result.RawData),
			Panicked:     panicked,
			UnknownCodes: unknown,
		})
	}
}

// evaluate drives one operation through Run, CalculateScore and Suggestions.
// A panic degrades the operation to Unavailable with score 0.
func (f *Factor) evaluate(ctx context.Context, subjectID int64, cp content.Provider, u *unit) (panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			panicked = true
			u.result = OperationResult{
				RawData:     Unavailable{Reason: fmt.Sprintf("operation panicked: %v", r)},
				Suggestions: []suggestions.Code{},
			}
			u.state = StateScored
			f.opts.logger.Error("operation panicked",
				"subject_id", subjectID,
				"factor", f.desc.TypeTag,
				"operation", u.reg.TypeTag,
				"panic", r,
			)
		}
	}()

	raw := u.op.Run(ctx, subjectID, cp)
	u.state = StateRan
	score := clamp01(u.op.CalculateScore(raw))
	codes := dedupe(u.op.Suggestions(raw))
	u.result = OperationResult{RawData: raw, Score: score, Suggestions: codes}
	u.state = StateScored
	return false
}

// checkCodes enforces the closed catalog. Strict builds fail fast; release
// builds keep the code, which resolves to the fallback descriptor.
func (f *Factor) checkCodes(u *unit) []suggestions.Code {
	var unknown []suggestions.Code
	for _, code := range u.result.Suggestions {
		if f.opts.catalog.Contains(code) {
			continue
		}
		if suggestions.Strict {
			panic(fmt.Sprintf("operation %q emitted unknown suggestion code %q", u.reg.TypeTag, code))
		}
		f.opts.logger.Warn("unknown suggestion code",
			"factor", f.desc.TypeTag,
			"operation", u.reg.TypeTag,
			"code", code,
		)
		unknown = append(unknown, code)
	}
	return unknown
}

func (f *Factor) aggregate() {
	ws := make([]float64, len(f.units))
	ss := make([]float64, len(f.units))
	lists := make([][]suggestions.Code, len(f.units))
	for i, u := range f.units {
		ws[i] = u.weight
		ss[i] = u.result.Score
		lists[i] = u.result.Suggestions
	}
	f.score = WeightedMean(ws, ss)
	f.suggestions = dedupe(lists...)
}

// Breakdown is a read-only projection; before Execute it is zeroed.
func (f *Factor) Breakdown() FactorBreakdown {
	b := FactorBreakdown{
		ID:         f.desc.TypeTag,
		Name:       f.desc.Name,
		Weight:     f.weight,
		Score:      f.score,
		Complete:   f.complete,
		Operations: make([]OperationBreakdown, 0, len(f.units)),
	}
	for _, u := range f.units {
		codes := u.result.Suggestions
		if codes == nil {
			codes = []suggestions.Code{}
		}
		b.Operations = append(b.Operations, OperationBreakdown{
			ID:          u.reg.TypeTag,
			Name:        u.reg.Name,
			Weight:      u.weight,
			Score:       u.result.Score,
			State:       u.state,
			Suggestions: append([]suggestions.Code(nil), codes...),
		})
	}
	return b
}

// Results returns each operation's state and result in registration order.
func (f *Factor) Results() []OperationOutcome {
	out := make([]OperationOutcome, 0, len(f.units))
	for _, u := range f.units {
		out = append(out, OperationOutcome{ID: u.reg.TypeTag, State: u.state, Result: u.result})
	}
	return out
}

// OperationOutcome pairs an operation id with its lifecycle state and result.
type OperationOutcome struct {
	ID     string
	State  State
	Result OperationResult
}
