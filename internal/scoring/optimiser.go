package scoring

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/MikeSquared-Agency/Optimiser/internal/content"
	"github.com/MikeSquared-Agency/Optimiser/internal/store"
	"github.com/MikeSquared-Agency/Optimiser/internal/suggestions"
)

var (
	// ErrInvalidSubject is returned when the subject id is not positive.
	ErrInvalidSubject = errors.New("invalid subject id")
	// ErrNotFound is returned by LoadExisting when nothing is stored.
	ErrNotFound = errors.New("no stored analysis")
	// ErrUnknownContext and ErrUnknownOperation reject allow-list entries that
	// match no registration.
	ErrUnknownContext   = errors.New("unknown context")
	ErrUnknownOperation = errors.New("unknown operation")
)

// Params narrows which contexts and operations an analysis runs. Empty lists
// mean everything.
type Params struct {
	Contexts   []string `json:"contexts,omitempty"`
	Operations []string `json:"operations,omitempty"`
}

// Partial reports whether the params restrict the analysis.
func (p Params) Partial() bool {
	return len(p.Contexts) > 0 || len(p.Operations) > 0
}

// Optimiser owns the contexts of one subject. It assumes a single writer.
type Optimiser struct {
	SubjectID   int64
	PersistedID *int64
	Score       float64
	AnalyzedAt  time.Time

	opts        options
	contexts    []*Context
	initialised bool
	complete    bool
}

func NewOptimiser(subjectID int64, opts ...Option) (*Optimiser, error) {
	if subjectID <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSubject, subjectID)
	}
	return &Optimiser{SubjectID: subjectID, opts: buildOptions(opts)}, nil
}

// InitContexts builds the contexts from the registry. It replaces any
// previously built contexts.
func (o *Optimiser) InitContexts(p Params) error {
	for _, tag := range p.Contexts {
		if !o.opts.registry.HasContext(tag) {
			return fmt.Errorf("%w: %q", ErrUnknownContext, tag)
		}
	}
	for _, tag := range p.Operations {
		if !o.opts.registry.HasOperation(tag) {
			return fmt.Errorf("%w: %q", ErrUnknownOperation, tag)
		}
	}

	allowContexts := allowSet(p.Contexts)
	allowOps := allowSet(p.Operations)
	o.contexts = nil
	for _, reg := range o.opts.registry.Contexts {
		if allowContexts != nil && !allowContexts[reg.TypeTag] {
			continue
		}
		o.contexts = append(o.contexts, newContext(reg, allowOps, o.opts))
	}
	o.initialised = true
	o.complete = false
	o.Score = 0
	return nil
}

// Analyze runs every context in registration order and returns the final
// score. It is the only step that runs operations. When ctx ends first the
// error is returned, finished contexts keep their scores and Complete stays
// false.
func (o *Optimiser) Analyze(ctx context.Context, cp content.Provider) (float64, error) {
	if !o.initialised {
		if err := o.InitContexts(Params{}); err != nil {
			return 0, err
		}
	}
	o.complete = false
	o.Score = 0

	start := time.Now()
	for _, c := range o.contexts {
		if err := c.Execute(ctx, o.SubjectID, cp); err != nil {
			o.opts.logger.Warn("analysis interrupted",
				"subject_id", o.SubjectID,
				"context", c.ID(),
				"error", err,
			)
			return 0, fmt.Errorf("analyze subject %d: %w", o.SubjectID, err)
		}
	}

	o.AnalyzedAt = o.opts.clock()
	o.complete = true
	score := o.CalculateScore()
	o.opts.logger.Debug("analysis complete",
		"subject_id", o.SubjectID,
		"score", score,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return score, nil
}

// Complete reports whether every operation of the last Analyze returned.
// Callers must not persist an incomplete result.
func (o *Optimiser) Complete() bool { return o.complete }

func (o *Optimiser) Contexts() []*Context { return o.contexts }

// CalculateScore re-aggregates the context scores and stores the result in
// Score. It never runs operations.
func (o *Optimiser) CalculateScore() float64 {
	ws := make([]float64, len(o.contexts))
	ss := make([]float64, len(o.contexts))
	for i, c := range o.contexts {
		ws[i] = c.weight
		ss[i] = c.score
	}
	o.Score = WeightedMean(ws, ss)
	return o.Score
}

// Suggestions returns the deduplicated codes over all contexts.
func (o *Optimiser) Suggestions() []suggestions.Code {
	lists := make([][]suggestions.Code, len(o.contexts))
	for i, c := range o.contexts {
		lists[i] = c.suggestions
	}
	return dedupe(lists...)
}

// ActionableSuggestions resolves each code against the catalog and keeps those
// whose emitting operation scored below the descriptor threshold. The result is
// ordered by priority, critical first, then by first occurrence.
func (o *Optimiser) ActionableSuggestions() []suggestions.Descriptor {
	seen := make(map[suggestions.Code]bool)
	var out []suggestions.Descriptor
	for _, c := range o.contexts {
		for _, f := range c.factors {
			for _, u := range f.units {
				for _, code := range u.result.Suggestions {
					if seen[code] {
						continue
					}
					d := o.opts.catalog.Resolve(code)
					if !d.Surfaces(u.result.Score) {
						continue
					}
					seen[code] = true
					out = append(out, d)
				}
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority.Rank() > out[j].Priority.Rank()
	})
	return out
}

// Breakdown is the full nested projection. Before Analyze it is zeroed.
func (o *Optimiser) Breakdown() Breakdown {
	b := Breakdown{
		SubjectID: o.SubjectID,
		Score:     o.Score,
		Complete:  o.complete,
		Contexts:  make([]ContextBreakdown, 0, len(o.contexts)),
	}
	if !o.AnalyzedAt.IsZero() {
		at := o.AnalyzedAt
		b.AnalyzedAt = &at
	}
	for _, c := range o.contexts {
		b.Contexts = append(b.Contexts, c.Breakdown())
	}
	return b
}

// UniqueKey identifies the subject for deduplicating concurrent analyses. The
// persisted id wins over the subject id.
func (o *Optimiser) UniqueKey() string {
	if o.PersistedID != nil && *o.PersistedID > 0 {
		return fmt.Sprintf("optimiser:id:%d", *o.PersistedID)
	}
	return fmt.Sprintf("optimiser:subject:%d", o.SubjectID)
}

// LoadExisting reads the stored score for the subject and adopts its id,
// score and timestamp. It does not run any operation.
func (o *Optimiser) LoadExisting(ctx context.Context, r store.ScoreReader) (*store.ScoreSnapshot, error) {
	snap, err := r.LatestScore(ctx, o.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("load subject %d: %w", o.SubjectID, err)
	}
	if snap == nil {
		return nil, ErrNotFound
	}
	id := snap.ID
	o.PersistedID = &id
	o.Score = snap.Score
	o.AnalyzedAt = snap.AnalyzedAt
	return snap, nil
}
