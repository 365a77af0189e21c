package scoring

import (
	"context"

	"github.com/MikeSquared-Agency/Optimiser/internal/content"
	"github.com/MikeSquared-Agency/Optimiser/internal/suggestions"
	"github.com/MikeSquared-Agency/Optimiser/internal/weights"
)

// Context groups factors into one SEO dimension and folds their scores by
// factor weight, the same way a Factor folds operations.
type Context struct {
	desc    Descriptor
	weight  float64
	factors []*Factor

	score       float64
	suggestions []suggestions.Code
	complete    bool
}

// NewContext instantiates the registration's factors. allowOps filters
// operations inside each factor when non-empty.
func NewContext(reg ContextRegistration, w *weights.Registry, allowOps []string, opts ...Option) *Context {
	o := buildOptions(append(opts, WithWeights(w)))
	return newContext(reg, allowSet(allowOps), o)
}

func newContext(reg ContextRegistration, allowOps map[string]bool, o options) *Context {
	c := &Context{
		desc:        reg.Descriptor,
		weight:      o.weights.Get(weights.NamespaceContext, reg.Key()),
		suggestions: []suggestions.Code{},
	}
	for _, fr := range reg.Factors {
		f := newFactor(fr, allowOps, o)
		f.contextTag = reg.TypeTag
		c.factors = append(c.factors, f)
	}
	return c
}

func (c *Context) ID() string { return c.desc.TypeTag }
func (c *Context) Weight() float64 { return c.weight }
func (c *Context) Score() float64 { return c.score }
func (c *Context) Complete() bool { return c.complete }
func (c *Context) Suggestions() []suggestions.Code { return c.suggestions }
func (c *Context) Factors() []*Factor { return c.factors }

// Execute runs factors in registration order. Factors that finished before a
// cancellation keep their scores; the context itself stays incomplete.
func (c *Context) Execute(ctx context.Context, subjectID int64, cp content.Provider) error {
	c.score = 0
	c.suggestions = []suggestions.Code{}
	c.complete = false

	for _, f := range c.factors {
		if err := f.Execute(ctx, subjectID, cp); err != nil {
			return err
		}
	}
	c.aggregate()
	c.complete = true
	return nil
}

func (c *Context) aggregate() {
	ws := make([]float64, len(c.factors))
	ss := make([]float64, len(c.factors))
	lists := make([][]suggestions.Code, len(c.factors))
	for i, f := range c.factors {
		ws[i] = f.weight
		ss[i] = f.score
		lists[i] = f.suggestions
	}
	c.score = WeightedMean(ws, ss)
	c.suggestions = dedupe(lists...)
}

func (c *Context) Breakdown() ContextBreakdown {
	b := ContextBreakdown{
		ID:       c.desc.TypeTag,
		Name:     c.desc.Name,
		Weight:   c.weight,
		Score:    c.score,
		Complete: c.complete,
		Factors:  make([]FactorBreakdown, 0, len(c.factors)),
	}
	for _, f := range c.factors {
		b.Factors = append(b.Factors, f.Breakdown())
	}
	return b
}
