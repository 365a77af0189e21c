package scoring

import (
	"errors"
	"fmt"
	"math"

	"github.com/MikeSquared-Agency/Optimiser/internal/suggestions"
	"github.com/MikeSquared-Agency/Optimiser/internal/weights"
)

// Descriptor is the static metadata of a context, factor or operation type.
type Descriptor struct {
	TypeTag     string `json:"id"`
	WeightKey   string `json:"weight_key,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Key returns the weight table key, defaulting to the type tag.
func (d Descriptor) Key() string {
	if d.WeightKey != "" {
		return d.WeightKey
	}
	return d.TypeTag
}

// OperationRegistration binds an operation factory to its descriptor and the
// complete list of codes the operation can emit.
type OperationRegistration struct {
	Descriptor
	Suggestions []suggestions.Code
	New         func() Operation
}

type FactorRegistration struct {
	Descriptor
	Operations []OperationRegistration
}

type ContextRegistration struct {
	Descriptor
	Factors []FactorRegistration
}

// Registry is the explicit table of every context, factor and operation type,
// in registration order.
type Registry struct {
	Contexts []ContextRegistration
}

// Validate checks that type tags are unique per level, factories are set and
// every declared suggestion code is in the catalog.
func (r *Registry) Validate(catalog *suggestions.Catalog) error {
	var errs []error
	contexts := map[string]bool{}
	factors := map[string]bool{}
	operations := map[string]bool{}
	for _, c := range r.Contexts {
		if c.TypeTag == "" {
			errs = append(errs, errors.New("context with empty type tag"))
		} else if contexts[c.TypeTag] {
			errs = append(errs, fmt.Errorf("duplicate context %q", c.TypeTag))
		}
		contexts[c.TypeTag] = true
		for _, f := range c.Factors {
			if f.TypeTag == "" {
				errs = append(errs, fmt.Errorf("context %q: factor with empty type tag", c.TypeTag))
			} else if factors[f.TypeTag] {
				errs = append(errs, fmt.Errorf("duplicate factor %q", f.TypeTag))
			}
			factors[f.TypeTag] = true
			for _, op := range f.Operations {
				if op.TypeTag == "" {
					errs = append(errs, fmt.Errorf("factor %q: operation with empty type tag", f.TypeTag))
				} else if operations[op.TypeTag] {
					errs = append(errs, fmt.Errorf("duplicate operation %q", op.TypeTag))
				}
				operations[op.TypeTag] = true
				if op.New == nil {
					errs = append(errs, fmt.Errorf("operation %q has no factory", op.TypeTag))
				}
				if catalog == nil {
					continue
				}
				for _, code := range op.Suggestions {
					if err := catalog.Check(code); err != nil {
						errs = append(errs, fmt.Errorf("operation %q: %w", op.TypeTag, err))
					}
				}
			}
		}
	}
	return errors.Join(errs...)
}

// HasContext reports whether tag names a registered context.
func (r *Registry) HasContext(tag string) bool {
	for _, c := range r.Contexts {
		if c.TypeTag == tag {
			return true
		}
	}
	return false
}

// HasOperation reports whether tag names a registered operation.
func (r *Registry) HasOperation(tag string) bool {
	for _, c := range r.Contexts {
		for _, f := range c.Factors {
			for _, op := range f.Operations {
				if op.TypeTag == tag {
					return true
				}
			}
		}
	}
	return false
}

// OperationTags lists every operation tag in registration order.
func (r *Registry) OperationTags() []string {
	var out []string
	for _, c := range r.Contexts {
		for _, f := range c.Factors {
			for _, op := range f.Operations {
				out = append(out, op.TypeTag)
			}
		}
	}
	return out
}

// DriftTolerance is how far a sibling group's weights may sum away from 1.0
// before WeightDrift reports it.
const DriftTolerance = 0.05

// Drift is a sibling group whose weights do not add up to 1.0.
type Drift struct {
	Group string
	Sum   float64
}

// WeightDrift sums every sibling group (all contexts, the factors of each
// context, the operations of each factor) and returns the groups whose total
// is more than tolerance away from 1.0. Aggregation normalizes by the sum, so
// drift is a diagnostic, not an error.
func (r *Registry) WeightDrift(w *weights.Registry, tolerance float64) []Drift {
	var out []Drift
	check := func(group string, ns weights.Namespace, ids []string) {
		if len(ids) == 0 {
			return
		}
		if sum := w.Sum(ns, ids...); math.Abs(sum-1) > tolerance {
			out = append(out, Drift{Group: group, Sum: sum})
		}
	}

	contexts := make([]string, 0, len(r.Contexts))
	for _, c := range r.Contexts {
		contexts = append(contexts, c.Key())
		factors := make([]string, 0, len(c.Factors))
		for _, f := range c.Factors {
			factors = append(factors, f.Key())
			ops := make([]string, 0, len(f.Operations))
			for _, op := range f.Operations {
				ops = append(ops, op.Key())
			}
			check("factor:"+f.TypeTag, weights.NamespaceOperation, ops)
		}
		check("context:"+c.TypeTag, weights.NamespaceFactor, factors)
	}
	check("contexts", weights.NamespaceContext, contexts)
	return out
}

func allowSet(allow []string) map[string]bool {
	if len(allow) == 0 {
		return nil
	}
	set := make(map[string]bool, len(allow))
	for _, a := range allow {
		set[a] = true
	}
	return set
}
