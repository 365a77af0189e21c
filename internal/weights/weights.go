package weights

import (
	"fmt"
	"math"
)

// Namespace separates the three independent weight tables.
type Namespace string

const (
	NamespaceContext   Namespace = "context"
	NamespaceFactor    Namespace = "factor"
	NamespaceOperation Namespace = "operation"
)

// Namespaces lists every namespace in lookup order.
func Namespaces() []Namespace {
	return []Namespace{NamespaceContext, NamespaceFactor, NamespaceOperation}
}

// Overrides maps namespace → identifier → weight, as read from config.
type Overrides map[Namespace]map[string]float64

// Registry is an immutable identifier → weight lookup, one table per namespace.
type Registry struct {
	tables map[Namespace]map[string]float64
}

// New builds a Registry from the default table with the given overrides applied.
func New(overrides Overrides) (*Registry, error) {
	r := &Registry{tables: make(map[Namespace]map[string]float64, 3)}
	for _, ns := range Namespaces() {
		r.tables[ns] = make(map[string]float64)
	}
	for ns, table := range Defaults() {
		for id, w := range table {
			r.tables[ns][id] = w
		}
	}
	for ns, table := range overrides {
		dst, ok := r.tables[ns]
		if !ok {
			return nil, fmt.Errorf("unknown weight namespace %q", ns)
		}
		for id, w := range table {
			dst[id] = w
		}
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// MustDefault returns the registry built from Defaults alone.
func MustDefault() *Registry {
	r, err := New(nil)
	if err != nil {
		panic(fmt.Sprintf("default weights invalid: %v", err))
	}
	return r
}

// FromTables builds a Registry from explicit tables only, without defaults.
// Intended for tests and tools that need a fully controlled weighting.
func FromTables(tables Overrides) (*Registry, error) {
	r := &Registry{tables: make(map[Namespace]map[string]float64, 3)}
	for _, ns := range Namespaces() {
		r.tables[ns] = make(map[string]float64)
	}
	for ns, table := range tables {
		dst, ok := r.tables[ns]
		if !ok {
			return nil, fmt.Errorf("unknown weight namespace %q", ns)
		}
		for id, w := range table {
			dst[id] = w
		}
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Get returns the weight for id in ns. Unknown identifiers weigh 0.
func (r *Registry) Get(ns Namespace, id string) float64 {
	if r == nil {
		return 0
	}
	return r.tables[ns][id]
}

// Sum returns the total weight of the given identifiers.
func (r *Registry) Sum(ns Namespace, ids ...string) float64 {
	var total float64
	for _, id := range ids {
		total += r.Get(ns, id)
	}
	return total
}

// Validate checks that no weight is negative or non-finite.
func (r *Registry) Validate() error {
	for ns, table := range r.tables {
		for id, w := range table {
			if math.IsNaN(w) || math.IsInf(w, 0) {
				return fmt.Errorf("%s weight %q is not finite", ns, id)
			}
			if w < 0 {
				return fmt.Errorf("negative %s weight %q: %f", ns, id, w)
			}
		}
	}
	return nil
}

// Snapshot returns a copy of one namespace's table.
func (r *Registry) Snapshot(ns Namespace) map[string]float64 {
	out := make(map[string]float64, len(r.tables[ns]))
	for id, w := range r.tables[ns] {
		out[id] = w
	}
	return out
}
