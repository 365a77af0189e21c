package suggestions

import (
	"errors"
	"fmt"
	"sync"
)

// CatalogVersion is bumped whenever codes are added or retired. Retired codes
// are never reused with a new meaning.
const CatalogVersion = 3

// ErrUnknownCode is returned when a code is not part of the catalog.
var ErrUnknownCode = errors.New("unknown suggestion code")

// Code is a stable identifier naming an actionable finding.
type Code string

// Priority orders suggestions for display.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Rank returns a sortable rank; higher is more urgent.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Category classifies what kind of action a suggestion asks for.
type Category string

const (
	CategoryOptimization   Category = "optimization"
	CategoryImplementation Category = "implementation"
	CategoryWarning        Category = "warning"
	CategoryError          Category = "error"
	CategoryNotice         Category = "notice"
)

// Descriptor is the user-facing metadata for a suggestion code.
type Descriptor struct {
	Code        Code     `json:"code"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	// Threshold: the suggestion is worth surfacing when the owning score is below it.
	Threshold float64  `json:"threshold"`
	Category  Category `json:"category"`
}

// Surfaces reports whether the suggestion should be shown for the given score.
func (d Descriptor) Surfaces(score float64) bool {
	return score < d.Threshold
}

// Catalog is a closed, immutable set of suggestion descriptors.
type Catalog struct {
	byCode map[Code]Descriptor
	order  []Code
}

// NewCatalog builds a catalog, rejecting duplicate or empty codes.
func NewCatalog(descriptors []Descriptor) (*Catalog, error) {
	c := &Catalog{byCode: make(map[Code]Descriptor, len(descriptors))}
	for _, d := range descriptors {
		if d.Code == "" {
			return nil, fmt.Errorf("suggestion with empty code: %q", d.Title)
		}
		if _, dup := c.byCode[d.Code]; dup {
			return nil, fmt.Errorf("duplicate suggestion code %q", d.Code)
		}
		if d.Priority.Rank() == 0 {
			return nil, fmt.Errorf("suggestion %q: invalid priority %q", d.Code, d.Priority)
		}
		c.byCode[d.Code] = d
		c.order = append(c.order, d.Code)
	}
	return c, nil
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := NewCatalog(descriptors)
	if err != nil {
		panic(fmt.Sprintf("suggestion catalog invalid: %v", err))
	}
	return c
})

// Default returns the shipped catalog.
func Default() *Catalog {
	return defaultCatalog()
}

// Get returns the descriptor for code.
func (c *Catalog) Get(code Code) (Descriptor, bool) {
	d, ok := c.byCode[code]
	return d, ok
}

// Contains reports whether code is in the catalog.
func (c *Catalog) Contains(code Code) bool {
	_, ok := c.byCode[code]
	return ok
}

// Check returns ErrUnknownCode for codes outside the catalog.
func (c *Catalog) Check(code Code) error {
	if c.Contains(code) {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownCode, code)
}

// Resolve returns the descriptor for code, or a safe fallback for unknown codes.
func (c *Catalog) Resolve(code Code) Descriptor {
	if d, ok := c.byCode[code]; ok {
		return d
	}
	return Fallback(code)
}

// All returns every descriptor in catalog order.
func (c *Catalog) All() []Descriptor {
	out := make([]Descriptor, 0, len(c.order))
	for _, code := range c.order {
		out = append(out, c.byCode[code])
	}
	return out
}

// Len returns the number of codes.
func (c *Catalog) Len() int {
	return len(c.order)
}

// Fallback is the descriptor used for codes that are not in the catalog.
func Fallback(code Code) Descriptor {
	return Descriptor{
		Code:        code,
		Title:       "Review this page",
		Description: "An analysis check reported a finding that has no description yet.",
		Priority:    PriorityLow,
		Threshold:   1.0,
		Category:    CategoryNotice,
	}
}
