package scoring

import (
	"github.com/MikeSquared-Agency/Optimiser/internal/suggestions"
	"github.com/MikeSquared-Agency/Optimiser/internal/weights"
)

type SuggestionMeta struct {
	Code        suggestions.Code `json:"code"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
}

type OperationMeta struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Weight      float64          `json:"weight"`
	Suggestions []SuggestionMeta `json:"suggestions"`
}

type FactorMeta struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Weight      float64         `json:"weight"`
	Operations  []OperationMeta `json:"operations"`
}

type ContextMeta struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Weight      float64      `json:"weight"`
	Factors     []FactorMeta `json:"factors"`
}

// Metadata documents the registry for the catalog endpoint and CLI.
type Metadata struct {
	CatalogVersion int           `json:"catalog_version"`
	Contexts       []ContextMeta `json:"contexts"`
}

// Describe projects the static registries. It reads each operation's declared
// codes and never instantiates an operation.
func Describe(reg *Registry, w *weights.Registry, catalog *suggestions.Catalog) Metadata {
	if catalog == nil {
		catalog = suggestions.Default()
	}
	md := Metadata{CatalogVersion: suggestions.CatalogVersion, Contexts: []ContextMeta{}}
	if reg == nil {
		return md
	}
	for _, c := range reg.Contexts {
		cm := ContextMeta{
			ID:          c.TypeTag,
			Name:        c.Name,
			Description: c.Description,
			Weight:      w.Get(weights.NamespaceContext, c.Key()),
			Factors:     []FactorMeta{},
		}
		for _, f := range c.Factors {
			fm := FactorMeta{
				ID:          f.TypeTag,
				Name:        f.Name,
				Description: f.Description,
				Weight:      w.Get(weights.NamespaceFactor, f.Key()),
				Operations:  []OperationMeta{},
			}
			for _, op := range f.Operations {
				om := OperationMeta{
					ID:          op.TypeTag,
					Name:        op.Name,
					Description: op.Description,
					Weight:      w.Get(weights.NamespaceOperation, op.Key()),
					Suggestions: []SuggestionMeta{},
				}
				for _, code := range op.Suggestions {
					d := catalog.Resolve(code)
					om.Suggestions = append(om.Suggestions, SuggestionMeta{Code: d.Code, Title: d.Title, Description: d.Description})
				}
				fm.Operations = append(fm.Operations, om)
			}
			cm.Factors = append(cm.Factors, fm)
		}
		md.Contexts = append(md.Contexts, cm)
	}
	return md
}
