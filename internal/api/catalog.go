package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/Optimiser/internal/scoring"
	"github.com/MikeSquared-Agency/Optimiser/internal/suggestions"
	"github.com/MikeSquared-Agency/Optimiser/internal/weights"
)

// CatalogHandler serves the scoring hierarchy and the suggestion catalog.
type CatalogHandler struct {
	metadata scoring.Metadata
	catalog  *suggestions.Catalog
}

func NewCatalogHandler(reg *scoring.Registry, w *weights.Registry, catalog *suggestions.Catalog) *CatalogHandler {
	if catalog == nil {
		catalog = suggestions.Default()
	}
	return &CatalogHandler{metadata: scoring.Describe(reg, w, catalog), catalog: catalog}
}

func (h *CatalogHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.metadata)
}

func (h *CatalogHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	all := h.catalog.All()
	if p := r.URL.Query().Get("priority"); p != "" {
		filtered := make([]suggestions.Descriptor, 0, len(all))
		for _, d := range all {
			if string(d.Priority) == p {
				filtered = append(filtered, d)
			}
		}
		all = filtered
	}
	writeJSON(w, http.StatusOK, all)
}

func (h *CatalogHandler) Suggestion(w http.ResponseWriter, r *http.Request) {
	d, ok := h.catalog.Get(suggestions.Code(chi.URLParam(r, "code")))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown suggestion code"})
		return
	}
	writeJSON(w, http.StatusOK, d)
}
