// Package checks holds the concrete SEO operations and the default registry
// that wires them into contexts and factors.
package checks

import (
	"context"
	"strings"

	"github.com/MikeSquared-Agency/Optimiser/internal/content"
	"github.com/MikeSquared-Agency/Optimiser/internal/scoring"
	"github.com/MikeSquared-Agency/Optimiser/internal/suggestions"
)

func unavailable(reason string) scoring.Unavailable {
	return scoring.Unavailable{Reason: reason}
}

// pageHTML loads the subject's HTML. ok is false when the provider failed or
// the page has no content.
func pageHTML(ctx context.Context, cp content.Provider, subjectID int64) (string, bool) {
	html, err := cp.GetContent(ctx, subjectID)
	if err != nil || strings.TrimSpace(html) == "" {
		return "", false
	}
	return html, true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func codes(cs ...suggestions.Code) []suggestions.Code {
	return cs
}

func none() []suggestions.Code {
	return []suggestions.Code{}
}
