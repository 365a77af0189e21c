package checks

import (
	"context"

	"github.com/MikeSquared-Agency/Optimiser/internal/content"
	"github.com/MikeSquared-Agency/Optimiser/internal/scoring"
	"github.com/MikeSquared-Agency/Optimiser/internal/suggestions"
)

// SchemaMarkupData is the outcome of validating every JSON-LD block.
type SchemaMarkupData struct {
	Found  int      `json:"found"`
	Passed int      `json:"passed"`
	Errors []string `json:"errors,omitempty"`
}

// SchemaMarkupValidation scores the share of valid JSON-LD entities. No
// HTML is unavailable (0, no suggestions); no schema at all scores 0.
type SchemaMarkupValidation struct{}

func (SchemaMarkupValidation) Run(ctx context.Context, subjectID int64, cp content.Provider) any {
	html, ok := pageHTML(ctx, cp, subjectID)
	if !ok {
		return unavailable("no html content")
	}
	schemas := cp.ExtractSchemaData(html)
	if len(schemas) == 0 {
		return SchemaMarkupData{}
	}
	res := cp.ValidateSchemas(schemas)
	return SchemaMarkupData{Found: len(schemas), Passed: res.Passed, Errors: res.Errors}
}

func (SchemaMarkupValidation) CalculateScore(raw any) float64 {
	d, ok := raw.(SchemaMarkupData)
	if !ok || d.Found == 0 {
		return 0
	}
	return clamp(float64(d.Passed)/float64(d.Found), 0, 1)
}

func (SchemaMarkupValidation) Suggestions(raw any) []suggestions.Code {
	d, ok := raw.(SchemaMarkupData)
	switch {
	case !ok:
		return none()
	case d.Found == 0:
		return codes(suggestions.AddSchemaMarkup)
	case d.Passed < d.Found:
		return codes(suggestions.FixSchemaErrors)
	}
	return none()
}

// LocalBusinessData records whether the page needs LocalBusiness markup and
// how complete it is.
type LocalBusinessData struct {
	Relevant           bool     `json:"relevant"`
	Found              bool     `json:"found"`
	Valid              bool     `json:"valid"`
	Errors             []string `json:"errors,omitempty"`
	MissingRecommended []string `json:"missing_recommended,omitempty"`
}

// LocalBusinessSchema only applies to home, contact, about and location
// pages; everywhere else it scores a neutral 1.
type LocalBusinessSchema struct{}

func (LocalBusinessSchema) Run(ctx context.Context, subjectID int64, cp content.Provider) any {
	postType, err := cp.GetPostType(ctx, subjectID)
	if err != nil {
		return unavailable("post type unavailable")
	}
	if !cp.IsRelevantPageType(ctx, subjectID, postType) {
		return LocalBusinessData{Relevant: false}
	}
	html, ok := pageHTML(ctx, cp, subjectID)
	if !ok {
		return unavailable("no html content")
	}
	lb := cp.FindLocalBusinessSchema(cp.ExtractSchemaData(html))
	if lb == nil {
		return LocalBusinessData{Relevant: true}
	}
	res := cp.ValidateLocalBusinessSchema(*lb)
	return LocalBusinessData{
		Relevant:           true,
		Found:              true,
		Valid:              res.Valid,
		Errors:             res.Errors,
		MissingRecommended: res.MissingRecommended,
	}
}

func (LocalBusinessSchema) CalculateScore(raw any) float64 {
	d, ok := raw.(LocalBusinessData)
	switch {
	case !ok:
		return 0
	case !d.Relevant:
		return 1
	case !d.Found:
		return 0
	case !d.Valid:
		return 0.4
	}
	return clamp(1-0.1*float64(len(d.MissingRecommended)), 0.5, 1)
}

func (LocalBusinessSchema) Suggestions(raw any) []suggestions.Code {
	d, ok := raw.(LocalBusinessData)
	switch {
	case !ok || !d.Relevant:
		return none()
	case !d.Found:
		return codes(suggestions.AddLocalBusinessSchema)
	case !d.Valid || len(d.MissingRecommended) > 0:
		return codes(suggestions.CompleteLocalBusinessSchema)
	}
	return none()
}

var _ scoring.Operation = SchemaMarkupValidation{}
var _ scoring.Operation = LocalBusinessSchema{}
