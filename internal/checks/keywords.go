package checks

import (
	"context"

	"github.com/MikeSquared-Agency/Optimiser/internal/content"
	"github.com/MikeSquared-Agency/Optimiser/internal/suggestions"
)

const (
	densityLow  = 0.5
	densityHigh = 2.5
)

type KeywordTitleData struct {
	Keyword string `json:"keyword"`
	Title   string `json:"title"`
	Present bool   `json:"present"`
}

// PrimaryKeywordInTitle expects the focus keyword in the title. Without a
// focus keyword it scores 0 and asks for one.
type PrimaryKeywordInTitle struct{}

func (PrimaryKeywordInTitle) Run(ctx context.Context, subjectID int64, cp content.Provider) any {
	keyword, err := cp.GetPrimaryKeyword(ctx, subjectID)
	if err != nil {
		return unavailable("keyword unavailable")
	}
	if keyword == "" {
		return KeywordTitleData{}
	}
	title, err := cp.GetTitle(ctx, subjectID)
	if err != nil {
		return unavailable("title unavailable")
	}
	return KeywordTitleData{Keyword: keyword, Title: title, Present: cp.ContainsKeyword(title, keyword)}
}

func (PrimaryKeywordInTitle) CalculateScore(raw any) float64 {
	if d, ok := raw.(KeywordTitleData); ok && d.Present {
		return 1
	}
	return 0
}

func (PrimaryKeywordInTitle) Suggestions(raw any) []suggestions.Code {
	d, ok := raw.(KeywordTitleData)
	switch {
	case !ok:
		return none()
	case d.Keyword == "":
		return codes(suggestions.SetPrimaryKeyword)
	case !d.Present:
		return codes(suggestions.AddKeywordToTitle)
	}
	return none()
}

type KeywordDensityData struct {
	Keyword string  `json:"keyword"`
	Words   int     `json:"words"`
	Density float64 `json:"density"`
}

// KeywordDensity scores 1 inside 0.5%–2.5%, scaling down below and above.
// Without a focus keyword the check is unavailable.
type KeywordDensity struct{}

func (KeywordDensity) Run(ctx context.Context, subjectID int64, cp content.Provider) any {
	keyword, err := cp.GetPrimaryKeyword(ctx, subjectID)
	if err != nil || keyword == "" {
		return unavailable("no primary keyword")
	}
	html, ok := pageHTML(ctx, cp, subjectID)
	if !ok {
		return unavailable("no html content")
	}
	text := cp.ExtractText(html)
	return KeywordDensityData{
		Keyword: keyword,
		Words:   content.WordCount(text),
		Density: cp.KeywordDensity(text, keyword),
	}
}

func (KeywordDensity) CalculateScore(raw any) float64 {
	d, ok := raw.(KeywordDensityData)
	if !ok || d.Words == 0 {
		return 0
	}
	switch {
	case d.Density < densityLow:
		return clamp(d.Density/densityLow, 0, 1)
	case d.Density > densityHigh:
		return clamp(1-(d.Density-densityHigh)/densityHigh, 0, 1)
	}
	return 1
}

func (KeywordDensity) Suggestions(raw any) []suggestions.Code {
	d, ok := raw.(KeywordDensityData)
	switch {
	case !ok:
		return none()
	case d.Density < densityLow:
		return codes(suggestions.IncreaseKeywordUsage)
	case d.Density > densityHigh:
		return codes(suggestions.ReduceKeywordStuffing)
	}
	return none()
}

type SecondaryCoverageData struct {
	Keywords []string `json:"keywords"`
	Missing  []string `json:"missing,omitempty"`
}

// SecondaryKeywordCoverage scores the share of secondary keywords that appear
// in the text. With no secondary keywords the check does not apply (1).
type SecondaryKeywordCoverage struct{}

func (SecondaryKeywordCoverage) Run(ctx context.Context, subjectID int64, cp content.Provider) any {
	keywords, err := cp.GetSecondaryKeywords(ctx, subjectID)
	if err != nil {
		return unavailable("keywords unavailable")
	}
	if len(keywords) == 0 {
		return SecondaryCoverageData{}
	}
	html, ok := pageHTML(ctx, cp, subjectID)
	if !ok {
		return unavailable("no html content")
	}
	text := cp.ExtractText(html)
	d := SecondaryCoverageData{Keywords: keywords}
	for _, k := range keywords {
		if !cp.ContainsKeyword(text, k) {
			d.Missing = append(d.Missing, k)
		}
	}
	return d
}

func (SecondaryKeywordCoverage) CalculateScore(raw any) float64 {
	d, ok := raw.(SecondaryCoverageData)
	if !ok {
		return 0
	}
	if len(d.Keywords) == 0 {
		return 1
	}
	return clamp(float64(len(d.Keywords)-len(d.Missing))/float64(len(d.Keywords)), 0, 1)
}

func (SecondaryKeywordCoverage) Suggestions(raw any) []suggestions.Code {
	if d, ok := raw.(SecondaryCoverageData); ok && len(d.Missing) > 0 {
		return codes(suggestions.CoverSecondaryKeywords)
	}
	return none()
}
