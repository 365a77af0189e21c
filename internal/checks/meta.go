package checks

import (
	"context"
	"unicode/utf8"

	"github.com/MikeSquared-Agency/Optimiser/internal/content"
	"github.com/MikeSquared-Agency/Optimiser/internal/suggestions"
)

const (
	metaDescriptionMin = 120
	metaDescriptionMax = 160
	titleMin           = 30
	titleMax           = 60
)

type LengthData struct {
	Text   string `json:"text"`
	Length int    `json:"length"`
}

// lengthScore is 1 inside [lo,hi], proportional below lo and decaying to 0.5
// above hi.
func lengthScore(n, lo, hi int) float64 {
	switch {
	case n == 0:
		return 0
	case n < lo:
		return float64(n) / float64(lo)
	case n > hi:
		return clamp(1-float64(n-hi)/float64(hi), 0.5, 1)
	}
	return 1
}

// MetaDescriptionLength expects 120–160 characters.
type MetaDescriptionLength struct{}

func (MetaDescriptionLength) Run(ctx context.Context, subjectID int64, cp content.Provider) any {
	desc, err := cp.GetMetaDescription(ctx, subjectID)
	if err != nil {
		return unavailable("meta description unavailable")
	}
	return LengthData{Text: desc, Length: utf8.RuneCountInString(desc)}
}

func (MetaDescriptionLength) CalculateScore(raw any) float64 {
	d, ok := raw.(LengthData)
	if !ok {
		return 0
	}
	return lengthScore(d.Length, metaDescriptionMin, metaDescriptionMax)
}

func (MetaDescriptionLength) Suggestions(raw any) []suggestions.Code {
	d, ok := raw.(LengthData)
	switch {
	case !ok:
		return none()
	case d.Length == 0:
		return codes(suggestions.AddMetaDescription)
	case d.Length < metaDescriptionMin:
		return codes(suggestions.LengthenMetaDescription)
	case d.Length > metaDescriptionMax:
		return codes(suggestions.ShortenMetaDescription)
	}
	return none()
}

// TitleLength expects 30–60 characters.
type TitleLength struct{}

func (TitleLength) Run(ctx context.Context, subjectID int64, cp content.Provider) any {
	title, err := cp.GetTitle(ctx, subjectID)
	if err != nil {
		return unavailable("title unavailable")
	}
	return LengthData{Text: title, Length: utf8.RuneCountInString(title)}
}

func (TitleLength) CalculateScore(raw any) float64 {
	d, ok := raw.(LengthData)
	if !ok {
		return 0
	}
	return lengthScore(d.Length, titleMin, titleMax)
}

func (TitleLength) Suggestions(raw any) []suggestions.Code {
	d, ok := raw.(LengthData)
	switch {
	case !ok:
		return none()
	case d.Length == 0:
		return codes(suggestions.AddTitle)
	case d.Length < titleMin || d.Length > titleMax:
		return codes(suggestions.AdjustTitleLength)
	}
	return none()
}

// KeywordInMetaDescription does not apply without a focus keyword (1).
type KeywordInMetaDescription struct{}

func (KeywordInMetaDescription) Run(ctx context.Context, subjectID int64, cp content.Provider) any {
	keyword, err := cp.GetPrimaryKeyword(ctx, subjectID)
	if err != nil {
		return unavailable("keyword unavailable")
	}
	if keyword == "" {
		return KeywordTitleData{}
	}
	desc, err := cp.GetMetaDescription(ctx, subjectID)
	if err != nil {
		return unavailable("meta description unavailable")
	}
	return KeywordTitleData{Keyword: keyword, Title: desc, Present: cp.ContainsKeyword(desc, keyword)}
}

func (KeywordInMetaDescription) CalculateScore(raw any) float64 {
	d, ok := raw.(KeywordTitleData)
	switch {
	case !ok:
		return 0
	case d.Keyword == "" || d.Present:
		return 1
	}
	return 0
}

func (KeywordInMetaDescription) Suggestions(raw any) []suggestions.Code {
	if d, ok := raw.(KeywordTitleData); ok && d.Keyword != "" && !d.Present {
		return codes(suggestions.AddKeywordToMetaDescription)
	}
	return none()
}
