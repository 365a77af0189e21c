package checks

import (
	"context"

	"github.com/MikeSquared-Agency/Optimiser/internal/content"
	"github.com/MikeSquared-Agency/Optimiser/internal/suggestions"
)

const (
	targetWordCount     = 600
	repetitionMinPhrase = 3
	repetitionMaxWords  = 4
)

type ContentLengthData struct {
	Words int `json:"words"`
}

// ContentLength scores words/600, capped at 1.
type ContentLength struct{}

func (ContentLength) Run(ctx context.Context, subjectID int64, cp content.Provider) any {
	html, ok := pageHTML(ctx, cp, subjectID)
	if !ok {
		return unavailable("no html content")
	}
	return ContentLengthData{Words: content.WordCount(cp.ExtractText(html))}
}

func (ContentLength) CalculateScore(raw any) float64 {
	d, ok := raw.(ContentLengthData)
	if !ok {
		return 0
	}
	return clamp(float64(d.Words)/targetWordCount, 0, 1)
}

func (ContentLength) Suggestions(raw any) []suggestions.Code {
	if d, ok := raw.(ContentLengthData); ok && d.Words < targetWordCount {
		return codes(suggestions.ExpandContent)
	}
	return none()
}

type RepetitionData struct {
	Words    int            `json:"words"`
	Repeated map[string]int `json:"repeated,omitempty"`
}

// ContentRepetition loses 0.1 per phrase repeated too often. Longer texts
// tolerate more repeats before a phrase counts. Empty text has nothing to
// penalize and scores 1.
type ContentRepetition struct{}

func (ContentRepetition) Run(ctx context.Context, subjectID int64, cp content.Provider) any {
	html, ok := pageHTML(ctx, cp, subjectID)
	if !ok {
		return unavailable("no html content")
	}
	text := cp.ExtractText(html)
	words := content.WordCount(text)
	minOccurrences := max(repetitionMinPhrase, words/150)
	return RepetitionData{
		Words:    words,
		Repeated: cp.AnalyzeContentRepetition(text, minOccurrences, repetitionMaxWords),
	}
}

func (ContentRepetition) CalculateScore(raw any) float64 {
	d, ok := raw.(RepetitionData)
	if !ok {
		return 0
	}
	return clamp(1-0.1*float64(len(d.Repeated)), 0, 1)
}

func (ContentRepetition) Suggestions(raw any) []suggestions.Code {
	if d, ok := raw.(RepetitionData); ok && len(d.Repeated) > 0 {
		return codes(suggestions.ReduceRepetition)
	}
	return none()
}
