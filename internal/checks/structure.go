package checks

import (
	"context"

	"github.com/MikeSquared-Agency/Optimiser/internal/content"
	"github.com/MikeSquared-Agency/Optimiser/internal/suggestions"
)

type H1Data struct {
	Count int `json:"count"`
}

// SingleH1 wants exactly one H1.
type SingleH1 struct{}

func (SingleH1) Run(ctx context.Context, subjectID int64, cp content.Provider) any {
	html, ok := pageHTML(ctx, cp, subjectID)
	if !ok {
		return unavailable("no html content")
	}
	d := H1Data{}
	for _, h := range cp.ExtractHeadings(html) {
		if h.Level == 1 {
			d.Count++
		}
	}
	return d
}

func (SingleH1) CalculateScore(raw any) float64 {
	d, ok := raw.(H1Data)
	switch {
	case !ok || d.Count == 0:
		return 0
	case d.Count > 1:
		return 0.5
	}
	return 1
}

func (SingleH1) Suggestions(raw any) []suggestions.Code {
	d, ok := raw.(H1Data)
	switch {
	case !ok:
		return none()
	case d.Count == 0:
		return codes(suggestions.AddH1)
	case d.Count > 1:
		return codes(suggestions.UseSingleH1)
	}
	return none()
}

type HierarchyData struct {
	Headings    int `json:"headings"`
	Subheadings int `json:"subheadings"`
	Skips       int `json:"skips"`
}

// HeadingHierarchy loses 0.25 per skipped level (H2 then H4). Content with no
// subheadings scores 0.5 at best.
type HeadingHierarchy struct{}

func (HeadingHierarchy) Run(ctx context.Context, subjectID int64, cp content.Provider) any {
	html, ok := pageHTML(ctx, cp, subjectID)
	if !ok {
		return unavailable("no html content")
	}
	headings := cp.ExtractHeadings(html)
	d := HierarchyData{Headings: len(headings)}
	prev := 1
	for _, h := range headings {
		if h.Level > 1 {
			d.Subheadings++
		}
		if h.Level > prev+1 {
			d.Skips++
		}
		prev = h.Level
	}
	return d
}

func (HeadingHierarchy) CalculateScore(raw any) float64 {
	d, ok := raw.(HierarchyData)
	if !ok || d.Headings == 0 {
		return 0
	}
	score := 1 - 0.25*float64(d.Skips)
	if d.Subheadings == 0 {
		score = min(score, 0.5)
	}
	return clamp(score, 0, 1)
}

func (HeadingHierarchy) Suggestions(raw any) []suggestions.Code {
	d, ok := raw.(HierarchyData)
	if !ok {
		return none()
	}
	var out []suggestions.Code
	if d.Subheadings == 0 {
		out = append(out, suggestions.AddSubheadings)
	}
	if d.Skips > 0 {
		out = append(out, suggestions.FixHeadingHierarchy)
	}
	if out == nil {
		return none()
	}
	return out
}

type LinkData struct {
	Internal int `json:"internal"`
	External int `json:"external"`
}

func countLinks(ctx context.Context, cp content.Provider, subjectID int64) any {
	html, ok := pageHTML(ctx, cp, subjectID)
	if !ok {
		return unavailable("no html content")
	}
	permalink, _ := cp.GetPermalink(ctx, subjectID)
	d := LinkData{}
	for _, l := range cp.ExtractLinks(html, permalink) {
		if l.Internal {
			d.Internal++
		} else {
			d.External++
		}
	}
	return d
}

const internalLinkTarget = 3

// InternalLinks scores n/3 internal links, capped at 1.
type InternalLinks struct{}

func (InternalLinks) Run(ctx context.Context, subjectID int64, cp content.Provider) any {
	return countLinks(ctx, cp, subjectID)
}

func (InternalLinks) CalculateScore(raw any) float64 {
	d, ok := raw.(LinkData)
	if !ok {
		return 0
	}
	return clamp(float64(d.Internal)/internalLinkTarget, 0, 1)
}

func (InternalLinks) Suggestions(raw any) []suggestions.Code {
	if d, ok := raw.(LinkData); ok && d.Internal < internalLinkTarget {
		return codes(suggestions.AddInternalLinks)
	}
	return none()
}

// ExternalLinks is a soft signal: no outbound links scores 0.5.
type ExternalLinks struct{}

func (ExternalLinks) Run(ctx context.Context, subjectID int64, cp content.Provider) any {
	return countLinks(ctx, cp, subjectID)
}

func (ExternalLinks) CalculateScore(raw any) float64 {
	d, ok := raw.(LinkData)
	switch {
	case !ok:
		return 0
	case d.External == 0:
		return 0.5
	}
	return 1
}

func (ExternalLinks) Suggestions(raw any) []suggestions.Code {
	if d, ok := raw.(LinkData); ok && d.External == 0 {
		return codes(suggestions.AddExternalReferences)
	}
	return none()
}
