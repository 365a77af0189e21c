package checks

import (
	"context"

	"github.com/MikeSquared-Agency/Optimiser/internal/content"
	"github.com/MikeSquared-Agency/Optimiser/internal/suggestions"
)

const altQualityTarget = 0.8

type AltPresenceData struct {
	Images  int      `json:"images"`
	WithAlt int      `json:"with_alt"`
	Missing []string `json:"missing,omitempty"`
}

// AltTextPresence scores the share of images carrying an alt attribute. A
// page without images has nothing to penalize and scores 1.
type AltTextPresence struct{}

func (AltTextPresence) Run(ctx context.Context, subjectID int64, cp content.Provider) any {
	html, ok := pageHTML(ctx, cp, subjectID)
	if !ok {
		return unavailable("no html content")
	}
	images := cp.ExtractImagesWithAlt(html)
	d := AltPresenceData{Images: len(images)}
	for _, img := range images {
		if img.HasAlt {
			d.WithAlt++
		} else {
			d.Missing = append(d.Missing, img.Src)
		}
	}
	return d
}

func (AltTextPresence) CalculateScore(raw any) float64 {
	d, ok := raw.(AltPresenceData)
	switch {
	case !ok:
		return 0
	case d.Images == 0:
		return 1
	}
	return float64(d.WithAlt) / float64(d.Images)
}

func (AltTextPresence) Suggestions(raw any) []suggestions.Code {
	if d, ok := raw.(AltPresenceData); ok && d.WithAlt < d.Images {
		return codes(suggestions.AddMissingAltText)
	}
	return none()
}

type AltQualityData struct {
	Images int       `json:"images"`
	Scores []float64 `json:"scores,omitempty"`
	Mean   float64   `json:"mean"`
}

// AltTextQuality averages the quality of non-empty alt texts. Zero images
// scores 1; images with no alt text at all score 0.
type AltTextQuality struct{}

func (AltTextQuality) Run(ctx context.Context, subjectID int64, cp content.Provider) any {
	html, ok := pageHTML(ctx, cp, subjectID)
	if !ok {
		return unavailable("no html content")
	}
	images := cp.ExtractImagesWithAlt(html)
	d := AltQualityData{Images: len(images)}
	var sum float64
	for _, img := range images {
		if img.Alt == "" {
			continue
		}
		q := cp.EvaluateAltTextQuality(img.Alt)
		d.Scores = append(d.Scores, q)
		sum += q
	}
	if len(d.Scores) > 0 {
		d.Mean = sum / float64(len(d.Scores))
	}
	return d
}

func (AltTextQuality) CalculateScore(raw any) float64 {
	d, ok := raw.(AltQualityData)
	switch {
	case !ok:
		return 0
	case d.Images == 0:
		return 1
	case len(d.Scores) == 0:
		return 0
	}
	return clamp(d.Mean, 0, 1)
}

func (AltTextQuality) Suggestions(raw any) []suggestions.Code {
	d, ok := raw.(AltQualityData)
	switch {
	case !ok || d.Images == 0:
		return none()
	case len(d.Scores) == 0:
		return codes(suggestions.AddMissingAltText)
	case d.Mean < altQualityTarget:
		return codes(suggestions.ImproveAltText)
	}
	return none()
}
