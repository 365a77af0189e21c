package checks

import (
	"context"
	"net/url"
	"strings"

	"github.com/MikeSquared-Agency/Optimiser/internal/content"
	"github.com/MikeSquared-Agency/Optimiser/internal/suggestions"
)

type CanonicalData struct {
	Canonical       string `json:"canonical"`
	Permalink       string `json:"permalink"`
	SelfReferencing bool   `json:"self_referencing"`
}

// CanonicalTag expects a canonical link pointing at the page itself.
type CanonicalTag struct{}

func (CanonicalTag) Run(ctx context.Context, subjectID int64, cp content.Provider) any {
	html, ok := pageHTML(ctx, cp, subjectID)
	if !ok {
		return unavailable("no html content")
	}
	canonical := cp.ExtractCanonical(html)
	permalink, _ := cp.GetPermalink(ctx, subjectID)
	d := CanonicalData{Canonical: canonical, Permalink: permalink}
	if canonical != "" {
		// without a permalink there is nothing to compare against
		d.SelfReferencing = permalink == "" || sameURL(canonical, permalink)
	}
	return d
}

func (CanonicalTag) CalculateScore(raw any) float64 {
	d, ok := raw.(CanonicalData)
	switch {
	case !ok || d.Canonical == "":
		return 0
	case !d.SelfReferencing:
		return 0.5
	}
	return 1
}

func (CanonicalTag) Suggestions(raw any) []suggestions.Code {
	d, ok := raw.(CanonicalData)
	switch {
	case !ok:
		return none()
	case d.Canonical == "":
		return codes(suggestions.AddCanonicalTag)
	case !d.SelfReferencing:
		return codes(suggestions.ReviewCanonicalTarget)
	}
	return none()
}

// sameURL compares host and path, ignoring scheme, www., case of the host and
// a trailing slash.
func sameURL(a, b string) bool {
	ua, errA := url.Parse(strings.TrimSpace(a))
	ub, errB := url.Parse(strings.TrimSpace(b))
	if errA != nil || errB != nil {
		return strings.TrimSpace(a) == strings.TrimSpace(b)
	}
	hostA := strings.TrimPrefix(strings.ToLower(ua.Hostname()), "www.")
	hostB := strings.TrimPrefix(strings.ToLower(ub.Hostname()), "www.")
	if hostA != "" && hostB != "" && hostA != hostB {
		return false
	}
	return strings.TrimSuffix(ua.Path, "/") == strings.TrimSuffix(ub.Path, "/")
}

type RobotsData struct {
	Directives string `json:"directives"`
	Noindex    bool   `json:"noindex"`
	Nofollow   bool   `json:"nofollow"`
}

// RobotsMeta penalizes noindex hard and nofollow softly. A missing robots
// meta means index,follow and scores 1.
type RobotsMeta struct{}

func (RobotsMeta) Run(ctx context.Context, subjectID int64, cp content.Provider) any {
	html, ok := pageHTML(ctx, cp, subjectID)
	if !ok {
		return unavailable("no html content")
	}
	directives := cp.ExtractRobotsMeta(html)
	d := RobotsData{Directives: directives}
	for _, part := range strings.FieldsFunc(directives, func(r rune) bool { return r == ',' || r == ' ' }) {
		switch part {
		case "noindex", "none":
			d.Noindex = true
			if part == "none" {
				d.Nofollow = true
			}
		case "nofollow":
			d.Nofollow = true
		}
	}
	return d
}

func (RobotsMeta) CalculateScore(raw any) float64 {
	d, ok := raw.(RobotsData)
	switch {
	case !ok || d.Noindex:
		return 0
	case d.Nofollow:
		return 0.5
	}
	return 1
}

func (RobotsMeta) Suggestions(raw any) []suggestions.Code {
	d, ok := raw.(RobotsData)
	if !ok {
		return none()
	}
	var out []suggestions.Code
	if d.Noindex {
		out = append(out, suggestions.RemoveNoindex)
	}
	if d.Nofollow {
		out = append(out, suggestions.ReviewNofollow)
	}
	if out == nil {
		return none()
	}
	return out
}
