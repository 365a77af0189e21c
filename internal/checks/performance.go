package checks

import (
	"context"

	"github.com/MikeSquared-Agency/Optimiser/internal/content"
	"github.com/MikeSquared-Agency/Optimiser/internal/suggestions"
)

const (
	htmlSizeIdeal = 100 * 1024
	htmlSizeMax   = 500 * 1024
)

type HTMLSizeData struct {
	Bytes int `json:"bytes"`
}

// HTMLSize scores 1 up to 100KB of HTML, falling linearly to 0 at 500KB.
type HTMLSize struct{}

func (HTMLSize) Run(ctx context.Context, subjectID int64, cp content.Provider) any {
	html, ok := pageHTML(ctx, cp, subjectID)
	if !ok {
		return unavailable("no html content")
	}
	return HTMLSizeData{Bytes: len(html)}
}

func (HTMLSize) CalculateScore(raw any) float64 {
	d, ok := raw.(HTMLSizeData)
	if !ok {
		return 0
	}
	if d.Bytes <= htmlSizeIdeal {
		return 1
	}
	return clamp(1-float64(d.Bytes-htmlSizeIdeal)/float64(htmlSizeMax-htmlSizeIdeal), 0, 1)
}

func (h HTMLSize) Suggestions(raw any) []suggestions.Code {
	if _, ok := raw.(HTMLSizeData); ok && h.CalculateScore(raw) < 0.7 {
		return codes(suggestions.ReducePageWeight)
	}
	return none()
}

type BlockingScriptsData struct {
	Total    int      `json:"total"`
	Blocking []string `json:"blocking,omitempty"`
}

// RenderBlockingScripts loses 0.2 per external script in <head> that is
// neither async nor deferred.
type RenderBlockingScripts struct{}

func (RenderBlockingScripts) Run(ctx context.Context, subjectID int64, cp content.Provider) any {
	html, ok := pageHTML(ctx, cp, subjectID)
	if !ok {
		return unavailable("no html content")
	}
	scripts := cp.ExtractHeadScripts(html)
	d := BlockingScriptsData{Total: len(scripts)}
	for _, s := range scripts {
		if s.Blocking() {
			d.Blocking = append(d.Blocking, s.Src)
		}
	}
	return d
}

func (RenderBlockingScripts) CalculateScore(raw any) float64 {
	d, ok := raw.(BlockingScriptsData)
	if !ok {
		return 0
	}
	return clamp(1-0.2*float64(len(d.Blocking)), 0, 1)
}

func (RenderBlockingScripts) Suggestions(raw any) []suggestions.Code {
	if d, ok := raw.(BlockingScriptsData); ok && len(d.Blocking) > 0 {
		return codes(suggestions.DeferBlockingScripts)
	}
	return none()
}
