package content

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <title>Fresh Sourdough Bread in Leeds</title>
  <meta name="description" content="Order fresh sourdough bread baked daily in Leeds.">
  <meta name="robots" content="INDEX, NoFollow">
  <link rel="canonical" href="https://bakery.example/sourdough/">
  <script src="/js/analytics.js"></script>
  <script src="/js/app.js" defer></script>
  <script type="application/ld+json">
    {"@context": "https://schema.org", "@graph": [
      {"@type": "Bakery", "name": "Crumb", "address": "1 Mill Lane", "telephone": "0113 000"},
      {"@type": "WebSite", "url": "https://bakery.example/"}
    ]}
  </script>
</head>
<body>
  <h1>Sourdough bread</h1>
  <p>Our sourdough bread is baked daily. Try our sourdough bread today.</p>
  <h3>Ingredients</h3>
  <img src="/img/loaf.jpg" alt="Crusty sourdough loaf on a board">
  <img src="/img/IMG_2041.jpg" alt="IMG_2041.jpg">
  <img src="/img/spacer.gif">
  <a href="/menu/">Menu</a>
  <a href="https://www.bakery.example/about">About</a>
  <a href="https://flour.example/" rel="nofollow noopener">Our miller</a>
  <a href="#top">Top</a>
  <a href="mailto:hi@bakery.example">Email</a>
  <script>var notText = "sourdough";</script>
</body>
</html>`

func newTestProvider(t *testing.T, pages ...*Page) *HTMLProvider {
	t.Helper()
	return NewHTMLProvider(NewStaticSource(pages...), NewDocumentCache(8, time.Minute))
}

func TestAccessors(t *testing.T) {
	p := newTestProvider(t, &Page{
		ID: 7, PostType: "page", Slug: "contact", URL: "https://bakery.example/contact/",
		HTML: samplePage, PrimaryKeyword: " sourdough bread ", SecondaryKeywords: []string{"leeds", " ", "rye"},
	})
	ctx := context.Background()

	title, err := p.GetTitle(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Fresh Sourdough Bread in Leeds", title)

	desc, err := p.GetMetaDescription(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Order fresh sourdough bread baked daily in Leeds.", desc)

	kw, err := p.GetPrimaryKeyword(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "sourdough bread", kw)

	secondary, err := p.GetSecondaryKeywords(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"leeds", "rye"}, secondary)

	assert.True(t, p.IsRelevantPageType(ctx, 7, "page"))
	assert.False(t, p.IsRelevantPageType(ctx, 7, "post"))

	_, err = p.GetContent(ctx, 99)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestExtraction(t *testing.T) {
	p := newTestProvider(t)

	text := p.ExtractText(samplePage)
	assert.Contains(t, text, "Our sourdough bread is baked daily.")
	assert.NotContains(t, text, "notText")
	assert.NotContains(t, text, "Fresh Sourdough Bread in Leeds")

	assert.Equal(t, []Heading{{Level: 1, Text: "Sourdough bread"}, {Level: 3, Text: "Ingredients"}}, p.ExtractHeadings(samplePage))

	links := p.ExtractLinks(samplePage, "https://bakery.example/sourdough/")
	require.Len(t, links, 3)
	assert.True(t, links[0].Internal)
	assert.True(t, links[1].Internal, "www prefix should not make a link external")
	assert.False(t, links[2].Internal)
	assert.True(t, links[2].Nofollow)

	images := p.ExtractImagesWithAlt(samplePage)
	require.Len(t, images, 3)
	assert.True(t, images[0].HasAlt)
	assert.False(t, images[2].HasAlt)

	assert.Equal(t, "https://bakery.example/sourdough/", p.ExtractCanonical(samplePage))
	assert.Equal(t, "index, nofollow", p.ExtractRobotsMeta(samplePage))

	scripts := p.ExtractHeadScripts(samplePage)
	blocking := 0
	for _, s := range scripts {
		if s.Blocking() {
			blocking++
		}
	}
	assert.Equal(t, 1, blocking)
}

func TestSchemaExtractionAndValidation(t *testing.T) {
	p := newTestProvider(t)

	schemas := p.ExtractSchemaData(samplePage)
	require.Len(t, schemas, 2)

	res := p.ValidateSchemas(schemas)
	assert.True(t, res.Valid, "errors: %v", res.Errors)
	assert.Equal(t, 2, res.Passed)

	lb := p.FindLocalBusinessSchema(schemas)
	require.NotNil(t, lb)
	lbRes := p.ValidateLocalBusinessSchema(*lb)
	assert.True(t, lbRes.Valid)
	assert.Contains(t, lbRes.MissingRecommended, "geo")
	assert.NotContains(t, lbRes.MissingRecommended, "telephone")
}

func TestSchemaValidationErrors(t *testing.T) {
	p := newTestProvider(t)
	page := `<script type="application/ld+json">{"@type": "Article"}</script>
<script type="application/ld+json">{not json</script>
<script type="application/ld+json">{"name": "untyped"}</script>`

	schemas := p.ExtractSchemaData(page)
	require.Len(t, schemas, 3)
	assert.NotEmpty(t, schemas[1].ParseError)

	res := p.ValidateSchemas(schemas)
	assert.False(t, res.Valid)
	assert.Equal(t, 0, res.Passed)
	assert.GreaterOrEqual(t, len(res.Errors), 3)

	assert.Nil(t, p.FindLocalBusinessSchema(schemas))

	res = p.ValidateLocalBusinessSchema(Schema{Data: map[string]any{"@type": "Dentist", "name": "Smile"}})
	assert.False(t, res.Valid, "address is required")
}

func TestKeywordHelpers(t *testing.T) {
	p := newTestProvider(t)
	text := "Sourdough bread is simple. Good sourdough bread needs time."

	assert.True(t, p.ContainsKeyword(text, "SOURDOUGH Bread"))
	assert.False(t, p.ContainsKeyword(text, "rye bread"))
	assert.False(t, p.ContainsKeyword(text, "  "))

	// 2 occurrences * 2 words / 9 words
	assert.InDelta(t, 44.44, p.KeywordDensity(text, "sourdough bread"), 0.01)
	assert.Zero(t, p.KeywordDensity("", "bread"))
	assert.Zero(t, p.KeywordDensity(text, ""))
}

func TestAnalyzeContentRepetition(t *testing.T) {
	p := newTestProvider(t)
	text := "best plumber in leeds. call the best plumber in leeds. the best plumber in leeds is here."

	got := p.AnalyzeContentRepetition(text, 3, 4)
	assert.Equal(t, map[string]int{"best plumber in leeds": 3}, got)

	assert.Empty(t, p.AnalyzeContentRepetition("nothing repeats here at all", 2, 4))
	assert.Empty(t, p.AnalyzeContentRepetition(text, 3, 1))
}

func TestEvaluateAltTextQuality(t *testing.T) {
	p := newTestProvider(t)
	cases := []struct {
		alt  string
		want float64
	}{
		{"", 0},
		{"IMG_2041.jpg", 0.1},
		{"DSC_0042", 0.1},
		{"image", 0.2},
		{"loaf", 0.4},
		{"sourdough loaf", 0.7},
		{"Crusty sourdough loaf on a board", 1.0},
		{"a very long alt text that keeps going and going and going well past any reasonable length for a description", 0.6},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, p.EvaluateAltTextQuality(tc.alt), tc.alt)
	}
}

func TestIsLocalBusinessRelevant(t *testing.T) {
	assert.True(t, IsLocalBusinessRelevant("page", ""))
	assert.True(t, IsLocalBusinessRelevant("page", "/Kontakt/"))
	assert.True(t, IsLocalBusinessRelevant("page", "company/about-us"))
	assert.True(t, IsLocalBusinessRelevant("front_page", "welcome"))
	assert.False(t, IsLocalBusinessRelevant("page", "pricing"))
	assert.False(t, IsLocalBusinessRelevant("post", "contact"))
}

func TestDocumentCache(t *testing.T) {
	cache := NewDocumentCache(2, time.Minute)
	p := NewHTMLProvider(nil, cache)

	p.ExtractText("<p>a</p>")
	p.ExtractHeadings("<p>a</p>")
	assert.Equal(t, 1, cache.Len())

	p.ExtractText("<p>b</p>")
	p.ExtractText("<p>c</p>")
	assert.Equal(t, 2, cache.Len())

	cache.Purge()
	assert.Zero(t, cache.Len())

	var nilCache *DocumentCache
	assert.Zero(t, nilCache.Len())
	assert.Equal(t, "x", NewHTMLProvider(nil, nil).ExtractText("<p>x</p>"))
	assert.Equal(t, Hash("same"), Hash("same"))
	assert.NotEqual(t, Hash("same"), Hash("other"))
}

func TestSnapshotSource(t *testing.T) {
	s := Snapshot{Page: &Page{ID: 3}}
	pg, err := s.GetPage(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), pg.ID)

	_, err = s.GetPage(context.Background(), 4)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPageFingerprint(t *testing.T) {
	base := func() *Page {
		return &Page{ID: 3, PostType: "page", Slug: "sourdough", HTML: samplePage, PrimaryKeyword: "sourdough bread", SecondaryKeywords: []string{"leeds bakery"}}
	}
	fp := base().Fingerprint()
	assert.Len(t, fp, 16)
	assert.Equal(t, fp, base().Fingerprint())

	// the modification time alone does not change what is scored
	touched := base()
	touched.ModifiedAt = time.Now()
	assert.Equal(t, fp, touched.Fingerprint())

	for name, mutate := range map[string]func(*Page){
		"html":      func(p *Page) { p.HTML += "<p>new</p>" },
		"keyword":   func(p *Page) { p.PrimaryKeyword = "rye bread" },
		"secondary": func(p *Page) { p.SecondaryKeywords = nil },
		"slug":      func(p *Page) { p.Slug = "contact" },
		"meta":      func(p *Page) { p.MetaDescription = "Fresh bread" },
	} {
		p := base()
		mutate(p)
		assert.NotEqual(t, fp, p.Fingerprint(), name)
	}
}
