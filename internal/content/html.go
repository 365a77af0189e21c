package content

import (
	"context"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Heading is one h1–h6 element in document order.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// Link is an anchor with an href.
type Link struct {
	Href     string `json:"href"`
	Text     string `json:"text"`
	Internal bool   `json:"internal"`
	Nofollow bool   `json:"nofollow"`
}

// Image is an img element with its alt attribute.
type Image struct {
	Src    string `json:"src"`
	Alt    string `json:"alt"`
	HasAlt bool   `json:"has_alt"`
}

// Script is a script element inside <head>.
type Script struct {
	Src   string `json:"src"`
	Async bool   `json:"async"`
	Defer bool   `json:"defer"`
	Type  string `json:"type"`
}

// Blocking reports whether the script delays first render.
func (s Script) Blocking() bool {
	if s.Src == "" || s.Async || s.Defer {
		return false
	}
	switch strings.ToLower(s.Type) {
	case "", "text/javascript", "application/javascript":
		return true
	}
	return false
}

// HTMLProvider implements Provider over a Source, parsing with x/net/html.
type HTMLProvider struct {
	source Source
	docs   *DocumentCache
}

var _ Provider = (*HTMLProvider)(nil)

// NewHTMLProvider creates a provider. docs may be nil to disable memoization.
func NewHTMLProvider(source Source, docs *DocumentCache) *HTMLProvider {
	return &HTMLProvider{source: source, docs: docs}
}

func (p *HTMLProvider) page(ctx context.Context, subjectID int64) (*Page, error) {
	if p.source == nil {
		return nil, ErrNotFound
	}
	return p.source.GetPage(ctx, subjectID)
}

func (p *HTMLProvider) GetContent(ctx context.Context, subjectID int64) (string, error) {
	pg, err := p.page(ctx, subjectID)
	if err != nil {
		return "", err
	}
	return pg.HTML, nil
}

func (p *HTMLProvider) GetTitle(ctx context.Context, subjectID int64) (string, error) {
	pg, err := p.page(ctx, subjectID)
	if err != nil {
		return "", err
	}
	if t := strings.TrimSpace(pg.Title); t != "" {
		return t, nil
	}
	return p.documentTitle(pg.HTML), nil
}

func (p *HTMLProvider) GetPermalink(ctx context.Context, subjectID int64) (string, error) {
	pg, err := p.page(ctx, subjectID)
	if err != nil {
		return "", err
	}
	return pg.URL, nil
}

func (p *HTMLProvider) GetPostType(ctx context.Context, subjectID int64) (string, error) {
	pg, err := p.page(ctx, subjectID)
	if err != nil {
		return "", err
	}
	return pg.PostType, nil
}

func (p *HTMLProvider) IsRelevantPageType(ctx context.Context, subjectID int64, postType string) bool {
	pg, err := p.page(ctx, subjectID)
	if err != nil {
		return false
	}
	return IsLocalBusinessRelevant(postType, pg.Slug)
}

func (p *HTMLProvider) GetPrimaryKeyword(ctx context.Context, subjectID int64) (string, error) {
	pg, err := p.page(ctx, subjectID)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(pg.PrimaryKeyword), nil
}

func (p *HTMLProvider) GetSecondaryKeywords(ctx context.Context, subjectID int64) ([]string, error) {
	pg, err := p.page(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, k := range pg.SecondaryKeywords {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out, nil
}

func (p *HTMLProvider) GetMetaDescription(ctx context.Context, subjectID int64) (string, error) {
	pg, err := p.page(ctx, subjectID)
	if err != nil {
		return "", err
	}
	if d := strings.TrimSpace(pg.MetaDescription); d != "" {
		return d, nil
	}
	return p.metaContent(pg.HTML, "description"), nil
}

func (p *HTMLProvider) ExtractText(src string) string {
	var b strings.Builder
	walk(p.docs.parse(src), func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript, atom.Head, atom.Template:
				return false
			}
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				if b.Len() > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(t)
			}
		}
		return true
	})
	return b.String()
}

func (p *HTMLProvider) ExtractHeadings(src string) []Heading {
	var out []Heading
	walk(p.docs.parse(src), func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		if level := headingLevel(n.DataAtom); level > 0 {
			out = append(out, Heading{Level: level, Text: textOf(n)})
			return false
		}
		return true
	})
	return out
}

func (p *HTMLProvider) ExtractLinks(src, baseURL string) []Link {
	base, _ := url.Parse(baseURL)
	var out []Link
	walk(p.docs.parse(src), func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.DataAtom != atom.A {
			return true
		}
		href := strings.TrimSpace(attr(n, "href"))
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "mailto:") ||
			strings.HasPrefix(href, "tel:") || strings.HasPrefix(href, "javascript:") {
			return true
		}
		out = append(out, Link{
			Href:     href,
			Text:     textOf(n),
			Internal: isInternal(base, href),
			Nofollow: hasToken(attr(n, "rel"), "nofollow"),
		})
		return true
	})
	return out
}

func (p *HTMLProvider) ExtractImagesWithAlt(src string) []Image {
	var out []Image
	walk(p.docs.parse(src), func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == atom.Img {
			alt, hasAlt := lookupAttr(n, "alt")
			out = append(out, Image{Src: attr(n, "src"), Alt: strings.TrimSpace(alt), HasAlt: hasAlt})
		}
		return true
	})
	return out
}

func (p *HTMLProvider) ExtractCanonical(src string) string {
	var canonical string
	walk(p.docs.parse(src), func(n *html.Node) bool {
		if canonical != "" {
			return false
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Link && hasToken(attr(n, "rel"), "canonical") {
			canonical = strings.TrimSpace(attr(n, "href"))
		}
		return true
	})
	return canonical
}

func (p *HTMLProvider) ExtractRobotsMeta(src string) string {
	return strings.ToLower(p.metaContent(src, "robots"))
}

func (p *HTMLProvider) ExtractHeadScripts(src string) []Script {
	var out []Script
	walk(p.docs.parse(src), func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		if n.DataAtom == atom.Body {
			return false
		}
		if n.DataAtom == atom.Script && inHead(n) {
			_, async := lookupAttr(n, "async")
			_, deferred := lookupAttr(n, "defer")
			out = append(out, Script{Src: attr(n, "src"), Async: async, Defer: deferred, Type: attr(n, "type")})
		}
		return true
	})
	return out
}

func (p *HTMLProvider) documentTitle(src string) string {
	var title string
	walk(p.docs.parse(src), func(n *html.Node) bool {
		if title != "" {
			return false
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Title {
			title = textOf(n)
			return false
		}
		return true
	})
	return title
}

func (p *HTMLProvider) metaContent(src, name string) string {
	var content string
	walk(p.docs.parse(src), func(n *html.Node) bool {
		if content != "" {
			return false
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Meta && strings.EqualFold(attr(n, "name"), name) {
			content = strings.TrimSpace(attr(n, "content"))
		}
		return true
	})
	return content
}

// walk visits n depth-first; fn returning false skips the node's children.
func walk(n *html.Node, fn func(*html.Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func textOf(n *html.Node) string {
	var parts []string
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			if t := strings.TrimSpace(c.Data); t != "" {
				parts = append(parts, t)
			}
		}
		return true
	})
	return strings.Join(parts, " ")
}

func attr(n *html.Node, key string) string {
	v, _ := lookupAttr(n, key)
	return v
}

func lookupAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

func hasToken(list, token string) bool {
	for _, f := range strings.FieldsFunc(strings.ToLower(list), func(r rune) bool { return r == ' ' || r == ',' }) {
		if f == token {
			return true
		}
	}
	return false
}

func headingLevel(a atom.Atom) int {
	switch a {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	case atom.H4:
		return 4
	case atom.H5:
		return 5
	case atom.H6:
		return 6
	}
	return 0
}

func inHead(n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.DataAtom == atom.Head {
			return true
		}
	}
	return false
}

func isInternal(base *url.URL, href string) bool {
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	if u.Host == "" {
		return u.Scheme == "" || u.Scheme == "http" || u.Scheme == "https"
	}
	if base == nil || base.Host == "" {
		return false
	}
	return strings.EqualFold(strings.TrimPrefix(u.Hostname(), "www."), strings.TrimPrefix(base.Hostname(), "www."))
}
