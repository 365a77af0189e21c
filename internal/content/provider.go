// Package content supplies parsed page content and content heuristics to the
// analysis operations.
package content

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// ErrNotFound is returned by a Source when the subject does not exist.
var ErrNotFound = errors.New("content not found")

// Page is everything the analysis knows about one subject.
type Page struct {
	ID                int64     `json:"id"`
	PostType          string    `json:"post_type"`
	Slug              string    `json:"slug"`
	URL               string    `json:"url"`
	Title             string    `json:"title"`
	HTML              string    `json:"html"`
	MetaDescription   string    `json:"meta_description"`
	PrimaryKeyword    string    `json:"primary_keyword"`
	SecondaryKeywords []string  `json:"secondary_keywords"`
	ModifiedAt        time.Time `json:"modified_at"`
}

// Fingerprint hashes every field the analysis reads, so two pages with the
// same fingerprint score the same.
func (p *Page) Fingerprint() string {
	return Hash(strings.Join([]string{
		p.PostType, p.Slug, p.URL, p.Title, p.MetaDescription,
		p.PrimaryKeyword, strings.Join(p.SecondaryKeywords, ","), p.HTML,
	}, "\x00"))
}

// Source loads pages by subject id.
type Source interface {
	GetPage(ctx context.Context, subjectID int64) (*Page, error)
}

// Provider is the capability set the operations read from. Accessors that may
// do I/O take a context; the extraction helpers are pure functions of their input.
type Provider interface {
	GetContent(ctx context.Context, subjectID int64) (string, error)
	GetTitle(ctx context.Context, subjectID int64) (string, error)
	GetPermalink(ctx context.Context, subjectID int64) (string, error)
	GetPostType(ctx context.Context, subjectID int64) (string, error)
	IsRelevantPageType(ctx context.Context, subjectID int64, postType string) bool
	GetPrimaryKeyword(ctx context.Context, subjectID int64) (string, error)
	GetSecondaryKeywords(ctx context.Context, subjectID int64) ([]string, error)
	GetMetaDescription(ctx context.Context, subjectID int64) (string, error)

	ExtractSchemaData(html string) []Schema
	FindLocalBusinessSchema(schemas []Schema) *Schema
	ValidateSchemas(schemas []Schema) ValidationResult
	ValidateLocalBusinessSchema(schema Schema) ValidationResult

	ExtractText(html string) string
	ExtractHeadings(html string) []Heading
	ExtractLinks(html, baseURL string) []Link
	ExtractImagesWithAlt(html string) []Image
	ExtractCanonical(html string) string
	ExtractRobotsMeta(html string) string
	ExtractHeadScripts(html string) []Script

	AnalyzeContentRepetition(text string, minOccurrences, maxWordCount int) map[string]int
	EvaluateAltTextQuality(text string) float64
	KeywordDensity(text, keyword string) float64
	ContainsKeyword(text, keyword string) bool
}

// StaticSource serves pages from memory.
type StaticSource struct {
	mu    sync.RWMutex
	pages map[int64]*Page
}

// NewStaticSource creates a StaticSource holding the given pages.
func NewStaticSource(pages ...*Page) *StaticSource {
	s := &StaticSource{pages: make(map[int64]*Page, len(pages))}
	for _, p := range pages {
		s.pages[p.ID] = p
	}
	return s
}

// Put adds or replaces a page.
func (s *StaticSource) Put(p *Page) {
	s.mu.Lock()
	s.pages[p.ID] = p
	s.mu.Unlock()
}

func (s *StaticSource) GetPage(_ context.Context, subjectID int64) (*Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pages[subjectID]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

// Snapshot pins one already-fetched page so an analysis reads a consistent
// copy without further I/O.
type Snapshot struct {
	Page *Page
}

func (s Snapshot) GetPage(_ context.Context, subjectID int64) (*Page, error) {
	if s.Page == nil || s.Page.ID != subjectID {
		return nil, ErrNotFound
	}
	return s.Page, nil
}
