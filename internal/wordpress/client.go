// Package wordpress loads pages and posts from the WordPress REST API.
package wordpress

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/Optimiser/internal/content"
)

// Post meta keys the optimiser plugin registers with show_in_rest.
const (
	MetaPrimaryKeyword    = "optimiser_primary_keyword"
	MetaSecondaryKeywords = "optimiser_secondary_keywords"
	MetaDescription       = "optimiser_meta_description"
)

const (
	defaultTimeout  = 10 * time.Second
	frontPageOption = "page_on_front"
)

type HTTPClient struct {
	baseURL       string
	username      string
	appPassword   string
	fetchRendered bool
	httpClient    *http.Client
}

var _ content.Source = (*HTTPClient)(nil)

func NewHTTPClient(baseURL, username, appPassword string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPClient{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		username:    username,
		appPassword: appPassword,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

type rendered struct {
	Rendered string `json:"rendered"`
}

type postResponse struct {
	ID          int64          `json:"id"`
	Type        string         `json:"type"`
	Slug        string         `json:"slug"`
	Link        string         `json:"link"`
	Title       rendered       `json:"title"`
	Content     rendered       `json:"content"`
	ModifiedGMT string         `json:"modified_gmt"`
	Meta        map[string]any `json:"meta"`
	YoastHead   *struct {
		Description string `json:"description"`
	} `json:"yoast_head_json,omitempty"`
}

// WithRenderedHTML makes GetPage replace the post body with the full document
// served at the permalink, so head elements can be analyzed.
func (c *HTTPClient) WithRenderedHTML(on bool) *HTTPClient {
	c.fetchRendered = on
	return c
}

// GetPage tries the pages collection first and falls back to posts. Both
// returning 404 yields content.ErrNotFound.
func (c *HTTPClient) GetPage(ctx context.Context, subjectID int64) (*content.Page, error) {
	for _, collection := range []string{"pages", "posts"} {
		var raw postResponse
		found, err := c.get(ctx, fmt.Sprintf("/wp-json/wp/v2/%s/%d?context=edit", collection, subjectID), &raw)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}
		page := raw.toPage()
		if page.PostType == "page" && c.isFrontPage(ctx, subjectID) {
			page.PostType = "front_page"
		}
		if c.fetchRendered && page.URL != "" {
			doc, err := c.fetchDocument(ctx, page.URL)
			if err != nil {
				return nil, err
			}
			page.HTML = doc
		}
		return page, nil
	}
	return nil, content.ErrNotFound
}

func (c *HTTPClient) isFrontPage(ctx context.Context, subjectID int64) bool {
	var settings map[string]any
	found, err := c.get(ctx, "/wp-json/wp/v2/settings", &settings)
	if err != nil || !found {
		return false
	}
	id, ok := settings[frontPageOption].(float64)
	return ok && int64(id) == subjectID
}

// get decodes a JSON response into out. found is false on 404.
func (c *HTTPClient) get(ctx context.Context, path string, out any) (found bool, err error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return false, err
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.appPassword)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode >= 400 {
		return false, fmt.Errorf("wordpress: %d %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return false, fmt.Errorf("wordpress: decode %s: %w", path, err)
	}
	return true, nil
}

func (c *HTTPClient) fetchDocument(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/html")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("wordpress: fetch %s: %d", url, resp.StatusCode)
	}
	return string(body), nil
}

func (r postResponse) toPage() *content.Page {
	p := &content.Page{
		ID:                r.ID,
		PostType:          r.Type,
		Slug:              r.Slug,
		URL:               r.Link,
		Title:             r.Title.Rendered,
		HTML:              r.Content.Rendered,
		PrimaryKeyword:    metaString(r.Meta, MetaPrimaryKeyword),
		SecondaryKeywords: SplitKeywords(metaString(r.Meta, MetaSecondaryKeywords)),
		MetaDescription:   metaString(r.Meta, MetaDescription),
	}
	if p.MetaDescription == "" && r.YoastHead != nil {
		p.MetaDescription = r.YoastHead.Description
	}
	if t, err := time.Parse("2006-01-02T15:04:05", r.ModifiedGMT); err == nil {
		p.ModifiedAt = t.UTC()
	}
	return p
}

func metaString(meta map[string]any, key string) string {
	switch v := meta[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case []any:
		if len(v) > 0 {
			if s, ok := v[0].(string); ok {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

// SplitKeywords splits a comma separated keyword list, dropping blanks.
func SplitKeywords(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
