package wordpress

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Optimiser/internal/content"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/wp-json/wp/v2/pages/10", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "editor" || pass != "abcd efgh" {
			http.Error(w, `{"code":"rest_forbidden"}`, http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "edit", r.URL.Query().Get("context"))
		w.Write([]byte(`{
			"id": 10, "type": "page", "slug": "contact", "link": "` + srv.URL + `/contact/",
			"title": {"rendered": "Contact us"},
			"content": {"rendered": "<p>Call us</p>"},
			"modified_gmt": "2026-03-01T10:00:00",
			"meta": {"optimiser_primary_keyword": " plumber leeds ", "optimiser_secondary_keywords": "boiler, ,drains"},
			"yoast_head_json": {"description": "Yoast description"}
		}`))
	})
	mux.HandleFunc("/wp-json/wp/v2/pages/20", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":"rest_post_invalid_id"}`, http.StatusNotFound)
	})
	mux.HandleFunc("/wp-json/wp/v2/posts/20", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 20, "type": "post", "slug": "news", "link": "", "title": {"rendered": "News"},
			"content": {"rendered": "<p>x</p>"}, "meta": {"optimiser_meta_description": ["From meta"]}}`))
	})
	mux.HandleFunc("/wp-json/wp/v2/pages/30", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("/wp-json/wp/v2/settings", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"page_on_front": 10}`))
	})
	mux.HandleFunc("/contact/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Contact</title></head><body><p>Call us</p></body></html>`))
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestGetPage(t *testing.T) {
	srv := newServer(t)
	c := NewHTTPClient(srv.URL+"/", "editor", "abcd efgh", time.Second)

	page, err := c.GetPage(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), page.ID)
	assert.Equal(t, "front_page", page.PostType)
	assert.Equal(t, "contact", page.Slug)
	assert.Equal(t, "Contact us", page.Title)
	assert.Equal(t, "<p>Call us</p>", page.HTML)
	assert.Equal(t, "plumber leeds", page.PrimaryKeyword)
	assert.Equal(t, []string{"boiler", "drains"}, page.SecondaryKeywords)
	assert.Equal(t, "Yoast description", page.MetaDescription)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), page.ModifiedAt)
}

func TestGetPageFallsBackToPosts(t *testing.T) {
	srv := newServer(t)
	c := NewHTTPClient(srv.URL, "", "", 0)

	page, err := c.GetPage(context.Background(), 20)
	require.NoError(t, err)
	assert.Equal(t, "post", page.PostType)
	assert.Equal(t, "From meta", page.MetaDescription)
	assert.Empty(t, page.PrimaryKeyword)
}

func TestGetPageErrors(t *testing.T) {
	srv := newServer(t)
	c := NewHTTPClient(srv.URL, "editor", "wrong", time.Second)

	_, err := c.GetPage(context.Background(), 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")

	_, err = c.GetPage(context.Background(), 30)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")

	_, err = c.GetPage(context.Background(), 99)
	assert.True(t, errors.Is(err, content.ErrNotFound))
}

func TestGetPageRenderedHTML(t *testing.T) {
	srv := newServer(t)
	c := NewHTTPClient(srv.URL, "editor", "abcd efgh", time.Second).WithRenderedHTML(true)

	page, err := c.GetPage(context.Background(), 10)
	require.NoError(t, err)
	assert.Contains(t, page.HTML, "<title>Contact</title>")
}

func TestSplitKeywords(t *testing.T) {
	assert.Nil(t, SplitKeywords(""))
	assert.Equal(t, []string{"a", "b c"}, SplitKeywords(" a ,, b c ,"))
}
