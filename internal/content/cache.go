package content

import (
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/net/html"
)

// Hash returns the content hash used for cache keys and change detection.
func Hash(s string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(s))
}

// DocumentCache memoizes parsed HTML documents by content hash. It is owned by
// the caller and passed to NewHTMLProvider; entries expire after ttl and the
// least recently used entry is evicted beyond size.
type DocumentCache struct {
	docs *expirable.LRU[string, *html.Node]
}

// NewDocumentCache creates a cache holding at most size documents for ttl.
// A ttl of zero disables expiry.
func NewDocumentCache(size int, ttl time.Duration) *DocumentCache {
	if size <= 0 {
		size = 1
	}
	return &DocumentCache{docs: expirable.NewLRU[string, *html.Node](size, nil, ttl)}
}

// Len reports the number of cached documents.
func (c *DocumentCache) Len() int {
	if c == nil {
		return 0
	}
	return c.docs.Len()
}

// Purge drops every cached document.
func (c *DocumentCache) Purge() {
	if c != nil {
		c.docs.Purge()
	}
}

// parse returns the parsed tree for src, from cache when possible. Cached
// trees are shared and must be treated as read-only.
func (c *DocumentCache) parse(src string) *html.Node {
	if c == nil {
		return parseHTML(src)
	}
	key := Hash(src)
	if doc, ok := c.docs.Get(key); ok {
		return doc
	}
	doc := parseHTML(src)
	c.docs.Add(key, doc)
	return doc
}

func parseHTML(src string) *html.Node {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		// html.Parse only fails on reader errors; fall back to an empty document.
		doc, _ = html.Parse(strings.NewReader(""))
	}
	return doc
}
