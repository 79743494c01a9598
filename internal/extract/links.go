// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/faculty-outreach/internal/fetch"
)

const (
	// DefaultLinkSample is the number of links offered to the link selector.
	DefaultLinkSample = 50

	// linkContextChars is the amount of surrounding text kept per link.
	linkContextChars = 200
)

// Link is an anchor on a directory page.
type Link struct {
	URL     string `json:"url"`
	Text    string `json:"text"`
	Context string `json:"context"`
}

// Visited is the set of URLs already fetched during one run. It is passed
// explicitly so the link fallback never follows a page twice.
type Visited struct {
	mu   sync.Mutex
	urls map[string]bool
}

// NewVisited returns a Visited seeded with urls.
func NewVisited(urls ...string) *Visited {
	v := &Visited{urls: make(map[string]bool)}
	for _, u := range urls {
		v.Add(u)
	}
	return v
}

// Add marks u as visited. It reports false when u was already present.
func (v *Visited) Add(u string) bool {
	k := normalizeURL(u)
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.urls[k] {
		return false
	}
	v.urls[k] = true
	return true
}

// Has reports whether u was visited.
func (v *Visited) Has(u string) bool {
	k := normalizeURL(u)
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.urls[k]
}

// Len returns the number of visited URLs.
func (v *Visited) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.urls)
}

// normalizeURL drops the fragment and a trailing slash.
func normalizeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	u.Fragment = ""
	s := u.String()
	if len(s) > 1 {
		s = strings.TrimSuffix(s, "/")
	}
	return s
}

// CollectLinks returns up to limit http(s) links from page in document
// order. mailto, javascript, tel and fragment-only links are skipped, as are
// duplicates and URLs already in visited.
func CollectLinks(page *fetch.Page, visited *Visited, limit int) []Link {
	if limit <= 0 {
		limit = DefaultLinkSample
	}
	seen := make(map[string]bool)
	var links []Link

	page.Doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		lower := strings.ToLower(href)
		if href == "" || strings.HasPrefix(href, "#") ||
			strings.HasPrefix(lower, "mailto:") ||
			strings.HasPrefix(lower, "javascript:") ||
			strings.HasPrefix(lower, "tel:") {
			return true
		}

		abs := resolve(page.URL, href)
		u, err := url.Parse(abs)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return true
		}
		key := normalizeURL(abs)
		if seen[key] || (visited != nil && visited.Has(abs)) {
			return true
		}
		seen[key] = true

		links = append(links, Link{
			URL:     abs,
			Text:    fetch.NodeText(s),
			Context: fetch.Truncate(fetch.NodeText(s.Parent()), linkContextChars),
		})
		return len(links) < limit
	})
	return links
}
