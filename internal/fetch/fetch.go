// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves a single HTML page and parses it into a document tree.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/pdiddy/faculty-outreach/internal/httputil"
	"github.com/pdiddy/faculty-outreach/pkg/types"
)

// DefaultTimeout bounds a page fetch.
const DefaultTimeout = 10 * time.Second

// maxPageBytes caps how much of a response body is parsed.
const maxPageBytes = 8 << 20

// Page is a fetched and parsed HTML document.
type Page struct {
	// URL is the final URL after redirects.
	URL *url.URL

	Doc *goquery.Document

	// HTML is the raw markup as received.
	HTML string

	// Text is the document text with whitespace runs collapsed to one space.
	Text string
}

// Domain returns the page host without a leading "www.".
func (p *Page) Domain() string {
	return Domain(p.URL)
}

// Domain returns u's host without a port or a leading "www.".
func Domain(u *url.URL) string {
	if u == nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// Fetcher retrieves pages with a browser-like User-Agent.
type Fetcher struct {
	Client    *http.Client
	UserAgent string
}

// New returns a Fetcher configured from cfg.
func New(cfg types.HTTPConfig) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{
		Client:    &http.Client{Timeout: timeout},
		UserAgent: cfg.UserAgent,
	}
}

// Fetch downloads rawURL and parses it. Any non-2xx status is an error.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	req, err := httputil.NewGet(ctx, rawURL, f.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", rawURL, err)
	}

	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetching %s: HTTP %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rawURL, err)
	}

	page, err := Parse(resp.Request.URL, body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", rawURL, err)
	}
	return page, nil
}

// Parse builds a Page from raw HTML. It is exported so callers holding
// markup from elsewhere (tests, cached files) can run the same extraction.
func Parse(u *url.URL, markup []byte) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return nil, err
	}
	doc.Url = u
	doc.Find("script, style, noscript").Remove()
	return &Page{
		URL:  u,
		Doc:  doc,
		HTML: string(markup),
		Text: NodeText(doc.Selection),
	}, nil
}

// NodeText returns the text of every text node under sel joined by single
// spaces. Adjacent cells such as <td>Jane</td><td>jane@a.edu</td> stay
// separate words.
func NodeText(sel *goquery.Selection) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return CollapseSpace(strings.Join(parts, " "))
}

// ParseString is Parse for a string URL; it is mostly a test convenience.
func ParseString(rawURL, markup string) (*Page, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	return Parse(u, []byte(markup))
}

// CollapseSpace replaces every run of whitespace with a single space and trims.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate cuts s to at most n characters and appends "..." when anything
// was cut.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos] + "..."
		}
		i++
	}
	return s
}
