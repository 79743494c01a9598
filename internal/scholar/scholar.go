// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scholar looks up a professor's publications on Google Scholar
// through SerpAPI and ranks them by citation count.
package scholar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"github.com/pdiddy/faculty-outreach/internal/httputil"
	"github.com/pdiddy/faculty-outreach/pkg/types"
)

// serpAPIBase is the SerpAPI search endpoint. Declared as a var so tests
// can substitute an httptest server.
var serpAPIBase = "https://serpapi.com/search"

const (
	DefaultTimeout        = 30 * time.Second
	DefaultProfileTimeout = 5 * time.Second
	DefaultNumResults     = 10

	// maxBodyBytes caps how much of a response is read.
	maxBodyBytes = 4 << 20

	// notAvailable fills text fields the API omits.
	notAvailable = "N/A"
)

// Routes reported in Result.Route.
const (
	RouteAuthorSearch = "author_search"
	RouteProfile      = "scholar_profile"
)

// ErrorKind classifies a failed lookup.
type ErrorKind string

const (
	KindMissingKey ErrorKind = "missing_key"
	KindHTTPStatus ErrorKind = "http_status"
	KindAPIError   ErrorKind = "api_error"
	KindNoResults  ErrorKind = "no_results"
	KindTimeout    ErrorKind = "timeout"
	KindConnection ErrorKind = "connection"
	KindDecode     ErrorKind = "decode"
)

// LookupError is the tagged failure of a lookup. Its message is what gets
// persisted as papers_error.
type LookupError struct {
	Kind    ErrorKind
	Message string
	Name    string
	Email   string
}

func (e *LookupError) Error() string { return e.Message }

// KindOf returns the ErrorKind of err, or "" when err is not a LookupError.
func KindOf(err error) ErrorKind {
	var le *LookupError
	if errors.As(err, &le) {
		return le.Kind
	}
	return ""
}

// Result holds the ranked papers of one successful lookup.
type Result struct {
	Papers     []types.Paper `json:"papers"`
	TotalFound int           `json:"total_papers_found"`
	Route      string        `json:"route"`
	AuthorID   string        `json:"author_id,omitempty"`
}

// Client queries SerpAPI.
type Client struct {
	HTTP      *http.Client
	APIKey    string
	UserAgent string

	// TopK is the number of ranked papers kept (MaxTopPapers when zero).
	TopK int

	// UseProfiles tries the Scholar profile route before the author search.
	UseProfiles    bool
	ProfileTimeout time.Duration
}

// New returns a Client configured from cfg.
func New(cfg types.LookupConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		HTTP:           &http.Client{Timeout: timeout},
		APIKey:         cfg.APIKey,
		UserAgent:      cfg.UserAgent,
		TopK:           cfg.TopK,
		UseProfiles:    cfg.UseProfiles,
		ProfileTimeout: cfg.ProfileTimeout,
	}
}

func (c *Client) topK() int {
	if c.TopK <= 0 || c.TopK > types.MaxTopPapers {
		return types.MaxTopPapers
	}
	return c.TopK
}

// Lookup returns the most-cited papers of name. Every failure is a
// *LookupError. When UseProfiles is set the profile route is tried first
// and any failure there falls back to the author search.
func (c *Client) Lookup(ctx context.Context, name, email string, num int) (Result, error) {
	if c.APIKey == "" {
		return Result{}, &LookupError{Kind: KindMissingKey, Message: "SERPAPI_API_KEY not found in environment variables", Name: name, Email: email}
	}
	if num <= 0 {
		num = DefaultNumResults
	}

	if c.UseProfiles {
		if res, ok := c.lookupProfile(ctx, name, num); ok {
			return res, nil
		}
	}
	return c.searchAuthor(ctx, name, email, num)
}

// searchAuthor runs the google_scholar engine with an author-scoped query.
func (c *Client) searchAuthor(ctx context.Context, name, email string, num int) (Result, error) {
	params := url.Values{
		"engine":  {"google_scholar"},
		"q":       {fmt.Sprintf("author:%q", name)},
		"api_key": {c.APIKey},
		"num":     {strconv.Itoa(num)},
		"start":   {"0"},
	}

	body, err := c.get(ctx, params)
	if err != nil {
		var le *LookupError
		if errors.As(err, &le) {
			le.Name, le.Email = name, email
		}
		return Result{}, err
	}

	if e := gjson.GetBytes(body, "error"); e.Exists() {
		return Result{}, &LookupError{Kind: KindAPIError, Message: "API Error: " + e.String(), Name: name, Email: email}
	}

	results := gjson.GetBytes(body, "organic_results").Array()
	if len(results) == 0 {
		return Result{}, &LookupError{Kind: KindNoResults, Message: "No papers found for " + name, Name: name, Email: email}
	}

	papers := make([]types.Paper, 0, len(results))
	for _, r := range results {
		papers = append(papers, types.Paper{
			Title:          textOr(r.Get("title")),
			AuthorsSummary: textOr(r.Get("publication_info.summary")),
			Snippet:        textOr(r.Get("snippet")),
			CitationCount:  count(r.Get("inline_links.cited_by.total")),
			Link:           textOr(r.Get("link")),
			ResultID:       r.Get("result_id").String(),
		})
	}

	return Result{
		Papers:     TopPapers(papers, c.topK()),
		TotalFound: len(papers),
		Route:      RouteAuthorSearch,
	}, nil
}

// lookupProfile finds the author's Scholar profile (short timeout) and reads
// the articles listed on it. ok is false when either step yields nothing.
func (c *Client) lookupProfile(ctx context.Context, name string, num int) (Result, bool) {
	timeout := c.ProfileTimeout
	if timeout <= 0 {
		timeout = DefaultProfileTimeout
	}
	pctx, cancel := context.WithTimeout(ctx, timeout)
	body, err := c.get(pctx, url.Values{
		"engine":   {"google_scholar_profiles"},
		"mauthors": {name},
		"api_key":  {c.APIKey},
	})
	cancel()
	if err != nil {
		return Result{}, false
	}
	authorID := gjson.GetBytes(body, "profiles.0.author_id").String()
	if authorID == "" {
		return Result{}, false
	}

	body, err = c.get(ctx, url.Values{
		"engine":    {"google_scholar_author"},
		"author_id": {authorID},
		"api_key":   {c.APIKey},
		"num":       {strconv.Itoa(num)},
	})
	if err != nil {
		return Result{}, false
	}
	articles := gjson.GetBytes(body, "articles").Array()
	if len(articles) == 0 {
		return Result{}, false
	}

	papers := make([]types.Paper, 0, len(articles))
	for _, a := range articles {
		summary := textOr(a.Get("authors"))
		if pub := a.Get("publication").String(); pub != "" {
			summary += " - " + pub
		}
		papers = append(papers, types.Paper{
			Title:          textOr(a.Get("title")),
			AuthorsSummary: summary,
			Snippet:        notAvailable,
			CitationCount:  count(a.Get("cited_by.value")),
			Link:           textOr(a.Get("link")),
			ResultID:       a.Get("citation_id").String(),
		})
	}
	return Result{
		Papers:     TopPapers(papers, c.topK()),
		TotalFound: len(papers),
		Route:      RouteProfile,
		AuthorID:   authorID,
	}, true
}

// get issues one GET and returns the body of a 200 response.
func (c *Client) get(ctx context.Context, params url.Values) ([]byte, error) {
	req, err := httputil.NewGet(ctx, serpAPIBase+"?"+params.Encode(), c.UserAgent)
	if err != nil {
		return nil, &LookupError{Kind: KindConnection, Message: fmt.Sprintf("Request failed: %v", err)}
	}

	client := c.HTTP
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		if httputil.IsTimeout(err) {
			return nil, &LookupError{Kind: KindTimeout, Message: "Request timed out"}
		}
		return nil, &LookupError{Kind: KindConnection, Message: fmt.Sprintf("Request failed: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &LookupError{
			Kind:    KindHTTPStatus,
			Message: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, httputil.ReadSnippet(resp.Body, 200)),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if httputil.IsTimeout(err) {
			return nil, &LookupError{Kind: KindTimeout, Message: "Request timed out"}
		}
		return nil, &LookupError{Kind: KindConnection, Message: fmt.Sprintf("Request failed: %v", err)}
	}
	if !gjson.ValidBytes(body) {
		return nil, &LookupError{Kind: KindDecode, Message: "Unexpected error: invalid JSON response"}
	}
	return body, nil
}

// RankPapers returns papers sorted by citation count, highest first, with
// ties kept in their original order and ranks reassigned from 1.
func RankPapers(papers []types.Paper) []types.Paper {
	out := make([]types.Paper, len(papers))
	copy(out, papers)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CitationCount > out[j].CitationCount
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// TopPapers ranks papers and keeps the first k.
func TopPapers(papers []types.Paper, k int) []types.Paper {
	ranked := RankPapers(papers)
	if k >= 0 && len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

func textOr(r gjson.Result) string {
	if !r.Exists() || r.Type == gjson.Null {
		return notAvailable
	}
	return r.String()
}

// count reads a citation total; absent, non-numeric or negative values are 0.
func count(r gjson.Result) int {
	if r.Type != gjson.Number {
		return 0
	}
	if n := r.Int(); n > 0 {
		return int(n)
	}
	return 0
}
