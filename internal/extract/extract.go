// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract finds faculty candidates on a directory page. It harvests
// .edu addresses, pairs them with names, constructs addresses from names when
// the page lists none, and as a last resort follows links to individual
// profile pages.
package extract

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/faculty-outreach/internal/fetch"
	"github.com/pdiddy/faculty-outreach/internal/heuristics"
	"github.com/pdiddy/faculty-outreach/internal/httputil"
	"github.com/pdiddy/faculty-outreach/pkg/types"
)

const (
	// DefaultFacultyLimit caps the candidates returned per directory page.
	DefaultFacultyLimit = 5

	// MaxProfileLinks is the most profile URLs followed per directory page.
	MaxProfileLinks = 10
)

// PageFetcher retrieves and parses a page. *fetch.Fetcher satisfies it.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*fetch.Page, error)
}

// Extractor runs the extraction strategies in order until one yields
// candidates. Pairer, Links and Profiles may be nil, which disables the
// corresponding step.
type Extractor struct {
	Fetcher  PageFetcher
	Filter   *Filter
	Rules    heuristics.Rules
	Pairer   NameEmailPairer
	Links    LinkSelector
	Profiles ProfileExtractor

	// Limit caps the number of candidates (DefaultFacultyLimit when zero).
	Limit int

	// ProfileDelay is the pause between profile page fetches.
	ProfileDelay time.Duration

	// Out receives one progress line per step. Nil discards them.
	Out io.Writer
}

// NewExtractor returns an Extractor over rules with the given pairer.
func NewExtractor(f PageFetcher, rules heuristics.Rules, pairer NameEmailPairer) *Extractor {
	return &Extractor{
		Fetcher: f,
		Filter:  NewFilter(rules),
		Rules:   rules,
		Pairer:  pairer,
		Limit:   DefaultFacultyLimit,
	}
}

// Extract returns the faculty candidates found on page, de-duplicated and
// capped at the limit. Failures of individual strategies are reported and
// treated as "nothing found"; only a cancelled context is returned as an
// error. The directory page itself is recorded in visited.
func (e *Extractor) Extract(ctx context.Context, page *fetch.Page, visited *Visited) ([]types.FacultyCandidate, error) {
	if visited == nil {
		visited = NewVisited()
	}
	visited.Add(page.URL.String())

	filter := e.filter()

	emails := filter.HarvestEmails(page.Text, page.HTML)
	e.logf("found %d faculty emails on %s", len(emails), page.URL)

	if len(emails) > 0 {
		return e.finish(e.pairEmails(ctx, page, emails)), ctx.Err()
	}

	hits := filter.ExtractNames(page.Doc, page.URL, e.Rules.NameSelectors)
	if len(hits) > 0 {
		e.logf("found %d names without emails, constructing addresses", len(hits))
		var out []types.FacultyCandidate
		for _, h := range hits {
			if c, ok := ConstructedCandidate(h, page.Domain()); ok {
				out = append(out, c)
			}
		}
		if len(out) > 0 {
			return e.finish(out), nil
		}
	}

	out, err := e.followProfiles(ctx, page, visited)
	return e.finish(out), err
}

func (e *Extractor) filter() *Filter {
	if e.Filter == nil {
		e.Filter = NewFilter(e.Rules)
	}
	return e.Filter
}

func (e *Extractor) limit() int {
	if e.Limit <= 0 {
		return DefaultFacultyLimit
	}
	return e.Limit
}

// pairEmails asks the pairer for names and keeps pairs whose email was
// harvested and whose name validates.
func (e *Extractor) pairEmails(ctx context.Context, page *fetch.Page, emails []string) []types.FacultyCandidate {
	if e.Pairer == nil {
		return nil
	}
	pairs, err := e.Pairer.Pair(ctx, page.Text, emails)
	if err != nil {
		e.logf("failed  pairing on %s: %v", page.URL, err)
		zap.L().Warn("name pairing failed", zap.String("url", page.URL.String()), zap.Error(err))
		return nil
	}

	allowed := make(map[string]string, len(emails))
	for _, em := range emails {
		allowed[strings.ToLower(em)] = em
	}

	filter := e.filter()
	var out []types.FacultyCandidate
	for _, c := range pairs {
		orig, ok := allowed[strings.ToLower(strings.TrimSpace(c.Email))]
		if !ok {
			continue
		}
		c.Name = StripTitle(c.Name)
		if !filter.IsValidProfessorName(c.Name) {
			continue
		}
		c.Email = orig
		if c.Confidence == "" {
			c.Confidence = types.ConfidenceMedium
		}
		out = append(out, c)
	}
	e.logf("paired %d of %d emails", len(out), len(emails))
	return out
}

// followProfiles is the link fallback: it asks the selector for profile
// URLs among the page's links and extracts one candidate per profile page.
func (e *Extractor) followProfiles(ctx context.Context, page *fetch.Page, visited *Visited) ([]types.FacultyCandidate, error) {
	if e.Links == nil || e.Profiles == nil || e.Fetcher == nil {
		return nil, nil
	}

	links := CollectLinks(page, visited, DefaultLinkSample)
	if len(links) == 0 {
		return nil, nil
	}
	e.logf("no emails or names found, analysing %d links", len(links))

	chosen, err := e.Links.SelectProfileLinks(ctx, page.URL.String(), links, MaxProfileLinks)
	if err != nil {
		e.logf("failed  link analysis on %s: %v", page.URL, err)
		zap.L().Warn("link analysis failed", zap.String("url", page.URL.String()), zap.Error(err))
		return nil, nil
	}

	offered := make(map[string]bool, len(links))
	for _, l := range links {
		offered[normalizeURL(l.URL)] = true
	}

	filter := e.filter()
	var out []types.FacultyCandidate
	followed := 0
	for _, u := range chosen {
		if len(out) >= e.limit() || followed >= MaxProfileLinks {
			break
		}
		if !offered[normalizeURL(u)] || !visited.Add(u) {
			continue
		}
		if followed > 0 {
			if err := httputil.Pause(ctx, e.ProfileDelay); err != nil {
				return out, err
			}
		}
		followed++

		c, ok := e.extractProfile(ctx, filter, u)
		if ok {
			out = append(out, c)
		}
	}
	return out, ctx.Err()
}

func (e *Extractor) extractProfile(ctx context.Context, filter *Filter, rawURL string) (types.FacultyCandidate, bool) {
	prof, err := e.Fetcher.Fetch(ctx, rawURL)
	if err != nil {
		e.logf("failed  %s: %v", rawURL, err)
		return types.FacultyCandidate{}, false
	}

	data, err := e.Profiles.ExtractProfile(ctx, prof.Text, rawURL)
	if err != nil {
		e.logf("failed  profile %s: %v", rawURL, err)
		zap.L().Warn("profile extraction failed", zap.String("url", rawURL), zap.Error(err))
		return types.FacultyCandidate{}, false
	}

	name := StripTitle(data.Name)
	if !filter.IsValidProfessorName(name) {
		e.logf("skipped %s: %q is not a person name", rawURL, data.Name)
		return types.FacultyCandidate{}, false
	}

	c := types.FacultyCandidate{
		Name:              name,
		Email:             strings.TrimSpace(data.Email),
		ProfileURL:        rawURL,
		Source:            types.SourceLinkFallback,
		Confidence:        types.ParseConfidence(data.Confidence),
		Title:             data.Title,
		Department:        data.Department,
		ResearchInterests: data.ResearchInterests,
	}
	if c.Email == "" || !filter.IsFacultyEmail(c.Email) {
		email, tried := ConstructEmail(name, prof.Domain())
		if email == "" {
			return types.FacultyCandidate{}, false
		}
		c.Email = email
		c.EmailConstructed = true
		c.EmailPatternsTried = tried
	}
	e.logf("profile %s -> %s <%s>", rawURL, c.Name, c.Email)
	return c, true
}

func (e *Extractor) finish(in []types.FacultyCandidate) []types.FacultyCandidate {
	out := types.DedupCandidates(in)
	if len(out) > e.limit() {
		out = out[:e.limit()]
	}
	return out
}

func (e *Extractor) logf(format string, args ...any) {
	if e.Out == nil {
		return
	}
	fmt.Fprintf(e.Out, format+"\n", args...)
}
