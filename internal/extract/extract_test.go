// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/faculty-outreach/internal/fetch"
	"github.com/pdiddy/faculty-outreach/internal/heuristics"
	"github.com/pdiddy/faculty-outreach/pkg/types"
)

// --- fakes ---

type fakeFetcher struct {
	pages map[string]string
	calls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, rawURL string) (*fetch.Page, error) {
	f.calls = append(f.calls, rawURL)
	html, ok := f.pages[rawURL]
	if !ok {
		return nil, fmt.Errorf("fetching %s: HTTP 404", rawURL)
	}
	return fetch.ParseString(rawURL, html)
}

type fakePairer struct {
	pairs []types.FacultyCandidate
	err   error
	got   []string
}

func (p *fakePairer) Pair(_ context.Context, _ string, emails []string) ([]types.FacultyCandidate, error) {
	p.got = emails
	return p.pairs, p.err
}

type fakeLinks struct {
	urls    []string
	offered []Link
}

func (l *fakeLinks) SelectProfileLinks(_ context.Context, _ string, links []Link, _ int) ([]string, error) {
	l.offered = links
	return l.urls, nil
}

type fakeProfiles struct {
	data map[string]ProfileData
}

func (p *fakeProfiles) ExtractProfile(_ context.Context, _, pageURL string) (ProfileData, error) {
	d, ok := p.data[pageURL]
	if !ok {
		return ProfileData{}, errors.New("no profile")
	}
	return d, nil
}

func mustPage(t *testing.T, rawURL, html string) *fetch.Page {
	t.Helper()
	p, err := fetch.ParseString(rawURL, html)
	require.NoError(t, err)
	return p
}

// --- Extract ---

func TestExtractMailtoOnly(t *testing.T) {
	page := mustPage(t, "https://school.edu/faculty",
		`<html><body><a href="mailto:jane.smith@school.edu">Jane Smith</a></body></html>`)

	e := NewExtractor(&fakeFetcher{}, heuristics.Default(), &HeuristicPairer{})
	got, err := e.Extract(context.Background(), page, NewVisited())
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "Jane Smith", got[0].Name)
	assert.Equal(t, "jane.smith@school.edu", got[0].Email)
	assert.Equal(t, types.SourceDirectEmail, got[0].Source)
	assert.Equal(t, types.ConfidenceHigh, got[0].Confidence)
}

func TestExtractTableLayout(t *testing.T) {
	page := mustPage(t, "https://school.edu/faculty", `<table>
<tr><td>Jane Smith</td><td>jane@school.edu</td></tr>
<tr><td>Alan Turing</td><td>alan@school.edu</td></tr>
</table>`)

	e := NewExtractor(&fakeFetcher{}, heuristics.Default(), &HeuristicPairer{})
	assert.Equal(t, []string{"jane@school.edu", "alan@school.edu"}, e.filter().HarvestEmails(page.Text, page.HTML))

	got, err := e.Extract(context.Background(), page, NewVisited())
	require.NoError(t, err)
	assert.Equal(t, []types.FacultyCandidate{
		{Name: "Jane Smith", Email: "jane@school.edu", Source: types.SourceDirectEmail, Confidence: types.ConfidenceHigh},
		{Name: "Alan Turing", Email: "alan@school.edu", Source: types.SourceDirectEmail, Confidence: types.ConfidenceHigh},
	}, got)
}

func TestExtractFiltersPairs(t *testing.T) {
	page := mustPage(t, "https://school.edu/faculty",
		`<p>Jane Smith jane@school.edu. Alan Turing alan@school.edu. Contact info@school.edu</p>`)
	pairer := &fakePairer{pairs: []types.FacultyCandidate{
		{Name: "Dr. Jane Smith", Email: "JANE@school.edu", Source: types.SourceAIPairing, Confidence: types.ConfidenceHigh},
		{Name: "Computer Science", Email: "alan@school.edu", Source: types.SourceAIPairing},
		{Name: "Mallory Evil", Email: "mallory@school.edu", Source: types.SourceAIPairing},
		{Name: "Jane Smith", Email: "jane@school.edu", Source: types.SourceAIPairing},
	}}

	e := NewExtractor(&fakeFetcher{}, heuristics.Default(), pairer)
	got, err := e.Extract(context.Background(), page, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"jane@school.edu", "alan@school.edu"}, pairer.got)
	require.Len(t, got, 1)
	assert.Equal(t, types.FacultyCandidate{
		Name: "Jane Smith", Email: "jane@school.edu",
		Source: types.SourceAIPairing, Confidence: types.ConfidenceHigh,
	}, got[0])
}

func TestExtractPairerErrorYieldsNothing(t *testing.T) {
	page := mustPage(t, "https://school.edu/faculty", `<p>Jane Smith jane@school.edu</p>`)
	var out bytes.Buffer

	e := NewExtractor(&fakeFetcher{}, heuristics.Default(), &fakePairer{err: errors.New("model unavailable")})
	e.Out = &out
	got, err := e.Extract(context.Background(), page, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Contains(t, out.String(), "failed  pairing")
}

func TestExtractLimit(t *testing.T) {
	var text strings.Builder
	var pairs []types.FacultyCandidate
	names := []string{"Ada Lovelace", "Alan Turing", "Grace Hopper", "Edsger Dijkstra", "Barbara Liskov", "Donald Knuth", "Frances Allen"}
	for i, n := range names {
		email := fmt.Sprintf("p%d@school.edu", i)
		fmt.Fprintf(&text, "%s %s ", n, email)
		pairs = append(pairs, types.FacultyCandidate{Name: n, Email: email, Source: types.SourceAIPairing, Confidence: types.ConfidenceMedium})
	}
	page := mustPage(t, "https://school.edu/faculty", "<p>"+text.String()+"</p>")

	e := NewExtractor(&fakeFetcher{}, heuristics.Default(), &fakePairer{pairs: pairs})
	got, err := e.Extract(context.Background(), page, nil)
	require.NoError(t, err)
	require.Len(t, got, DefaultFacultyLimit)
	assert.Equal(t, "Ada Lovelace", got[0].Name)
}

func TestExtractConstructsFromNames(t *testing.T) {
	page := mustPage(t, "https://www.navy.edu/faculty",
		`<h2><a href="/people/gh">Grace Hopper</a></h2><h2><a href="/about">Computer Science</a></h2>`)

	e := NewExtractor(&fakeFetcher{}, heuristics.Default(), &fakePairer{})
	got, err := e.Extract(context.Background(), page, nil)
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "Grace Hopper", got[0].Name)
	assert.Equal(t, "grace.hopper@navy.edu", got[0].Email)
	assert.Equal(t, "https://www.navy.edu/people/gh", got[0].ProfileURL)
	assert.Equal(t, types.SourceConstructed, got[0].Source)
	assert.Equal(t, types.ConfidenceLow, got[0].Confidence)
	assert.True(t, got[0].EmailConstructed)
}

func TestExtractLinkFallback(t *testing.T) {
	dir := "https://school.edu/faculty"
	page := mustPage(t, dir, `<ul>
<li><a href="/people/ada">Profile one</a></li>
<li><a href="/people/bob">Profile two</a></li>
<li><a href="/about">About</a></li>
<li><a href="mailto:someone@example.com">write</a></li>
</ul>`)

	fetcher := &fakeFetcher{pages: map[string]string{
		"https://school.edu/people/ada": `<p>Ada Lovelace, Professor</p>`,
		"https://school.edu/people/bob": `<p>Lab page</p>`,
	}}
	links := &fakeLinks{urls: []string{
		"https://school.edu/people/ada",
		"https://elsewhere.org/not-offered",
		"https://school.edu/people/ada",
		"https://school.edu/people/bob",
	}}
	profiles := &fakeProfiles{data: map[string]ProfileData{
		"https://school.edu/people/ada": {Name: "Ada Lovelace", Title: "Professor", ResearchInterests: "engines", Confidence: "HIGH"},
		"https://school.edu/people/bob": {Name: "Robotics", Email: "bob@school.edu"},
	}}

	e := NewExtractor(fetcher, heuristics.Default(), &fakePairer{})
	e.Links = links
	e.Profiles = profiles
	visited := NewVisited()

	got, err := e.Extract(context.Background(), page, visited)
	require.NoError(t, err)

	assert.Len(t, links.offered, 3)
	assert.Equal(t, []string{"https://school.edu/people/ada", "https://school.edu/people/bob"}, fetcher.calls)
	assert.True(t, visited.Has(dir))
	assert.True(t, visited.Has("https://school.edu/people/bob"))

	require.Len(t, got, 1)
	c := got[0]
	assert.Equal(t, "Ada Lovelace", c.Name)
	assert.Equal(t, "ada.lovelace@school.edu", c.Email)
	assert.True(t, c.EmailConstructed)
	assert.Equal(t, types.SourceLinkFallback, c.Source)
	assert.Equal(t, types.ConfidenceHigh, c.Confidence)
	assert.Equal(t, "Professor", c.Title)
	assert.Equal(t, "https://school.edu/people/ada", c.ProfileURL)
}

func TestExtractNothingFound(t *testing.T) {
	page := mustPage(t, "https://school.edu/faculty", `<p>Welcome</p>`)
	e := NewExtractor(&fakeFetcher{}, heuristics.Default(), &fakePairer{})
	got, err := e.Extract(context.Background(), page, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
