// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline drives a directory scrape end to end: fetch the page,
// extract candidates, look up publications, summarise research and assemble
// the per-institution output.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/faculty-outreach/internal/extract"
	"github.com/pdiddy/faculty-outreach/internal/fetch"
	"github.com/pdiddy/faculty-outreach/internal/httputil"
	"github.com/pdiddy/faculty-outreach/internal/scholar"
	"github.com/pdiddy/faculty-outreach/pkg/types"
)

const (
	DefaultRequestDelay = 2 * time.Second
	DefaultScholarDelay = 3 * time.Second
)

// Provenance labels written into each record and institution file.
const (
	basicInfoSource       = "faculty_page_email_extraction"
	papersSource          = "google_scholar_api"
	summarySource         = "ai_generated"
	outputBasicInfo       = "Direct email extraction from faculty page"
	outputResearchPapers  = "Google Scholar API (SerpAPI)"
	outputResearchSummary = "AI-generated from papers"
)

// CandidateExtractor finds faculty on a fetched directory page.
// *extract.Extractor satisfies it.
type CandidateExtractor interface {
	Extract(ctx context.Context, page *fetch.Page, visited *extract.Visited) ([]types.FacultyCandidate, error)
}

// PaperLookup finds a professor's ranked publications. *scholar.Client
// satisfies it.
type PaperLookup interface {
	Lookup(ctx context.Context, name, email string, num int) (scholar.Result, error)
}

// Summarizer digests papers into a research profile. On failure it returns
// the empty profile along with the error.
type Summarizer interface {
	Summarize(ctx context.Context, name string, papers []types.Paper) (types.ResearchProfile, error)
}

// Scraper holds the stages of one directory scrape. Summarizer may be nil,
// in which case every record gets the empty profile.
type Scraper struct {
	Fetcher    extract.PageFetcher
	Extractor  CandidateExtractor
	Papers     PaperLookup
	Summarizer Summarizer
	Config     types.ScrapeConfig

	// NumResults is the number of search results requested per professor.
	NumResults int

	// Out receives progress lines. Nil discards them.
	Out io.Writer

	// Now and NewRunID are replaced in tests.
	Now      func() time.Time
	NewRunID func() string
}

// ScrapeInstitution runs the pipeline for one directory URL. A page that
// cannot be fetched is an error; a page with no faculty yields an output
// with zero professors. Per-professor lookup and summary failures are
// recorded in the record's scraping notes.
func (s *Scraper) ScrapeInstitution(ctx context.Context, sourceURL string) (*types.InstitutionOutput, error) {
	runID := s.runID()
	log := zap.L().With(zap.String("run_id", runID), zap.String("url", sourceURL))

	s.logf("scraping %s (limit=%d, delay=%s, scholar_delay=%s)",
		sourceURL, s.Config.FacultyLimit, s.requestDelay(), s.scholarDelay())

	page, err := s.Fetcher.Fetch(ctx, sourceURL)
	if err != nil {
		return nil, fmt.Errorf("fetching directory page: %w", err)
	}

	candidates, err := s.Extractor.Extract(ctx, page, extract.NewVisited(sourceURL))
	if err != nil {
		return nil, fmt.Errorf("extracting faculty from %s: %w", sourceURL, err)
	}
	s.logf("found %d faculty with email+name pairs", len(candidates))

	out := &types.InstitutionOutput{
		RunID:     runID,
		SourceURL: sourceURL,
		ScrapedAt: types.FormatTimestamp(s.now()),
		Settings: types.ScrapeSettings{
			FacultyLimit:        s.Config.FacultyLimit,
			RequestDelay:        s.requestDelay().Seconds(),
			ScholarRequestDelay: s.scholarDelay().Seconds(),
		},
		DataSources: types.OutputSources{
			BasicInfo:       outputBasicInfo,
			ResearchPapers:  outputResearchPapers,
			ResearchSummary: outputResearchSummary,
		},
		Professors: []types.ProfessorRecord{},
	}

	for i, c := range candidates {
		if i > 0 {
			if err := httputil.Pause(ctx, s.requestDelay()); err != nil {
				return nil, err
			}
		}
		s.logf("processing %d/%d: %s (%s)", i+1, len(candidates), c.Name, c.Email)

		rec, gotPapers := s.buildRecord(ctx, c, sourceURL)
		if err := rec.Validate(); err != nil {
			s.logf("skipped %s: %v", c.Name, err)
			log.Warn("dropping invalid record", zap.String("name", c.Name), zap.Error(err))
			continue
		}
		out.Professors = append(out.Professors, rec)
		s.logf("complete %s: %d papers", rec.Name, len(rec.TopPapers))

		if gotPapers {
			if err := httputil.Pause(ctx, s.scholarDelay()); err != nil {
				return nil, err
			}
		}
	}

	out.TotalProfessors = len(out.Professors)
	return out, nil
}

// buildRecord looks up papers and the research profile for c. The boolean
// reports whether the lookup succeeded.
func (s *Scraper) buildRecord(ctx context.Context, c types.FacultyCandidate, sourceURL string) (types.ProfessorRecord, bool) {
	profileURL := c.ProfileURL
	if profileURL == "" {
		profileURL = sourceURL
	}
	rec := types.ProfessorRecord{
		Name:       c.Name,
		Email:      c.Email,
		Title:      c.Title,
		ProfileURL: profileURL,
		TopPapers:  []types.Paper{},
		DataSources: types.DataSources{
			BasicInfo:       basicInfoSource,
			Papers:          papersSource,
			ResearchSummary: summarySource,
		},
		ScrapingNotes: types.ScrapingNotes{
			ExtractionMethod: string(c.Source),
			Confidence:       string(c.Confidence),
		},
	}

	profile := types.EmptyProfile()
	res, err := s.Papers.Lookup(ctx, c.Name, c.Email, s.NumResults)
	if err != nil {
		msg := err.Error()
		rec.ScrapingNotes.PapersError = &msg
		s.logf("no papers for %s: %s", c.Name, msg)
		zap.L().Warn("paper lookup failed",
			zap.String("name", c.Name), zap.String("kind", string(scholar.KindOf(err))), zap.Error(err))
	} else {
		rec.TopPapers = res.Papers
		rec.TotalPapersFound = res.TotalFound
		if s.Summarizer != nil {
			p, err := s.Summarizer.Summarize(ctx, c.Name, res.Papers)
			if err != nil {
				s.logf("failed  research summary for %s: %v", c.Name, err)
				zap.L().Warn("research summary failed", zap.String("name", c.Name), zap.Error(err))
			}
			profile = p
		}
	}

	rec.ResearchSummary = profile.Summary
	rec.ResearchKeywords = nonNil(profile.Keywords)
	rec.ResearchAreas = nonNil(profile.Areas)
	return rec, err == nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (s *Scraper) requestDelay() time.Duration {
	if s.Config.RequestDelay < 0 {
		return 0
	}
	return s.Config.RequestDelay
}

func (s *Scraper) scholarDelay() time.Duration {
	if s.Config.ScholarDelay < 0 {
		return 0
	}
	return s.Config.ScholarDelay
}

func (s *Scraper) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Scraper) runID() string {
	if s.NewRunID != nil {
		return s.NewRunID()
	}
	return uuid.NewString()
}

func (s *Scraper) logf(format string, args ...any) {
	if s.Out == nil {
		return
	}
	fmt.Fprintf(s.Out, format+"\n", args...)
}
