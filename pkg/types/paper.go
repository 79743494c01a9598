// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"time"
)

// MaxTopPapers bounds the number of papers persisted per professor.
const MaxTopPapers = 5

// Paper is one publication returned by the literature search API.
type Paper struct {
	// Rank is the 1-based position after sorting by citation count.
	Rank int `json:"rank"`

	Title string `json:"title"`

	// AuthorsSummary is the publication_info summary line ("J Smith, A Doe - Journal, 2020").
	AuthorsSummary string `json:"authors_summary"`

	Snippet string `json:"snippet"`

	// CitationCount is the "cited by" total; 0 when the source omits it.
	CitationCount int `json:"citation_count"`

	Link     string `json:"link"`
	ResultID string `json:"result_id,omitempty"`
}

// ResearchProfile is the language-model digest of a professor's top papers.
type ResearchProfile struct {
	Summary  string   `json:"research_summary"`
	Keywords []string `json:"research_keywords"`
	Areas    []string `json:"research_areas"`
}

// EmptyProfile returns a profile with empty, non-nil lists so that the JSON
// output always carries arrays.
func EmptyProfile() ResearchProfile {
	return ResearchProfile{Keywords: []string{}, Areas: []string{}}
}

// DataSources names where each part of a ProfessorRecord came from.
type DataSources struct {
	BasicInfo       string `json:"basic_info"`
	Papers          string `json:"papers"`
	ResearchSummary string `json:"research_summary"`
}

// ScrapingNotes carries extraction provenance for a ProfessorRecord.
type ScrapingNotes struct {
	ExtractionMethod string  `json:"extraction_method"`
	Confidence       string  `json:"confidence"`
	PapersError      *string `json:"papers_error"`
}

// ProfessorRecord aggregates a FacultyCandidate with its papers and research
// profile. It is the unit persisted to JSON and consumed by the drafter.
type ProfessorRecord struct {
	Name             string        `json:"name"`
	Email            string        `json:"email"`
	Title            string        `json:"title"`
	ProfileURL       string        `json:"profile_url"`
	ResearchSummary  string        `json:"research_summary"`
	ResearchKeywords []string      `json:"research_keywords"`
	ResearchAreas    []string      `json:"research_areas"`
	TopPapers        []Paper       `json:"top_papers"`
	TotalPapersFound int           `json:"total_papers_found"`
	DataSources      DataSources   `json:"data_sources"`
	ScrapingNotes    ScrapingNotes `json:"scraping_notes"`
}

// Validate checks the invariants every persisted record must hold.
func (r ProfessorRecord) Validate() error {
	if r.Name == "" {
		return errors.New("record has empty name")
	}
	if r.Email == "" {
		return fmt.Errorf("record %q has empty email", r.Name)
	}
	if len(r.TopPapers) > MaxTopPapers {
		return fmt.Errorf("record %q has %d top papers, max %d", r.Name, len(r.TopPapers), MaxTopPapers)
	}
	for _, p := range r.TopPapers {
		if p.CitationCount < 0 {
			return fmt.Errorf("record %q: paper %q has negative citation count", r.Name, p.Title)
		}
	}
	return nil
}

// ScrapeSettings records the throttle settings a scrape ran with.
type ScrapeSettings struct {
	FacultyLimit        int     `json:"faculty_limit"`
	RequestDelay        float64 `json:"request_delay"`
	ScholarRequestDelay float64 `json:"scholar_request_delay"`
}

// OutputSources describes the provenance of an institution file as a whole.
type OutputSources struct {
	BasicInfo       string `json:"basic_info"`
	ResearchPapers  string `json:"research_papers"`
	ResearchSummary string `json:"research_summary"`
}

// InstitutionOutput is the aggregate JSON file written per institution.
type InstitutionOutput struct {
	RunID           string            `json:"run_id,omitempty"`
	SourceURL       string            `json:"source_url"`
	TotalProfessors int               `json:"total_professors"`
	ScrapedAt       string            `json:"scraped_at"`
	Settings        ScrapeSettings    `json:"settings"`
	DataSources     OutputSources     `json:"data_sources"`
	Professors      []ProfessorRecord `json:"professors"`
}

// TimestampLayout is the layout used for scraped_at and generated_at.
const TimestampLayout = "2006-01-02 15:04:05"

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}
