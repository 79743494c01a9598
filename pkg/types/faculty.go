// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the faculty-outreach pipeline:
// extracted faculty candidates, publications, research profiles, the persisted
// per-institution output, and the drafting run results.
package types

import "strings"

// CandidateSource records which extraction strategy produced a FacultyCandidate.
type CandidateSource string

const (
	SourceDirectEmail  CandidateSource = "direct_email"
	SourceAIPairing    CandidateSource = "ai_pairing"
	SourceLinkFallback CandidateSource = "link_fallback"
	SourceConstructed  CandidateSource = "constructed"
)

// Confidence is a heuristic certainty label, never a calibrated probability.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ParseConfidence maps a free-form label (as returned by a language model)
// to a Confidence. Anything unrecognised is treated as medium.
func ParseConfidence(s string) Confidence {
	switch Confidence(strings.ToLower(strings.TrimSpace(s))) {
	case ConfidenceHigh:
		return ConfidenceHigh
	case ConfidenceLow:
		return ConfidenceLow
	default:
		return ConfidenceMedium
	}
}

// FacultyCandidate is an extracted name/email pair with provenance.
// Candidates are created during extraction and never mutated afterwards.
type FacultyCandidate struct {
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	ProfileURL string          `json:"profile_url,omitempty"`
	Source     CandidateSource `json:"source"`
	Confidence Confidence      `json:"confidence"`

	// Title, Department and ResearchInterests are only filled by the
	// profile-page extractor.
	Title             string `json:"title,omitempty"`
	Department        string `json:"department,omitempty"`
	ResearchInterests string `json:"research_interests,omitempty"`

	// EmailConstructed is set when Email was guessed from the name and domain.
	EmailConstructed bool `json:"email_constructed,omitempty"`

	// EmailPatternsTried lists the address patterns considered for a
	// constructed email, most likely first.
	EmailPatternsTried []string `json:"email_patterns_tried,omitempty"`
}

// DedupKey returns the key used to de-duplicate candidates: the lower-cased
// email when present, otherwise the lower-cased name.
func (c FacultyCandidate) DedupKey() string {
	if e := strings.ToLower(strings.TrimSpace(c.Email)); e != "" {
		return "email:" + e
	}
	return "name:" + strings.ToLower(strings.TrimSpace(c.Name))
}

// DedupCandidates keeps the first occurrence of each candidate by DedupKey,
// preserving order.
func DedupCandidates(in []FacultyCandidate) []FacultyCandidate {
	seen := make(map[string]bool, len(in))
	out := make([]FacultyCandidate, 0, len(in))
	for _, c := range in {
		k := c.DedupKey()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, c)
	}
	return out
}
