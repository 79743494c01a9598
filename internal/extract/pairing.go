// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/pdiddy/faculty-outreach/pkg/types"
)

// NameEmailPairer matches harvested emails to the person names on a page.
// Implementations return only pairs whose email is one of emails.
type NameEmailPairer interface {
	Pair(ctx context.Context, pageText string, emails []string) ([]types.FacultyCandidate, error)
}

// LinkSelector picks the links on a directory page most likely to lead to
// individual faculty profiles. It returns at most max URLs.
type LinkSelector interface {
	SelectProfileLinks(ctx context.Context, pageURL string, links []Link, max int) ([]string, error)
}

// ProfileData is the structured content of one faculty profile page.
type ProfileData struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	Title             string `json:"title"`
	Department        string `json:"department"`
	ResearchInterests string `json:"research_interests"`
	Confidence        string `json:"confidence"`
}

// ProfileExtractor reads a single faculty profile page.
type ProfileExtractor interface {
	ExtractProfile(ctx context.Context, pageText, pageURL string) (ProfileData, error)
}

// personPattern finds capitalised word pairs that may be names.
var personPattern = regexp.MustCompile(`(?:(?:Prof(?:essor)?\.?|Dr\.?)\s+)?\p{Lu}[\p{L}']+\s+\p{Lu}[\p{L}'-]+`)

// HeuristicPairer pairs emails with names without a language model. Each
// email's local part is compared with the usual address forms of every
// valid name in the page text; an exact form match is high confidence and a
// close match is medium. A close match may differ from the form by at most
// MaxDistance edits and one edit per three characters of the form, and
// forms shorter than four characters must match exactly.
type HeuristicPairer struct {
	Filter *Filter

	// MaxDistance bounds the edit distance of a medium-confidence match.
	// Zero means 2.
	MaxDistance int
}

type nameSpot struct {
	name  string
	forms []string
	pos   int
}

// Pair implements NameEmailPairer.
func (h *HeuristicPairer) Pair(_ context.Context, pageText string, emails []string) ([]types.FacultyCandidate, error) {
	filter := h.Filter
	if filter == nil {
		filter = DefaultFilter()
	}
	maxDist := h.MaxDistance
	if maxDist <= 0 {
		maxDist = 2
	}

	var spots []nameSpot
	seen := make(map[string]bool)
	for _, loc := range personPattern.FindAllStringIndex(pageText, -1) {
		name := StripTitle(pageText[loc[0]:loc[1]])
		if seen[strings.ToLower(name)] || !filter.IsValidProfessorName(name) {
			continue
		}
		seen[strings.ToLower(name)] = true
		spots = append(spots, nameSpot{name: name, forms: localForms(name), pos: loc[0]})
	}

	var out []types.FacultyCandidate
	lowerText := strings.ToLower(pageText)
	for _, email := range emails {
		local := strings.ToLower(LocalPart(email))
		at := strings.Index(lowerText, strings.ToLower(email))

		best, bestDist, bestGap := -1, maxDist+1, 0
		for i, s := range spots {
			d := minDistance(local, s.forms, maxDist)
			gap := abs(s.pos - at)
			if d < bestDist || (d == bestDist && best >= 0 && gap < bestGap) {
				best, bestDist, bestGap = i, d, gap
			}
		}
		if best < 0 {
			continue
		}

		conf := types.ConfidenceMedium
		if bestDist == 0 {
			conf = types.ConfidenceHigh
		}
		out = append(out, types.FacultyCandidate{
			Name:       spots[best].name,
			Email:      email,
			Source:     types.SourceDirectEmail,
			Confidence: conf,
		})
	}
	return out, nil
}

// localForms lists the email local parts commonly derived from name.
func localForms(name string) []string {
	parts := nameTokens(name)
	if len(parts) < 2 {
		return nil
	}
	first, last := parts[0], parts[len(parts)-1]
	return []string{
		first + "." + last,
		first + last,
		first[:1] + last,
		first[:1] + "." + last,
		first + "_" + last,
		last + "." + first,
		last,
		first,
	}
}

// minFuzzyForm is the shortest form allowed to match with edits.
const minFuzzyForm = 4

// minDistance returns the smallest acceptable edit distance between local
// and any form, or maxDist+1 when no form is close enough.
func minDistance(local string, forms []string, maxDist int) int {
	best := maxDist + 1
	for _, f := range forms {
		d := levenshtein.ComputeDistance(local, f)
		if d > 0 && d > allowedEdits(f, maxDist) {
			continue
		}
		if d < best {
			best = d
		}
	}
	return best
}

func allowedEdits(form string, maxDist int) int {
	n := utf8.RuneCountInString(form)
	if n < minFuzzyForm {
		return 0
	}
	return min(maxDist, n/3)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
