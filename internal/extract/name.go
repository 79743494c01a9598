// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/faculty-outreach/internal/fetch"
	"github.com/pdiddy/faculty-outreach/internal/heuristics"
	"github.com/pdiddy/faculty-outreach/pkg/types"
)

var (
	// titlePrefix strips a leading academic title.
	titlePrefix = regexp.MustCompile(`^(?:Prof(?:essor)?\.?|Dr\.?)\s+`)

	// nameWord is a capitalised word: an upper-case letter followed by letters or apostrophes.
	nameWord = regexp.MustCompile(`^\p{Lu}[\p{L}']*$`)
)

// Filter applies the email and name heuristics configured in a heuristics.Rules.
type Filter struct {
	adminPrefixes   []string
	genericKeywords []string
	nonNamePhrases  []string
}

// NewFilter lower-cases and stores the lists from r.
func NewFilter(r heuristics.Rules) *Filter {
	return &Filter{
		adminPrefixes:   lowerAll(r.AdminPrefixes),
		genericKeywords: lowerAll(r.GenericEmailKeywords),
		nonNamePhrases:  lowerAll(r.NonNamePhrases),
	}
}

// DefaultFilter returns a Filter over the embedded rules.
func DefaultFilter() *Filter {
	return NewFilter(heuristics.Default())
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// StripTitle removes a leading "Professor", "Prof." or "Dr." and collapses whitespace.
func StripTitle(name string) string {
	name = fetch.CollapseSpace(name)
	return strings.TrimSpace(titlePrefix.ReplaceAllString(name, ""))
}

// IsValidProfessorName reports whether name looks like a person's name:
// after stripping a leading title it needs at least two words, the first two
// capitalised, and it must not contain any configured non-name phrase
// (subject, department or building names).
func (f *Filter) IsValidProfessorName(name string) bool {
	name = strings.TrimSpace(name)
	if len([]rune(name)) < 3 {
		return false
	}

	clean := StripTitle(name)
	words := strings.Fields(clean)
	if len(words) < 2 {
		return false
	}

	lower := strings.ToLower(clean)
	for _, phrase := range f.nonNamePhrases {
		if strings.Contains(lower, phrase) {
			return false
		}
	}

	for _, w := range words[:2] {
		if len([]rune(w)) < 2 || !nameWord.MatchString(w) {
			return false
		}
	}
	return true
}

// NameHit is a person name found by one of the name selectors.
type NameHit struct {
	Name       string
	ProfileURL string
	Selector   string
}

// ExtractNames runs each selector over doc in order and returns the valid
// names found, de-duplicated case-insensitively. When the matched element
// is a link its href, resolved against base, becomes the profile URL.
func (f *Filter) ExtractNames(doc *goquery.Document, base *url.URL, selectors []string) []NameHit {
	seen := make(map[string]bool)
	var hits []NameHit

	for _, sel := range selectors {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			name := fetch.NodeText(s)
			if !f.IsValidProfessorName(name) {
				return
			}
			key := strings.ToLower(name)
			if seen[key] {
				return
			}
			seen[key] = true

			hit := NameHit{Name: name, Selector: sel}
			if goquery.NodeName(s) == "a" {
				if href, ok := s.Attr("href"); ok {
					hit.ProfileURL = resolve(base, href)
				}
			}
			hits = append(hits, hit)
		})
	}
	return hits
}

// ConstructEmail guesses an address for name at domain. It returns the most
// likely pattern (first.last@domain) and every pattern considered. Names
// with fewer than two words produce no guess.
func ConstructEmail(name, domain string) (string, []string) {
	parts := nameTokens(name)
	if len(parts) < 2 || domain == "" {
		return "", nil
	}
	first, last := parts[0], parts[len(parts)-1]
	patterns := []string{
		first + "." + last + "@" + domain,
		first + last + "@" + domain,
		first[:1] + last + "@" + domain,
		last + "@" + domain,
	}
	return patterns[0], patterns
}

// ConstructedCandidate builds a low-confidence candidate from a name hit.
// The boolean is false when no email could be constructed.
func ConstructedCandidate(hit NameHit, domain string) (types.FacultyCandidate, bool) {
	email, tried := ConstructEmail(hit.Name, domain)
	if email == "" {
		return types.FacultyCandidate{}, false
	}
	return types.FacultyCandidate{
		Name:               hit.Name,
		Email:              email,
		ProfileURL:         hit.ProfileURL,
		Source:             types.SourceConstructed,
		Confidence:         types.ConfidenceLow,
		EmailConstructed:   true,
		EmailPatternsTried: tried,
	}, true
}

// nameTokens returns the lower-case ASCII words of a name with the title
// removed and punctuation dropped.
func nameTokens(name string) []string {
	folded := FoldASCII(StripTitle(name))
	var out []string
	for _, w := range strings.Fields(folded) {
		var b strings.Builder
		for _, r := range w {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
				b.WriteRune(r)
			}
		}
		if b.Len() > 0 {
			out = append(out, b.String())
		}
	}
	return out
}

// FoldASCII lower-cases s and strips diacritics ("Núñez" -> "nunez").
func FoldASCII(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// resolve returns href made absolute against base, or "" when it cannot be parsed.
func resolve(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base == nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}
