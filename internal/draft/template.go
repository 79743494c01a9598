// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package draft

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pdiddy/faculty-outreach/pkg/types"
)

// Template slots.
const (
	slotProfContext  = "prof_context"
	slotPaperContext = "paper_context"
)

// LoadTemplate reads the outreach prompt template at path, trimmed.
func LoadTemplate(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("email template file %q not found", path)
	}
	if err != nil {
		return "", fmt.Errorf("reading email template %s: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// RenderTemplate fills {prof_context} and {paper_context} in tmpl. "{{" and
// "}}" produce literal braces. Any other {name} is an error, as is an
// unbalanced brace.
func RenderTemplate(tmpl, profContext, paperContext string) (string, error) {
	values := map[string]string{
		slotProfContext:  profContext,
		slotPaperContext: paperContext,
	}

	var b strings.Builder
	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		switch {
		case c == '{' && i+1 < len(tmpl) && tmpl[i+1] == '{':
			b.WriteByte('{')
			i++
		case c == '}' && i+1 < len(tmpl) && tmpl[i+1] == '}':
			b.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(tmpl[i+1:], '}')
			if end < 0 {
				return "", fmt.Errorf("template: unclosed '{' at offset %d", i)
			}
			key := tmpl[i+1 : i+1+end]
			v, ok := values[key]
			if !ok {
				return "", fmt.Errorf("template: unknown placeholder {%s}", key)
			}
			b.WriteString(v)
			i += end + 1
		case c == '}':
			return "", fmt.Errorf("template: single '}' at offset %d", i)
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

// ProfessorContext describes p for the prompt.
func ProfessorContext(p Professor) string {
	summary := p.ResearchSummary
	if summary == "" {
		summary = "N/A"
	}
	return fmt.Sprintf("Professor: %s\nEmail: %s\nResearch Summary: %s\nResearch Keywords: %s\nResearch Areas: %s\n",
		p.Name, p.Email, summary,
		strings.Join(p.ResearchKeywords, ", "),
		strings.Join(p.ResearchAreas, ", "))
}

// PaperContext describes the selected paper, or returns "" for none.
func PaperContext(paper *types.Paper) string {
	if paper == nil {
		return ""
	}
	snippet := paper.Snippet
	if snippet == "" {
		snippet = "N/A"
	}
	return fmt.Sprintf("Selected Paper: %s\nPaper Abstract/Snippet: %s\nCitations: %d\n",
		paper.Title, snippet, paper.CitationCount)
}
