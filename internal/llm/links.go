// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"

	"github.com/pdiddy/faculty-outreach/internal/extract"
)

const linkMaxTokens = 600

// LinkSelector asks the model which directory links are individual
// profiles. It implements extract.LinkSelector.
type LinkSelector struct {
	LLM   Completer
	Model string
}

// SelectProfileLinks implements extract.LinkSelector. URLs the model invents
// are dropped; the result keeps the model's order and holds at most max
// entries.
func (s *LinkSelector) SelectProfileLinks(ctx context.Context, pageURL string, links []extract.Link, max int) ([]string, error) {
	if len(links) == 0 {
		return nil, nil
	}
	if max <= 0 {
		max = extract.MaxProfileLinks
	}
	prompt, err := render(linkPromptTmpl, struct {
		PageURL string
		Links   []extract.Link
		Max     int
	}{pageURL, links, max})
	if err != nil {
		return nil, fmt.Errorf("rendering link prompt: %w", err)
	}

	reply, err := s.LLM.Complete(ctx, Request{
		User:        prompt,
		Model:       s.Model,
		MaxTokens:   linkMaxTokens,
		Temperature: 0.1,
	})
	if err != nil {
		return nil, err
	}

	var urls []string
	if err := DecodeLenient(reply, &urls); err != nil {
		return nil, nil
	}

	known := make(map[string]bool, len(links))
	for _, l := range links {
		known[l.URL] = true
	}
	seen := make(map[string]bool)
	var out []string
	for _, u := range urls {
		if !known[u] || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
		if len(out) == max {
			break
		}
	}
	return out, nil
}
