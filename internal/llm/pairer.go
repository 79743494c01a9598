// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/faculty-outreach/internal/extract"
	"github.com/pdiddy/faculty-outreach/internal/fetch"
	"github.com/pdiddy/faculty-outreach/pkg/types"
)

const (
	pairingTextLimit  = 12000
	pairingEmailLimit = 20
	pairingMaxTokens  = 1000
)

// Pairer asks the model which name on a directory page belongs to each
// harvested email. It implements extract.NameEmailPairer.
type Pairer struct {
	LLM    Completer
	Model  string
	Filter *extract.Filter
}

type pairEntry struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Confidence string `json:"confidence"`
}

// Pair implements extract.NameEmailPairer. The page text is cut to 12000
// characters and only the first 20 emails are offered. A reply with no
// JSON array yields no candidates and no error.
func (p *Pairer) Pair(ctx context.Context, pageText string, emails []string) ([]types.FacultyCandidate, error) {
	if len(emails) > pairingEmailLimit {
		emails = emails[:pairingEmailLimit]
	}
	prompt, err := render(pairingPromptTmpl, struct {
		PageText string
		Emails   []string
	}{fetch.Truncate(pageText, pairingTextLimit), emails})
	if err != nil {
		return nil, fmt.Errorf("rendering pairing prompt: %w", err)
	}

	reply, err := p.LLM.Complete(ctx, Request{
		User:        prompt,
		Model:       p.Model,
		MaxTokens:   pairingMaxTokens,
		Temperature: 0.1,
	})
	if err != nil {
		return nil, err
	}

	var entries []pairEntry
	if err := DecodeLenient(reply, &entries); err != nil {
		return nil, nil
	}

	offered := make(map[string]bool, len(emails))
	for _, e := range emails {
		offered[strings.ToLower(e)] = true
	}
	filter := p.Filter
	if filter == nil {
		filter = extract.DefaultFilter()
	}

	var out []types.FacultyCandidate
	for _, e := range entries {
		email := strings.TrimSpace(e.Email)
		name := strings.TrimSpace(e.Name)
		if email == "" || !offered[strings.ToLower(email)] || !filter.IsValidProfessorName(name) {
			continue
		}
		out = append(out, types.FacultyCandidate{
			Name:       extract.StripTitle(name),
			Email:      email,
			Source:     types.SourceAIPairing,
			Confidence: types.ParseConfidence(e.Confidence),
		})
	}
	return out, nil
}
