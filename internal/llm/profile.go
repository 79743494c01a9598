// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/faculty-outreach/internal/extract"
	"github.com/pdiddy/faculty-outreach/internal/fetch"
)

const (
	profileTextLimit = 8000
	profileMaxTokens = 500
)

// ProfileExtractor reads one faculty profile page. It implements
// extract.ProfileExtractor.
type ProfileExtractor struct {
	LLM   Completer
	Model string
}

// ExtractProfile implements extract.ProfileExtractor. The page text is cut
// to 8000 characters.
func (p *ProfileExtractor) ExtractProfile(ctx context.Context, pageText, pageURL string) (extract.ProfileData, error) {
	prompt, err := render(profilePromptTmpl, struct {
		PageURL  string
		PageText string
	}{pageURL, fetch.Truncate(pageText, profileTextLimit)})
	if err != nil {
		return extract.ProfileData{}, fmt.Errorf("rendering profile prompt: %w", err)
	}

	reply, err := p.LLM.Complete(ctx, Request{
		User:        prompt,
		Model:       p.Model,
		MaxTokens:   profileMaxTokens,
		Temperature: 0.1,
	})
	if err != nil {
		return extract.ProfileData{}, err
	}

	var data extract.ProfileData
	if err := DecodeLenient(reply, &data); err != nil {
		return extract.ProfileData{}, fmt.Errorf("decoding profile for %s: %w", pageURL, err)
	}
	data.Name = strings.TrimSpace(data.Name)
	data.Email = strings.TrimSpace(data.Email)
	return data, nil
}
