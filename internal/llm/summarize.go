// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/faculty-outreach/pkg/types"
)

const summaryMaxTokens = 400

// Summarizer digests a professor's top papers into a ResearchProfile.
type Summarizer struct {
	LLM   Completer
	Model string
}

// Summarize returns the research profile for name. With no papers, or on
// any failure, it returns the empty profile; the error is for reporting
// only.
func (s *Summarizer) Summarize(ctx context.Context, name string, papers []types.Paper) (types.ResearchProfile, error) {
	if len(papers) == 0 {
		return types.EmptyProfile(), nil
	}
	prompt, err := render(summaryPromptTmpl, struct {
		Name   string
		Digest string
	}{name, Digest(papers)})
	if err != nil {
		return types.EmptyProfile(), fmt.Errorf("rendering summary prompt: %w", err)
	}

	reply, err := s.LLM.Complete(ctx, Request{
		User:        prompt,
		Model:       s.Model,
		MaxTokens:   summaryMaxTokens,
		Temperature: 0.1,
	})
	if err != nil {
		return types.EmptyProfile(), err
	}

	var profile types.ResearchProfile
	if err := DecodeLenient(reply, &profile); err != nil {
		return types.EmptyProfile(), fmt.Errorf("decoding research summary for %s: %w", name, err)
	}
	if profile.Keywords == nil {
		profile.Keywords = []string{}
	}
	if profile.Areas == nil {
		profile.Areas = []string{}
	}
	return profile, nil
}

// Digest renders up to MaxTopPapers papers as a numbered list of title,
// snippet (omitted when empty or "N/A") and citation count.
func Digest(papers []types.Paper) string {
	if len(papers) > types.MaxTopPapers {
		papers = papers[:types.MaxTopPapers]
	}
	var b strings.Builder
	for i, p := range papers {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p.Title)
		if s := strings.TrimSpace(p.Snippet); s != "" && s != "N/A" {
			fmt.Fprintf(&b, "   Abstract/Snippet: %s\n", s)
		}
		fmt.Fprintf(&b, "   Citations: %d\n", p.CitationCount)
	}
	return b.String()
}
