// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"strings"
)

const composeMaxTokens = 800

// Composer turns a rendered outreach prompt into email prose.
type Composer struct {
	LLM   Completer
	Model string
}

// Compose returns the trimmed model reply for prompt.
func (c *Composer) Compose(ctx context.Context, prompt string) (string, error) {
	model := c.Model
	if model == "" {
		model = DefaultComposeModel
	}
	reply, err := c.LLM.Complete(ctx, Request{
		User:        prompt,
		Model:       model,
		MaxTokens:   composeMaxTokens,
		Temperature: 0.3,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}
