// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm implements the language-model capabilities of the pipeline:
// pairing emails with names, choosing profile links, reading profile pages,
// summarising research and composing outreach prose. Every capability sits
// on a Completer so tests can substitute canned replies.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/pdiddy/faculty-outreach/pkg/types"
)

const (
	// DefaultModel is used by the extraction and summary prompts.
	DefaultModel = "gpt-3.5-turbo"

	// DefaultComposeModel is used for outreach prose.
	DefaultComposeModel = "gpt-4"

	// DefaultTimeout bounds one completion request.
	DefaultTimeout = 30 * time.Second
)

// Request is a single chat completion.
type Request struct {
	// System is an optional system message.
	System string

	// User is the prompt text.
	User string

	// Model overrides the client's default model.
	Model string

	MaxTokens   int
	Temperature float64
}

// Completer returns the text of one chat completion.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// OpenAI is a Completer backed by the OpenAI chat completions API. Requests
// are never retried.
type OpenAI struct {
	client  openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAI builds a client from cfg. The API key is required.
func NewOpenAI(cfg types.AIConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OPENAI_API_KEY is not set")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(timeout),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAI{client: openai.NewClient(opts...), model: model, timeout: timeout}, nil
}

// Complete implements Completer.
func (o *OpenAI) Complete(ctx context.Context, req Request) (string, error) {
	model := req.Model
	if model == "" {
		model = o.model
	}

	var msgs []openai.ChatCompletionMessageParamUnion
	if req.System != "" {
		msgs = append(msgs, openai.SystemMessage(req.System))
	}
	msgs = append(msgs, openai.UserMessage(req.User))

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model),
		Messages:    msgs,
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion (%s): %w", model, err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
