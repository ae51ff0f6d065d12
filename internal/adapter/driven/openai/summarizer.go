// Package openai implements the Summarizer driven port against the OpenAI
// chat completion API.
package openai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ericfisherdev/wikireview/internal/domain/port/driven"
)

const promptPrefix = "Summarize the following markdown diff in 1-2 sentences. " +
	"Focus on user-visible changes.\n\n"

// Compile-time interface satisfaction check.
var _ driven.Summarizer = (*Summarizer)(nil)

// Summarizer produces short natural-language summaries of unified diffs.
type Summarizer struct {
	client *openai.Client
	model  string
}

// NewSummarizer creates a Summarizer using the given API key and model.
func NewSummarizer(apiKey, model string) *Summarizer {
	return &Summarizer{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Summarize sends the diff to the chat completion API and returns the
// trimmed response text.
func (s *Summarizer) Summarize(ctx context.Context, diffText string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: promptPrefix + diffText,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
