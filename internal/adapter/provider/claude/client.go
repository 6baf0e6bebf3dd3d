// Package claude implements field translation and search-query refinement
// on the Anthropic Messages API.
package claude

import (
	"context"
	"errors"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Defaults used when Config leaves a field zero.
const (
	DefaultModel     = "claude-3-5-haiku-latest"
	DefaultMaxTokens = 1024
)

// messageCreator is the slice of anthropic.MessageService used here.
type messageCreator interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// Config configures the Anthropic client.
type Config struct {
	APIKey    string
	Model     string
	MaxTokens int64
}

type client struct {
	messages  messageCreator
	model     string
	maxTokens int64
}

func newClient(cfg Config) (*client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("claude: api key is required")
	}
	c := anthropic.NewClient(option.WithAPIKey(cfg.APIKey))
	return withMessages(&c.Messages, cfg), nil
}

func withMessages(m messageCreator, cfg Config) *client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	return &client{messages: m, model: cfg.Model, maxTokens: cfg.MaxTokens}
}

// complete sends one user prompt and returns the concatenated text blocks.
func (c *client) complete(ctx context.Context, prompt string) (string, error) {
	msg, err := c.messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("llm api call: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", errors.New("empty response")
	}
	return b.String(), nil
}

// extractJSON finds the outermost JSON object in a string.
func extractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", errors.New("no JSON object found in response")
	}
	return s[start : end+1], nil
}
