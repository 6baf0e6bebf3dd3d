// Package embedding provides text embedders for the vector index.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// OpenAI embeds text through an OpenAI-compatible embeddings endpoint
// (OpenAI, Ollama, vLLM and similar).
type OpenAI struct {
	embedder embeddings.Embedder
	log      *slog.Logger
}

// OpenAIConfig configures the remote embedder.
type OpenAIConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// NewOpenAI builds an embedder backed by langchaingo.
func NewOpenAI(logger *slog.Logger, cfg OpenAIConfig) (*OpenAI, error) {
	if cfg.Model == "" {
		return nil, errors.New("embedding: model is required")
	}

	token := cfg.APIKey
	if token == "" {
		// Local OpenAI-compatible hosts accept any token.
		token = "none"
	}

	opts := []openai.Option{
		openai.WithToken(token),
		openai.WithEmbeddingModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("embedding: openai client: %w", err)
	}

	emb, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("embedding: new embedder: %w", err)
	}

	return &OpenAI{
		embedder: emb,
		log:      logger.With("component", "openai-embedder"),
	}, nil
}

// EmbedText returns the embedding of a single text.
func (e *OpenAI) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embedding: embed text: %w", err)
	}
	if len(vecs) == 0 || len(vecs[0]) == 0 {
		return nil, errors.New("embedding: empty result")
	}
	return vecs[0], nil
}

// EmbedTexts embeds texts in one batch call.
func (e *OpenAI) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.log.DebugContext(ctx, "embedding batch", slog.Int("count", len(texts)))

	vecs, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding: embed %d texts: %w", len(texts), err)
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("embedding: got %d vectors for %d texts", len(vecs), len(texts))
	}
	return vecs, nil
}
