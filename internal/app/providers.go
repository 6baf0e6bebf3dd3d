package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/impact-hub-backend/internal/adapter/events"
	"github.com/heartmarshall/impact-hub-backend/internal/adapter/provider/claude"
	"github.com/heartmarshall/impact-hub-backend/internal/adapter/provider/embedding"
	"github.com/heartmarshall/impact-hub-backend/internal/adapter/provider/translate"
	"github.com/heartmarshall/impact-hub-backend/internal/config"
)

// Embedder turns text into a vector.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// Translator translates a set of named fields into a target language.
type Translator interface {
	TranslateFields(ctx context.Context, fields map[string]string, targetLang string) (map[string]string, error)
}

// Refiner rewrites a free-text search query.
type Refiner interface {
	Refine(ctx context.Context, query string) (string, error)
}

// Publisher emits workflow events.
type Publisher interface {
	Publish(ctx context.Context, e events.Event) error
	Close() error
}

// NewEmbedder builds the embedder selected by cfg.
func NewEmbedder(logger *slog.Logger, cfg config.EmbeddingConfig) (Embedder, error) {
	switch cfg.Provider {
	case config.EmbeddingOpenAI:
		return embedding.NewOpenAI(logger, embedding.OpenAIConfig{
			BaseURL: cfg.BaseURL,
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
		})
	case config.EmbeddingHash:
		return embedding.NewHash(cfg.Dimensions), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

func newTranslator(logger *slog.Logger, cfg config.TranslationConfig) (Translator, error) {
	switch cfg.Provider {
	case config.TranslationClaude:
		return claude.NewTranslator(logger, claudeConfig(cfg))
	case config.TranslationStub:
		logger.Warn("translation provider is the stub; localized reads serve the original text")
		return translate.NewStub(), nil
	default:
		return nil, fmt.Errorf("unknown translation provider %q", cfg.Provider)
	}
}

// newRefiner returns nil when refinement is disabled or no LLM is configured.
func newRefiner(logger *slog.Logger, search config.SearchConfig, cfg config.TranslationConfig) (Refiner, error) {
	if !search.RefineEnabled {
		return nil, nil
	}
	if cfg.Provider != config.TranslationClaude {
		logger.Warn("search.refine_enabled needs the claude provider; refinement disabled")
		return nil, nil
	}
	r, err := claude.NewRefiner(logger, claudeConfig(cfg))
	if err != nil {
		return nil, err
	}
	return r, nil
}

func newPublisher(logger *slog.Logger, cfg config.EventsConfig) (Publisher, error) {
	if !cfg.Enabled() {
		return events.Noop{}, nil
	}
	return events.NewKafka(logger, events.KafkaConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
		Timeout: cfg.PublishTimeout,
	})
}

func claudeConfig(cfg config.TranslationConfig) claude.Config {
	return claude.Config{
		APIKey:    cfg.APIKey,
		Model:     cfg.Model,
		MaxTokens: cfg.MaxTokens,
	}
}
