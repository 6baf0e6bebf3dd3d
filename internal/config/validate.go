package config

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.AccessTokenTTL <= 0 {
		return fmt.Errorf("auth.access_token_ttl must be > 0 (got %s)", c.Auth.AccessTokenTTL)
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("auth.bcrypt_cost must be in [%d, %d] (got %d)", bcrypt.MinCost, bcrypt.MaxCost, c.Auth.BcryptCost)
	}

	if err := c.Database.validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Log.validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if c.RateLimit.RequestsPerMinute < 0 {
		return fmt.Errorf("rate_limit.requests_per_minute must be >= 0 (got %d)", c.RateLimit.RequestsPerMinute)
	}
	if err := c.Search.validate(); err != nil {
		return fmt.Errorf("search: %w", err)
	}
	if err := c.Embedding.validate(); err != nil {
		return fmt.Errorf("embedding: %w", err)
	}
	if err := c.Translation.validate(); err != nil {
		return fmt.Errorf("translation: %w", err)
	}
	if c.Events.Enabled() && strings.TrimSpace(c.Events.Topic) == "" {
		return fmt.Errorf("events: topic is required when brokers are set")
	}

	return nil
}

func (d *DatabaseConfig) validate() error {
	switch d.Driver {
	case DriverPostgres:
		if d.DSN == "" {
			return fmt.Errorf("dsn is required for the postgres driver")
		}
		if d.MinConns > d.MaxConns {
			return fmt.Errorf("min_conns (%d) must not exceed max_conns (%d)", d.MinConns, d.MaxConns)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("driver must be %q or %q (got %q)", DriverPostgres, DriverMemory, d.Driver)
	}
	return nil
}

func (l *LogConfig) validate() error {
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, strings.ToLower(l.Level)) {
		return fmt.Errorf("level must be debug, info, warn or error (got %q)", l.Level)
	}
	if !slices.Contains([]string{"json", "text"}, strings.ToLower(l.Format)) {
		return fmt.Errorf("format must be json or text (got %q)", l.Format)
	}
	return nil
}

func (s *SearchConfig) validate() error {
	if s.MinSimilarity < 0 || s.MinSimilarity > 1 {
		return fmt.Errorf("min_similarity must be in [0, 1] (got %v)", s.MinSimilarity)
	}
	if s.CandidateCap <= 0 {
		return fmt.Errorf("candidate_cap must be > 0 (got %d)", s.CandidateCap)
	}
	if s.BuildWorkers <= 0 {
		return fmt.Errorf("build_workers must be > 0 (got %d)", s.BuildWorkers)
	}
	if s.RefineEnabled && s.RefineTimeout <= 0 {
		return fmt.Errorf("refine_timeout must be > 0 when refinement is enabled")
	}
	return nil
}

func (e *EmbeddingConfig) validate() error {
	switch e.Provider {
	case EmbeddingOpenAI:
		if e.Model == "" {
			return fmt.Errorf("model is required for the openai provider")
		}
	case EmbeddingHash:
		if e.Dimensions <= 0 {
			return fmt.Errorf("dimensions must be > 0 (got %d)", e.Dimensions)
		}
	default:
		return fmt.Errorf("provider must be %q or %q (got %q)", EmbeddingOpenAI, EmbeddingHash, e.Provider)
	}
	return nil
}

func (t *TranslationConfig) validate() error {
	switch t.Provider {
	case TranslationClaude:
		if t.APIKey == "" {
			return fmt.Errorf("api_key is required for the claude provider")
		}
		if t.MaxTokens <= 0 {
			return fmt.Errorf("max_tokens must be > 0 (got %d)", t.MaxTokens)
		}
	case TranslationStub:
	default:
		return fmt.Errorf("provider must be %q or %q (got %q)", TranslationClaude, TranslationStub, t.Provider)
	}
	if t.Parallelism <= 0 {
		return fmt.Errorf("parallelism must be > 0 (got %d)", t.Parallelism)
	}
	return nil
}
