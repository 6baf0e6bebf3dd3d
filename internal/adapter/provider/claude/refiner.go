package claude

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Refiner rewrites a free-text search query into a compact phrase that
// embeds closer to the matching documents.
type Refiner struct {
	c   *client
	log *slog.Logger
}

// NewRefiner creates a Refiner.
func NewRefiner(logger *slog.Logger, cfg Config) (*Refiner, error) {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 128
	}
	c, err := newClient(cfg)
	if err != nil {
		return nil, err
	}
	return &Refiner{c: c, log: logger.With("component", "claude-refiner")}, nil
}

// Refine returns the rewritten query, trimmed to a single line.
func (r *Refiner) Refine(ctx context.Context, query string) (string, error) {
	text, err := r.c.complete(ctx, buildRefinePrompt(query))
	if err != nil {
		return "", fmt.Errorf("claude.Refine: %w", err)
	}

	line, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	line = strings.Trim(strings.TrimSpace(line), `"`)
	r.log.DebugContext(ctx, "query refined", slog.String("query", query), slog.String("refined", line))
	return line, nil
}

func buildRefinePrompt(query string) string {
	return fmt.Sprintf(`Rewrite the following search request as a short English search phrase
describing the social-impact solution or organization the user is looking for.

Request: %s

Output ONLY the phrase on one line.`, query)
}
