package claude

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// Translator translates a set of named fields in one request.
type Translator struct {
	c   *client
	log *slog.Logger
}

// NewTranslator creates a Translator.
func NewTranslator(logger *slog.Logger, cfg Config) (*Translator, error) {
	c, err := newClient(cfg)
	if err != nil {
		return nil, err
	}
	return &Translator{c: c, log: logger.With("component", "claude-translator")}, nil
}

// TranslateFields translates every value of fields into targetLang and
// returns the result keyed by the same field names. Keys the model did not
// return are absent.
func (t *Translator) TranslateFields(ctx context.Context, fields map[string]string, targetLang string) (map[string]string, error) {
	if len(fields) == 0 {
		return map[string]string{}, nil
	}

	payload, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("claude.TranslateFields: marshal: %w", err)
	}

	text, err := t.c.complete(ctx, buildTranslatePrompt(targetLang, string(payload)))
	if err != nil {
		return nil, fmt.Errorf("claude.TranslateFields %s: %w", targetLang, err)
	}

	raw, err := extractJSON(text)
	if err != nil {
		return nil, fmt.Errorf("claude.TranslateFields %s: %w", targetLang, err)
	}

	var out map[string]string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("claude.TranslateFields %s: decode: %w", targetLang, err)
	}

	t.log.DebugContext(ctx, "fields translated",
		slog.String("lang", targetLang),
		slog.Int("fields", len(out)),
	)
	return out, nil
}

func buildTranslatePrompt(lang, fieldsJSON string) string {
	return fmt.Sprintf(`You are a professional translator for a social-impact knowledge platform.

Translate every value of the JSON object below into the language with ISO code "%s".
Keep the keys unchanged. Keep proper names, URLs and numbers as they are.

%s

Output ONLY a valid JSON object with the same keys, no markdown, no explanations.`, lang, fieldsJSON)
}
