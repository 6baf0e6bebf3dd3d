// Package translate holds the translation provider used when no LLM is
// configured.
package translate

import (
	"context"
	"fmt"

	"github.com/heartmarshall/impact-hub-backend/internal/domain"
)

// Stub is a no-op translation provider. Every call reports
// domain.ErrUnavailable, so callers serve the original text and cache nothing.
type Stub struct{}

// NewStub creates a new no-op translation provider.
func NewStub() *Stub { return &Stub{} }

// TranslateFields always fails with domain.ErrUnavailable.
func (s *Stub) TranslateFields(_ context.Context, _ map[string]string, targetLang string) (map[string]string, error) {
	return nil, fmt.Errorf("translate to %s: %w", targetLang, domain.ErrUnavailable)
}
