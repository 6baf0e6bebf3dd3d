package vectorindex

import (
	"context"

	"github.com/google/uuid"
)

// Embedder turns text into a fixed-length vector.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// Source lists every entity of a collection. It is the document store the
// index is derived from.
type Source[T any] interface {
	ListAll(ctx context.Context) ([]T, error)
}

// Schema describes how an entity type is indexed.
type Schema[T any] struct {
	Collection string
	ID         func(T) uuid.UUID
	// Text is the canonical text representation fed to the embedder.
	Text func(T) string
	// Field returns the metadata value used for equality filters.
	Field func(item T, key string) string
	// FuzzyText returns the textual fields the fuzzy engine matches against.
	FuzzyText func(T) []string
}

// Entry is one indexed entity: its embedding and a point-in-time copy of it.
type Entry[T any] struct {
	ID        uuid.UUID
	Embedding []float32
	Metadata  T
}

// Hit is a scored search result.
type Hit[T any] struct {
	Item  T
	Score float64
}

func (s Schema[T]) matches(item T, filters map[string]string) bool {
	for k, v := range filters {
		if s.Field(item, k) != v {
			return false
		}
	}
	return true
}
