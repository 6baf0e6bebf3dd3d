package embedding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/impact-hub-backend/internal/vectorindex"
)

func TestHash_Deterministic(t *testing.T) {
	t.Parallel()
	h := NewHash(64)

	a, err := h.EmbedText(context.Background(), "Solar water pumps")
	require.NoError(t, err)
	b, err := h.EmbedText(context.Background(), "solar WATER pumps!")
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.Equal(t, a, b)
	assert.InDelta(t, 1.0, vectorindex.Cosine(a, b), 1e-6)
}

func TestHash_SharedWordsAreCloser(t *testing.T) {
	t.Parallel()
	h := NewHash(0)
	ctx := context.Background()

	q, _ := h.EmbedText(ctx, "clean water")
	near, _ := h.EmbedText(ctx, "clean water filters for villages")
	far, _ := h.EmbedText(ctx, "microfinance loans")

	assert.Greater(t, vectorindex.Cosine(q, near), vectorindex.Cosine(q, far))
}

func TestHash_EmptyTextIsZeroVector(t *testing.T) {
	t.Parallel()

	v, err := NewHash(8).EmbedText(context.Background(), "  ...  ")
	require.NoError(t, err)
	assert.Equal(t, make([]float32, 8), v)
}

func TestHash_CanceledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHash(8).EmbedTexts(ctx, []string{"a"})
	assert.ErrorIs(t, err, context.Canceled)
}
