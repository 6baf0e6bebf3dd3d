package vectorindex

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Test fixtures
// ---------------------------------------------------------------------------

type doc struct {
	ID      uuid.UUID
	Name    string
	Summary string
	Domain  string
	Status  string
}

var docSchema = Schema[doc]{
	Collection: "docs",
	ID:         func(d doc) uuid.UUID { return d.ID },
	Text:       func(d doc) string { return d.Name },
	Field: func(d doc, key string) string {
		switch key {
		case "status":
			return d.Status
		case "domain":
			return d.Domain
		}
		return ""
	},
	FuzzyText: func(d doc) []string { return []string{d.Name, d.Summary, d.Domain} },
}

type sourceMock struct {
	ListAllFunc func(ctx context.Context) ([]doc, error)
	calls       atomic.Int32
}

func (m *sourceMock) ListAll(ctx context.Context) ([]doc, error) {
	m.calls.Add(1)
	return m.ListAllFunc(ctx)
}

type embedderMock struct {
	EmbedTextFunc func(ctx context.Context, text string) ([]float32, error)
	calls         atomic.Int32
}

func (m *embedderMock) EmbedText(ctx context.Context, text string) ([]float32, error) {
	m.calls.Add(1)
	return m.EmbedTextFunc(ctx, text)
}

// tableEmbedder maps known texts to fixed vectors; unknown texts get [1, 0].
func tableEmbedder(table map[string][]float32) *embedderMock {
	return &embedderMock{EmbedTextFunc: func(_ context.Context, text string) ([]float32, error) {
		if v, ok := table[text]; ok {
			return v, nil
		}
		return []float32{1, 0}, nil
	}}
}

func staticSource(docs ...doc) *sourceMock {
	return &sourceMock{ListAllFunc: func(context.Context) ([]doc, error) { return docs, nil }}
}

func newTestIndex(t *testing.T, src Source[doc], emb Embedder) *Index[doc] {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ix, err := New(logger, docSchema, src, emb, Options{Workers: 4})
	require.NoError(t, err)
	t.Cleanup(ix.Dispose)
	return ix
}

func allEntries(ix *Index[doc]) []doc {
	hits := ix.SearchFuzzy("", 0, nil)
	out := make([]doc, len(hits))
	for i, h := range hits {
		out[i] = h.Item
	}
	return out
}

// ---------------------------------------------------------------------------
// EnsureBuilt
// ---------------------------------------------------------------------------

func TestEnsureBuilt_ConcurrentCallersShareOneBuild(t *testing.T) {
	t.Parallel()

	docs := []doc{
		{ID: uuid.New(), Name: "a"},
		{ID: uuid.New(), Name: "b"},
		{ID: uuid.New(), Name: "c"},
	}
	release := make(chan struct{})
	src := &sourceMock{ListAllFunc: func(context.Context) ([]doc, error) {
		<-release
		return docs, nil
	}}
	emb := tableEmbedder(nil)
	ix := newTestIndex(t, src, emb)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = ix.EnsureBuilt(context.Background())
		}()
	}

	// Let both callers reach the wait before the fetch returns.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, int32(1), src.calls.Load(), "exactly one fetch")
	assert.Equal(t, int32(len(docs)), emb.calls.Load(), "one embedding per entity")

	entries := allEntries(ix)
	assert.Len(t, entries, len(docs))
	seen := map[uuid.UUID]bool{}
	for _, e := range entries {
		assert.False(t, seen[e.ID], "duplicate entry %s", e.ID)
		seen[e.ID] = true
	}

	// Ready index is a no-op.
	require.NoError(t, ix.EnsureBuilt(context.Background()))
	assert.Equal(t, int32(1), src.calls.Load())
	assert.Equal(t, "ready", ix.Stats().State)
}

func TestEnsureBuilt_SkipsItemsWhoseEmbeddingFails(t *testing.T) {
	t.Parallel()

	good1 := doc{ID: uuid.New(), Name: "good one"}
	bad := doc{ID: uuid.New(), Name: "bad"}
	good2 := doc{ID: uuid.New(), Name: "good two"}
	emb := &embedderMock{EmbedTextFunc: func(_ context.Context, text string) ([]float32, error) {
		if text == "bad" {
			return nil, errors.New("provider unavailable")
		}
		return []float32{1, 0}, nil
	}}
	ix := newTestIndex(t, staticSource(good1, bad, good2), emb)

	require.NoError(t, ix.EnsureBuilt(context.Background()))

	entries := allEntries(ix)
	require.Len(t, entries, 2)
	assert.Equal(t, good1.ID, entries[0].ID, "source order kept")
	assert.Equal(t, good2.ID, entries[1].ID)
}

func TestEnsureBuilt_FetchFailureRetriesOnNextCall(t *testing.T) {
	t.Parallel()

	d := doc{ID: uuid.New(), Name: "a"}
	var fail atomic.Bool
	fail.Store(true)
	src := &sourceMock{ListAllFunc: func(context.Context) ([]doc, error) {
		if fail.Load() {
			return nil, errors.New("store down")
		}
		return []doc{d}, nil
	}}
	ix := newTestIndex(t, src, tableEmbedder(nil))

	err := ix.EnsureBuilt(context.Background())
	require.Error(t, err)
	assert.False(t, ix.Ready())

	fail.Store(false)
	require.NoError(t, ix.EnsureBuilt(context.Background()))
	assert.True(t, ix.Ready())
	assert.Equal(t, 1, ix.Stats().Entries)
}

func TestEnsureBuilt_CallerCancellationDoesNotAbortBuild(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	src := &sourceMock{ListAllFunc: func(context.Context) ([]doc, error) {
		<-release
		return []doc{{ID: uuid.New(), Name: "a"}}, nil
	}}
	ix := newTestIndex(t, src, tableEmbedder(nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := ix.EnsureBuilt(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
	require.NoError(t, ix.EnsureBuilt(context.Background()))
	assert.Equal(t, int32(1), src.calls.Load())
	assert.Equal(t, 1, ix.Stats().Entries)
}

func TestEnsureBuilt_MutationsDuringBuildWin(t *testing.T) {
	t.Parallel()

	d1 := doc{ID: uuid.New(), Name: "one"}
	d2 := doc{ID: uuid.New(), Name: "two"}
	d3 := doc{ID: uuid.New(), Name: "three"}
	entered := make(chan struct{})
	release := make(chan struct{})
	src := &sourceMock{ListAllFunc: func(context.Context) ([]doc, error) {
		close(entered)
		<-release
		return []doc{d1, d2, d3}, nil
	}}
	ix := newTestIndex(t, src, tableEmbedder(nil))

	done := make(chan error, 1)
	go func() { done <- ix.EnsureBuilt(context.Background()) }()
	<-entered

	updated := d1
	updated.Name = "one (edited)"
	created := doc{ID: uuid.New(), Name: "four"}
	require.NoError(t, ix.Upsert(context.Background(), updated))
	require.NoError(t, ix.Upsert(context.Background(), created))
	ix.Remove(d3.ID)

	close(release)
	require.NoError(t, <-done)

	entries := allEntries(ix)
	require.Len(t, entries, 3)
	byID := map[uuid.UUID]doc{}
	for _, e := range entries {
		byID[e.ID] = e
	}
	assert.Equal(t, "one (edited)", byID[d1.ID].Name)
	assert.Contains(t, byID, d2.ID)
	assert.Contains(t, byID, created.ID)
	assert.NotContains(t, byID, d3.ID)
}

// ---------------------------------------------------------------------------
// Upsert / Remove / lifecycle
// ---------------------------------------------------------------------------

func TestUpsert_UninitializedIsNoop(t *testing.T) {
	t.Parallel()

	emb := tableEmbedder(nil)
	ix := newTestIndex(t, staticSource(), emb)

	require.NoError(t, ix.Upsert(context.Background(), doc{ID: uuid.New(), Name: "x"}))
	assert.Equal(t, int32(0), emb.calls.Load())
	assert.Equal(t, 0, ix.Stats().Entries)
}

func TestUpsert_ReplacesInPlace(t *testing.T) {
	t.Parallel()

	a := doc{ID: uuid.New(), Name: "a"}
	b := doc{ID: uuid.New(), Name: "b"}
	ix := newTestIndex(t, staticSource(a, b), tableEmbedder(nil))
	require.NoError(t, ix.EnsureBuilt(context.Background()))

	a.Name = "a2"
	require.NoError(t, ix.Upsert(context.Background(), a))

	entries := allEntries(ix)
	require.Len(t, entries, 2)
	assert.Equal(t, "a2", entries[0].Name)
	assert.Equal(t, "b", entries[1].Name)
}

func TestUpsert_EmbeddingErrorReturned(t *testing.T) {
	t.Parallel()

	ix := newTestIndex(t, staticSource(), &embedderMock{EmbedTextFunc: func(context.Context, string) ([]float32, error) {
		return nil, errors.New("boom")
	}})
	require.NoError(t, ix.EnsureBuilt(context.Background()))

	err := ix.Upsert(context.Background(), doc{ID: uuid.New(), Name: "x"})
	require.Error(t, err)
	assert.Equal(t, 0, ix.Stats().Entries)
}

func TestRemove(t *testing.T) {
	t.Parallel()

	a := doc{ID: uuid.New(), Name: "a"}
	b := doc{ID: uuid.New(), Name: "b"}
	c := doc{ID: uuid.New(), Name: "c"}
	ix := newTestIndex(t, staticSource(a, b, c), tableEmbedder(nil))
	require.NoError(t, ix.EnsureBuilt(context.Background()))

	ix.Remove(b.ID)
	ix.Remove(uuid.New())

	entries := allEntries(ix)
	require.Len(t, entries, 2)
	assert.Equal(t, a.ID, entries[0].ID)
	assert.Equal(t, c.ID, entries[1].ID)

	// Position map stays consistent after the shift.
	c.Name = "c2"
	require.NoError(t, ix.Upsert(context.Background(), c))
	assert.Equal(t, "c2", allEntries(ix)[1].Name)
}

func TestRebuild_RefetchesFromSource(t *testing.T) {
	t.Parallel()

	src := staticSource(doc{ID: uuid.New(), Name: "a"})
	ix := newTestIndex(t, src, tableEmbedder(nil))
	require.NoError(t, ix.EnsureBuilt(context.Background()))

	require.NoError(t, ix.Rebuild(context.Background()))
	assert.Equal(t, int32(2), src.calls.Load())
	assert.True(t, ix.Ready())
}

func TestInvalidate(t *testing.T) {
	t.Parallel()

	ix := newTestIndex(t, staticSource(doc{ID: uuid.New(), Name: "a"}), tableEmbedder(nil))
	require.NoError(t, ix.EnsureBuilt(context.Background()))

	ix.Invalidate()
	assert.False(t, ix.Ready())
	assert.Equal(t, Stats{Collection: "docs", State: "uninitialized", Entries: 0}, ix.Stats())
}

// ---------------------------------------------------------------------------
// Search
// ---------------------------------------------------------------------------

func TestSearch_ThresholdSortAndStableTies(t *testing.T) {
	t.Parallel()

	exact1 := doc{ID: uuid.New(), Name: "exact1", Status: "MATURE"}
	near := doc{ID: uuid.New(), Name: "near", Status: "MATURE"}
	exact2 := doc{ID: uuid.New(), Name: "exact2", Status: "MATURE"}
	orth := doc{ID: uuid.New(), Name: "orth", Status: "MATURE"}
	emb := tableEmbedder(map[string][]float32{
		"exact1": {1, 0},
		"near":   {1, 1},
		"exact2": {2, 0},
		"orth":   {0, 1},
	})
	ix := newTestIndex(t, staticSource(exact1, near, exact2, orth), emb)
	require.NoError(t, ix.EnsureBuilt(context.Background()))

	hits := ix.Search([]float32{1, 0}, 10, nil)

	require.Len(t, hits, 3, "orthogonal entry is below the threshold")
	assert.Equal(t, exact1.ID, hits[0].Item.ID)
	assert.Equal(t, exact2.ID, hits[1].Item.ID, "ties keep index order")
	assert.Equal(t, near.ID, hits[2].Item.ID)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-9)
	assert.InDelta(t, 0.7071, hits[2].Score, 1e-3)

	limited := ix.Search([]float32{1, 0}, 1, nil)
	require.Len(t, limited, 1)
	assert.Equal(t, exact1.ID, limited[0].Item.ID)
}

func TestSearch_FiltersApplyBeforeScoring(t *testing.T) {
	t.Parallel()

	mature := doc{ID: uuid.New(), Name: "m", Status: "MATURE", Domain: "Health"}
	proposed := doc{ID: uuid.New(), Name: "p", Status: "PROPOSED", Domain: "Health"}
	ix := newTestIndex(t, staticSource(mature, proposed), tableEmbedder(nil))
	require.NoError(t, ix.EnsureBuilt(context.Background()))

	hits := ix.Search([]float32{1, 0}, 10, map[string]string{"status": "PROPOSED", "domain": "Health"})
	require.Len(t, hits, 1)
	assert.Equal(t, proposed.ID, hits[0].Item.ID)

	assert.Empty(t, ix.Search([]float32{1, 0}, 10, map[string]string{"domain": "Energy"}))
}

func TestSearch_ZeroQueryVectorMatchesNothing(t *testing.T) {
	t.Parallel()

	ix := newTestIndex(t, staticSource(doc{ID: uuid.New(), Name: "a"}), tableEmbedder(nil))
	require.NoError(t, ix.EnsureBuilt(context.Background()))

	assert.Empty(t, ix.Search([]float32{0, 0}, 10, nil))
}
