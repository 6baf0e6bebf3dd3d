// Package vectorindex implements an in-memory embedding index over a document
// collection with lazy single-flight construction, point upserts, cosine
// similarity search and a regex-based fuzzy fallback.
package vectorindex

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/heartmarshall/impact-hub-backend/internal/metrics"
)

// Defaults used when Options leaves a field zero.
const (
	DefaultMinSimilarity = 0.4
	DefaultWorkers       = 8
)

type state int

const (
	stateUninitialized state = iota
	stateBuilding
	stateReady
)

func (s state) String() string {
	switch s {
	case stateBuilding:
		return "building"
	case stateReady:
		return "ready"
	default:
		return "uninitialized"
	}
}

// Options tunes an Index.
type Options struct {
	// MinSimilarity discards hits scoring below it.
	MinSimilarity float64
	// Workers bounds concurrent embedding calls during a build.
	Workers int
	Metrics *metrics.Collector
}

// Stats is a snapshot of the index lifecycle.
type Stats struct {
	Collection string `json:"collection"`
	State      string `json:"state"`
	Entries    int    `json:"entries"`
}

// buildCall is the shared handle of an in-flight build. Every caller of
// EnsureBuilt during the build waits on the same done channel.
type buildCall struct {
	done chan struct{}
	err  error
}

func (c *buildCall) wait(ctx context.Context) error {
	select {
	case <-c.done:
		return c.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Index holds the embeddings of one collection.
type Index[T any] struct {
	log      *slog.Logger
	schema   Schema[T]
	source   Source[T]
	embedder Embedder
	opts     Options
	pool     *ants.Pool

	mu      sync.RWMutex
	state   state
	gen     uint64
	pending *buildCall
	entries []Entry[T]
	pos     map[uuid.UUID]int
	// touched records IDs mutated while a build is running; the build
	// snapshot is stale for them.
	touched map[uuid.UUID]struct{}
}

// New creates an uninitialized index. Nothing is fetched until the first
// EnsureBuilt.
func New[T any](logger *slog.Logger, schema Schema[T], source Source[T], embedder Embedder, opts Options) (*Index[T], error) {
	if opts.MinSimilarity == 0 {
		opts.MinSimilarity = DefaultMinSimilarity
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}

	pool, err := ants.NewPool(opts.Workers)
	if err != nil {
		return nil, fmt.Errorf("vectorindex.New %s: create worker pool: %w", schema.Collection, err)
	}

	return &Index[T]{
		log:      logger.With("component", "vectorindex", "collection", schema.Collection),
		schema:   schema,
		source:   source,
		embedder: embedder,
		opts:     opts,
		pool:     pool,
		pos:      make(map[uuid.UUID]int),
	}, nil
}

// Collection returns the name of the indexed collection.
func (ix *Index[T]) Collection() string { return ix.schema.Collection }

// Ready reports whether a build has completed.
func (ix *Index[T]) Ready() bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.state == stateReady
}

// Stats returns the current lifecycle state and entry count.
func (ix *Index[T]) Stats() Stats {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return Stats{Collection: ix.schema.Collection, State: ix.state.String(), Entries: len(ix.entries)}
}

// EnsureBuilt builds the index on first use. Concurrent callers share one
// in-flight build; once it succeeds further calls return immediately. A
// failed fetch leaves the index uninitialized so the next call retries.
// Cancelling ctx stops the wait, not the build.
func (ix *Index[T]) EnsureBuilt(ctx context.Context) error {
	ix.mu.Lock()
	switch ix.state {
	case stateReady:
		ix.mu.Unlock()
		return nil
	case stateBuilding:
		call := ix.pending
		ix.mu.Unlock()
		return call.wait(ctx)
	}

	call := &buildCall{done: make(chan struct{})}
	ix.state = stateBuilding
	ix.pending = call
	ix.touched = make(map[uuid.UUID]struct{})
	gen := ix.gen
	ix.mu.Unlock()

	go ix.build(context.WithoutCancel(ctx), call, gen)

	return call.wait(ctx)
}

// Rebuild discards the current entries and builds again. If a build is
// already running, Rebuild joins it instead.
func (ix *Index[T]) Rebuild(ctx context.Context) error {
	ix.mu.Lock()
	if ix.state == stateBuilding {
		call := ix.pending
		ix.mu.Unlock()
		return call.wait(ctx)
	}
	ix.resetLocked()
	ix.mu.Unlock()

	return ix.EnsureBuilt(ctx)
}

// Invalidate drops every entry and returns the index to uninitialized.
// An in-flight build finishes but its result is discarded.
func (ix *Index[T]) Invalidate() {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.resetLocked()
	ix.opts.Metrics.SetIndexEntries(ix.schema.Collection, 0)
}

// Dispose invalidates the index and releases its worker pool. The index
// must not be used afterwards.
func (ix *Index[T]) Dispose() {
	ix.Invalidate()
	ix.pool.Release()
}

func (ix *Index[T]) resetLocked() {
	ix.gen++
	ix.state = stateUninitialized
	ix.pending = nil
	ix.touched = nil
	ix.entries = nil
	ix.pos = make(map[uuid.UUID]int)
}

func (ix *Index[T]) build(ctx context.Context, call *buildCall, gen uint64) {
	start := time.Now()
	built, err := ix.collect(ctx)

	ix.mu.Lock()
	defer func() {
		ix.mu.Unlock()
		close(call.done)
	}()

	if ix.gen != gen {
		ix.log.InfoContext(ctx, "discarding build result of invalidated index")
		return
	}

	ix.pending = nil
	if err != nil {
		ix.state = stateUninitialized
		ix.touched = nil
		call.err = fmt.Errorf("vectorindex.build %s: %w", ix.schema.Collection, err)
		ix.log.ErrorContext(ctx, "index build failed", slog.String("error", err.Error()))
		return
	}

	ix.commitLocked(built)
	ix.state = stateReady
	ix.touched = nil

	elapsed := time.Since(start)
	ix.opts.Metrics.ObserveIndexBuild(ix.schema.Collection, elapsed)
	ix.opts.Metrics.SetIndexEntries(ix.schema.Collection, len(ix.entries))
	ix.log.InfoContext(ctx, "index built",
		slog.Int("entries", len(ix.entries)),
		slog.Duration("elapsed", elapsed),
	)
}

// collect fetches the collection and embeds every entity on the worker pool.
// Items whose embedding fails are skipped.
func (ix *Index[T]) collect(ctx context.Context) ([]Entry[T], error) {
	items, err := ix.source.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collection: %w", err)
	}

	slots := make([]*Entry[T], len(items))
	var wg sync.WaitGroup

	for i, item := range items {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			entry, err := ix.embed(ctx, item)
			if err != nil {
				ix.opts.Metrics.IncEmbedError(ix.schema.Collection, "build")
				ix.log.WarnContext(ctx, "skipping entity: embedding failed",
					slog.String("id", ix.schema.ID(item).String()),
					slog.String("error", err.Error()),
				)
				return
			}
			slots[i] = &entry
		}
		if err := ix.pool.Submit(task); err != nil {
			wg.Done()
			return nil, fmt.Errorf("submit embedding task: %w", err)
		}
	}
	wg.Wait()

	entries := make([]Entry[T], 0, len(items))
	seen := make(map[uuid.UUID]struct{}, len(items))
	for _, e := range slots {
		if e == nil {
			continue
		}
		if _, dup := seen[e.ID]; dup {
			continue
		}
		seen[e.ID] = struct{}{}
		entries = append(entries, *e)
	}
	return entries, nil
}

// commitLocked installs a build result. IDs touched during the build keep
// their live state: upserted entries replace the snapshot, removed ones stay gone.
func (ix *Index[T]) commitLocked(built []Entry[T]) {
	live := make(map[uuid.UUID]Entry[T], len(ix.touched))
	for id := range ix.touched {
		if p, ok := ix.pos[id]; ok {
			live[id] = ix.entries[p]
		}
	}

	entries := make([]Entry[T], 0, len(built)+len(live))
	pos := make(map[uuid.UUID]int, len(built)+len(live))
	for _, e := range built {
		if _, stale := ix.touched[e.ID]; stale {
			le, ok := live[e.ID]
			if !ok {
				continue
			}
			e = le
			delete(live, e.ID)
		}
		pos[e.ID] = len(entries)
		entries = append(entries, e)
	}
	// Entities created during the build and missed by the snapshot.
	for _, e := range ix.entries {
		if _, ok := live[e.ID]; !ok {
			continue
		}
		pos[e.ID] = len(entries)
		entries = append(entries, e)
	}

	ix.entries = entries
	ix.pos = pos
}

func (ix *Index[T]) embed(ctx context.Context, item T) (Entry[T], error) {
	vec, err := ix.embedder.EmbedText(ctx, ix.schema.Text(item))
	if err != nil {
		return Entry[T]{}, err
	}
	return Entry[T]{ID: ix.schema.ID(item), Embedding: vec, Metadata: item}, nil
}

// Upsert re-embeds item and replaces its entry, or appends it. On an
// uninitialized index it does nothing: the lazy build reads the store.
func (ix *Index[T]) Upsert(ctx context.Context, item T) error {
	ix.mu.RLock()
	st, gen := ix.state, ix.gen
	ix.mu.RUnlock()
	if st == stateUninitialized {
		return nil
	}

	entry, err := ix.embed(ctx, item)
	if err != nil {
		ix.opts.Metrics.IncEmbedError(ix.schema.Collection, "upsert")
		return fmt.Errorf("vectorindex.Upsert %s %s: %w", ix.schema.Collection, ix.schema.ID(item), err)
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.gen != gen || ix.state == stateUninitialized {
		return nil
	}

	if p, ok := ix.pos[entry.ID]; ok {
		ix.entries[p] = entry
	} else {
		ix.pos[entry.ID] = len(ix.entries)
		ix.entries = append(ix.entries, entry)
	}
	if ix.state == stateBuilding {
		ix.touched[entry.ID] = struct{}{}
	}
	ix.opts.Metrics.SetIndexEntries(ix.schema.Collection, len(ix.entries))
	return nil
}

// Remove drops the entry for id if present.
func (ix *Index[T]) Remove(id uuid.UUID) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.state == stateUninitialized {
		return
	}
	if ix.state == stateBuilding {
		ix.touched[id] = struct{}{}
	}

	p, ok := ix.pos[id]
	if !ok {
		return
	}
	ix.entries = append(ix.entries[:p], ix.entries[p+1:]...)
	delete(ix.pos, id)
	for i := p; i < len(ix.entries); i++ {
		ix.pos[ix.entries[i].ID] = i
	}
	ix.opts.Metrics.SetIndexEntries(ix.schema.Collection, len(ix.entries))
}

// Search scores the entries that pass filters against query, drops those
// below the similarity threshold and returns up to limit hits, best first.
// Equal scores keep index order.
func (ix *Index[T]) Search(query []float32, limit int, filters map[string]string) []Hit[T] {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	hits := make([]Hit[T], 0)
	for _, e := range ix.entries {
		if !ix.schema.matches(e.Metadata, filters) {
			continue
		}
		score := Cosine(query, e.Embedding)
		if score < ix.opts.MinSimilarity {
			continue
		}
		hits = append(hits, Hit[T]{Item: e.Metadata, Score: score})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

// SearchFuzzy returns up to limit entries whose textual metadata contains
// term, case-insensitively, in index order.
func (ix *Index[T]) SearchFuzzy(term string, limit int, filters map[string]string) []Hit[T] {
	ix.mu.RLock()
	items := make([]T, len(ix.entries))
	for i, e := range ix.entries {
		items[i] = e.Metadata
	}
	ix.mu.RUnlock()

	return MatchFuzzy(ix.schema, items, term, limit, filters)
}
