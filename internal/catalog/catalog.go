// Package catalog serves list, search and single-entity reads of a
// collection: it applies the visibility plan, picks the search engine,
// paginates and localizes the page.
package catalog

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/impact-hub-backend/internal/domain"
	"github.com/heartmarshall/impact-hub-backend/internal/localize"
	"github.com/heartmarshall/impact-hub-backend/internal/metrics"
	"github.com/heartmarshall/impact-hub-backend/internal/vectorindex"
	"github.com/heartmarshall/impact-hub-backend/internal/visibility"
)

// Defaults used when Options leaves a field zero.
const (
	DefaultCandidateCap  = 200
	DefaultRefineTimeout = 1500 * time.Millisecond

	refreshParallelism = 8
)

var errQueryEmbedding = errors.New("embed query")

type listStore[T any] interface {
	List(ctx context.Context, eq map[string]string) ([]T, error)
	GetByID(ctx context.Context, id uuid.UUID) (*T, error)
}

type embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// refiner rewrites a free-text query before embedding. It is optional.
type refiner interface {
	Refine(ctx context.Context, query string) (string, error)
}

// Kind describes the visibility surface of an entity type.
type Kind[T any] struct {
	Name       string
	Public     []string
	FilterKeys []string
	Status     func(T) string
	Owner      func(T) uuid.UUID
	Schema     vectorindex.Schema[T]
}

// Options tunes a Catalog.
type Options struct {
	// CandidateCap bounds the hits taken from a search engine before
	// visibility filtering and pagination.
	CandidateCap  int
	RefineTimeout time.Duration
	Metrics       *metrics.Collector
}

// Query is a list or search request.
type Query struct {
	Q       string
	Mode    domain.SearchMode
	Status  string
	Filters map[string]string
	Lang    string
	Page    int
	Limit   int
}

// Catalog composes the store, the vector index and the localizer of one
// collection.
type Catalog[T any] struct {
	log       *slog.Logger
	kind      Kind[T]
	store     listStore[T]
	index     *vectorindex.Index[T]
	embedder  embedder
	refiner   refiner
	localizer *localize.Localizer[T]
	opts      Options
}

// New creates a Catalog. refiner may be nil.
func New[T any](
	logger *slog.Logger,
	kind Kind[T],
	store listStore[T],
	index *vectorindex.Index[T],
	emb embedder,
	ref refiner,
	localizer *localize.Localizer[T],
	opts Options,
) *Catalog[T] {
	if opts.CandidateCap <= 0 {
		opts.CandidateCap = DefaultCandidateCap
	}
	if opts.RefineTimeout <= 0 {
		opts.RefineTimeout = DefaultRefineTimeout
	}
	return &Catalog[T]{
		log:       logger.With("component", "catalog", "collection", kind.Name),
		kind:      kind,
		store:     store,
		index:     index,
		embedder:  emb,
		refiner:   ref,
		localizer: localizer,
		opts:      opts,
	}
}

// Validate checks the mode and filter keys of q against the kind.
func (c *Catalog[T]) Validate(q Query) error {
	var errs []domain.FieldError
	if q.Mode != "" && !q.Mode.IsValid() {
		errs = append(errs, domain.FieldError{Field: "mode", Message: "must be fuzzy or semantic"})
	}
	for k := range q.Filters {
		if k == domain.FilterStatus || !slices.Contains(c.kind.FilterKeys, k) {
			errs = append(errs, domain.FieldError{Field: k, Message: "unsupported filter"})
		}
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// List returns one localized page of the entities p may see. A non-blank
// q runs a search; otherwise the store is listed directly.
func (c *Catalog[T]) List(ctx context.Context, p domain.Principal, q Query) (domain.Page[domain.LocalizedView[T]], error) {
	if err := c.Validate(q); err != nil {
		return domain.Page[domain.LocalizedView[T]]{}, err
	}

	plan := visibility.Decide(p, q.Status, c.kind.Public)

	var (
		items    []T
		searched bool
		err      error
	)
	switch {
	case plan.Kind == visibility.KindEmpty:
	case strings.TrimSpace(q.Q) == "":
		items, err = c.listFromStore(ctx, plan, q.Filters)
	default:
		items, err = c.search(ctx, plan, q)
		searched = true
	}
	if err != nil {
		return domain.Page[domain.LocalizedView[T]]{}, fmt.Errorf("catalog.List %s: %w", c.kind.Name, err)
	}

	page := visibility.Paginate(items, q.Page, q.Limit)
	if searched && !domain.IsPassthroughLanguage(q.Lang) {
		page.Items = c.refresh(ctx, plan, page.Items)
	}
	views := c.localizer.EnsurePage(ctx, page.Items, q.Lang)

	return domain.Page[domain.LocalizedView[T]]{
		Items:      views,
		Total:      page.Total,
		Page:       page.Page,
		TotalPages: page.TotalPages,
	}, nil
}

// Get returns a single localized entity after checking that p may see it.
func (c *Catalog[T]) Get(ctx context.Context, p domain.Principal, id uuid.UUID, lang string) (domain.LocalizedView[T], error) {
	return c.localizer.GetAuthorized(ctx, id, lang, func(item T) error {
		if visibility.CanView(p, c.kind.Status(item), c.kind.Owner(item), c.kind.Public) {
			return nil
		}
		if p.IsAnonymous() {
			return domain.ErrUnauthorized
		}
		return domain.ErrForbidden
	})
}

// refresh re-reads search hits from the store. Hits are index snapshots and
// do not carry translations cached after the snapshot was taken. Entities
// deleted or no longer visible since then are dropped; a failed read keeps
// the snapshot.
func (c *Catalog[T]) refresh(ctx context.Context, plan visibility.Plan, items []T) []T {
	fresh := make([]*T, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(refreshParallelism)
	for i, it := range items {
		g.Go(func() error {
			id := c.kind.Schema.ID(it)
			got, err := c.store.GetByID(gctx, id)
			switch {
			case errors.Is(err, domain.ErrNotFound):
			case err != nil:
				c.log.WarnContext(ctx, "refresh search hit",
					slog.String("id", id.String()),
					slog.String("error", err.Error()),
				)
				fresh[i] = &it
			case plan.Allows(c.kind.Status(*got), c.kind.Owner(*got)):
				fresh[i] = got
			}
			return nil
		})
	}
	_ = g.Wait()

	out := make([]T, 0, len(items))
	for _, f := range fresh {
		if f != nil {
			out = append(out, *f)
		}
	}
	return out
}

// listFromStore runs the store queries the plan needs and merges them.
func (c *Catalog[T]) listFromStore(ctx context.Context, plan visibility.Plan, filters map[string]string) ([]T, error) {
	var sets [][]T

	run := func(extra map[string]string) error {
		eq, ok := narrow(filters, extra)
		if !ok {
			return nil
		}
		items, err := c.store.List(ctx, eq)
		if err != nil {
			return err
		}
		sets = append(sets, items)
		return nil
	}

	owner := func() map[string]string {
		return map[string]string{domain.FilterProposedBy: plan.Owner.String()}
	}

	var err error
	switch plan.Kind {
	case visibility.KindAll:
		err = run(nil)
	case visibility.KindStatus:
		err = run(map[string]string{domain.FilterStatus: plan.Status})
	case visibility.KindOwnedStatus:
		extra := owner()
		extra[domain.FilterStatus] = plan.Status
		err = run(extra)
	case visibility.KindPublic, visibility.KindUnion:
		for _, st := range plan.Public {
			if err = run(map[string]string{domain.FilterStatus: st}); err != nil {
				break
			}
		}
		if err == nil && plan.Kind == visibility.KindUnion {
			err = run(owner())
		}
	}
	if err != nil {
		return nil, err
	}

	return visibility.Merge(c.kind.Schema.ID, sets...), nil
}

// narrow adds extra equality constraints to filters. It reports false when
// an extra constraint contradicts a caller filter, i.e. the query is empty.
func narrow(filters, extra map[string]string) (map[string]string, bool) {
	eq := maps.Clone(filters)
	if eq == nil {
		eq = make(map[string]string, len(extra))
	}
	for k, v := range extra {
		if cur, ok := eq[k]; ok && cur != v {
			return nil, false
		}
		eq[k] = v
	}
	return eq, true
}

func (c *Catalog[T]) search(ctx context.Context, plan visibility.Plan, q Query) ([]T, error) {
	sets := searchFilters(plan, q.Filters)
	if len(sets) == 0 {
		return nil, nil
	}

	mode := q.Mode
	if mode == "" {
		mode = domain.SearchModeSemantic
	}

	var (
		hits []vectorindex.Hit[T]
		err  error
	)
	if mode == domain.SearchModeSemantic {
		hits, err = c.semantic(ctx, q.Q, sets)
		if errors.Is(err, errQueryEmbedding) {
			c.log.WarnContext(ctx, "semantic search degraded to fuzzy", slog.String("error", err.Error()))
			mode, err = domain.SearchModeFuzzy, nil
		}
		if err != nil {
			return nil, err
		}
	}
	if mode == domain.SearchModeFuzzy {
		hits, err = c.fuzzy(ctx, q.Q, sets)
		if err != nil {
			return nil, err
		}
	}
	c.opts.Metrics.IncSearch(c.kind.Name, mode.String())

	items := make([]T, 0, len(hits))
	for _, h := range hits {
		if plan.Allows(c.kind.Status(h.Item), c.kind.Owner(h.Item)) {
			items = append(items, h.Item)
		}
	}
	return items, nil
}

// searchFilters returns the filter sets a search runs with. Status-scoped
// plans carry their status into the engine, and a public-only plan runs once
// per public status, so the candidate cap is spent on visible entities.
// Owner-dependent plans still rely on Plan.Allows afterwards.
func searchFilters(plan visibility.Plan, filters map[string]string) []map[string]string {
	var statuses []string
	switch {
	case plan.Status != "":
		statuses = []string{plan.Status}
	case plan.Kind == visibility.KindPublic:
		statuses = plan.Public
	default:
		return []map[string]string{filters}
	}

	sets := make([]map[string]string, 0, len(statuses))
	for _, st := range statuses {
		if eq, ok := narrow(filters, map[string]string{domain.FilterStatus: st}); ok {
			sets = append(sets, eq)
		}
	}
	return sets
}

func (c *Catalog[T]) semantic(ctx context.Context, text string, sets []map[string]string) ([]vectorindex.Hit[T], error) {
	if err := c.index.EnsureBuilt(ctx); err != nil {
		return nil, err
	}

	vec, err := c.embedder.EmbedText(ctx, c.refine(ctx, text))
	if err != nil {
		c.opts.Metrics.IncEmbedError(c.kind.Name, "query")
		return nil, fmt.Errorf("%w: %w", errQueryEmbedding, err)
	}

	var hits []vectorindex.Hit[T]
	for _, f := range sets {
		hits = append(hits, c.index.Search(vec, c.opts.CandidateCap, f)...)
	}
	return c.capHits(hits, len(sets)), nil
}

// fuzzy never embeds: without a built index it scans a store listing.
func (c *Catalog[T]) fuzzy(ctx context.Context, term string, sets []map[string]string) ([]vectorindex.Hit[T], error) {
	term = strings.TrimSpace(term)

	var hits []vectorindex.Hit[T]
	for _, f := range sets {
		if c.index.Ready() {
			hits = append(hits, c.index.SearchFuzzy(term, c.opts.CandidateCap, f)...)
			continue
		}
		items, err := c.store.List(ctx, f)
		if err != nil {
			return nil, err
		}
		hits = append(hits, vectorindex.MatchFuzzy(c.kind.Schema, items, term, c.opts.CandidateCap, f)...)
	}
	return c.capHits(hits, len(sets)), nil
}

// capHits merges per-set results back into one ranking bounded by
// CandidateCap. The sets are disjoint by status, so no hit repeats.
func (c *Catalog[T]) capHits(hits []vectorindex.Hit[T], sets int) []vectorindex.Hit[T] {
	if sets < 2 {
		return hits
	}
	slices.SortStableFunc(hits, func(a, b vectorindex.Hit[T]) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(hits) > c.opts.CandidateCap {
		hits = hits[:c.opts.CandidateCap]
	}
	return hits
}

// refine asks the refiner for a better search phrase, waiting at most
// RefineTimeout. Any failure falls back to the original text.
func (c *Catalog[T]) refine(ctx context.Context, text string) string {
	if c.refiner == nil {
		return text
	}

	rctx, cancel := context.WithTimeout(ctx, c.opts.RefineTimeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		out, err := c.refiner.Refine(rctx, text)
		ch <- result{out, err}
	}()

	select {
	case r := <-ch:
		if r.err != nil || strings.TrimSpace(r.text) == "" {
			if r.err != nil {
				c.log.DebugContext(ctx, "query refinement failed", slog.String("error", r.err.Error()))
			}
			return text
		}
		return r.text
	case <-rctx.Done():
		c.log.DebugContext(ctx, "query refinement timed out")
		return text
	}
}
