// Package localize serves entities in a requested language. Translations are
// fetched from the provider on first request and cached on the entity itself;
// later requests for the same language are served from that cache.
package localize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/impact-hub-backend/internal/domain"
	"github.com/heartmarshall/impact-hub-backend/internal/metrics"
)

const defaultParallelism = 8

// store is the slice of the document store the layer needs.
type store[T any] interface {
	GetByID(ctx context.Context, id uuid.UUID) (*T, error)
	MergeTranslation(ctx context.Context, id uuid.UUID, lang string, fields map[string]string) error
}

// translator bulk-translates a field map. It may omit keys.
type translator interface {
	TranslateFields(ctx context.Context, fields map[string]string, targetLang string) (map[string]string, error)
}

// Kind describes the translatable surface of an entity type.
type Kind[T any] struct {
	Name   string
	ID     func(T) uuid.UUID
	Fields func(T) map[string]string
	Cached func(T) domain.Translations
}

// Options tunes a Localizer.
type Options struct {
	// Parallelism bounds concurrent translations in EnsurePage.
	Parallelism int
	// Timeout bounds a single provider call. Zero means no bound.
	Timeout time.Duration
}

// Localizer is the cache-aside translation layer for one entity kind.
type Localizer[T any] struct {
	log        *slog.Logger
	kind       Kind[T]
	store      store[T]
	translator translator
	metrics    *metrics.Collector
	opts       Options
}

// New creates a Localizer.
func New[T any](logger *slog.Logger, kind Kind[T], st store[T], tr translator, m *metrics.Collector, opts Options) *Localizer[T] {
	if opts.Parallelism <= 0 {
		opts.Parallelism = defaultParallelism
	}
	return &Localizer[T]{
		log:        logger.With("component", "localize", "kind", kind.Name),
		kind:       kind,
		store:      st,
		translator: tr,
		metrics:    m,
		opts:       opts,
	}
}

// GetTranslated fetches the entity and returns it localized to lang.
// A missing entity yields domain.ErrNotFound.
func (l *Localizer[T]) GetTranslated(ctx context.Context, id uuid.UUID, lang string) (domain.LocalizedView[T], error) {
	return l.GetAuthorized(ctx, id, lang, nil)
}

// GetAuthorized is GetTranslated with an access check run on the fetched
// entity before any provider call. A nil check allows everything.
func (l *Localizer[T]) GetAuthorized(ctx context.Context, id uuid.UUID, lang string, check func(T) error) (domain.LocalizedView[T], error) {
	entity, err := l.store.GetByID(ctx, id)
	if err != nil {
		return domain.LocalizedView[T]{}, fmt.Errorf("localize.GetTranslated %s: %w", l.kind.Name, err)
	}
	if check != nil {
		if err := check(*entity); err != nil {
			return domain.LocalizedView[T]{}, err
		}
	}
	return l.Ensure(ctx, *entity, lang), nil
}

// Ensure localizes an entity already in hand, without re-reading it. An
// entity without an ID is translated but not persisted.
func (l *Localizer[T]) Ensure(ctx context.Context, entity T, lang string) domain.LocalizedView[T] {
	if domain.IsPassthroughLanguage(lang) {
		return domain.LocalizedView[T]{Base: entity}
	}
	lang = domain.NormalizeLanguage(lang)

	if cached, ok := l.kind.Cached(entity).Lookup(lang); ok {
		l.metrics.IncTranslation(l.kind.Name, metrics.CacheHit)
		return domain.NewLocalizedView(entity, lang, cached)
	}

	fields := l.kind.Fields(entity)
	if len(fields) == 0 {
		l.metrics.IncTranslation(l.kind.Name, metrics.CacheEmpty)
		return domain.NewLocalizedView(entity, lang, nil)
	}

	translated, err := l.translate(ctx, fields, lang)
	if errors.Is(err, domain.ErrUnavailable) {
		l.metrics.IncTranslation(l.kind.Name, metrics.CacheError)
		return domain.NewLocalizedView(entity, lang, nil)
	}
	if err != nil {
		l.metrics.IncTranslation(l.kind.Name, metrics.CacheError)
		l.log.WarnContext(ctx, "translation failed, serving original",
			slog.String("id", l.kind.ID(entity).String()),
			slog.String("lang", lang),
			slog.String("error", err.Error()),
		)
		return domain.NewLocalizedView(entity, lang, nil)
	}
	l.metrics.IncTranslation(l.kind.Name, metrics.CacheMiss)

	// Nothing usable came back; leave the language uncached so a later
	// request asks again.
	if len(translated) == 0 {
		return domain.NewLocalizedView(entity, lang, nil)
	}

	if id := l.kind.ID(entity); id != uuid.Nil {
		if err := l.store.MergeTranslation(ctx, id, lang, translated); err != nil {
			l.log.WarnContext(ctx, "persist translation failed",
				slog.String("id", id.String()),
				slog.String("lang", lang),
				slog.String("error", err.Error()),
			)
		}
	}

	return domain.NewLocalizedView(entity, lang, translated)
}

// EnsurePage localizes every item concurrently. Output order matches input.
func (l *Localizer[T]) EnsurePage(ctx context.Context, items []T, lang string) []domain.LocalizedView[T] {
	views := make([]domain.LocalizedView[T], len(items))
	if domain.IsPassthroughLanguage(lang) {
		for i, it := range items {
			views[i] = domain.LocalizedView[T]{Base: it}
		}
		return views
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.opts.Parallelism)
	for i, it := range items {
		g.Go(func() error {
			views[i] = l.Ensure(gctx, it, lang)
			return nil
		})
	}
	_ = g.Wait()

	return views
}

// translate calls the provider once for the whole map and keeps only keys
// that were asked for.
func (l *Localizer[T]) translate(ctx context.Context, fields map[string]string, lang string) (map[string]string, error) {
	if l.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.opts.Timeout)
		defer cancel()
	}

	out, err := l.translator.TranslateFields(ctx, fields, lang)
	if err != nil {
		return nil, err
	}

	kept := make(map[string]string, len(out))
	for k, v := range out {
		if _, ok := fields[k]; ok && v != "" {
			kept[k] = v
		}
	}
	return kept, nil
}
