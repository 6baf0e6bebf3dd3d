// Package dataloader provides per-request DataLoaders that batch the user
// lookups behind list responses into single store calls.
package dataloader

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/impact-hub-backend/internal/domain"
)

const (
	maxBatch = 100
	wait     = 2 * time.Millisecond
)

type userRepo interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error)
}

// Loaders contains the per-request DataLoaders. Created via NewLoaders.
type Loaders struct {
	UserNameByID *dataloader.Loader[uuid.UUID, string]
}

// NewLoaders creates a new set of DataLoaders backed by users.
// Must be called per-request (loaders cache results within a single request).
func NewLoaders(users userRepo) *Loaders {
	return &Loaders{
		UserNameByID: newLoader(newUserNamesBatchFn(users)),
	}
}

func newLoader[V any](batchFn dataloader.BatchFunc[uuid.UUID, V]) *dataloader.Loader[uuid.UUID, V] {
	return dataloader.NewBatchedLoader(
		batchFn,
		dataloader.WithWait[uuid.UUID, V](wait),
		dataloader.WithBatchCapacity[uuid.UUID, V](maxBatch),
	)
}

// newUserNamesBatchFn resolves user IDs to display names. Unknown users map
// to an empty name rather than an error: a deleted proposer must not fail a
// listing.
func newUserNamesBatchFn(repo userRepo) dataloader.BatchFunc[uuid.UUID, string] {
	return func(ctx context.Context, keys []uuid.UUID) []*dataloader.Result[string] {
		users, err := repo.GetByIDs(ctx, keys)
		if err != nil {
			return errorResults[string](len(keys), err)
		}

		names := make(map[uuid.UUID]string, len(users))
		for _, u := range users {
			names[u.ID] = u.Name
		}

		results := make([]*dataloader.Result[string], len(keys))
		for i, key := range keys {
			results[i] = &dataloader.Result[string]{Data: names[key]}
		}
		return results
	}
}

// UserNames loads the names of ids in one batch. Failed lookups are
// omitted from the result.
func (l *Loaders) UserNames(ctx context.Context, ids []uuid.UUID) map[uuid.UUID]string {
	out := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return out
	}

	names, errs := l.UserNameByID.LoadMany(ctx, ids)()
	for i, id := range ids {
		if len(errs) > i && errs[i] != nil {
			continue
		}
		if names[i] != "" {
			out[id] = names[i]
		}
	}
	return out
}

func errorResults[V any](n int, err error) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], n)
	for i := range results {
		results[i] = &dataloader.Result[V]{Error: err}
	}
	return results
}

type contextKey string

const loadersKey contextKey = "dataloaders"

// WithLoaders stores Loaders in the context.
func WithLoaders(ctx context.Context, l *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey, l)
}

// FromContext retrieves Loaders from the context.
// Panics if loaders are not present (indicates middleware misconfiguration).
func FromContext(ctx context.Context) *Loaders {
	l, ok := ctx.Value(loadersKey).(*Loaders)
	if !ok || l == nil {
		panic("dataloader: loaders not found in context; is the middleware configured?")
	}
	return l
}
