// Package memory is an in-process document store with the same repository
// surface as the PostgreSQL adapters. It backs database.driver=memory and the
// end-to-end tests. Every read returns a deep copy.
package memory

import (
	"bytes"
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/impact-hub-backend/internal/domain"
)

// Store holds every collection behind one lock.
type Store struct {
	mu        sync.RWMutex
	solutions map[uuid.UUID]domain.Solution
	partners  map[uuid.UUID]domain.Partner
	users     map[uuid.UUID]domain.User
	tickets   map[uuid.UUID]domain.Ticket

	now func() time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{
		solutions: make(map[uuid.UUID]domain.Solution),
		partners:  make(map[uuid.UUID]domain.Partner),
		users:     make(map[uuid.UUID]domain.User),
		tickets:   make(map[uuid.UUID]domain.Ticket),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Solutions returns the solution repository.
func (s *Store) Solutions() *SolutionRepo { return &SolutionRepo{s: s} }

// Partners returns the partner repository.
func (s *Store) Partners() *PartnerRepo { return &PartnerRepo{s: s} }

// Users returns the user repository.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Tickets returns the ticket repository.
func (s *Store) Tickets() *TicketRepo { return &TicketRepo{s: s} }

// Ping always succeeds; it satisfies the health check.
func (s *Store) Ping(context.Context) error { return nil }

// TxManager runs fn directly. Each repository call is atomic on its own;
// a failing fn does not roll back earlier writes.
type TxManager struct{}

// RunInTx executes fn.
func (TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

type filterable interface {
	FilterValue(key string) string
}

func matches(item filterable, eq map[string]string) bool {
	for k, v := range eq {
		if item.FilterValue(k) != v {
			return false
		}
	}
	return true
}

func sortedByID[T any](items []T, id func(T) uuid.UUID) []T {
	slices.SortFunc(items, func(a, b T) int {
		x, y := id(a), id(b)
		return bytes.Compare(x[:], y[:])
	})
	return items
}

func cloneTranslations(t domain.Translations) domain.Translations {
	if t == nil {
		return domain.Translations{}
	}
	out := make(domain.Translations, len(t))
	for k, v := range t {
		out[k] = maps.Clone(v)
	}
	return out
}

func cloneSolution(s domain.Solution) domain.Solution {
	s.Translations = cloneTranslations(s.Translations)
	if s.PartnerID != nil {
		id := *s.PartnerID
		s.PartnerID = &id
	}
	if s.PartnerName != nil {
		n := *s.PartnerName
		s.PartnerName = &n
	}
	return s
}

func clonePartner(p domain.Partner) domain.Partner {
	p.Translations = cloneTranslations(p.Translations)
	return p
}

func cloneTicket(t domain.Ticket) domain.Ticket {
	t.Comments = slices.Clone(t.Comments)
	return t
}
