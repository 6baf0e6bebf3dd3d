package solution

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/impact-hub-backend/internal/adapter/events"
	"github.com/heartmarshall/impact-hub-backend/internal/catalog"
	"github.com/heartmarshall/impact-hub-backend/internal/domain"
)

type solutionRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Solution, error)
	Create(ctx context.Context, s *domain.Solution) (*domain.Solution, error)
	Update(ctx context.Context, s *domain.Solution, clearTranslations bool) (*domain.Solution, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SolutionStatus) (*domain.Solution, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type partnerRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Partner, error)
}

type ticketRepo interface {
	Create(ctx context.Context, t *domain.Ticket) (*domain.Ticket, error)
}

type searchIndex interface {
	Upsert(ctx context.Context, item domain.Solution) error
	Remove(id uuid.UUID)
}

type catalogReader interface {
	List(ctx context.Context, p domain.Principal, q catalog.Query) (domain.Page[domain.LocalizedView[domain.Solution]], error)
	Get(ctx context.Context, p domain.Principal, id uuid.UUID, lang string) (domain.LocalizedView[domain.Solution], error)
}

type eventPublisher interface {
	Publish(ctx context.Context, e events.Event) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service manages solutions and their approval tickets.
type Service struct {
	solutions solutionRepo
	partners  partnerRepo
	tickets   ticketRepo
	index     searchIndex
	catalog   catalogReader
	events    eventPublisher
	tx        txManager
	log       *slog.Logger
}

// NewService creates a new Solution service.
func NewService(
	log *slog.Logger,
	solutions solutionRepo,
	partners partnerRepo,
	tickets ticketRepo,
	index searchIndex,
	cat catalogReader,
	pub eventPublisher,
	tx txManager,
) *Service {
	return &Service{
		solutions: solutions,
		partners:  partners,
		tickets:   tickets,
		index:     index,
		catalog:   cat,
		events:    pub,
		tx:        tx,
		log:       log.With("service", "solution"),
	}
}

// reindex refreshes the index entry. A failed embedding leaves the entry
// stale and is not reported to the caller.
func (s *Service) reindex(ctx context.Context, sol domain.Solution) {
	if err := s.index.Upsert(ctx, sol); err != nil {
		s.log.WarnContext(ctx, "reindex solution",
			slog.String("solution_id", sol.ID.String()),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Service) publish(ctx context.Context, e events.Event) {
	e.Collection = Collection
	if err := s.events.Publish(ctx, e); err != nil {
		s.log.WarnContext(ctx, "publish event",
			slog.String("type", e.Type),
			slog.String("solution_id", e.EntityID.String()),
			slog.String("error", err.Error()),
		)
	}
}

// authorize checks that p may edit or delete an entity owned by owner.
func authorize(p domain.Principal, owner uuid.UUID) error {
	if p.IsAnonymous() {
		return domain.ErrUnauthorized
	}
	if !p.CanManage(owner) {
		return domain.ErrForbidden
	}
	return nil
}
