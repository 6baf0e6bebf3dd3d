package partner

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/impact-hub-backend/internal/adapter/events"
	"github.com/heartmarshall/impact-hub-backend/internal/catalog"
	"github.com/heartmarshall/impact-hub-backend/internal/domain"
)

type partnerRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Partner, error)
	Create(ctx context.Context, p *domain.Partner) (*domain.Partner, error)
	Update(ctx context.Context, p *domain.Partner, clearTranslations bool) (*domain.Partner, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PartnerStatus) (*domain.Partner, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// solutionRepo carries the denormalized partner fields on solutions.
type solutionRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Solution, error)
	List(ctx context.Context, eq map[string]string) ([]domain.Solution, error)
	UpdatePartnerName(ctx context.Context, partnerID uuid.UUID, name string) (int64, error)
}

type ticketRepo interface {
	Create(ctx context.Context, t *domain.Ticket) (*domain.Ticket, error)
}

type partnerIndex interface {
	Upsert(ctx context.Context, item domain.Partner) error
	Remove(id uuid.UUID)
}

type solutionIndex interface {
	Upsert(ctx context.Context, item domain.Solution) error
}

type catalogReader interface {
	List(ctx context.Context, p domain.Principal, q catalog.Query) (domain.Page[domain.LocalizedView[domain.Partner]], error)
	Get(ctx context.Context, p domain.Principal, id uuid.UUID, lang string) (domain.LocalizedView[domain.Partner], error)
}

type eventPublisher interface {
	Publish(ctx context.Context, e events.Event) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service manages partner organizations.
type Service struct {
	partners       partnerRepo
	solutions      solutionRepo
	tickets        ticketRepo
	index          partnerIndex
	solutionsIndex solutionIndex
	catalog        catalogReader
	events         eventPublisher
	tx             txManager
	log            *slog.Logger
}

// NewService creates a new Partner service.
func NewService(
	log *slog.Logger,
	partners partnerRepo,
	solutions solutionRepo,
	tickets ticketRepo,
	index partnerIndex,
	solutionsIndex solutionIndex,
	cat catalogReader,
	pub eventPublisher,
	tx txManager,
) *Service {
	return &Service{
		partners:       partners,
		solutions:      solutions,
		tickets:        tickets,
		index:          index,
		solutionsIndex: solutionsIndex,
		catalog:        cat,
		events:         pub,
		tx:             tx,
		log:            log.With("service", "partner"),
	}
}

func (s *Service) reindex(ctx context.Context, p domain.Partner) {
	if err := s.index.Upsert(ctx, p); err != nil {
		s.log.WarnContext(ctx, "reindex partner",
			slog.String("partner_id", p.ID.String()),
			slog.String("error", err.Error()),
		)
	}
}

// reindexSolutions refreshes the index entries of solutions whose partner
// fields changed.
func (s *Service) reindexSolutions(ctx context.Context, ids []uuid.UUID) {
	for _, id := range ids {
		sol, err := s.solutions.GetByID(ctx, id)
		if err != nil {
			s.log.WarnContext(ctx, "reload linked solution",
				slog.String("solution_id", id.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		if err := s.solutionsIndex.Upsert(ctx, *sol); err != nil {
			s.log.WarnContext(ctx, "reindex linked solution",
				slog.String("solution_id", id.String()),
				slog.String("error", err.Error()),
			)
		}
	}
}

func (s *Service) linkedSolutions(ctx context.Context, partnerID uuid.UUID) ([]uuid.UUID, error) {
	linked, err := s.solutions.List(ctx, map[string]string{domain.FilterPartnerID: partnerID.String()})
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(linked))
	for i, sol := range linked {
		ids[i] = sol.ID
	}
	return ids, nil
}

func (s *Service) publish(ctx context.Context, e events.Event) {
	e.Collection = Collection
	if err := s.events.Publish(ctx, e); err != nil {
		s.log.WarnContext(ctx, "publish event",
			slog.String("type", e.Type),
			slog.String("partner_id", e.EntityID.String()),
			slog.String("error", err.Error()),
		)
	}
}

func authorize(p domain.Principal, owner uuid.UUID) error {
	if p.IsAnonymous() {
		return domain.ErrUnauthorized
	}
	if !p.CanManage(owner) {
		return domain.ErrForbidden
	}
	return nil
}
