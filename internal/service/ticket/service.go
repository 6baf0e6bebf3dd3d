// Package ticket implements the approval workflow: moderators review and
// resolve the tickets opened by solution and partner proposals.
package ticket

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/impact-hub-backend/internal/adapter/events"
	"github.com/heartmarshall/impact-hub-backend/internal/domain"
)

type ticketRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Ticket, error)
	List(ctx context.Context, eq map[string]string) ([]domain.Ticket, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TicketStatus) (*domain.Ticket, error)
	AppendComment(ctx context.Context, id uuid.UUID, c domain.Comment) (*domain.Ticket, error)
}

type solutionRepo interface {
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SolutionStatus) (*domain.Solution, error)
}

type partnerRepo interface {
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PartnerStatus) (*domain.Partner, error)
}

type solutionIndex interface {
	Upsert(ctx context.Context, item domain.Solution) error
}

type partnerIndex interface {
	Upsert(ctx context.Context, item domain.Partner) error
}

type eventPublisher interface {
	Publish(ctx context.Context, e events.Event) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

const maxCommentLen = 5000

// Service provides ticket workflow operations.
type Service struct {
	tickets        ticketRepo
	solutions      solutionRepo
	partners       partnerRepo
	solutionsIndex solutionIndex
	partnersIndex  partnerIndex
	events         eventPublisher
	tx             txManager
	log            *slog.Logger
}

// NewService creates a new Ticket service.
func NewService(
	log *slog.Logger,
	tickets ticketRepo,
	solutions solutionRepo,
	partners partnerRepo,
	solutionsIndex solutionIndex,
	partnersIndex partnerIndex,
	pub eventPublisher,
	tx txManager,
) *Service {
	return &Service{
		tickets:        tickets,
		solutions:      solutions,
		partners:       partners,
		solutionsIndex: solutionsIndex,
		partnersIndex:  partnersIndex,
		events:         pub,
		tx:             tx,
		log:            log.With("service", "ticket"),
	}
}

// canAccess reports whether p may read or comment on t.
func canAccess(p domain.Principal, t *domain.Ticket) error {
	if p.IsAnonymous() {
		return domain.ErrUnauthorized
	}
	if !p.IsModerator() && !p.Owns(t.CreatedByUserID) {
		return domain.ErrForbidden
	}
	return nil
}

func requireModerator(p domain.Principal) error {
	if p.IsAnonymous() {
		return domain.ErrUnauthorized
	}
	if !p.IsModerator() {
		return domain.ErrForbidden
	}
	return nil
}
