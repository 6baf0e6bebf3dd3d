package ticket

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/impact-hub-backend/internal/adapter/events"
	"github.com/heartmarshall/impact-hub-backend/internal/domain"
	"github.com/heartmarshall/impact-hub-backend/internal/service/partner"
	"github.com/heartmarshall/impact-hub-backend/internal/service/solution"
	"github.com/heartmarshall/impact-hub-backend/internal/visibility"
)

// ListInput holds the ticket listing filters.
type ListInput struct {
	Status string
	Type   string
	Page   int
	Limit  int
}

// Validate checks the filter values.
func (i ListInput) Validate() error {
	var errs []domain.FieldError
	if i.Status != "" && !domain.TicketStatus(i.Status).IsValid() {
		errs = append(errs, domain.FieldError{Field: domain.FilterStatus, Message: "invalid ticket status"})
	}
	if i.Type != "" && !domain.TicketType(i.Type).IsValid() {
		errs = append(errs, domain.FieldError{Field: domain.FilterType, Message: "invalid ticket type"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// List returns a page of tickets. Moderators see every ticket, other users
// only the ones they opened.
func (s *Service) List(ctx context.Context, input ListInput) (domain.Page[domain.Ticket], error) {
	p := domain.PrincipalFromCtx(ctx)
	if p.IsAnonymous() {
		return domain.Page[domain.Ticket]{}, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return domain.Page[domain.Ticket]{}, err
	}

	eq := make(map[string]string, 3)
	if input.Status != "" {
		eq[domain.FilterStatus] = input.Status
	}
	if input.Type != "" {
		eq[domain.FilterType] = input.Type
	}
	if !p.IsModerator() {
		eq[domain.FilterCreatedBy] = p.UserID.String()
	}

	items, err := s.tickets.List(ctx, eq)
	if err != nil {
		return domain.Page[domain.Ticket]{}, fmt.Errorf("list tickets: %w", err)
	}
	return visibility.Paginate(items, input.Page, input.Limit), nil
}

// Get returns a ticket to its creator or a moderator.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	p := domain.PrincipalFromCtx(ctx)
	if p.IsAnonymous() {
		return nil, domain.ErrUnauthorized
	}

	t, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	if err := canAccess(p, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Comment appends a note to a ticket.
func (s *Service) Comment(ctx context.Context, id uuid.UUID, text string) (*domain.Ticket, error) {
	p := domain.PrincipalFromCtx(ctx)
	if p.IsAnonymous() {
		return nil, domain.ErrUnauthorized
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.NewValidationError("text", "required")
	}
	if len(text) > maxCommentLen {
		return nil, domain.NewValidationError("text", "max 5000 characters")
	}

	t, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	if err := canAccess(p, t); err != nil {
		return nil, err
	}

	updated, err := s.tickets.AppendComment(ctx, id, domain.Comment{
		ID:        uuid.New(),
		AuthorID:  p.UserID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("append comment: %w", err)
	}

	s.log.InfoContext(ctx, "ticket commented",
		slog.String("user_id", p.UserID.String()),
		slog.String("ticket_id", id.String()),
	)
	return updated, nil
}

// StartReview moves a NEW ticket to IN_REVIEW. Moderators only.
func (s *Service) StartReview(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	p := domain.PrincipalFromCtx(ctx)
	if err := requireModerator(p); err != nil {
		return nil, err
	}

	t, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	if t.Status != domain.TicketStatusNew {
		return nil, domain.NewConflictError("ticket is " + t.Status.String())
	}

	updated, err := s.tickets.UpdateStatus(ctx, id, domain.TicketStatusInReview)
	if err != nil {
		return nil, fmt.Errorf("update ticket status: %w", err)
	}
	return updated, nil
}

// Resolve records a moderator decision. The ticket and its subject change
// status in one transaction; the subject is then re-indexed.
func (s *Service) Resolve(ctx context.Context, id uuid.UUID, decision domain.Decision) (*domain.Ticket, error) {
	p := domain.PrincipalFromCtx(ctx)
	if err := requireModerator(p); err != nil {
		return nil, err
	}
	if !decision.IsValid() {
		return nil, domain.NewValidationError("decision", "must be APPROVE or REJECT")
	}

	t, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	if t.Status.IsClosed() {
		return nil, domain.NewConflictError("ticket already " + strings.ToLower(t.Status.String()))
	}

	ticketStatus := domain.TicketStatusResolved
	if decision == domain.DecisionReject {
		ticketStatus = domain.TicketStatusRejected
	}

	var (
		resolved *domain.Ticket
		sol      *domain.Solution
		org      *domain.Partner
	)
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		resolved, err = s.tickets.UpdateStatus(txCtx, id, ticketStatus)
		if err != nil {
			return fmt.Errorf("update ticket status: %w", err)
		}

		switch t.Type {
		case domain.TicketTypeSolutionApproval:
			st := domain.SolutionStatusApproved
			if decision == domain.DecisionReject {
				st = domain.SolutionStatusRejected
			}
			sol, err = s.solutions.UpdateStatus(txCtx, *t.SolutionID, st)
			if err != nil {
				return fmt.Errorf("update solution status: %w", err)
			}
		case domain.TicketTypePartnerApproval:
			st := domain.PartnerStatusApproved
			if decision == domain.DecisionReject {
				st = domain.PartnerStatusRejected
			}
			org, err = s.partners.UpdateStatus(txCtx, *t.PartnerID, st)
			if err != nil {
				return fmt.Errorf("update partner status: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e := events.Event{
		Type:     events.TypeTicketResolved,
		TicketID: &resolved.ID,
		ActorID:  p.UserID,
	}
	switch {
	case sol != nil:
		s.reindexSolution(ctx, *sol)
		e.Collection, e.EntityID, e.Status = solution.Collection, sol.ID, sol.Status.String()
	case org != nil:
		s.reindexPartner(ctx, *org)
		e.Collection, e.EntityID, e.Status = partner.Collection, org.ID, org.Status.String()
	}
	if err := s.events.Publish(ctx, e); err != nil {
		s.log.WarnContext(ctx, "publish event",
			slog.String("type", e.Type),
			slog.String("ticket_id", id.String()),
			slog.String("error", err.Error()),
		)
	}

	s.log.InfoContext(ctx, "ticket resolved",
		slog.String("user_id", p.UserID.String()),
		slog.String("ticket_id", id.String()),
		slog.String("decision", decision.String()),
	)

	return resolved, nil
}

func (s *Service) reindexSolution(ctx context.Context, sol domain.Solution) {
	if err := s.solutionsIndex.Upsert(ctx, sol); err != nil {
		s.log.WarnContext(ctx, "reindex solution",
			slog.String("solution_id", sol.ID.String()),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Service) reindexPartner(ctx context.Context, p domain.Partner) {
	if err := s.partnersIndex.Upsert(ctx, p); err != nil {
		s.log.WarnContext(ctx, "reindex partner",
			slog.String("partner_id", p.ID.String()),
			slog.String("error", err.Error()),
		)
	}
}
