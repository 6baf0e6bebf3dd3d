package solution

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/impact-hub-backend/internal/adapter/events"
	"github.com/heartmarshall/impact-hub-backend/internal/catalog"
	"github.com/heartmarshall/impact-hub-backend/internal/domain"
)

// List returns one page of the solutions visible to the caller.
func (s *Service) List(ctx context.Context, q catalog.Query) (domain.Page[domain.LocalizedView[domain.Solution]], error) {
	return s.catalog.List(ctx, domain.PrincipalFromCtx(ctx), q)
}

// Get returns a single solution localized to lang.
func (s *Service) Get(ctx context.Context, id uuid.UUID, lang string) (domain.LocalizedView[domain.Solution], error) {
	return s.catalog.Get(ctx, domain.PrincipalFromCtx(ctx), id, lang)
}

// Create proposes a solution and opens its approval ticket in the same
// transaction.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Solution, error) {
	p := domain.PrincipalFromCtx(ctx)
	if p.IsAnonymous() {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	sol := input.solution(p.UserID)
	if err := s.linkPartner(ctx, &sol, input.PartnerID); err != nil {
		return nil, err
	}

	var (
		created *domain.Solution
		ticket  *domain.Ticket
	)
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.solutions.Create(txCtx, &sol)
		if err != nil {
			return fmt.Errorf("create solution: %w", err)
		}

		ticket, err = s.tickets.Create(txCtx, &domain.Ticket{
			Type:            domain.TicketTypeSolutionApproval,
			Status:          domain.TicketStatusNew,
			Title:           "Approve solution: " + created.Name,
			SolutionID:      &created.ID,
			CreatedByUserID: p.UserID,
		})
		if err != nil {
			return fmt.Errorf("create ticket: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.reindex(ctx, *created)
	s.publish(ctx, events.Event{
		Type:     events.TypeEntityCreated,
		EntityID: created.ID,
		TicketID: &ticket.ID,
		ActorID:  p.UserID,
		Status:   created.Status.String(),
	})

	s.log.InfoContext(ctx, "solution proposed",
		slog.String("user_id", p.UserID.String()),
		slog.String("solution_id", created.ID.String()),
		slog.String("ticket_id", ticket.ID.String()),
	)

	return created, nil
}

// Update edits a solution. Ownership is checked before any field is
// applied. A change to a translatable field drops the cached translations.
func (s *Service) Update(ctx context.Context, input UpdateInput) (*domain.Solution, error) {
	p := domain.PrincipalFromCtx(ctx)
	if p.IsAnonymous() {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	cur, err := s.solutions.GetByID(ctx, input.ID)
	if err != nil {
		return nil, fmt.Errorf("get solution: %w", err)
	}
	if err := authorize(p, cur.ProposedByUserID); err != nil {
		return nil, err
	}

	next := input.apply(*cur)
	if input.PartnerID != nil {
		if err := s.linkPartner(ctx, &next, input.PartnerID); err != nil {
			return nil, err
		}
	}
	dropCache := cur.DiffersInTranslatable(next)

	if _, err := s.solutions.Update(ctx, &next, dropCache); err != nil {
		return nil, fmt.Errorf("update solution: %w", err)
	}

	fresh, err := s.solutions.GetByID(ctx, input.ID)
	if err != nil {
		return nil, fmt.Errorf("reload solution: %w", err)
	}
	s.reindex(ctx, *fresh)

	s.log.InfoContext(ctx, "solution updated",
		slog.String("user_id", p.UserID.String()),
		slog.String("solution_id", fresh.ID.String()),
		slog.Bool("translations_cleared", dropCache),
	)

	return fresh, nil
}

// ChangeStatus moves a solution to another lifecycle status. Moderators only.
func (s *Service) ChangeStatus(ctx context.Context, id uuid.UUID, status domain.SolutionStatus) (*domain.Solution, error) {
	p := domain.PrincipalFromCtx(ctx)
	if p.IsAnonymous() {
		return nil, domain.ErrUnauthorized
	}
	if !p.IsModerator() {
		return nil, domain.ErrForbidden
	}
	if !status.IsValid() {
		return nil, domain.NewValidationError("status", "invalid solution status")
	}

	updated, err := s.solutions.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("update solution status: %w", err)
	}

	s.reindex(ctx, *updated)
	s.publish(ctx, events.Event{
		Type:     events.TypeStatusChanged,
		EntityID: updated.ID,
		ActorID:  p.UserID,
		Status:   updated.Status.String(),
	})

	s.log.InfoContext(ctx, "solution status changed",
		slog.String("user_id", p.UserID.String()),
		slog.String("solution_id", id.String()),
		slog.String("status", status.String()),
	)

	return updated, nil
}

// Delete removes a solution with its tickets and bookmarks.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	p := domain.PrincipalFromCtx(ctx)
	if p.IsAnonymous() {
		return domain.ErrUnauthorized
	}

	cur, err := s.solutions.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get solution: %w", err)
	}
	if err := authorize(p, cur.ProposedByUserID); err != nil {
		return err
	}

	if err := s.solutions.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete solution: %w", err)
	}
	s.index.Remove(id)

	s.publish(ctx, events.Event{
		Type:     events.TypeEntityDeleted,
		EntityID: id,
		ActorID:  p.UserID,
	})

	s.log.InfoContext(ctx, "solution deleted",
		slog.String("user_id", p.UserID.String()),
		slog.String("solution_id", id.String()),
	)

	return nil
}

// linkPartner sets the partner reference and its denormalized name.
// uuid.Nil unlinks.
func (s *Service) linkPartner(ctx context.Context, sol *domain.Solution, partnerID *uuid.UUID) error {
	if partnerID == nil || *partnerID == uuid.Nil {
		sol.PartnerID = nil
		sol.PartnerName = nil
		return nil
	}

	partner, err := s.partners.GetByID(ctx, *partnerID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewValidationError(domain.FilterPartnerID, "partner not found")
	}
	if err != nil {
		return fmt.Errorf("get partner: %w", err)
	}

	id, name := partner.ID, partner.OrganizationName
	sol.PartnerID = &id
	sol.PartnerName = &name
	return nil
}
