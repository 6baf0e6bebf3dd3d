package partner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/impact-hub-backend/internal/adapter/events"
	"github.com/heartmarshall/impact-hub-backend/internal/catalog"
	"github.com/heartmarshall/impact-hub-backend/internal/domain"
)

// List returns one page of the partners visible to the caller.
func (s *Service) List(ctx context.Context, q catalog.Query) (domain.Page[domain.LocalizedView[domain.Partner]], error) {
	return s.catalog.List(ctx, domain.PrincipalFromCtx(ctx), q)
}

// Get returns a single partner localized to lang.
func (s *Service) Get(ctx context.Context, id uuid.UUID, lang string) (domain.LocalizedView[domain.Partner], error) {
	return s.catalog.Get(ctx, domain.PrincipalFromCtx(ctx), id, lang)
}

// Create proposes a partner and opens its approval ticket in the same
// transaction.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Partner, error) {
	p := domain.PrincipalFromCtx(ctx)
	if p.IsAnonymous() {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	partner := input.partner(p.UserID)

	var (
		created *domain.Partner
		ticket  *domain.Ticket
	)
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.partners.Create(txCtx, &partner)
		if err != nil {
			return fmt.Errorf("create partner: %w", err)
		}

		ticket, err = s.tickets.Create(txCtx, &domain.Ticket{
			Type:            domain.TicketTypePartnerApproval,
			Status:          domain.TicketStatusNew,
			Title:           "Approve partner: " + created.OrganizationName,
			PartnerID:       &created.ID,
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

	s.log.InfoContext(ctx, "partner proposed",
		slog.String("user_id", p.UserID.String()),
		slog.String("partner_id", created.ID.String()),
		slog.String("ticket_id", ticket.ID.String()),
	)

	return created, nil
}

// Update edits a partner. Ownership is checked before any field is applied.
// A rename refreshes the partner name carried by linked solutions.
func (s *Service) Update(ctx context.Context, input UpdateInput) (*domain.Partner, error) {
	p := domain.PrincipalFromCtx(ctx)
	if p.IsAnonymous() {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	cur, err := s.partners.GetByID(ctx, input.ID)
	if err != nil {
		return nil, fmt.Errorf("get partner: %w", err)
	}
	if err := authorize(p, cur.ProposedByUserID); err != nil {
		return nil, err
	}

	next := input.apply(*cur)
	dropCache := cur.DiffersInTranslatable(next)
	renamed := cur.OrganizationName != next.OrganizationName

	var linked []uuid.UUID
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.partners.Update(txCtx, &next, dropCache); err != nil {
			return fmt.Errorf("update partner: %w", err)
		}
		if !renamed {
			return nil
		}
		if _, err := s.solutions.UpdatePartnerName(txCtx, next.ID, next.OrganizationName); err != nil {
			return fmt.Errorf("update partner name on solutions: %w", err)
		}
		ids, err := s.linkedSolutions(txCtx, next.ID)
		if err != nil {
			return fmt.Errorf("list linked solutions: %w", err)
		}
		linked = ids
		return nil
	})
	if err != nil {
		return nil, err
	}

	fresh, err := s.partners.GetByID(ctx, input.ID)
	if err != nil {
		return nil, fmt.Errorf("reload partner: %w", err)
	}
	s.reindex(ctx, *fresh)
	s.reindexSolutions(ctx, linked)

	s.log.InfoContext(ctx, "partner updated",
		slog.String("user_id", p.UserID.String()),
		slog.String("partner_id", fresh.ID.String()),
		slog.Bool("translations_cleared", dropCache),
		slog.Int("linked_solutions", len(linked)),
	)

	return fresh, nil
}

// ChangeStatus moves a partner to another lifecycle status. Moderators only.
func (s *Service) ChangeStatus(ctx context.Context, id uuid.UUID, status domain.PartnerStatus) (*domain.Partner, error) {
	p := domain.PrincipalFromCtx(ctx)
	if p.IsAnonymous() {
		return nil, domain.ErrUnauthorized
	}
	if !p.IsModerator() {
		return nil, domain.ErrForbidden
	}
	if !status.IsValid() {
		return nil, domain.NewValidationError("status", "invalid partner status")
	}

	updated, err := s.partners.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("update partner status: %w", err)
	}

	s.reindex(ctx, *updated)
	s.publish(ctx, events.Event{
		Type:     events.TypeStatusChanged,
		EntityID: updated.ID,
		ActorID:  p.UserID,
		Status:   updated.Status.String(),
	})

	s.log.InfoContext(ctx, "partner status changed",
		slog.String("user_id", p.UserID.String()),
		slog.String("partner_id", id.String()),
		slog.String("status", status.String()),
	)

	return updated, nil
}

// Delete removes a partner and its tickets. Linked solutions are kept and
// unlinked.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	p := domain.PrincipalFromCtx(ctx)
	if p.IsAnonymous() {
		return domain.ErrUnauthorized
	}

	cur, err := s.partners.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get partner: %w", err)
	}
	if err := authorize(p, cur.ProposedByUserID); err != nil {
		return err
	}

	linked, err := s.linkedSolutions(ctx, id)
	if err != nil {
		return fmt.Errorf("list linked solutions: %w", err)
	}
	if err := s.partners.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete partner: %w", err)
	}
	s.index.Remove(id)
	s.reindexSolutions(ctx, linked)

	s.publish(ctx, events.Event{
		Type:     events.TypeEntityDeleted,
		EntityID: id,
		ActorID:  p.UserID,
	})

	s.log.InfoContext(ctx, "partner deleted",
		slog.String("user_id", p.UserID.String()),
		slog.String("partner_id", id.String()),
		slog.Int("unlinked_solutions", len(linked)),
	)

	return nil
}
