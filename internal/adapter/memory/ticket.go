package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/impact-hub-backend/internal/domain"
)

// TicketRepo stores tickets.
type TicketRepo struct{ s *Store }

func ticketID(t domain.Ticket) uuid.UUID { return t.ID }

// Create validates and stores a ticket. The referenced subject must exist.
func (r *TicketRepo) Create(_ context.Context, t *domain.Ticket) (*domain.Ticket, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if t.SolutionID != nil {
		if _, ok := r.s.solutions[*t.SolutionID]; !ok {
			return nil, fmt.Errorf("ticket subject solution %s: %w", *t.SolutionID, domain.ErrNotFound)
		}
	}
	if t.PartnerID != nil {
		if _, ok := r.s.partners[*t.PartnerID]; !ok {
			return nil, fmt.Errorf("ticket subject partner %s: %w", *t.PartnerID, domain.ErrNotFound)
		}
	}

	created := cloneTicket(*t)
	created.ID = uuid.New()
	created.CreatedAt = r.s.now()
	created.UpdatedAt = created.CreatedAt
	if created.Comments == nil {
		created.Comments = []domain.Comment{}
	}
	r.s.tickets[created.ID] = created

	out := cloneTicket(created)
	return &out, nil
}

// GetByID returns a ticket or domain.ErrNotFound.
func (r *TicketRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tickets[id]
	if !ok {
		return nil, fmt.Errorf("ticket %s: %w", id, domain.ErrNotFound)
	}
	out := cloneTicket(t)
	return &out, nil
}

// List returns tickets matching every equality filter, sorted by ID.
func (r *TicketRepo) List(_ context.Context, eq map[string]string) ([]domain.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.Ticket, 0)
	for _, t := range r.s.tickets {
		if matches(t, eq) {
			out = append(out, cloneTicket(t))
		}
	}
	return sortedByID(out, ticketID), nil
}

// ListBySubject returns the tickets referencing a solution or partner.
func (r *TicketRepo) ListBySubject(_ context.Context, subjectID uuid.UUID) ([]domain.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.Ticket, 0)
	for _, t := range r.s.tickets {
		if (t.SolutionID != nil && *t.SolutionID == subjectID) || (t.PartnerID != nil && *t.PartnerID == subjectID) {
			out = append(out, cloneTicket(t))
		}
	}
	return sortedByID(out, ticketID), nil
}

// UpdateStatus sets the ticket status.
func (r *TicketRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.TicketStatus) (*domain.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tickets[id]
	if !ok {
		return nil, fmt.Errorf("ticket %s: %w", id, domain.ErrNotFound)
	}
	t.Status = status
	t.UpdatedAt = r.s.now()
	r.s.tickets[id] = t

	out := cloneTicket(t)
	return &out, nil
}

// AppendComment adds c to the end of the ticket's comments.
func (r *TicketRepo) AppendComment(_ context.Context, id uuid.UUID, c domain.Comment) (*domain.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tickets[id]
	if !ok {
		return nil, fmt.Errorf("ticket %s: %w", id, domain.ErrNotFound)
	}
	t = cloneTicket(t)
	t.Comments = append(t.Comments, c)
	t.UpdatedAt = r.s.now()
	r.s.tickets[id] = t

	out := cloneTicket(t)
	return &out, nil
}
