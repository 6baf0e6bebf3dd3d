package memory

import (
	"context"
	"fmt"
	"maps"

	"github.com/google/uuid"

	"github.com/heartmarshall/impact-hub-backend/internal/domain"
)

// SolutionRepo stores solutions.
type SolutionRepo struct{ s *Store }

func solutionID(s domain.Solution) uuid.UUID { return s.ID }

// GetByID returns a solution or domain.ErrNotFound.
func (r *SolutionRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Solution, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sol, ok := r.s.solutions[id]
	if !ok {
		return nil, fmt.Errorf("solution %s: %w", id, domain.ErrNotFound)
	}
	out := cloneSolution(sol)
	return &out, nil
}

// List returns solutions matching every equality filter, sorted by ID.
func (r *SolutionRepo) List(_ context.Context, eq map[string]string) ([]domain.Solution, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.Solution, 0)
	for _, sol := range r.s.solutions {
		if matches(sol, eq) {
			out = append(out, cloneSolution(sol))
		}
	}
	return sortedByID(out, solutionID), nil
}

// ListAll returns every solution sorted by ID.
func (r *SolutionRepo) ListAll(ctx context.Context) ([]domain.Solution, error) {
	return r.List(ctx, nil)
}

// Create assigns an ID and timestamps and stores the solution.
func (r *SolutionRepo) Create(_ context.Context, sol *domain.Solution) (*domain.Solution, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	created := cloneSolution(*sol)
	created.ID = uuid.New()
	created.CreatedAt = r.s.now()
	created.UpdatedAt = created.CreatedAt
	r.s.solutions[created.ID] = created

	out := cloneSolution(created)
	return &out, nil
}

// Update overwrites the editable fields. Status, owner and ID are kept.
func (r *SolutionRepo) Update(_ context.Context, sol *domain.Solution, clearTranslations bool) (*domain.Solution, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.solutions[sol.ID]
	if !ok {
		return nil, fmt.Errorf("solution %s: %w", sol.ID, domain.ErrNotFound)
	}

	next := cloneSolution(*sol)
	next.Status = cur.Status
	next.ProposedByUserID = cur.ProposedByUserID
	next.CreatedAt = cur.CreatedAt
	next.UpdatedAt = r.s.now()
	next.Translations = cur.Translations
	if clearTranslations {
		next.Translations = domain.Translations{}
	}
	r.s.solutions[next.ID] = next

	out := cloneSolution(next)
	return &out, nil
}

// UpdateStatus sets the lifecycle status.
func (r *SolutionRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.SolutionStatus) (*domain.Solution, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.solutions[id]
	if !ok {
		return nil, fmt.Errorf("solution %s: %w", id, domain.ErrNotFound)
	}
	cur.Status = status
	cur.UpdatedAt = r.s.now()
	r.s.solutions[id] = cur

	out := cloneSolution(cur)
	return &out, nil
}

// Delete removes a solution and the tickets that reference it.
func (r *SolutionRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.solutions[id]; !ok {
		return fmt.Errorf("solution %s: %w", id, domain.ErrNotFound)
	}
	delete(r.s.solutions, id)
	for tid, t := range r.s.tickets {
		if t.SolutionID != nil && *t.SolutionID == id {
			delete(r.s.tickets, tid)
		}
	}
	for uid, u := range r.s.users {
		if u.HasBookmark(id) {
			u = u.Clone()
			u.Bookmarks = removeID(u.Bookmarks, id)
			u.Version++
			r.s.users[uid] = u
		}
	}
	return nil
}

// MergeTranslation writes fields under translations[lang], leaving other
// languages and fields untouched.
func (r *SolutionRepo) MergeTranslation(_ context.Context, id uuid.UUID, lang string, fields map[string]string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.solutions[id]
	if !ok {
		return fmt.Errorf("solution %s: %w", id, domain.ErrNotFound)
	}
	cur.Translations = cloneTranslations(cur.Translations)
	cur.Translations[lang] = maps.Clone(fields)
	r.s.solutions[id] = cur
	return nil
}

// ClearTranslations drops every cached translation. It returns the number
// of solutions that had any.
func (r *SolutionRepo) ClearTranslations(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, sol := range r.s.solutions {
		if len(sol.Translations) == 0 {
			continue
		}
		sol.Translations = domain.Translations{}
		r.s.solutions[id] = sol
		n++
	}
	return n, nil
}

// UpdatePartnerName refreshes the denormalized partner name on every
// solution linked to partnerID.
func (r *SolutionRepo) UpdatePartnerName(_ context.Context, partnerID uuid.UUID, name string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, sol := range r.s.solutions {
		if sol.PartnerID == nil || *sol.PartnerID != partnerID {
			continue
		}
		nm := name
		sol.PartnerName = &nm
		r.s.solutions[id] = sol
		n++
	}
	return n, nil
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
