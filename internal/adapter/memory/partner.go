package memory

import (
	"context"
	"fmt"
	"maps"

	"github.com/google/uuid"

	"github.com/heartmarshall/impact-hub-backend/internal/domain"
)

// PartnerRepo stores partners.
type PartnerRepo struct{ s *Store }

func partnerID(p domain.Partner) uuid.UUID { return p.ID }

// GetByID returns a partner or domain.ErrNotFound.
func (r *PartnerRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Partner, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.partners[id]
	if !ok {
		return nil, fmt.Errorf("partner %s: %w", id, domain.ErrNotFound)
	}
	out := clonePartner(p)
	return &out, nil
}

// List returns partners matching every equality filter, sorted by ID.
func (r *PartnerRepo) List(_ context.Context, eq map[string]string) ([]domain.Partner, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.Partner, 0)
	for _, p := range r.s.partners {
		if matches(p, eq) {
			out = append(out, clonePartner(p))
		}
	}
	return sortedByID(out, partnerID), nil
}

// ListAll returns every partner sorted by ID.
func (r *PartnerRepo) ListAll(ctx context.Context) ([]domain.Partner, error) {
	return r.List(ctx, nil)
}

// Create assigns an ID and timestamps and stores the partner.
func (r *PartnerRepo) Create(_ context.Context, p *domain.Partner) (*domain.Partner, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	created := clonePartner(*p)
	created.ID = uuid.New()
	created.CreatedAt = r.s.now()
	created.UpdatedAt = created.CreatedAt
	r.s.partners[created.ID] = created

	out := clonePartner(created)
	return &out, nil
}

// Update overwrites the editable fields. Status, owner and ID are kept.
func (r *PartnerRepo) Update(_ context.Context, p *domain.Partner, clearTranslations bool) (*domain.Partner, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.partners[p.ID]
	if !ok {
		return nil, fmt.Errorf("partner %s: %w", p.ID, domain.ErrNotFound)
	}

	next := clonePartner(*p)
	next.Status = cur.Status
	next.ProposedByUserID = cur.ProposedByUserID
	next.CreatedAt = cur.CreatedAt
	next.UpdatedAt = r.s.now()
	next.Translations = cur.Translations
	if clearTranslations {
		next.Translations = domain.Translations{}
	}
	r.s.partners[next.ID] = next

	out := clonePartner(next)
	return &out, nil
}

// UpdateStatus sets the lifecycle status.
func (r *PartnerRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.PartnerStatus) (*domain.Partner, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.partners[id]
	if !ok {
		return nil, fmt.Errorf("partner %s: %w", id, domain.ErrNotFound)
	}
	cur.Status = status
	cur.UpdatedAt = r.s.now()
	r.s.partners[id] = cur

	out := clonePartner(cur)
	return &out, nil
}

// Delete removes a partner and its tickets, and unlinks its solutions.
func (r *PartnerRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.partners[id]; !ok {
		return fmt.Errorf("partner %s: %w", id, domain.ErrNotFound)
	}
	delete(r.s.partners, id)
	for tid, t := range r.s.tickets {
		if t.PartnerID != nil && *t.PartnerID == id {
			delete(r.s.tickets, tid)
		}
	}
	for sid, sol := range r.s.solutions {
		if sol.PartnerID != nil && *sol.PartnerID == id {
			sol.PartnerID, sol.PartnerName = nil, nil
			r.s.solutions[sid] = sol
		}
	}
	return nil
}

// MergeTranslation writes fields under translations[lang], leaving other
// languages and fields untouched.
func (r *PartnerRepo) MergeTranslation(_ context.Context, id uuid.UUID, lang string, fields map[string]string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.partners[id]
	if !ok {
		return fmt.Errorf("partner %s: %w", id, domain.ErrNotFound)
	}
	cur.Translations = cloneTranslations(cur.Translations)
	cur.Translations[lang] = maps.Clone(fields)
	r.s.partners[id] = cur
	return nil
}

// ClearTranslations drops every cached translation.
func (r *PartnerRepo) ClearTranslations(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, p := range r.s.partners {
		if len(p.Translations) == 0 {
			continue
		}
		p.Translations = domain.Translations{}
		r.s.partners[id] = p
		n++
	}
	return n, nil
}
