package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/impact-hub-backend/internal/domain"
)

// UserRepo stores users.
type UserRepo struct{ s *Store }

func userID(u domain.User) uuid.UUID { return u.ID }

// GetByID returns a user or domain.ErrNotFound.
func (r *UserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	out := u.Clone()
	return &out, nil
}

// GetByEmail looks a user up by case-insensitive email.
func (r *UserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			out := u.Clone()
			return &out, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
}

// GetByIDs returns the users that exist among ids, in no particular order.
func (r *UserRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			out = append(out, u.Clone())
		}
	}
	return out, nil
}

// Create stores a new user. Emails are unique case-insensitively.
func (r *UserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return nil, fmt.Errorf("user %s: %w", u.Email, domain.ErrAlreadyExists)
		}
	}

	created := u.Clone()
	created.ID = uuid.New()
	created.Version = 0
	created.CreatedAt = r.s.now()
	created.UpdatedAt = created.CreatedAt
	r.s.users[created.ID] = created

	out := created.Clone()
	return &out, nil
}

// List returns a page of users ordered by ID and the total count.
func (r *UserRepo) List(_ context.Context, limit, offset int) ([]domain.User, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := make([]domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		all = append(all, u.Clone())
	}
	sortedByID(all, userID)

	total := len(all)
	if offset > total {
		offset = total
	}
	end := min(offset+limit, total)
	return all[offset:end], total, nil
}

// UpdateRole sets the user's role.
func (r *UserRepo) UpdateRole(_ context.Context, id uuid.UUID, role domain.UserRole) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	u.Role = role
	u.UpdatedAt = r.s.now()
	r.s.users[id] = u

	out := u.Clone()
	return &out, nil
}

// SaveCollections writes associations and bookmarks if the stored version
// still equals expectedVersion, bumping it. Otherwise it returns
// domain.ErrVersionConflict.
func (r *UserRepo) SaveCollections(_ context.Context, u *domain.User, expectedVersion int) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.users[u.ID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", u.ID, domain.ErrNotFound)
	}
	if cur.Version != expectedVersion {
		return nil, fmt.Errorf("user %s: %w", u.ID, domain.ErrVersionConflict)
	}

	next := u.Clone()
	cur.Associations = next.Associations
	cur.Bookmarks = next.Bookmarks
	cur.Version++
	cur.UpdatedAt = r.s.now()
	r.s.users[u.ID] = cur

	out := cur.Clone()
	return &out, nil
}
