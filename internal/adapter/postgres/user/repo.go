// Package user implements the User repository using PostgreSQL.
package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/impact-hub-backend/internal/adapter/postgres"
	"github.com/heartmarshall/impact-hub-backend/internal/domain"
)

const table = "users"

var columns = []string{
	"id", "email", "name", "password_hash", "role", "associations",
	"bookmarks", "version", "created_at", "updated_at",
}

var returning = "RETURNING " + strings.Join(columns, ", ")

// associationRow is the JSONB shape of one element of users.associations.
type associationRow struct {
	PartnerID   uuid.UUID  `json:"partnerId"`
	Status      string     `json:"status"`
	RequestedAt time.Time  `json:"requestedAt"`
	ApprovedAt  *time.Time `json:"approvedAt,omitempty"`
}

// Repo provides user persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new user repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

// GetByID returns a user by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, err := r.getOne(ctx, sq.Eq{"id": id})
	if err != nil {
		return nil, postgres.MapError(err, "user", id)
	}
	return u, nil
}

// GetByEmail returns a user by case-insensitive email.
func (r *Repo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := r.getOne(ctx, sq.Expr("lower(email) = lower(?)", email))
	if err != nil {
		return nil, postgres.MapError(err, "user", email)
	}
	return u, nil
}

// GetByIDs returns the users that exist among ids.
func (r *Repo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error) {
	if len(ids) == 0 {
		return []domain.User{}, nil
	}

	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return r.collect(ctx, sql, args)
}

// List returns a page of users ordered by ID and the total count.
func (r *Repo) List(ctx context.Context, limit, offset int) ([]domain.User, int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var total int
	if err := q.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, postgres.MapError(err, "user", "count")
	}

	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		OrderBy("id").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}

	users, err := r.collect(ctx, sql, args)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// ---------------------------------------------------------------------------
// Writes
// ---------------------------------------------------------------------------

// Create inserts a user with a fresh ID. A duplicate email returns
// domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	id := uuid.New()

	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("id", "email", "name", "password_hash", "role").
		Values(id, u.Email, u.Name, u.PasswordHash, u.Role.String()).
		Suffix(returning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	created, err := scanUser(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "user", u.Email)
	}
	return &created, nil
}

// UpdateRole sets the user's role.
func (r *Repo) UpdateRole(ctx context.Context, id uuid.UUID, role domain.UserRole) (*domain.User, error) {
	sql, args, err := postgres.Builder().
		Update(table).
		Set("role", role.String()).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix(returning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	updated, err := scanUser(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "user", id)
	}
	return &updated, nil
}

// SaveCollections writes associations and bookmarks when the stored version
// equals expectedVersion and bumps it. A stale version returns
// domain.ErrVersionConflict.
func (r *Repo) SaveCollections(ctx context.Context, u *domain.User, expectedVersion int) (*domain.User, error) {
	assoc, err := json.Marshal(toAssociationRows(u.Associations))
	if err != nil {
		return nil, fmt.Errorf("marshal associations: %w", err)
	}
	bookmarks := u.Bookmarks
	if bookmarks == nil {
		bookmarks = []uuid.UUID{}
	}
	marks, err := json.Marshal(bookmarks)
	if err != nil {
		return nil, fmt.Errorf("marshal bookmarks: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	saved, err := scanUser(q.QueryRow(ctx,
		`UPDATE users
		 SET associations = $2::jsonb, bookmarks = $3::jsonb, version = version + 1, updated_at = now()
		 WHERE id = $1 AND version = $4 `+returning,
		u.ID, string(assoc), string(marks), expectedVersion,
	))
	if err == nil {
		return &saved, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, postgres.MapError(err, "user", u.ID)
	}

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, u.ID).Scan(&exists); err != nil {
		return nil, postgres.MapError(err, "user", u.ID)
	}
	if !exists {
		return nil, fmt.Errorf("user %s: %w", u.ID, domain.ErrNotFound)
	}
	return nil, fmt.Errorf("user %s: %w", u.ID, domain.ErrVersionConflict)
}

// ---------------------------------------------------------------------------
// Scanning
// ---------------------------------------------------------------------------

func (r *Repo) getOne(ctx context.Context, where sq.Sqlizer) (*domain.User, error) {
	sql, args, err := postgres.Builder().Select(columns...).From(table).Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	u, err := scanUser(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repo) collect(ctx context.Context, sql string, args []any) ([]domain.User, error) {
	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "user", "list")
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.User, error) {
		return scanUser(row)
	})
	if err != nil {
		return nil, postgres.MapError(err, "user", "list")
	}
	return out, nil
}

func toAssociationRows(in []domain.Association) []associationRow {
	out := make([]associationRow, 0, len(in))
	for _, a := range in {
		out = append(out, associationRow{
			PartnerID:   a.PartnerID,
			Status:      a.Status.String(),
			RequestedAt: a.RequestedAt.UTC(),
			ApprovedAt:  a.ApprovedAt,
		})
	}
	return out
}

func scanUser(row pgx.Row) (domain.User, error) {
	var (
		u         domain.User
		role      string
		assoc     []byte
		bookmarks []byte
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash, &role, &assoc,
		&bookmarks, &u.Version, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	u.Role = domain.UserRole(role)

	var rows []associationRow
	if err := json.Unmarshal(assoc, &rows); err != nil {
		return domain.User{}, fmt.Errorf("decode associations: %w", err)
	}
	u.Associations = make([]domain.Association, 0, len(rows))
	for _, a := range rows {
		u.Associations = append(u.Associations, domain.Association{
			PartnerID:   a.PartnerID,
			Status:      domain.AssociationStatus(a.Status),
			RequestedAt: a.RequestedAt,
			ApprovedAt:  a.ApprovedAt,
		})
	}

	if err := json.Unmarshal(bookmarks, &u.Bookmarks); err != nil {
		return domain.User{}, fmt.Errorf("decode bookmarks: %w", err)
	}
	if u.Bookmarks == nil {
		u.Bookmarks = []uuid.UUID{}
	}
	return u, nil
}
