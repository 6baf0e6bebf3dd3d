// Package solution implements the Solution repository using PostgreSQL.
package solution

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/impact-hub-backend/internal/adapter/postgres"
	"github.com/heartmarshall/impact-hub-backend/internal/domain"
)

const table = "solutions"

var columns = []string{
	"id", "name", "summary", "detail", "benefit", "cost_and_effort",
	"return_on_investment", "domain", "partner_id", "partner_name", "status",
	"proposed_by_user_id", "translations", "created_at", "updated_at",
}

var returning = "RETURNING " + strings.Join(columns, ", ")

// filterColumns maps the public filter keys to columns.
var filterColumns = map[string]string{
	domain.FilterStatus:     "status",
	domain.FilterDomain:     "domain",
	domain.FilterPartnerID:  "partner_id",
	domain.FilterProposedBy: "proposed_by_user_id",
}

// Repo provides solution persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new solution repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetByID returns a solution by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Solution, error) {
	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	s, err := scanSolution(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "solution", id)
	}
	return &s, nil
}

// List returns solutions matching every equality filter, ordered by ID.
func (r *Repo) List(ctx context.Context, eq map[string]string) ([]domain.Solution, error) {
	b, err := postgres.ApplyEq(postgres.Builder().Select(columns...).From(table), eq, filterColumns)
	if err != nil {
		return nil, err
	}

	sql, args, err := b.OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "solution", "list")
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Solution, error) {
		return scanSolution(row)
	})
	if err != nil {
		return nil, postgres.MapError(err, "solution", "list")
	}
	return out, nil
}

// ListAll returns every solution ordered by ID.
func (r *Repo) ListAll(ctx context.Context) ([]domain.Solution, error) {
	return r.List(ctx, nil)
}

// Create inserts a solution with a fresh ID and returns the stored row.
func (r *Repo) Create(ctx context.Context, s *domain.Solution) (*domain.Solution, error) {
	id := uuid.New()

	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("id", "name", "summary", "detail", "benefit", "cost_and_effort",
			"return_on_investment", "domain", "partner_id", "partner_name", "status",
			"proposed_by_user_id").
		Values(id, s.Name, s.Summary, s.Detail, s.Benefit, s.CostAndEffort,
			s.ReturnOnInvestment, s.Domain, s.PartnerID, s.PartnerName, s.Status.String(),
			s.ProposedByUserID).
		Suffix(returning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	created, err := scanSolution(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "solution", id)
	}
	return &created, nil
}

// Update overwrites the editable fields. Status and owner are never written.
// clearTranslations resets the translation cache in the same statement.
func (r *Repo) Update(ctx context.Context, s *domain.Solution, clearTranslations bool) (*domain.Solution, error) {
	b := postgres.Builder().
		Update(table).
		Set("name", s.Name).
		Set("summary", s.Summary).
		Set("detail", s.Detail).
		Set("benefit", s.Benefit).
		Set("cost_and_effort", s.CostAndEffort).
		Set("return_on_investment", s.ReturnOnInvestment).
		Set("domain", s.Domain).
		Set("partner_id", s.PartnerID).
		Set("partner_name", s.PartnerName).
		Set("updated_at", sq.Expr("now()"))
	if clearTranslations {
		b = b.Set("translations", sq.Expr("'{}'::jsonb"))
	}

	sql, args, err := b.Where(sq.Eq{"id": s.ID}).Suffix(returning).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	updated, err := scanSolution(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "solution", s.ID)
	}
	return &updated, nil
}

// UpdateStatus sets the lifecycle status.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SolutionStatus) (*domain.Solution, error) {
	sql, args, err := postgres.Builder().
		Update(table).
		Set("status", status.String()).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix(returning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	updated, err := scanSolution(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "solution", id)
	}
	return &updated, nil
}

// Delete removes a solution. Its tickets go with it (ON DELETE CASCADE) and
// it is dropped from every user's bookmarks.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, `DELETE FROM solutions WHERE id = $1`, id)
	if err != nil {
		return postgres.MapError(err, "solution", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("solution %s: %w", id, domain.ErrNotFound)
	}

	_, err = q.Exec(ctx,
		`UPDATE users
		 SET bookmarks = bookmarks - $1::text, version = version + 1, updated_at = now()
		 WHERE bookmarks ? $1::text`,
		id.String(),
	)
	if err != nil {
		return postgres.MapError(err, "solution", id)
	}
	return nil
}

// MergeTranslation writes fields under translations[lang] with jsonb_set,
// leaving other languages and columns untouched.
func (r *Repo) MergeTranslation(ctx context.Context, id uuid.UUID, lang string, fields map[string]string) error {
	payload, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshal translation: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx,
		`UPDATE solutions
		 SET translations = jsonb_set(translations, ARRAY[$2::text], $3::jsonb, true)
		 WHERE id = $1`,
		id, lang, string(payload),
	)
	if err != nil {
		return postgres.MapError(err, "solution", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("solution %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ClearTranslations drops every cached translation and returns the number of
// solutions that had any.
func (r *Repo) ClearTranslations(ctx context.Context) (int64, error) {
	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx,
		`UPDATE solutions SET translations = '{}'::jsonb WHERE translations <> '{}'::jsonb`)
	if err != nil {
		return 0, postgres.MapError(err, "solution", "translations")
	}
	return tag.RowsAffected(), nil
}

// UpdatePartnerName refreshes the denormalized partner name on every
// solution linked to partnerID.
func (r *Repo) UpdatePartnerName(ctx context.Context, partnerID uuid.UUID, name string) (int64, error) {
	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx,
		`UPDATE solutions SET partner_name = $2 WHERE partner_id = $1`, partnerID, name)
	if err != nil {
		return 0, postgres.MapError(err, "partner", partnerID)
	}
	return tag.RowsAffected(), nil
}

func scanSolution(row pgx.Row) (domain.Solution, error) {
	var (
		s            domain.Solution
		status       string
		translations []byte
	)
	err := row.Scan(
		&s.ID, &s.Name, &s.Summary, &s.Detail, &s.Benefit, &s.CostAndEffort,
		&s.ReturnOnInvestment, &s.Domain, &s.PartnerID, &s.PartnerName, &status,
		&s.ProposedByUserID, &translations, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return domain.Solution{}, err
	}

	s.Status = domain.SolutionStatus(status)
	if err := json.Unmarshal(translations, &s.Translations); err != nil {
		return domain.Solution{}, fmt.Errorf("decode translations: %w", err)
	}
	if s.Translations == nil {
		s.Translations = domain.Translations{}
	}
	return s, nil
}
