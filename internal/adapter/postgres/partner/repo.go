// Package partner implements the Partner repository using PostgreSQL.
package partner

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

const table = "partners"

var columns = []string{
	"id", "organization_name", "entity_type", "website", "contact_email",
	"description", "status", "proposed_by_user_id", "translations",
	"created_at", "updated_at",
}

var returning = "RETURNING " + strings.Join(columns, ", ")

var filterColumns = map[string]string{
	domain.FilterStatus:     "status",
	domain.FilterEntityType: "entity_type",
	domain.FilterProposedBy: "proposed_by_user_id",
}

// Repo provides partner persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new partner repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetByID returns a partner by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Partner, error) {
	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	p, err := scanPartner(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "partner", id)
	}
	return &p, nil
}

// List returns partners matching every equality filter, ordered by ID.
func (r *Repo) List(ctx context.Context, eq map[string]string) ([]domain.Partner, error) {
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
		return nil, postgres.MapError(err, "partner", "list")
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Partner, error) {
		return scanPartner(row)
	})
	if err != nil {
		return nil, postgres.MapError(err, "partner", "list")
	}
	return out, nil
}

// ListAll returns every partner ordered by ID.
func (r *Repo) ListAll(ctx context.Context) ([]domain.Partner, error) {
	return r.List(ctx, nil)
}

// Create inserts a partner with a fresh ID and returns the stored row.
func (r *Repo) Create(ctx context.Context, p *domain.Partner) (*domain.Partner, error) {
	id := uuid.New()

	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("id", "organization_name", "entity_type", "website", "contact_email",
			"description", "status", "proposed_by_user_id").
		Values(id, p.OrganizationName, p.EntityType.String(), p.Website, p.ContactEmail,
			p.Description, p.Status.String(), p.ProposedByUserID).
		Suffix(returning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	created, err := scanPartner(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "partner", id)
	}
	return &created, nil
}

// Update overwrites the editable fields. Status and owner are never written.
func (r *Repo) Update(ctx context.Context, p *domain.Partner, clearTranslations bool) (*domain.Partner, error) {
	b := postgres.Builder().
		Update(table).
		Set("organization_name", p.OrganizationName).
		Set("entity_type", p.EntityType.String()).
		Set("website", p.Website).
		Set("contact_email", p.ContactEmail).
		Set("description", p.Description).
		Set("updated_at", sq.Expr("now()"))
	if clearTranslations {
		b = b.Set("translations", sq.Expr("'{}'::jsonb"))
	}

	sql, args, err := b.Where(sq.Eq{"id": p.ID}).Suffix(returning).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	updated, err := scanPartner(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "partner", p.ID)
	}
	return &updated, nil
}

// UpdateStatus sets the lifecycle status.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PartnerStatus) (*domain.Partner, error) {
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

	updated, err := scanPartner(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "partner", id)
	}
	return &updated, nil
}

// Delete removes a partner and its tickets. Linked solutions keep existing
// with partner_id and partner_name cleared.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, `UPDATE solutions SET partner_name = NULL WHERE partner_id = $1`, id); err != nil {
		return postgres.MapError(err, "partner", id)
	}

	tag, err := q.Exec(ctx, `DELETE FROM partners WHERE id = $1`, id)
	if err != nil {
		return postgres.MapError(err, "partner", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("partner %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// MergeTranslation writes fields under translations[lang] with jsonb_set.
func (r *Repo) MergeTranslation(ctx context.Context, id uuid.UUID, lang string, fields map[string]string) error {
	payload, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshal translation: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx,
		`UPDATE partners
		 SET translations = jsonb_set(translations, ARRAY[$2::text], $3::jsonb, true)
		 WHERE id = $1`,
		id, lang, string(payload),
	)
	if err != nil {
		return postgres.MapError(err, "partner", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("partner %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ClearTranslations drops every cached translation.
func (r *Repo) ClearTranslations(ctx context.Context) (int64, error) {
	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx,
		`UPDATE partners SET translations = '{}'::jsonb WHERE translations <> '{}'::jsonb`)
	if err != nil {
		return 0, postgres.MapError(err, "partner", "translations")
	}
	return tag.RowsAffected(), nil
}

func scanPartner(row pgx.Row) (domain.Partner, error) {
	var (
		p            domain.Partner
		entityType   string
		status       string
		translations []byte
	)
	err := row.Scan(
		&p.ID, &p.OrganizationName, &entityType, &p.Website, &p.ContactEmail,
		&p.Description, &status, &p.ProposedByUserID, &translations,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return domain.Partner{}, err
	}

	p.EntityType = domain.PartnerEntityType(entityType)
	p.Status = domain.PartnerStatus(status)
	if err := json.Unmarshal(translations, &p.Translations); err != nil {
		return domain.Partner{}, fmt.Errorf("decode translations: %w", err)
	}
	if p.Translations == nil {
		p.Translations = domain.Translations{}
	}
	return p, nil
}
