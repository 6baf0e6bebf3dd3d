// Package ticket implements the Ticket repository using PostgreSQL.
package ticket

import (
	"context"
	"encoding/json"
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

const table = "tickets"

var columns = []string{
	"id", "type", "status", "title", "solution_id", "partner_id",
	"created_by_user_id", "comments", "created_at", "updated_at",
}

var returning = "RETURNING " + strings.Join(columns, ", ")

var filterColumns = map[string]string{
	domain.FilterStatus:    "status",
	domain.FilterType:      "type",
	domain.FilterCreatedBy: "created_by_user_id",
}

// commentRow is the JSONB shape of one element of tickets.comments.
type commentRow struct {
	ID        uuid.UUID `json:"id"`
	AuthorID  uuid.UUID `json:"authorId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Repo provides ticket persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new ticket repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create validates and inserts a ticket. A missing subject surfaces as
// domain.ErrNotFound through the foreign key.
func (r *Repo) Create(ctx context.Context, t *domain.Ticket) (*domain.Ticket, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	id := uuid.New()

	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("id", "type", "status", "title", "solution_id", "partner_id", "created_by_user_id").
		Values(id, t.Type.String(), t.Status.String(), t.Title, t.SolutionID, t.PartnerID, t.CreatedByUserID).
		Suffix(returning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	created, err := scanTicket(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "ticket", id)
	}
	return &created, nil
}

// GetByID returns a ticket by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	t, err := scanTicket(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "ticket", id)
	}
	return &t, nil
}

// List returns tickets matching every equality filter, ordered by ID.
func (r *Repo) List(ctx context.Context, eq map[string]string) ([]domain.Ticket, error) {
	b, err := postgres.ApplyEq(postgres.Builder().Select(columns...).From(table), eq, filterColumns)
	if err != nil {
		return nil, err
	}
	return r.collect(ctx, b.OrderBy("id"))
}

// ListBySubject returns the tickets referencing a solution or partner.
func (r *Repo) ListBySubject(ctx context.Context, subjectID uuid.UUID) ([]domain.Ticket, error) {
	b := postgres.Builder().
		Select(columns...).
		From(table).
		Where(sq.Or{sq.Eq{"solution_id": subjectID}, sq.Eq{"partner_id": subjectID}}).
		OrderBy("id")
	return r.collect(ctx, b)
}

// UpdateStatus sets the ticket status.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TicketStatus) (*domain.Ticket, error) {
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

	t, err := scanTicket(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "ticket", id)
	}
	return &t, nil
}

// AppendComment appends c atomically with jsonb concatenation.
func (r *Repo) AppendComment(ctx context.Context, id uuid.UUID, c domain.Comment) (*domain.Ticket, error) {
	payload, err := json.Marshal([]commentRow{toCommentRow(c)})
	if err != nil {
		return nil, fmt.Errorf("marshal comment: %w", err)
	}

	t, err := scanTicket(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx,
		`UPDATE tickets SET comments = comments || $2::jsonb, updated_at = now()
		 WHERE id = $1 `+returning,
		id, string(payload),
	))
	if err != nil {
		return nil, postgres.MapError(err, "ticket", id)
	}
	return &t, nil
}

func (r *Repo) collect(ctx context.Context, b sq.SelectBuilder) ([]domain.Ticket, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "ticket", "list")
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Ticket, error) {
		return scanTicket(row)
	})
	if err != nil {
		return nil, postgres.MapError(err, "ticket", "list")
	}
	return out, nil
}

func toCommentRow(c domain.Comment) commentRow {
	return commentRow{ID: c.ID, AuthorID: c.AuthorID, Text: c.Text, CreatedAt: c.CreatedAt.UTC()}
}

func scanTicket(row pgx.Row) (domain.Ticket, error) {
	var (
		t        domain.Ticket
		typ      string
		status   string
		comments []byte
	)
	err := row.Scan(
		&t.ID, &typ, &status, &t.Title, &t.SolutionID, &t.PartnerID,
		&t.CreatedByUserID, &comments, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return domain.Ticket{}, err
	}
	t.Type = domain.TicketType(typ)
	t.Status = domain.TicketStatus(status)

	var rows []commentRow
	if err := json.Unmarshal(comments, &rows); err != nil {
		return domain.Ticket{}, fmt.Errorf("decode comments: %w", err)
	}
	t.Comments = make([]domain.Comment, 0, len(rows))
	for _, c := range rows {
		t.Comments = append(t.Comments, domain.Comment{ID: c.ID, AuthorID: c.AuthorID, Text: c.Text, CreatedAt: c.CreatedAt})
	}
	return t, nil
}
