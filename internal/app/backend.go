package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/impact-hub-backend/internal/adapter/memory"
	"github.com/heartmarshall/impact-hub-backend/internal/adapter/postgres"
	partnerrepo "github.com/heartmarshall/impact-hub-backend/internal/adapter/postgres/partner"
	solutionrepo "github.com/heartmarshall/impact-hub-backend/internal/adapter/postgres/solution"
	ticketrepo "github.com/heartmarshall/impact-hub-backend/internal/adapter/postgres/ticket"
	userrepo "github.com/heartmarshall/impact-hub-backend/internal/adapter/postgres/user"
	"github.com/heartmarshall/impact-hub-backend/internal/config"
	"github.com/heartmarshall/impact-hub-backend/internal/domain"
)

type solutionStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Solution, error)
	List(ctx context.Context, eq map[string]string) ([]domain.Solution, error)
	ListAll(ctx context.Context) ([]domain.Solution, error)
	Create(ctx context.Context, s *domain.Solution) (*domain.Solution, error)
	Update(ctx context.Context, s *domain.Solution, clearTranslations bool) (*domain.Solution, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SolutionStatus) (*domain.Solution, error)
	Delete(ctx context.Context, id uuid.UUID) error
	MergeTranslation(ctx context.Context, id uuid.UUID, lang string, fields map[string]string) error
	UpdatePartnerName(ctx context.Context, partnerID uuid.UUID, name string) (int64, error)
}

type partnerStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Partner, error)
	List(ctx context.Context, eq map[string]string) ([]domain.Partner, error)
	ListAll(ctx context.Context) ([]domain.Partner, error)
	Create(ctx context.Context, p *domain.Partner) (*domain.Partner, error)
	Update(ctx context.Context, p *domain.Partner, clearTranslations bool) (*domain.Partner, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PartnerStatus) (*domain.Partner, error)
	Delete(ctx context.Context, id uuid.UUID) error
	MergeTranslation(ctx context.Context, id uuid.UUID, lang string, fields map[string]string) error
}

type ticketStore interface {
	Create(ctx context.Context, t *domain.Ticket) (*domain.Ticket, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Ticket, error)
	List(ctx context.Context, eq map[string]string) ([]domain.Ticket, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TicketStatus) (*domain.Ticket, error)
	AppendComment(ctx context.Context, id uuid.UUID, c domain.Comment) (*domain.Ticket, error)
}

type userStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error)
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]domain.User, int, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role domain.UserRole) (*domain.User, error)
	SaveCollections(ctx context.Context, u *domain.User, expectedVersion int) (*domain.User, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

// backend is the document store selected by database.driver.
type backend struct {
	solutions solutionStore
	partners  partnerStore
	tickets   ticketStore
	users     userStore
	tx        txManager
	pinger    pinger
	close     func()
}

func openBackend(ctx context.Context, logger *slog.Logger, cfg config.DatabaseConfig) (*backend, error) {
	if cfg.Driver == config.DriverMemory {
		logger.Warn("using the in-memory store; data is lost on restart")
		return memoryBackend(memory.New()), nil
	}

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.MigrateOnStart {
		m, err := postgres.NewMigrator(pool, logger)
		if err != nil {
			pool.Close()
			return nil, err
		}
		err = m.Up(ctx)
		_ = m.Close()
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate on start: %w", err)
		}
	}

	return &backend{
		solutions: solutionrepo.New(pool),
		partners:  partnerrepo.New(pool),
		tickets:   ticketrepo.New(pool),
		users:     userrepo.New(pool),
		tx:        postgres.NewTxManager(pool),
		pinger:    pool,
		close:     pool.Close,
	}, nil
}

func memoryBackend(st *memory.Store) *backend {
	return &backend{
		solutions: st.Solutions(),
		partners:  st.Partners(),
		tickets:   st.Tickets(),
		users:     st.Users(),
		tx:        memory.TxManager{},
		pinger:    st,
		close:     func() {},
	}
}
