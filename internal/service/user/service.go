package user

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/impact-hub-backend/internal/domain"
)

// userRepo defines the user repository interface needed by user service.
type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]domain.User, int, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role domain.UserRole) (*domain.User, error)
	SaveCollections(ctx context.Context, u *domain.User, expectedVersion int) (*domain.User, error)
}

// partnerRepo resolves association targets.
type partnerRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Partner, error)
}

// solutionRepo resolves bookmark targets.
type solutionRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Solution, error)
}

// MaxWriteAttempts bounds the optimistic retry loop on associations and
// bookmarks.
const MaxWriteAttempts = 5

// Service implements user profile, role, association and bookmark operations.
type Service struct {
	log       *slog.Logger
	users     userRepo
	partners  partnerRepo
	solutions solutionRepo
}

// NewService creates a new user service instance.
func NewService(
	logger *slog.Logger,
	users userRepo,
	partners partnerRepo,
	solutions solutionRepo,
) *Service {
	return &Service{
		log:       logger.With("service", "user"),
		users:     users,
		partners:  partners,
		solutions: solutions,
	}
}
