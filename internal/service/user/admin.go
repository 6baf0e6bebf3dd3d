package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/impact-hub-backend/internal/domain"
)

// SetUserRole changes the role of a user (admin only).
func (s *Service) SetUserRole(ctx context.Context, targetUserID uuid.UUID, role domain.UserRole) (*domain.User, error) {
	p := domain.PrincipalFromCtx(ctx)
	if p.IsAnonymous() {
		return nil, domain.ErrUnauthorized
	}
	if p.Role != domain.UserRoleAdmin {
		return nil, domain.ErrForbidden
	}

	if !role.IsValid() {
		return nil, domain.NewValidationError("role", "must be REGULAR, ICP_SUPPORT or ADMIN")
	}

	// An admin cannot demote themselves.
	if p.UserID == targetUserID && role != domain.UserRoleAdmin {
		return nil, domain.NewValidationError("role", "cannot demote yourself")
	}

	user, err := s.users.UpdateRole(ctx, targetUserID, role)
	if err != nil {
		return nil, fmt.Errorf("user.SetUserRole: %w", err)
	}

	s.log.InfoContext(ctx, "user role updated",
		slog.String("admin_id", p.UserID.String()),
		slog.String("target_user_id", targetUserID.String()),
		slog.String("new_role", role.String()),
	)

	return user, nil
}

// ListUsers returns a page of users (moderators only).
func (s *Service) ListUsers(ctx context.Context, page, limit int) (domain.Page[domain.User], error) {
	p := domain.PrincipalFromCtx(ctx)
	if p.IsAnonymous() {
		return domain.Page[domain.User]{}, domain.ErrUnauthorized
	}
	if !p.IsModerator() {
		return domain.Page[domain.User]{}, domain.ErrForbidden
	}

	page, limit = domain.NormalizePaging(page, limit)

	users, total, err := s.users.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return domain.Page[domain.User]{}, fmt.Errorf("user.ListUsers: %w", err)
	}

	return domain.Page[domain.User]{
		Items:      users,
		Total:      total,
		Page:       page,
		TotalPages: (total + limit - 1) / limit,
	}, nil
}
