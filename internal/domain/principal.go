package domain

import (
	"context"

	"github.com/google/uuid"

	"github.com/heartmarshall/impact-hub-backend/pkg/ctxutil"
)

// Principal is the caller of an operation. The zero value is anonymous.
type Principal struct {
	UserID uuid.UUID
	Role   UserRole
}

// IsAnonymous reports whether the caller is unauthenticated.
func (p Principal) IsAnonymous() bool { return p.UserID == uuid.Nil }

// IsModerator reports whether the caller bypasses visibility rules.
func (p Principal) IsModerator() bool { return !p.IsAnonymous() && p.Role.IsModerator() }

// Owns reports whether the caller is the given owner.
func (p Principal) Owns(owner uuid.UUID) bool {
	return !p.IsAnonymous() && p.UserID == owner
}

// CanManage reports whether the caller may edit or delete an entity owned by owner.
func (p Principal) CanManage(owner uuid.UUID) bool {
	return p.IsModerator() || p.Owns(owner)
}

// PrincipalFromCtx reads the caller identity placed by the auth middleware.
func PrincipalFromCtx(ctx context.Context) Principal {
	id, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return Principal{}
	}
	return Principal{UserID: id, Role: UserRole(ctxutil.UserRoleFromCtx(ctx))}
}
