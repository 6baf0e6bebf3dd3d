package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/impact-hub-backend/internal/domain"
	"github.com/heartmarshall/impact-hub-backend/internal/visibility"
)

// mutation edits a private copy of the user. It reports whether anything
// changed; an unchanged user is not written.
type mutation func(u *domain.User) (bool, error)

// mutate runs a read-modify-write on the user's collections, retrying when
// a concurrent writer bumped the version in between.
func (s *Service) mutate(ctx context.Context, userID uuid.UUID, fn mutation) (*domain.User, error) {
	for attempt := 1; attempt <= MaxWriteAttempts; attempt++ {
		cur, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("get user: %w", err)
		}

		next := cur.Clone()
		changed, err := fn(&next)
		if err != nil {
			return nil, err
		}
		if !changed {
			return cur, nil
		}

		saved, err := s.users.SaveCollections(ctx, &next, cur.Version)
		if errors.Is(err, domain.ErrVersionConflict) {
			s.log.DebugContext(ctx, "collections write lost a race",
				slog.String("user_id", userID.String()),
				slog.Int("attempt", attempt),
			)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("save collections: %w", err)
		}
		return saved, nil
	}

	s.log.WarnContext(ctx, "collections write gave up",
		slog.String("user_id", userID.String()),
		slog.Int("attempts", MaxWriteAttempts),
	)
	return nil, domain.NewConflictError("too many concurrent updates, try again")
}

// RequestAssociation asks to link the caller to a partner. A REJECTED
// request may be renewed; a PENDING or APPROVED one is a conflict.
func (s *Service) RequestAssociation(ctx context.Context, partnerID uuid.UUID) (*domain.User, error) {
	p := domain.PrincipalFromCtx(ctx)
	if p.IsAnonymous() {
		return nil, domain.ErrUnauthorized
	}
	if partnerID == uuid.Nil {
		return nil, domain.NewValidationError("partnerId", "required")
	}

	if _, err := s.partners.GetByID(ctx, partnerID); err != nil {
		return nil, fmt.Errorf("get partner: %w", err)
	}

	now := time.Now().UTC()
	user, err := s.mutate(ctx, p.UserID, func(u *domain.User) (bool, error) {
		req := domain.Association{PartnerID: partnerID, Status: domain.AssociationPending, RequestedAt: now}

		i := u.AssociationIndex(partnerID)
		if i < 0 {
			u.Associations = append(u.Associations, req)
			return true, nil
		}
		if st := u.Associations[i].Status; st != domain.AssociationRejected {
			return false, domain.NewConflictError("association is already " + st.String())
		}
		u.Associations[i] = req
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "association requested",
		slog.String("user_id", p.UserID.String()),
		slog.String("partner_id", partnerID.String()),
	)
	return user, nil
}

// DecideAssociation approves or rejects a pending association (moderators
// only).
func (s *Service) DecideAssociation(ctx context.Context, userID, partnerID uuid.UUID, status domain.AssociationStatus) (*domain.User, error) {
	p := domain.PrincipalFromCtx(ctx)
	if p.IsAnonymous() {
		return nil, domain.ErrUnauthorized
	}
	if !p.IsModerator() {
		return nil, domain.ErrForbidden
	}
	if status != domain.AssociationApproved && status != domain.AssociationRejected {
		return nil, domain.NewValidationError("status", "must be APPROVED or REJECTED")
	}

	now := time.Now().UTC()
	user, err := s.mutate(ctx, userID, func(u *domain.User) (bool, error) {
		i := u.AssociationIndex(partnerID)
		if i < 0 {
			return false, fmt.Errorf("association %s: %w", partnerID, domain.ErrNotFound)
		}
		a := &u.Associations[i]
		if a.Status != domain.AssociationPending {
			return false, domain.NewConflictError("association is already " + a.Status.String())
		}
		a.Status = status
		if status == domain.AssociationApproved {
			a.ApprovedAt = &now
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "association decided",
		slog.String("moderator_id", p.UserID.String()),
		slog.String("user_id", userID.String()),
		slog.String("partner_id", partnerID.String()),
		slog.String("status", status.String()),
	)
	return user, nil
}

// AddBookmark bookmarks a solution the caller can see. Adding an existing
// bookmark is a no-op.
func (s *Service) AddBookmark(ctx context.Context, solutionID uuid.UUID) (*domain.User, error) {
	p := domain.PrincipalFromCtx(ctx)
	if p.IsAnonymous() {
		return nil, domain.ErrUnauthorized
	}
	if solutionID == uuid.Nil {
		return nil, domain.NewValidationError("solutionId", "required")
	}

	sol, err := s.solutions.GetByID(ctx, solutionID)
	if err != nil {
		return nil, fmt.Errorf("get solution: %w", err)
	}
	if !visibility.CanView(p, sol.Status.String(), sol.ProposedByUserID, domain.SolutionPublicStatuses) {
		return nil, domain.ErrForbidden
	}

	return s.mutate(ctx, p.UserID, func(u *domain.User) (bool, error) {
		if u.HasBookmark(solutionID) {
			return false, nil
		}
		u.Bookmarks = append(u.Bookmarks, solutionID)
		return true, nil
	})
}

// RemoveBookmark drops a bookmark. Removing a missing bookmark is a no-op.
func (s *Service) RemoveBookmark(ctx context.Context, solutionID uuid.UUID) (*domain.User, error) {
	p := domain.PrincipalFromCtx(ctx)
	if p.IsAnonymous() {
		return nil, domain.ErrUnauthorized
	}

	return s.mutate(ctx, p.UserID, func(u *domain.User) (bool, error) {
		if !u.HasBookmark(solutionID) {
			return false, nil
		}
		kept := u.Bookmarks[:0]
		for _, id := range u.Bookmarks {
			if id != solutionID {
				kept = append(kept, id)
			}
		}
		u.Bookmarks = kept
		return true, nil
	})
}
