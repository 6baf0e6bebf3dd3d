package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated application user.
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	Role         UserRole
	Associations []Association
	Bookmarks    []uuid.UUID
	// Version is bumped on every write to Associations or Bookmarks.
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Association links a user to a partner organization.
type Association struct {
	PartnerID   uuid.UUID
	Status      AssociationStatus
	RequestedAt time.Time
	ApprovedAt  *time.Time
}

// AssociationIndex returns the position of the association for partnerID, or -1.
func (u *User) AssociationIndex(partnerID uuid.UUID) int {
	return slices.IndexFunc(u.Associations, func(a Association) bool {
		return a.PartnerID == partnerID
	})
}

// HasBookmark reports whether solutionID is bookmarked.
func (u *User) HasBookmark(solutionID uuid.UUID) bool {
	return slices.Contains(u.Bookmarks, solutionID)
}

// Clone returns a copy whose slices can be mutated independently.
func (u User) Clone() User {
	u.Associations = slices.Clone(u.Associations)
	u.Bookmarks = slices.Clone(u.Bookmarks)
	return u
}
