package domain

import (
	"time"

	"github.com/google/uuid"
)

// TicketFilterKeys are the equality filters accepted on ticket listings.
var TicketFilterKeys = []string{FilterStatus, FilterType, FilterCreatedBy}

// Ticket tracks the approval workflow of a single Solution or Partner.
type Ticket struct {
	ID              uuid.UUID
	Type            TicketType
	Status          TicketStatus
	Title           string
	SolutionID      *uuid.UUID
	PartnerID       *uuid.UUID
	CreatedByUserID uuid.UUID
	Comments        []Comment
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Comment is an append-only note on a ticket.
type Comment struct {
	ID        uuid.UUID
	AuthorID  uuid.UUID
	Text      string
	CreatedAt time.Time
}

// Validate checks that the ticket references exactly one subject matching its type.
func (t Ticket) Validate() error {
	var errs []FieldError
	if !t.Type.IsValid() {
		errs = append(errs, FieldError{Field: "type", Message: "invalid ticket type"})
	}
	if (t.SolutionID == nil) == (t.PartnerID == nil) {
		errs = append(errs, FieldError{Field: "subject", Message: "exactly one of solutionId or partnerId is required"})
	}
	if t.Type == TicketTypeSolutionApproval && t.SolutionID == nil {
		errs = append(errs, FieldError{Field: "solutionId", Message: "required for solution approval"})
	}
	if t.Type == TicketTypePartnerApproval && t.PartnerID == nil {
		errs = append(errs, FieldError{Field: "partnerId", Message: "required for partner approval"})
	}
	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}

// FilterValue returns the metadata value for an equality filter key.
func (t Ticket) FilterValue(key string) string {
	switch key {
	case FilterStatus:
		return t.Status.String()
	case FilterType:
		return t.Type.String()
	case FilterCreatedBy:
		return t.CreatedByUserID.String()
	}
	return ""
}
