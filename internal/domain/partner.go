package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PartnerPublicStatuses are visible to every caller regardless of ownership.
var PartnerPublicStatuses = []string{PartnerStatusApproved.String(), PartnerStatusMature.String()}

// PartnerFilterKeys are the equality filters accepted on partner listings.
var PartnerFilterKeys = []string{FilterStatus, FilterEntityType, FilterProposedBy}

// Partner is an organization that backs or delivers solutions.
type Partner struct {
	ID               uuid.UUID
	OrganizationName string
	EntityType       PartnerEntityType
	Website          string
	ContactEmail     string
	Description      string
	Status           PartnerStatus
	ProposedByUserID uuid.UUID
	Translations     Translations
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TranslatableFields returns the non-empty display fields eligible for
// machine translation, keyed by field name.
func (p Partner) TranslatableFields() map[string]string {
	fields := make(map[string]string, 1)
	if strings.TrimSpace(p.OrganizationName) != "" {
		fields[FieldOrganizationName] = p.OrganizationName
	}
	return fields
}

// CanonicalText is the fixed template embedded for semantic search.
func (p Partner) CanonicalText() string {
	return fmt.Sprintf("Partner: %s (ID: %s). Type: %s. Description: %s.",
		p.OrganizationName, p.ID, p.EntityType, p.Description)
}

// FilterValue returns the metadata value for an equality filter key.
func (p Partner) FilterValue(key string) string {
	switch key {
	case FilterStatus:
		return p.Status.String()
	case FilterEntityType:
		return p.EntityType.String()
	case FilterProposedBy:
		return p.ProposedByUserID.String()
	}
	return ""
}

// DiffersInTranslatable reports whether any translatable field differs between p and other.
func (p Partner) DiffersInTranslatable(other Partner) bool {
	return !sameFields(p.TranslatableFields(), other.TranslatableFields())
}
