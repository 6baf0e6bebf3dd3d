package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Translatable and filterable field keys. The keys double as the JSON field
// names of the REST representation, so overrides shadow them one-to-one.
const (
	FieldName               = "name"
	FieldSummary            = "summary"
	FieldDetail             = "detail"
	FieldBenefit            = "benefit"
	FieldCostAndEffort      = "costAndEffort"
	FieldReturnOnInvestment = "returnOnInvestment"
	FieldOrganizationName   = "organizationName"

	FilterStatus     = "status"
	FilterDomain     = "domain"
	FilterPartnerID  = "partnerId"
	FilterProposedBy = "proposedByUserId"
	FilterEntityType = "entityType"
	FilterType       = "type"
	FilterCreatedBy  = "createdByUserId"
)

// SolutionPublicStatuses are visible to every caller regardless of ownership.
var SolutionPublicStatuses = []string{SolutionStatusMature.String()}

// SolutionFilterKeys are the equality filters accepted on solution listings.
var SolutionFilterKeys = []string{FilterStatus, FilterDomain, FilterPartnerID, FilterProposedBy}

// Solution is a proposed social-impact solution.
type Solution struct {
	ID                 uuid.UUID
	Name               string
	Summary            string
	Detail             string
	Benefit            string
	CostAndEffort      string
	ReturnOnInvestment string
	Domain             string
	PartnerID          *uuid.UUID
	PartnerName        *string
	Status             SolutionStatus
	ProposedByUserID   uuid.UUID
	Translations       Translations
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TranslatableFields returns the non-empty display fields eligible for
// machine translation, keyed by field name.
func (s Solution) TranslatableFields() map[string]string {
	fields := make(map[string]string, 6)
	put := func(k, v string) {
		if strings.TrimSpace(v) != "" {
			fields[k] = v
		}
	}
	put(FieldName, s.Name)
	put(FieldSummary, s.Summary)
	put(FieldDetail, s.Detail)
	put(FieldBenefit, s.Benefit)
	put(FieldCostAndEffort, s.CostAndEffort)
	put(FieldReturnOnInvestment, s.ReturnOnInvestment)
	return fields
}

// CanonicalText is the fixed template embedded for semantic search.
func (s Solution) CanonicalText() string {
	return fmt.Sprintf("Solution: %s (ID: %s). Domain: %s. Summary: %s. Benefit: %s.",
		s.Name, s.ID, s.Domain, s.Summary, s.Benefit)
}

// FilterValue returns the metadata value for an equality filter key.
func (s Solution) FilterValue(key string) string {
	switch key {
	case FilterStatus:
		return s.Status.String()
	case FilterDomain:
		return s.Domain
	case FilterProposedBy:
		return s.ProposedByUserID.String()
	case FilterPartnerID:
		if s.PartnerID == nil {
			return ""
		}
		return s.PartnerID.String()
	}
	return ""
}

// DiffersInTranslatable reports whether any translatable field differs between s and other.
func (s Solution) DiffersInTranslatable(other Solution) bool {
	return !sameFields(s.TranslatableFields(), other.TranslatableFields())
}

func sameFields(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
