package solution

import (
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/impact-hub-backend/internal/domain"
)

const (
	maxNameLen   = 200
	maxDomainLen = 100
	maxTextLen   = 10000
)

// CreateInput holds the parameters for proposing a solution. Status is
// accepted for compatibility and ignored: new solutions always start
// PROPOSED.
type CreateInput struct {
	Name               string
	Summary            string
	Detail             string
	Benefit            string
	CostAndEffort      string
	ReturnOnInvestment string
	Domain             string
	PartnerID          *uuid.UUID
	Status             string
}

// Validate checks all fields and collects all errors.
func (i CreateInput) Validate() error {
	var errs []domain.FieldError

	name := strings.TrimSpace(i.Name)
	if name == "" {
		errs = append(errs, domain.FieldError{Field: domain.FieldName, Message: "required"})
	}
	if len(name) > maxNameLen {
		errs = append(errs, domain.FieldError{Field: domain.FieldName, Message: "max 200 characters"})
	}
	if strings.TrimSpace(i.Summary) == "" {
		errs = append(errs, domain.FieldError{Field: domain.FieldSummary, Message: "required"})
	}
	if len(strings.TrimSpace(i.Domain)) > maxDomainLen {
		errs = append(errs, domain.FieldError{Field: domain.FilterDomain, Message: "max 100 characters"})
	}
	errs = append(errs, checkText(map[string]string{
		domain.FieldSummary:            i.Summary,
		domain.FieldDetail:             i.Detail,
		domain.FieldBenefit:            i.Benefit,
		domain.FieldCostAndEffort:      i.CostAndEffort,
		domain.FieldReturnOnInvestment: i.ReturnOnInvestment,
	})...)

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func (i CreateInput) solution(owner uuid.UUID) domain.Solution {
	return domain.Solution{
		Name:               strings.TrimSpace(i.Name),
		Summary:            strings.TrimSpace(i.Summary),
		Detail:             strings.TrimSpace(i.Detail),
		Benefit:            strings.TrimSpace(i.Benefit),
		CostAndEffort:      strings.TrimSpace(i.CostAndEffort),
		ReturnOnInvestment: strings.TrimSpace(i.ReturnOnInvestment),
		Domain:             strings.TrimSpace(i.Domain),
		PartnerID:          i.PartnerID,
		Status:             domain.SolutionStatusProposed,
		ProposedByUserID:   owner,
	}
}

// UpdateInput holds the parameters for editing a solution. A nil field is
// left unchanged. PartnerID set to uuid.Nil unlinks the partner.
type UpdateInput struct {
	ID                 uuid.UUID
	Name               *string
	Summary            *string
	Detail             *string
	Benefit            *string
	CostAndEffort      *string
	ReturnOnInvestment *string
	Domain             *string
	PartnerID          *uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i UpdateInput) Validate() error {
	var errs []domain.FieldError

	if i.ID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "id", Message: "required"})
	}
	if i.Name != nil {
		name := strings.TrimSpace(*i.Name)
		if name == "" {
			errs = append(errs, domain.FieldError{Field: domain.FieldName, Message: "required"})
		}
		if len(name) > maxNameLen {
			errs = append(errs, domain.FieldError{Field: domain.FieldName, Message: "max 200 characters"})
		}
	}
	if i.Summary != nil && strings.TrimSpace(*i.Summary) == "" {
		errs = append(errs, domain.FieldError{Field: domain.FieldSummary, Message: "required"})
	}
	if i.Domain != nil && len(strings.TrimSpace(*i.Domain)) > maxDomainLen {
		errs = append(errs, domain.FieldError{Field: domain.FilterDomain, Message: "max 100 characters"})
	}
	errs = append(errs, checkText(map[string]string{
		domain.FieldSummary:            deref(i.Summary),
		domain.FieldDetail:             deref(i.Detail),
		domain.FieldBenefit:            deref(i.Benefit),
		domain.FieldCostAndEffort:      deref(i.CostAndEffort),
		domain.FieldReturnOnInvestment: deref(i.ReturnOnInvestment),
	})...)

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// apply returns a copy of cur with the provided fields overwritten.
func (i UpdateInput) apply(cur domain.Solution) domain.Solution {
	next := cur
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&next.Name, i.Name)
	set(&next.Summary, i.Summary)
	set(&next.Detail, i.Detail)
	set(&next.Benefit, i.Benefit)
	set(&next.CostAndEffort, i.CostAndEffort)
	set(&next.ReturnOnInvestment, i.ReturnOnInvestment)
	set(&next.Domain, i.Domain)
	return next
}

func checkText(fields map[string]string) []domain.FieldError {
	var errs []domain.FieldError
	for _, k := range []string{
		domain.FieldSummary, domain.FieldDetail, domain.FieldBenefit,
		domain.FieldCostAndEffort, domain.FieldReturnOnInvestment,
	} {
		if len(fields[k]) > maxTextLen {
			errs = append(errs, domain.FieldError{Field: k, Message: "max 10000 characters"})
		}
	}
	return errs
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
