package partner

import (
	"net/mail"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/impact-hub-backend/internal/domain"
)

const (
	maxNameLen        = 200
	maxWebsiteLen     = 500
	maxDescriptionLen = 10000
)

// CreateInput holds the parameters for proposing a partner. Status is
// ignored: new partners always start PROPOSED.
type CreateInput struct {
	OrganizationName string
	EntityType       domain.PartnerEntityType
	Website          string
	ContactEmail     string
	Description      string
	Status           string
}

// Validate checks all fields and collects all errors.
func (i CreateInput) Validate() error {
	var errs []domain.FieldError

	errs = append(errs, checkName(i.OrganizationName)...)
	if !i.EntityType.IsValid() {
		errs = append(errs, domain.FieldError{Field: domain.FilterEntityType, Message: "must be one of NGO, CORPORATE, GOVERNMENT, ACADEMIC, OTHER"})
	}
	errs = append(errs, checkContact(i.Website, i.ContactEmail, i.Description)...)

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func (i CreateInput) partner(owner uuid.UUID) domain.Partner {
	return domain.Partner{
		OrganizationName: strings.TrimSpace(i.OrganizationName),
		EntityType:       i.EntityType,
		Website:          strings.TrimSpace(i.Website),
		ContactEmail:     strings.TrimSpace(i.ContactEmail),
		Description:      strings.TrimSpace(i.Description),
		Status:           domain.PartnerStatusProposed,
		ProposedByUserID: owner,
	}
}

// UpdateInput holds the parameters for editing a partner. A nil field is
// left unchanged.
type UpdateInput struct {
	ID               uuid.UUID
	OrganizationName *string
	EntityType       *domain.PartnerEntityType
	Website          *string
	ContactEmail     *string
	Description      *string
}

// Validate checks all fields and collects all errors.
func (i UpdateInput) Validate() error {
	var errs []domain.FieldError

	if i.ID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "id", Message: "required"})
	}
	if i.OrganizationName != nil {
		errs = append(errs, checkName(*i.OrganizationName)...)
	}
	if i.EntityType != nil && !i.EntityType.IsValid() {
		errs = append(errs, domain.FieldError{Field: domain.FilterEntityType, Message: "must be one of NGO, CORPORATE, GOVERNMENT, ACADEMIC, OTHER"})
	}
	errs = append(errs, checkContact(deref(i.Website), deref(i.ContactEmail), deref(i.Description))...)

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func (i UpdateInput) apply(cur domain.Partner) domain.Partner {
	next := cur
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&next.OrganizationName, i.OrganizationName)
	set(&next.Website, i.Website)
	set(&next.ContactEmail, i.ContactEmail)
	set(&next.Description, i.Description)
	if i.EntityType != nil {
		next.EntityType = *i.EntityType
	}
	return next
}

func checkName(name string) []domain.FieldError {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return []domain.FieldError{{Field: domain.FieldOrganizationName, Message: "required"}}
	case len(name) > maxNameLen:
		return []domain.FieldError{{Field: domain.FieldOrganizationName, Message: "max 200 characters"}}
	}
	return nil
}

func checkContact(website, email, description string) []domain.FieldError {
	var errs []domain.FieldError
	if website = strings.TrimSpace(website); website != "" {
		u, err := url.Parse(website)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, domain.FieldError{Field: "website", Message: "must be an http(s) URL"})
		} else if len(website) > maxWebsiteLen {
			errs = append(errs, domain.FieldError{Field: "website", Message: "max 500 characters"})
		}
	}
	if email = strings.TrimSpace(email); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			errs = append(errs, domain.FieldError{Field: "contactEmail", Message: "invalid email"})
		}
	}
	if len(description) > maxDescriptionLen {
		errs = append(errs, domain.FieldError{Field: "description", Message: "max 10000 characters"})
	}
	return errs
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
