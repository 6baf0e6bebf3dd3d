package partner

import (
	"github.com/google/uuid"

	"github.com/heartmarshall/impact-hub-backend/internal/catalog"
	"github.com/heartmarshall/impact-hub-backend/internal/domain"
	"github.com/heartmarshall/impact-hub-backend/internal/localize"
	"github.com/heartmarshall/impact-hub-backend/internal/vectorindex"
)

// Collection is the name of the partners collection.
const Collection = "partners"

func partnerID(p domain.Partner) uuid.UUID { return p.ID }

// IndexSchema describes how partners are embedded and filtered.
func IndexSchema() vectorindex.Schema[domain.Partner] {
	return vectorindex.Schema[domain.Partner]{
		Collection: Collection,
		ID:         partnerID,
		Text:       domain.Partner.CanonicalText,
		Field:      domain.Partner.FilterValue,
		FuzzyText: func(p domain.Partner) []string {
			return []string{p.OrganizationName}
		},
	}
}

// LocalizeKind describes the translatable surface of a partner.
func LocalizeKind() localize.Kind[domain.Partner] {
	return localize.Kind[domain.Partner]{
		Name:   Collection,
		ID:     partnerID,
		Fields: domain.Partner.TranslatableFields,
		Cached: func(p domain.Partner) domain.Translations { return p.Translations },
	}
}

// CatalogKind describes the visibility surface of a partner.
func CatalogKind() catalog.Kind[domain.Partner] {
	return catalog.Kind[domain.Partner]{
		Name:       Collection,
		Public:     domain.PartnerPublicStatuses,
		FilterKeys: domain.PartnerFilterKeys,
		Status:     func(p domain.Partner) string { return p.Status.String() },
		Owner:      func(p domain.Partner) uuid.UUID { return p.ProposedByUserID },
		Schema:     IndexSchema(),
	}
}
