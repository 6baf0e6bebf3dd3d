package solution

import (
	"github.com/google/uuid"

	"github.com/heartmarshall/impact-hub-backend/internal/catalog"
	"github.com/heartmarshall/impact-hub-backend/internal/domain"
	"github.com/heartmarshall/impact-hub-backend/internal/localize"
	"github.com/heartmarshall/impact-hub-backend/internal/vectorindex"
)

// Collection is the name of the solutions collection in indexes, metrics
// and events.
const Collection = "solutions"

func solutionID(s domain.Solution) uuid.UUID { return s.ID }

// IndexSchema describes how solutions are embedded and filtered.
func IndexSchema() vectorindex.Schema[domain.Solution] {
	return vectorindex.Schema[domain.Solution]{
		Collection: Collection,
		ID:         solutionID,
		Text:       domain.Solution.CanonicalText,
		Field:      domain.Solution.FilterValue,
		FuzzyText: func(s domain.Solution) []string {
			return []string{s.Name, s.Summary, s.Domain}
		},
	}
}

// LocalizeKind describes the translatable surface of a solution.
func LocalizeKind() localize.Kind[domain.Solution] {
	return localize.Kind[domain.Solution]{
		Name:   Collection,
		ID:     solutionID,
		Fields: domain.Solution.TranslatableFields,
		Cached: func(s domain.Solution) domain.Translations { return s.Translations },
	}
}

// CatalogKind describes the visibility surface of a solution.
func CatalogKind() catalog.Kind[domain.Solution] {
	return catalog.Kind[domain.Solution]{
		Name:       Collection,
		Public:     domain.SolutionPublicStatuses,
		FilterKeys: domain.SolutionFilterKeys,
		Status:     func(s domain.Solution) string { return s.Status.String() },
		Owner:      func(s domain.Solution) uuid.UUID { return s.ProposedByUserID },
		Schema:     IndexSchema(),
	}
}
