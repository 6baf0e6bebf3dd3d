package postgres

import (
	"fmt"
	"slices"

	sq "github.com/Masterminds/squirrel"

	"github.com/heartmarshall/impact-hub-backend/internal/domain"
)

// Builder returns a squirrel statement builder with PostgreSQL placeholders.
func Builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

// ApplyEq adds one equality predicate per filter key. columns maps the public
// filter key to its column; unknown keys are a validation error.
func ApplyEq(b sq.SelectBuilder, eq map[string]string, columns map[string]string) (sq.SelectBuilder, error) {
	keys := make([]string, 0, len(eq))
	for k := range eq {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	where := sq.Eq{}
	for _, k := range keys {
		col, ok := columns[k]
		if !ok {
			return b, domain.NewValidationError(k, fmt.Sprintf("unsupported filter %q", k))
		}
		where[col] = eq[k]
	}
	if len(where) == 0 {
		return b, nil
	}
	return b.Where(where), nil
}
