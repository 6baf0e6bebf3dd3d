package rest

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/impact-hub-backend/internal/domain"
)

// pathUUID parses the named path wildcard as a UUID.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, domain.NewValidationError(name, "must be a valid UUID")
	}
	return id, nil
}

// parseOptionalUUID parses s unless it is blank.
func parseOptionalUUID(field, s string) (*uuid.UUID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, domain.NewValidationError(field, "must be a valid UUID")
	}
	return &id, nil
}

// paging reads page and limit from the query string. Missing values are
// zero and get defaults downstream.
func paging(r *http.Request) (page, limit int, err error) {
	var errs []domain.FieldError
	q := r.URL.Query()

	if v := q.Get("page"); v != "" {
		n, convErr := strconv.Atoi(v)
		if convErr != nil || n < 1 {
			errs = append(errs, domain.FieldError{Field: "page", Message: "must be a positive integer"})
		}
		page = n
	}
	if v := q.Get("limit"); v != "" {
		n, convErr := strconv.Atoi(v)
		if convErr != nil || n < 1 {
			errs = append(errs, domain.FieldError{Field: "limit", Message: "must be a positive integer"})
		}
		limit = n
	}

	if len(errs) > 0 {
		return 0, 0, domain.NewValidationErrors(errs)
	}
	return page, limit, nil
}

// uuidFilterKeys hold IDs; they are rendered in canonical lowercase form so
// string comparisons in the index and memory store agree with Postgres.
var uuidFilterKeys = map[string]bool{
	domain.FilterPartnerID:  true,
	domain.FilterProposedBy: true,
	domain.FilterCreatedBy:  true,
}

// filters copies the given keys from the query string, skipping blanks.
func filters(r *http.Request, keys ...string) (map[string]string, error) {
	var errs []domain.FieldError
	q := r.URL.Query()
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		v := strings.TrimSpace(q.Get(k))
		if v == "" {
			continue
		}
		if uuidFilterKeys[k] {
			id, err := uuid.Parse(v)
			if err != nil {
				errs = append(errs, domain.FieldError{Field: k, Message: "must be a valid UUID"})
				continue
			}
			v = id.String()
		}
		out[k] = v
	}
	if len(errs) > 0 {
		return nil, domain.NewValidationErrors(errs)
	}
	return out, nil
}
