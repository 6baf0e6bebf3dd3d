// Package visibility decides which entities a caller may list and merges the
// separate store queries needed to express "public OR owned" without a
// native OR query. Everything here is pure.
package visibility

import (
	"bytes"
	"slices"
	"sort"

	"github.com/google/uuid"

	"github.com/heartmarshall/impact-hub-backend/internal/domain"
)

// Kind enumerates the query shapes a Plan can take.
type Kind int

const (
	// KindEmpty yields no results without touching the store.
	KindEmpty Kind = iota
	// KindAll lists every entity.
	KindAll
	// KindStatus lists every entity with Status, any owner.
	KindStatus
	// KindOwnedStatus lists the caller's entities with Status.
	KindOwnedStatus
	// KindPublic lists entities in the public set.
	KindPublic
	// KindUnion lists the public set plus everything the caller owns.
	KindUnion
)

func (k Kind) String() string {
	switch k {
	case KindAll:
		return "all"
	case KindStatus:
		return "status"
	case KindOwnedStatus:
		return "owned_status"
	case KindPublic:
		return "public"
	case KindUnion:
		return "union"
	default:
		return "empty"
	}
}

// Plan is the outcome of Decide.
type Plan struct {
	Kind   Kind
	Status string
	Owner  uuid.UUID
	Public []string
}

// Decide maps a caller and an optional requested status ("" when absent) to
// a Plan, given the entity type's public status set.
//
//	moderator, no status        -> all
//	moderator, status           -> status (any owner)
//	owner, public status        -> status (any owner)
//	owner, private status       -> owned status
//	owner, no status            -> public ∪ owned
//	anonymous, private status   -> empty
//	anonymous, public or none   -> public (narrowed to status when given)
func Decide(p domain.Principal, status string, public []string) Plan {
	plan := Plan{Status: status, Public: public}
	isPublic := status != "" && slices.Contains(public, status)

	switch {
	case p.IsModerator():
		if status == "" {
			plan.Kind = KindAll
		} else {
			plan.Kind = KindStatus
		}
	case !p.IsAnonymous():
		plan.Owner = p.UserID
		switch {
		case status == "":
			plan.Kind = KindUnion
		case isPublic:
			plan.Kind = KindStatus
		default:
			plan.Kind = KindOwnedStatus
		}
	default:
		switch {
		case status == "":
			plan.Kind = KindPublic
		case isPublic:
			plan.Kind = KindStatus
		default:
			plan.Kind = KindEmpty
		}
	}
	return plan
}

// Allows reports whether an entity with the given status and owner belongs
// to the plan's result set. It filters search candidates with the same rules
// Decide applies to store queries.
func (p Plan) Allows(status string, owner uuid.UUID) bool {
	switch p.Kind {
	case KindAll:
		return true
	case KindStatus:
		return status == p.Status
	case KindOwnedStatus:
		return status == p.Status && owner == p.Owner
	case KindPublic:
		return slices.Contains(p.Public, status)
	case KindUnion:
		return owner == p.Owner || slices.Contains(p.Public, status)
	default:
		return false
	}
}

// Merge unions result sets keyed by ID. On collision the later set wins; the
// content is the same entity either way. The output is sorted by ID ascending.
func Merge[T any](id func(T) uuid.UUID, sets ...[]T) []T {
	byID := make(map[uuid.UUID]T)
	for _, set := range sets {
		for _, item := range set {
			byID[id(item)] = item
		}
	}

	out := make([]T, 0, len(byID))
	for _, item := range byID {
		out = append(out, item)
	}
	SortByID(out, id)
	return out
}

// SortByID orders items by ID ascending. Byte order of a UUID matches the
// order of its canonical string form.
func SortByID[T any](items []T, id func(T) uuid.UUID) {
	sort.Slice(items, func(i, j int) bool {
		a, b := id(items[i]), id(items[j])
		return bytes.Compare(a[:], b[:]) < 0
	})
}

// Paginate slices items to the requested 1-based page. Total and TotalPages
// describe the whole input.
func Paginate[T any](items []T, page, limit int) domain.Page[T] {
	page, limit = domain.NormalizePaging(page, limit)

	total := len(items)
	totalPages := (total + limit - 1) / limit

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := min(start+limit, total)

	return domain.Page[T]{
		Items:      items[start:end],
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	}
}

// CanView reports whether a caller may read a single entity.
func CanView(p domain.Principal, status string, owner uuid.UUID, public []string) bool {
	return p.IsModerator() || p.Owns(owner) || slices.Contains(public, status)
}
