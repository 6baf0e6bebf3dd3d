package domain

// Page is one page of a paginated result. Total and TotalPages count the
// whole filtered set, not just Items.
type Page[T any] struct {
	Items      []T
	Total      int
	Page       int
	TotalPages int
}

// Pagination defaults shared by every listing.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// NormalizePaging clamps page to >= 1 and limit to [1, MaxPageLimit].
func NormalizePaging(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}
