package domain

// Page size bounds for paged listings such as GET /saved-destinations.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PaginationParams selects one page of a user's saved destinations.
// Page counts from 1; Limit is always within [1, MaxPageLimit].
type PaginationParams struct {
	Page  int
	Limit int
}

// NewPaginationParams normalises the optional ?page and ?limit query values.
// Missing or non-positive values fall back to page 1 and DefaultPageLimit;
// a limit above MaxPageLimit is clamped rather than rejected.
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: DefaultPageLimit}
	if page != nil && *page > 0 {
		p.Page = *page
	}
	if limit != nil && *limit > 0 {
		p.Limit = min(*limit, MaxPageLimit)
	}
	return p
}

// Offset is the number of rows the page skips.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}
