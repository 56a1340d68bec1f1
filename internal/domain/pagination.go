package domain

// PaginationParams holds offset-based pagination parameters for list queries.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Offset returns the item offset for the current page (0-based).
func (p PaginationParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// Slice returns the bounds of the current page within a list of total items.
// A zero PageSize means no pagination.
func (p PaginationParams) Slice(total int) (start, end int) {
	if p.PageSize <= 0 {
		return 0, total
	}
	// Pages past the end are empty; checked first so Offset cannot overflow.
	if p.Page > 1 && p.Page-1 > total/p.PageSize {
		return total, total
	}
	start = p.Offset()
	if start > total {
		start = total
	}
	return start, start + min(p.PageSize, total-start)
}
