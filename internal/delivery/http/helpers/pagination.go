package helpers

import (
	"net/http"
	"strconv"

	"eventmaster/internal/domain"
)

// Pagination query parameter defaults and limits.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxPage         = 1_000_000
)

// ParsePagination reads page and page_size from the query string.
// Bad values fall back to the defaults and page_size=all turns paging off.
func ParsePagination(r *http.Request) domain.PaginationParams {
	q := r.URL.Query()
	if q.Get("page_size") == "all" {
		return domain.PaginationParams{Page: DefaultPage}
	}
	return domain.PaginationParams{
		Page:     min(positiveInt(q.Get("page"), DefaultPage), MaxPage),
		PageSize: min(positiveInt(q.Get("page_size"), DefaultPageSize), MaxPageSize),
	}
}

func positiveInt(raw string, def int) int {
	if v, err := strconv.Atoi(raw); err == nil && v >= 1 {
		return v
	}
	return def
}

// PaginationMeta travels next to a page of items.
type PaginationMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPaginationMeta rounds the page count up; a zero pageSize yields no pages.
func NewPaginationMeta(page, pageSize, total int) PaginationMeta {
	meta := PaginationMeta{Page: page, PageSize: pageSize, Total: total}
	if pageSize > 0 {
		meta.TotalPages = (total + pageSize - 1) / pageSize
	}
	return meta
}
