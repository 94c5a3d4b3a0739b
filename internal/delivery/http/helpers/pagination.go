package helpers

import (
	"net/http"
	"strconv"

	"eventhub/internal/domain"
)

// Pagination defaults. The page size is fixed: listings always return at most
// PageSize records per page.
const (
	DefaultPage = 1
	PageSize    = 20
)

// ParsePagination reads the page number from the request query string and
// returns domain.PaginationParams with the fixed page size. Invalid or
// missing values fall back to page 1.
func ParsePagination(r *http.Request) domain.PaginationParams {
	page := DefaultPage
	if s := r.URL.Query().Get("page"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 1 {
			page = v
		}
	}
	return domain.PaginationParams{Page: page, PageSize: PageSize}
}

// PaginationMeta is the pagination metadata included in paginated list
// responses.
// swagger:model PaginationMeta
type PaginationMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPaginationMeta builds PaginationMeta from the current page, page size,
// and total count. TotalPages is ceiling(total / pageSize); 0 when pageSize
// is 0.
func NewPaginationMeta(page, pageSize, total int) PaginationMeta {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return PaginationMeta{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
