package helpers

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantPage int
	}{
		{"missing page defaults to 1", "http://test/events", 1},
		{"valid page", "http://test/events?page=3", 3},
		{"page one", "http://test/events?page=1", 1},
		{"zero falls back to default", "http://test/events?page=0", 1},
		{"negative falls back to default", "http://test/events?page=-2", 1},
		{"non-numeric falls back to default", "http://test/events?page=abc", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.url, nil)
			params := ParsePagination(req)
			assert.Equal(t, tt.wantPage, params.Page)
			assert.Equal(t, PageSize, params.PageSize)
		})
	}
}

func TestNewPaginationMeta(t *testing.T) {
	tests := []struct {
		name           string
		page           int
		pageSize       int
		total          int
		wantTotalPages int
	}{
		{"exact multiple", 1, 20, 40, 2},
		{"partial last page", 2, 20, 41, 3},
		{"empty result", 1, 20, 0, 0},
		{"fewer than one page", 1, 20, 7, 1},
		{"zero page size", 1, 0, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := NewPaginationMeta(tt.page, tt.pageSize, tt.total)
			assert.Equal(t, tt.page, meta.Page)
			assert.Equal(t, tt.pageSize, meta.PageSize)
			assert.Equal(t, tt.total, meta.Total)
			assert.Equal(t, tt.wantTotalPages, meta.TotalPages)
		})
	}
}
