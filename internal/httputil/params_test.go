package httputil

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		wantPage    int
		wantPerPage int
	}{
		{"defaults", "/api/posts", 1, 20},
		{"explicit values", "/api/posts?page=3&per_page=50", 3, 50},
		{"per_page clamped to 100", "/api/posts?per_page=500", 1, 100},
		{"garbage falls back to defaults", "/api/posts?page=abc&per_page=-1", 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			page, perPage := ParsePagination(r, 20)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantPerPage, perPage)
		})
	}
}
