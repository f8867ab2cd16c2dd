package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		name        string
		page        int
		perPage     int
		wantPage    int
		wantPerPage int
	}{
		{"defaults applied", 0, 0, 1, 20},
		{"negative page clamped to 1", -3, 20, 1, 20},
		{"per_page above cap clamped", 1, 500, 1, MaxPerPage},
		{"per_page at cap untouched", 1, 100, 1, 100},
		{"ordinary values pass through", 3, 50, 3, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, perPage := NormalizePage(tt.page, tt.perPage, 20)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantPerPage, perPage)
		})
	}
}

func TestNewPagination(t *testing.T) {
	t.Run("middle page has both neighbours", func(t *testing.T) {
		p := NewPagination(2, 20, 45)
		assert.Equal(t, 3, p.TotalPages)
		assert.True(t, p.HasNext)
		assert.True(t, p.HasPrev)
	})

	t.Run("page past the end reports no next", func(t *testing.T) {
		p := NewPagination(10, 20, 45)
		assert.False(t, p.HasNext)
		assert.True(t, p.HasPrev)
	})

	t.Run("empty result set", func(t *testing.T) {
		p := NewPagination(1, 20, 0)
		assert.Equal(t, 0, p.TotalPages)
		assert.False(t, p.HasNext)
		assert.False(t, p.HasPrev)
	})
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(1, 20))
	assert.Equal(t, 40, Offset(3, 20))
}
