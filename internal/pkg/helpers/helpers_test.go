package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateOffsetLimit(t *testing.T) {
	tests := []struct {
		page, size    int
		offset, limit uint64
	}{
		{1, 10, 0, 10},
		{3, 10, 20, 10},
		{0, 0, 0, DefaultPageSize},
		{2, 500, DefaultPageSize, DefaultPageSize},
	}
	for _, tt := range tests {
		offset, limit := CalculateOffsetLimit(tt.page, tt.size)
		assert.Equal(t, tt.offset, offset, "page=%d size=%d", tt.page, tt.size)
		assert.Equal(t, tt.limit, limit, "page=%d size=%d", tt.page, tt.size)
	}
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(45, 2, 20)
	assert.Equal(t, 3, info.TotalPages)
	assert.Equal(t, 2, info.CurrentPage)
	assert.Equal(t, 45, info.TotalItems)

	empty := NewPaginationInfo(0, 1, 20)
	assert.Equal(t, 1, empty.TotalPages)
}

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		page, size         int
		wantPage, wantSize int
	}{
		{4, 5, 4, 5},
		{0, 0, DefaultPage, DefaultPageSize},
		{-2, MaxPageSize, DefaultPage, MaxPageSize},
		{1, MaxPageSize + 1, 1, DefaultPageSize},
	}
	for _, tt := range tests {
		page, size := NormalizePage(tt.page, tt.size)
		assert.Equal(t, tt.wantPage, page, "page=%d size=%d", tt.page, tt.size)
		assert.Equal(t, tt.wantSize, size, "page=%d size=%d", tt.page, tt.size)
	}
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 5*time.Minute, ParseDuration("5m", time.Second))
	assert.Equal(t, time.Second, ParseDuration("soon", time.Second))
	assert.Equal(t, time.Second, ParseDuration("", time.Second))
}
