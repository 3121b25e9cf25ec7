package helpers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCalculateOffsetLimit(t *testing.T) {
	offset, limit := CalculateOffsetLimit(1, 20)
	assert.Equal(t, uint64(0), offset)
	assert.Equal(t, 20, limit)

	offset, limit = CalculateOffsetLimit(3, 15)
	assert.Equal(t, uint64(30), offset)
	assert.Equal(t, 15, limit)

	// Out-of-range sizes fall back to the default
	offset, limit = CalculateOffsetLimit(2, 0)
	assert.Equal(t, uint64(10), offset)
	assert.Equal(t, DefaultPageSize, limit)

	_, limit = CalculateOffsetLimit(1, MaxPageSize+1)
	assert.Equal(t, DefaultPageSize, limit)

	offset, _ = CalculateOffsetLimit(-5, 10)
	assert.Equal(t, uint64(0), offset)
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(45, 2, 10)
	assert.Equal(t, 2, info.CurrentPage)
	assert.Equal(t, 5, info.TotalPages)
	assert.Equal(t, int64(45), info.TotalItems)

	empty := NewPaginationInfo(0, 1, 10)
	assert.Equal(t, 1, empty.TotalPages)
	assert.Equal(t, int64(0), empty.TotalItems)

	// A page past the end is clamped
	clamped := NewPaginationInfo(10, 9, 10)
	assert.Equal(t, 1, clamped.CurrentPage)
}

func TestParsePaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?page=3&size=25", nil)
	page, size := ParsePaginationParams(c)
	assert.Equal(t, 3, page)
	assert.Equal(t, 25, size)

	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?page=abc&size=9999", nil)
	page, size = ParsePaginationParams(c)
	assert.Equal(t, DefaultPage, page)
	assert.Equal(t, DefaultPageSize, size)
}
