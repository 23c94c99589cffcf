package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	assert.Equal(t, Pagination{Page: 1, Limit: 20, TotalCount: 0, TotalPages: 0}, New(1, 20, 0))
	assert.Equal(t, 3, New(1, 20, 41).TotalPages)
	assert.Equal(t, 2, New(2, 20, 40).TotalPages)
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(1, 20))
	assert.Equal(t, 40, Offset(3, 20))
	assert.Equal(t, 0, Offset(0, 20))
}

func TestNormalize(t *testing.T) {
	page, limit := 0, 0
	assert.Empty(t, Normalize(&page, &limit))
	assert.Equal(t, DefaultPage, page)
	assert.Equal(t, DefaultLimit, limit)

	page, limit = -1, 500
	errs := Normalize(&page, &limit)
	assert.Len(t, errs, 2)
	assert.Equal(t, "limit must not exceed 100", errs.ToMap()["limit"])
}
