package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPage(t *testing.T) {
	page := NewPage([]string{"a", "b"}, 0, 20, 45)
	assert.Equal(t, 0, page.Page)
	assert.Equal(t, 20, page.Size)
	assert.Equal(t, int64(45), page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	assert.False(t, page.Last)
}

func TestNewPageLastPage(t *testing.T) {
	page := NewPage(nil, 2, 20, 45)
	assert.True(t, page.Last)
}

func TestNewPageExactFit(t *testing.T) {
	page := NewPage(nil, 1, 20, 40)
	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.Last)
}

func TestNewPageEmpty(t *testing.T) {
	page := NewPage(nil, 0, 20, 0)
	assert.Equal(t, 0, page.TotalPages)
	assert.True(t, page.Last)
}
