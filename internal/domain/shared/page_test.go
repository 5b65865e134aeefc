package shared

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPageRequest(t *testing.T) {
	req, err := NewPageRequest(0, 0)
	require.NoError(t, err)
	assert.Equal(t, PageRequest{Offset: 0, Limit: DefaultPageSize}, req)

	_, err = NewPageRequest(-1, 10)
	assert.ErrorIs(t, err, ErrInvalidPage)

	_, err = NewPageRequest(0, -5)
	assert.ErrorIs(t, err, ErrInvalidPage)
}

func TestNewPage_HasMore(t *testing.T) {
	assert.True(t, NewPage(PageRequest{Offset: 0, Limit: 20}, 21).HasMore)
	assert.False(t, NewPage(PageRequest{Offset: 0, Limit: 20}, 20).HasMore)
	assert.False(t, NewPage(PageRequest{Offset: 40, Limit: 20}, 21).HasMore)
}

func TestNewPage_HugeLimitDoesNotWrap(t *testing.T) {
	assert.False(t, NewPage(PageRequest{Offset: 1, Limit: math.MaxInt}, 2).HasMore)
	assert.False(t, NewPage(PageRequest{Offset: math.MaxInt, Limit: math.MaxInt}, 2).HasMore)
	assert.True(t, NewPage(PageRequest{Offset: 0, Limit: 1}, math.MaxInt64).HasMore)
}

func TestWindow(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{2, 3}, Window(items, PageRequest{Offset: 1, Limit: 2}))
	assert.Equal(t, []int{5}, Window(items, PageRequest{Offset: 4, Limit: 10}))
	assert.Empty(t, Window(items, PageRequest{Offset: 9, Limit: 2}))
}

func TestWindow_HugeLimit(t *testing.T) {
	items := []int{1, 2, 3}

	assert.Equal(t, []int{2, 3}, Window(items, PageRequest{Offset: 1, Limit: math.MaxInt}))
	assert.Empty(t, Window(items, PageRequest{Offset: math.MaxInt, Limit: math.MaxInt}))
}
