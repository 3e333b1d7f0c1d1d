package pagescope

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_CountCache(t *testing.T) {
	cache := NewCountCache(2, time.Hour)

	_, ok := cache.Get("a")
	require.False(t, ok)

	cache.Add("a", 1)
	cache.Add("b", 2)
	cache.Add("", 3)

	count, ok := cache.Get("a")
	require.True(t, ok)
	assert.EqualValues(t, 1, count)
	assert.Equal(t, 2, cache.Len())

	// "b" is the least recently used entry now.
	cache.Add("c", 3)
	_, ok = cache.Get("b")
	assert.False(t, ok)
	assert.Equal(t, 2, cache.Len())

	cache.Purge()
	assert.Equal(t, 0, cache.Len())
}

func Test_CountCache_TTL(t *testing.T) {
	cache := NewCountCache(0, 20*time.Millisecond)

	cache.Add("a", 1)
	time.Sleep(60 * time.Millisecond)

	_, ok := cache.Get("a")
	assert.False(t, ok)
}

func Test_CountCache_Nil(t *testing.T) {
	var cache *CountCache

	cache.Add("a", 1)
	cache.Purge()

	_, ok := cache.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len())
}
