package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResponseCacheExpiry(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c := NewResponseCache(time.Minute)
	c.now = func() time.Time { return now }

	c.Set("k", []byte("body"))
	got, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "body", string(got))

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 1, c.Prune())
	assert.Equal(t, 0, c.Len())
}

func TestNilResponseCacheIsDisabled(t *testing.T) {
	var c *ResponseCache
	c.Set("k", []byte("x"))
	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCacheKeyIsOrderIndependent(t *testing.T) {
	a := CacheKey("https://x", map[string]string{"a": "1", "b": "2"})
	b := CacheKey("https://x", map[string]string{"b": "2", "a": "1"})
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, CacheKey("https://x", map[string]string{"a": "1"}))
	assert.Len(t, a, 64)
}
