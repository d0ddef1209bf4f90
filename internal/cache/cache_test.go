package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheHitAndMiss(t *testing.T) {
	t.Parallel()

	c := New()
	c.Set("a", []byte("payload"), time.Minute)

	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, []byte("payload"), got)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := New()
	c.now = func() time.Time { return now }

	c.Set("a", []byte("payload"), time.Minute)

	_, ok := c.Get("a")
	assert.True(t, ok)

	now = now.Add(61 * time.Second)
	_, ok = c.Get("a")
	assert.False(t, ok)

	// The expired entry is gone, not just hidden.
	c.now = func() time.Time { return now.Add(-time.Hour) }
	_, ok = c.Get("a")
	assert.False(t, ok)
}

func TestCacheZeroTTLStoresNothing(t *testing.T) {
	t.Parallel()

	c := New()
	c.Set("a", []byte("payload"), 0)
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestCacheInvalidate(t *testing.T) {
	t.Parallel()

	c := New()
	c.Set("a", []byte("payload"), time.Minute)
	c.Invalidate("a")
	_, ok := c.Get("a")
	assert.False(t, ok)
}
