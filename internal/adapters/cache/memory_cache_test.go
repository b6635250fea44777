package cache

import (
	"context"
	"testing"
	"time"

	"github.com/mikey/sms-guard/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestMemoryCache(t *testing.T) *MemoryCache {
	t.Helper()
	c := NewMemoryCache(zap.NewNop(), time.Hour)
	t.Cleanup(c.Stop)
	return c
}

func TestMemoryCacheSetGet(t *testing.T) {
	c := newTestMemoryCache(t)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	classified := &core.Classification{
		Category:     "promotional",
		Confidence:   0.74,
		ModelUsed:    "gpt-4",
		ClassifiedAt: time.Now(),
	}
	c.Set("key1", classified, time.Hour)

	got, ok := c.Get("key1")
	require.True(t, ok)
	assert.Equal(t, "promotional", got.Category)
	assert.Equal(t, 0.74, got.Confidence)
	assert.Equal(t, "cache", got.ModelUsed)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := newTestMemoryCache(t)

	c.Set("key1", &core.Classification{Category: "spam", Confidence: 0.9}, -time.Minute)

	_, ok := c.Get("key1")
	assert.False(t, ok, "expired entries are not returned")
}

func TestMemoryCacheDelete(t *testing.T) {
	c := newTestMemoryCache(t)

	c.Set("key1", &core.Classification{Category: "spam", Confidence: 0.9}, time.Hour)
	require.NoError(t, c.Delete(context.Background(), "key1"))

	_, ok := c.Get("key1")
	assert.False(t, ok)
}

func TestMemoryCacheCleanup(t *testing.T) {
	c := newTestMemoryCache(t)

	c.Set("stale", &core.Classification{Category: "spam", Confidence: 0.9}, -time.Minute)
	c.Set("fresh", &core.Classification{Category: "transactional", Confidence: 0.8}, time.Hour)

	require.NoError(t, c.Cleanup(context.Background()))

	c.mu.RLock()
	defer c.mu.RUnlock()
	assert.NotContains(t, c.entries, "stale")
	assert.Contains(t, c.entries, "fresh")
}
