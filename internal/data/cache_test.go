package data

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestSeriesCache(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewSeriesCache(time.Minute)
	c.now = func() time.Time { return now }

	c.Set("a", []float64{1, 2})
	got, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, []float64{1, 2}, got)

	got[0] = 99
	again, _ := c.Get("a")
	assert.Equal(t, 1.0, again[0])

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Purge())
	assert.Zero(t, c.Len())
}

func TestSeriesCache_CleanupRemovesExpired(t *testing.T) {
	var mu sync.Mutex
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewSeriesCache(time.Minute)
	c.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	c.Set("old", []float64{1})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Cleanup(ctx, time.Millisecond, zap.NewNop())
		close(done)
	}()

	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 1, c.Len())

	mu.Lock()
	now = now.Add(2 * time.Minute)
	mu.Unlock()
	c.Set("fresh", []float64{2})

	assert.Eventually(t, func() bool { return c.Len() == 1 }, time.Second, time.Millisecond)
	_, ok := c.Get("fresh")
	assert.True(t, ok)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup did not stop after cancel")
	}
}

func TestSeriesCache_Nil(t *testing.T) {
	var c *SeriesCache
	c.Set("a", []float64{1})
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Zero(t, c.Purge())
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, CacheKey("a", "b"), CacheKey("a", "b"))
	assert.NotEqual(t, CacheKey("a", "b"), CacheKey("b", "a"))
	assert.Len(t, CacheKey("x"), 64)
}
