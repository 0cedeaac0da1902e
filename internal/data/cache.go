package data

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const defaultCacheTTL = time.Hour

type cacheEntry struct {
	values    []float64
	expiresAt time.Time
}

// SeriesCache keeps fetched histories in memory for a fixed time.
// A nil *SeriesCache is valid and caches nothing.
type SeriesCache struct {
	mu    sync.RWMutex
	store map[string]cacheEntry
	ttl   time.Duration
	now   func() time.Time
}

func NewSeriesCache(ttl time.Duration) *SeriesCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &SeriesCache{
		store: make(map[string]cacheEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get returns a copy of the cached series if present and not expired.
func (c *SeriesCache) Get(key string) ([]float64, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.store[key]
	if !ok || c.now().After(entry.expiresAt) {
		return nil, false
	}
	return append([]float64(nil), entry.values...), true
}

func (c *SeriesCache) Set(key string, values []float64) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[key] = cacheEntry{
		values:    append([]float64(nil), values...),
		expiresAt: c.now().Add(c.ttl),
	}
}

// Purge drops expired entries and reports how many were removed.
func (c *SeriesCache) Purge() int {
	if c == nil {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	n := 0
	for key, entry := range c.store {
		if now.After(entry.expiresAt) {
			delete(c.store, key)
			n++
		}
	}
	return n
}

// Cleanup purges expired entries every interval until ctx is done.
func (c *SeriesCache) Cleanup(ctx context.Context, every time.Duration, l *zap.Logger) {
	if c == nil {
		return
	}
	if l == nil {
		l = zap.NewNop()
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := c.Purge(); n > 0 {
				l.Debug("purged expired series", zap.Int("removed", n), zap.Int("kept", c.Len()))
			}
		}
	}
}

func (c *SeriesCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// CacheKey hashes the request parts into a fixed-size key.
func CacheKey(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, ":")))
	return hex.EncodeToString(hash[:])
}
