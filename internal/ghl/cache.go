package ghl

import (
	"sync"
	"time"
)

// DefaultCacheTTL bounds how long remote field IDs are trusted without a
// refetch.
const DefaultCacheTTL = time.Hour

type cacheEntry struct {
	id        string
	fetchedAt time.Time
}

// FieldCache maps catalog field keys to remote field IDs with a TTL. The
// clock is injected so expiry is testable without wall-clock sleeps.
type FieldCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

func NewFieldCache(ttl time.Duration) *FieldCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &FieldCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// WithClock replaces the cache's time source. Test helper.
func (c *FieldCache) WithClock(now func() time.Time) *FieldCache {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
	return c
}

// Get returns the cached remote ID for key, if present and fresh.
func (c *FieldCache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || c.now().Sub(entry.fetchedAt) >= c.ttl {
		return "", false
	}
	return entry.id, true
}

// GetAll returns cached IDs for keys. ok is true only when every key is
// present and fresh; a partial cache forces a full refetch.
func (c *FieldCache) GetAll(keys []string) (map[string]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now()
	ids := make(map[string]string, len(keys))
	for _, key := range keys {
		entry, ok := c.entries[key]
		if !ok || now.Sub(entry.fetchedAt) >= c.ttl {
			return nil, false
		}
		ids[key] = entry.id
	}
	return ids, true
}

// Put stores one key→ID mapping.
func (c *FieldCache) Put(key, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{id: id, fetchedAt: c.now()}
}

// PutAll stores a batch of mappings with a single timestamp.
func (c *FieldCache) PutAll(ids map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, id := range ids {
		c.entries[key] = cacheEntry{id: id, fetchedAt: now}
	}
}

// Clear drops every entry.
func (c *FieldCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}
