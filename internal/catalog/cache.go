package catalog

import (
	"fmt"
	"sync"
	"time"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/tessro/chorus/internal/core"
)

// Cache holds recent catalog responses keyed by a structural hash of the
// request. A nil *Cache is valid and never hits.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	max     int
	entries map[string]cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	tracks  []core.Track
	expires time.Time
}

// NewCache creates a cache. A non-positive ttl returns nil (caching disabled).
func NewCache(ttl time.Duration, maxEntries int) *Cache {
	if ttl <= 0 {
		return nil
	}
	if maxEntries <= 0 {
		maxEntries = 256
	}
	return &Cache{
		ttl:     ttl,
		max:     maxEntries,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the tracks cached for key, if present and fresh.
func (c *Cache) Get(key interface{}) ([]core.Track, bool) {
	if c == nil {
		return nil, false
	}
	k, err := cacheKey(key)
	if err != nil {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[k]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expires) {
		delete(c.entries, k)
		return nil, false
	}
	return append([]core.Track(nil), e.tracks...), true
}

// Put stores tracks under key, evicting expired entries (and then the
// soonest-to-expire one) when the cache is full.
func (c *Cache) Put(key interface{}, tracks []core.Track) {
	if c == nil {
		return
	}
	k, err := cacheKey(key)
	if err != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, exists := c.entries[k]; !exists && len(c.entries) >= c.max {
		c.evictLocked(now)
	}
	c.entries[k] = cacheEntry{
		tracks:  append([]core.Track(nil), tracks...),
		expires: now.Add(c.ttl),
	}
}

// Len returns the number of entries, fresh or not.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) evictLocked(now time.Time) {
	var (
		oldestKey string
		oldest    time.Time
	)
	for k, e := range c.entries {
		if now.After(e.expires) {
			delete(c.entries, k)
			continue
		}
		if oldestKey == "" || e.expires.Before(oldest) {
			oldestKey, oldest = k, e.expires
		}
	}
	if len(c.entries) >= c.max && oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

func cacheKey(key interface{}) (string, error) {
	h, err := hashstructure.Hash(key, hashstructure.FormatV2, nil)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%T:%x", key, h), nil
}
