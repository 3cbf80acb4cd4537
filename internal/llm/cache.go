package llm

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"
)

// cacheEntry represents a cached classifier answer.
type cacheEntry[V any] struct {
	expiry time.Time
	value  V
}

// responseCache provides thread-safe TTL caching for classifier answers.
type responseCache[V any] struct {
	entries   map[string]cacheEntry[V]
	stopCh    chan struct{}
	ttl       time.Duration
	mu        sync.RWMutex
	closeOnce sync.Once
}

// newResponseCache creates a new cache with the specified TTL.
func newResponseCache[V any](ttl time.Duration) *responseCache[V] {
	if ttl <= 0 {
		ttl = 15 * time.Minute // Default TTL
	}

	cache := &responseCache[V]{
		entries: make(map[string]cacheEntry[V]),
		ttl:     ttl,
		stopCh:  make(chan struct{}),
	}

	go cache.cleanup()

	return cache
}

// cacheKey hashes a prompt kind, note and label list into a fixed-size key.
func cacheKey(kind, note string, labels []string) string {
	h := sha256.New()
	h.Write([]byte(kind))
	h.Write([]byte{0})
	h.Write([]byte(note))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(labels, "\x1f")))
	return hex.EncodeToString(h.Sum(nil))
}

// get retrieves a value from the cache if it exists and hasn't expired.
func (c *responseCache[V]) get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists || time.Now().After(entry.expiry) {
		var zero V
		return zero, false
	}

	return entry.value, true
}

// set stores a value in the cache.
func (c *responseCache[V]) set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry[V]{
		value:  value,
		expiry: time.Now().Add(c.ttl),
	}
}

// cleanup periodically removes expired entries.
func (c *responseCache[V]) cleanup() {
	ticker := time.NewTicker(min(c.ttl, 5*time.Minute))
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for key, entry := range c.entries {
				if now.After(entry.expiry) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}

// size returns the number of entries in the cache.
func (c *responseCache[V]) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the cleanup goroutine.
func (c *responseCache[V]) Close() {
	c.closeOnce.Do(func() { close(c.stopCh) })
}
