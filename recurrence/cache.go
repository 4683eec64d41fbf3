package recurrence

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"
)

// cacheEntry represents a cached occurrence window.
type cacheEntry struct {
	dates      []time.Time
	expiresAt  time.Time
	accessedAt time.Time
}

// Cache memoizes occurrence windows keyed by (rule, from, limit). Rules are
// immutable values, so a window never becomes stale by mutation; entries
// expire on a TTL purely to bound memory.
type Cache struct {
	entries         map[string]*cacheEntry
	mutex           sync.RWMutex
	ttl             time.Duration
	maxEntries      int
	cleanupInterval time.Duration
	stopCleanup     chan struct{}
}

// CacheConfig holds configuration for the occurrence cache.
type CacheConfig struct {
	TTL             time.Duration // How long entries stay valid
	MaxEntries      int           // Maximum number of entries before cleanup
	CleanupInterval time.Duration // How often to run cleanup
}

// DefaultCacheConfig provides sensible defaults for occurrence caching.
var DefaultCacheConfig = CacheConfig{
	TTL:             15 * time.Minute,
	MaxEntries:      1000,
	CleanupInterval: 5 * time.Minute,
}

// NewCache creates an occurrence cache with the given configuration.
func NewCache(config CacheConfig) *Cache {
	cache := &Cache{
		entries:         make(map[string]*cacheEntry),
		ttl:             config.TTL,
		maxEntries:      config.MaxEntries,
		cleanupInterval: config.CleanupInterval,
		stopCleanup:     make(chan struct{}),
	}
	go cache.cleanupLoop()
	return cache
}

// key derives a cache key from the full rule value plus the query window.
// The rule's JSON form covers every field that affects computation.
func (c *Cache) key(rule Rule, from time.Time, limit int) string {
	hasher := sha256.New()
	if encoded, err := json.Marshal(rule); err == nil {
		hasher.Write(encoded)
	}
	hasher.Write([]byte(from.Format(time.RFC3339Nano)))
	fmt.Fprintf(hasher, "%d", limit)
	return fmt.Sprintf("%x", hasher.Sum(nil))
}

// Get retrieves a cached occurrence window if present and not expired.
func (c *Cache) Get(rule Rule, from time.Time, limit int) ([]time.Time, bool) {
	key := c.key(rule, from, limit)

	c.mutex.RLock()
	entry, exists := c.entries[key]
	c.mutex.RUnlock()

	if !exists {
		return nil, false
	}

	now := time.Now()
	if now.After(entry.expiresAt) {
		c.mutex.Lock()
		delete(c.entries, key)
		c.mutex.Unlock()
		return nil, false
	}

	c.mutex.Lock()
	entry.accessedAt = now
	c.mutex.Unlock()

	// Callers may append to the result; hand out a copy.
	return append([]time.Time(nil), entry.dates...), true
}

// Set stores an occurrence window in the cache.
func (c *Cache) Set(rule Rule, from time.Time, limit int, dates []time.Time) {
	key := c.key(rule, from, limit)
	now := time.Now()

	entry := &cacheEntry{
		dates:      append([]time.Time(nil), dates...),
		expiresAt:  now.Add(c.ttl),
		accessedAt: now,
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[key] = entry

	if len(c.entries) > c.maxEntries {
		c.cleanup()
	}
}

// cleanup removes expired entries, then least recently accessed entries
// while over the limit. Caller must hold the write lock.
func (c *Cache) cleanup() {
	now := time.Now()

	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}

	if len(c.entries) > c.maxEntries {
		type keyAccess struct {
			key        string
			accessedAt time.Time
		}
		keyAccessList := make([]keyAccess, 0, len(c.entries))
		for key, entry := range c.entries {
			keyAccessList = append(keyAccessList, keyAccess{key: key, accessedAt: entry.accessedAt})
		}
		sort.Slice(keyAccessList, func(i, j int) bool {
			return keyAccessList[i].accessedAt.Before(keyAccessList[j].accessedAt)
		})

		entriesToRemove := len(c.entries) - c.maxEntries
		for i := 0; i < entriesToRemove && i < len(keyAccessList); i++ {
			delete(c.entries, keyAccessList[i].key)
		}
	}
}

// cleanupLoop runs periodic cleanup.
func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mutex.Lock()
			c.cleanup()
			c.mutex.Unlock()
		case <-c.stopCleanup:
			return
		}
	}
}

// Close stops the cleanup goroutine and clears the cache.
func (c *Cache) Close() {
	close(c.stopCleanup)
	c.mutex.Lock()
	c.entries = make(map[string]*cacheEntry)
	c.mutex.Unlock()
}

// Stats returns cache statistics.
func (c *Cache) Stats() CacheStats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entryCount := len(c.entries)
	expiredCount := 0
	now := time.Now()

	for _, entry := range c.entries {
		if now.After(entry.expiresAt) {
			expiredCount++
		}
	}

	return CacheStats{
		TotalEntries:   entryCount,
		ExpiredEntries: expiredCount,
		ActiveEntries:  entryCount - expiredCount,
	}
}

// CacheStats provides information about cache usage.
type CacheStats struct {
	TotalEntries   int
	ExpiredEntries int
	ActiveEntries  int
}
