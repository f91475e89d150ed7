// Package cache provides a small TTL cache for memory store reads.
//
// The pipeline fetches a user's full memory list on every turn; this cache
// memoizes those reads between turns and is invalidated whenever a memory
// is written. It never holds anything the store does not already own.
package cache

import (
	"sync"
	"time"

	"github.com/automem-labs/automem-go/pkg/storage"
)

// Default sizing, matching the shipped deployment.
const (
	DefaultMaxSize = 128
	DefaultTTL     = time.Hour
)

type entry struct {
	memories []storage.Memory
	expiry   time.Time
}

// MemoryCache is a bounded TTL cache of per-user memory lists. It is safe
// for concurrent use.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	order   []string
	maxSize int
	ttl     time.Duration

	// now is swapped in tests to control expiry.
	now func() time.Time
}

// New creates a MemoryCache.
//
// maxSize bounds the number of cached users (0 means DefaultMaxSize); ttl
// is the lifetime of each entry (0 means DefaultTTL).
func New(maxSize int, ttl time.Duration) *MemoryCache {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryCache{
		entries: make(map[string]entry),
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached memory list for a user, or false when absent or
// expired. Expired entries are evicted on read.
func (c *MemoryCache) Get(userID string) ([]storage.Memory, bool) {
	c.mu.RLock()
	e, ok := c.entries[userID]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if c.now().After(e.expiry) {
		c.Delete(userID)
		return nil, false
	}
	return e.memories, true
}

// Set stores the memory list for a user. When the cache is full, the
// oldest-inserted entry is evicted first.
func (c *MemoryCache) Set(userID string, memories []storage.Memory) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[userID]; !exists {
		if len(c.entries) >= c.maxSize && len(c.order) > 0 {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, userID)
	}

	c.entries[userID] = entry{
		memories: memories,
		expiry:   c.now().Add(c.ttl),
	}
}

// Delete removes a user's entry, if present. Called after every write so
// the next read sees the store's truth.
func (c *MemoryCache) Delete(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[userID]; !ok {
		return
	}
	delete(c.entries, userID)
	for i, id := range c.order {
		if id == userID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Clear removes all entries.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
	c.order = nil
}

// Size returns the number of live entries.
func (c *MemoryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
