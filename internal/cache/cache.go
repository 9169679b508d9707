// Package cache provides a keyed TTL cache with an in-flight guard.
// The cache is an explicit dependency: construct one and hand it to the
// component that needs it, never reach for a global.
package cache

import (
	"sync"
	"time"
)

// DefaultTTL matches the dashboard's five-minute expiry.
const DefaultTTL = 5 * time.Minute

type entry struct {
	value  any
	expiry time.Time
}

// call tracks one in-flight fetch so concurrent callers for the same key
// share a single execution.
type call struct {
	wg  sync.WaitGroup
	val any
	err error
}

// Cache maps keys to values with a fixed TTL. Safe for concurrent use.
type Cache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]entry
	calls   map[string]*call
}

// New returns a Cache with the given ttl. A ttl of 0 uses DefaultTTL.
func New(ttl time.Duration) *Cache {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
		calls:   make(map[string]*call),
	}
}

// Get returns the cached value for key, or nil and false when the key is
// absent or expired. Expired entries are removed on read.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiry) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key with the cache's TTL. Last writer wins.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, expiry: c.now().Add(c.ttl)}
}

// Invalidate removes one key.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// InvalidateAll removes every key.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// GetOrFetch returns the cached value for key, or runs fetch to populate
// it. At most one fetch per key is in flight at a time; callers that
// arrive while a fetch is running block and share its result. Fetch
// errors are not cached.
func (c *Cache) GetOrFetch(key string, fetch func() (any, error)) (any, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && !c.now().After(e.expiry) {
		c.mu.Unlock()
		return e.value, nil
	}
	if inflight, ok := c.calls[key]; ok {
		c.mu.Unlock()
		inflight.wg.Wait()
		return inflight.val, inflight.err
	}
	cl := &call{}
	cl.wg.Add(1)
	c.calls[key] = cl
	c.mu.Unlock()

	cl.val, cl.err = fetch()

	c.mu.Lock()
	if cl.err == nil {
		c.entries[key] = entry{value: cl.val, expiry: c.now().Add(c.ttl)}
	}
	delete(c.calls, key)
	c.mu.Unlock()

	cl.wg.Done()
	return cl.val, cl.err
}
