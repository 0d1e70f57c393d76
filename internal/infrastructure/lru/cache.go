// Package lru implements the in-process link cache: a bounded mapping from
// code to link record, ordered by recency of access, fronting the durable
// link store.
package lru

import (
	"container/list"
	"context"
	"sync"

	"github.com/nutshell-sh/nutshell/internal/domain"
	"github.com/nutshell-sh/nutshell/internal/pkg/metrics"
)

// Cache is a fixed-capacity LRU cache of link records keyed by code.
//
// A doubly-linked list keeps recency order (front = most recently used) and
// a map gives O(1) lookup into it. All operations take the mutex, so the
// cache is safe for concurrent request handlers; none of the in-memory
// operations block on I/O.
//
// The cache stores private copies of link records and hands out clones.
// GetOrFetch as a whole is not atomic: two handlers missing on the same code
// may both query the store and both insert. That is benign, Insert
// overwrites by key and both fetched the same record.
type Cache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List
	repo     domain.LinkRepository
	metrics  metrics.Registry
}

// New creates a link cache with the given capacity fronting repo.
// Capacity must be positive; it is fixed for the cache's lifetime.
func New(capacity int, repo domain.LinkRepository, registry metrics.Registry) *Cache {
	if capacity <= 0 {
		panic("lru: capacity must be positive")
	}
	if registry == nil {
		registry = metrics.NewNoOpRegistry()
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[string]*list.Element, capacity),
		order:    list.New(),
		repo:     repo,
		metrics:  registry,
	}
}

// Insert adds or overwrites a link at the most-recently-used position. When
// the cache is full and the code is not already present, the
// least-recently-used entry is evicted first, so the cache is never over
// capacity, not even transiently.
func (c *Cache) Insert(_ context.Context, link *domain.Link) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.insertLocked(link)
}

func (c *Cache) insertLocked(link *domain.Link) {
	if elem, ok := c.entries[link.Code]; ok {
		elem.Value = link.Clone()
		c.order.MoveToFront(elem)
		return
	}

	if c.order.Len() == c.capacity {
		c.evictLocked()
	}

	c.entries[link.Code] = c.order.PushFront(link.Clone())
	c.metrics.SetCacheSize(c.order.Len())
}

// evictLocked removes the least-recently-used entry, the back of the list.
func (c *Cache) evictLocked() {
	elem := c.order.Back()
	if elem == nil {
		return
	}
	evicted := c.order.Remove(elem).(*domain.Link)
	delete(c.entries, evicted.Code)
	c.metrics.IncCacheEvictions()
}

// Lookup returns the cached link for a code without consulting the store.
// Unless silent, a hit promotes the entry to most-recently-used.
func (c *Cache) Lookup(_ context.Context, code string, silent bool) (*domain.Link, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lookupLocked(code, silent)
}

func (c *Cache) lookupLocked(code string, silent bool) (*domain.Link, bool) {
	elem, ok := c.entries[code]
	if !ok {
		return nil, false
	}
	if !silent {
		c.order.MoveToFront(elem)
	}
	return elem.Value.(*domain.Link).Clone(), true
}

// Delete removes and returns the cached entry for a code. The store is not
// touched; deleting a code that is not cached is a no-op.
func (c *Cache) Delete(_ context.Context, code string) (*domain.Link, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[code]
	if !ok {
		return nil, false
	}
	removed := c.order.Remove(elem).(*domain.Link)
	delete(c.entries, code)
	c.metrics.SetCacheSize(c.order.Len())
	return removed, true
}

// GetOrFetch checks the cache and falls back to the store on a miss,
// inserting the fetched record. A miss in both returns ErrLinkNotFound and
// caches nothing, so repeated misses re-query the store every time.
func (c *Cache) GetOrFetch(ctx context.Context, code string, silent bool) (*domain.Link, error) {
	if link, ok := c.Lookup(ctx, code, silent); ok {
		c.metrics.IncCacheHits()
		return link, nil
	}
	c.metrics.IncCacheMisses()

	link, err := c.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	c.Insert(ctx, link)
	return link.Clone(), nil
}

// Ping always succeeds; the cache lives in process memory.
func (c *Cache) Ping(_ context.Context) error {
	return nil
}

// Len returns the current number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Keys returns the cached codes in recency order, most recent first.
// Used by tests and debugging.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, c.order.Len())
	for elem := c.order.Front(); elem != nil; elem = elem.Next() {
		keys = append(keys, elem.Value.(*domain.Link).Code)
	}
	return keys
}
