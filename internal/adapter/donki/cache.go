package donki

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/couchcryptid/space-weather-plotter/internal/domain"
	"github.com/couchcryptid/space-weather-plotter/internal/observability"
)

// Fetcher retrieves one catalog of events for a date range.
type Fetcher interface {
	FetchEvents(ctx context.Context, catalog domain.Catalog, start, end time.Time) (domain.Table, error)
}

// CachedFetcher wraps a Fetcher with an in-memory LRU cache keyed by
// (catalog, date range). Only ranges ending before the current date are
// cached: completed days are immutable upstream, while a range touching
// today keeps changing and must always be refetched.
type CachedFetcher struct {
	inner   Fetcher
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedFetcher creates a cache decorator around a fetcher.
func NewCachedFetcher(inner Fetcher, maxEntries int, metrics *observability.Metrics) *CachedFetcher {
	return &CachedFetcher{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedFetcher) FetchEvents(ctx context.Context, catalog domain.Catalog, start, end time.Time) (domain.Table, error) {
	if !c.cacheable(end) {
		return c.inner.FetchEvents(ctx, catalog, start, end)
	}

	key := fmt.Sprintf("%s|%s|%s", catalog, start.Format(dateLayout), end.Format(dateLayout))
	if events, ok := c.cache.get(key); ok {
		c.metrics.CacheLookups.WithLabelValues("hit").Inc()
		return events, nil
	}
	c.metrics.CacheLookups.WithLabelValues("miss").Inc()

	events, err := c.inner.FetchEvents(ctx, catalog, start, end)
	if err != nil {
		return nil, err
	}
	c.cache.put(key, events)
	return events, nil
}

func (c *CachedFetcher) cacheable(end time.Time) bool {
	now := domain.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return end.Before(today)
}

// lruCache is a simple thread-safe LRU cache for event tables.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value domain.Table
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (domain.Table, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value domain.Table) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
