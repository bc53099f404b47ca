package locator

import (
	"container/list"
	"strconv"
	"sync"

	"github.com/couchcryptid/quake-threat-map/internal/domain"
	"github.com/couchcryptid/quake-threat-map/internal/observability"
)

// CachedLocator wraps a domain.Locator with an in-memory LRU cache keyed by
// the exact coordinate. Ocean results are cached too: boundaries never change
// after load, so a miss is as final as a hit.
type CachedLocator struct {
	inner   domain.Locator
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedLocator creates a cache decorator around a locator. metrics may be nil.
func NewCachedLocator(inner domain.Locator, maxEntries int, metrics *observability.Metrics) *CachedLocator {
	return &CachedLocator{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

// Locate implements domain.Locator.
func (c *CachedLocator) Locate(loc domain.Location) (string, bool) {
	key := cacheKey(loc)
	if r, ok := c.cache.get(key); ok {
		c.observe("hit")
		return r.country, r.found
	}
	c.observe("miss")

	country, found := c.inner.Locate(loc)
	c.cache.put(key, result{country: country, found: found})
	return country, found
}

// Len returns the number of cached coordinates.
func (c *CachedLocator) Len() int {
	return c.cache.len()
}

func (c *CachedLocator) observe(outcome string) {
	if c.metrics != nil {
		c.metrics.LocatorCache.WithLabelValues(outcome).Inc()
	}
}

func cacheKey(loc domain.Location) string {
	return strconv.FormatFloat(loc.Lat, 'g', -1, 64) + "," + strconv.FormatFloat(loc.Lon, 'g', -1, 64)
}

type result struct {
	country string
	found   bool
}

// lruCache is a thread-safe LRU of locate results.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	order      *list.List // front is most recently used
	entries    map[string]*list.Element
}

type entry struct {
	key   string
	value result
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		order:      list.New(),
		entries:    make(map[string]*list.Element),
	}
}

func (c *lruCache) get(key string) (result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return result{}, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*entry).value, true
}

func (c *lruCache) put(key string, value result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*entry).value = value
		c.order.MoveToFront(el)
		return
	}

	c.entries[key] = c.order.PushFront(&entry{key: key, value: value})
	if c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*entry).key)
	}
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
