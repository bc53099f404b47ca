package locator

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/couchcryptid/quake-threat-map/internal/domain"
	"github.com/couchcryptid/quake-threat-map/internal/observability"
)

// --- mock for cache tests ---

type countingLocator struct {
	calls   int
	country string
}

func (m *countingLocator) Locate(_ domain.Location) (string, bool) {
	m.calls++
	return m.country, m.country != ""
}

// --- CachedLocator tests ---

func TestCachedLocator_Hit(t *testing.T) {
	inner := &countingLocator{country: "Chile"}
	metrics := observability.NewMetricsForTesting()
	cached := NewCachedLocator(inner, 10, metrics)
	loc := domain.Location{Lat: -33.45, Lon: -70.66}

	c1, ok1 := cached.Locate(loc)
	c2, ok2 := cached.Locate(loc)

	assert.Equal(t, "Chile", c1)
	assert.True(t, ok1)
	assert.Equal(t, "Chile", c2)
	assert.True(t, ok2)
	assert.Equal(t, 1, inner.calls, "should only call inner once")
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.LocatorCache.WithLabelValues("hit")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.LocatorCache.WithLabelValues("miss")), 0)
}

func TestCachedLocator_CachesOcean(t *testing.T) {
	inner := &countingLocator{}
	cached := NewCachedLocator(inner, 10, nil)
	loc := domain.Location{Lat: 0, Lon: -150}

	_, ok := cached.Locate(loc)
	assert.False(t, ok)
	_, ok = cached.Locate(loc)
	assert.False(t, ok)

	assert.Equal(t, 1, inner.calls)
}

func TestCachedLocator_DifferentKeysMiss(t *testing.T) {
	inner := &countingLocator{country: "Japan"}
	cached := NewCachedLocator(inner, 10, nil)

	cached.Locate(domain.Location{Lat: 35.68, Lon: 139.69})
	cached.Locate(domain.Location{Lat: 35.68, Lon: 139.70})

	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, 2, cached.Len())
}

func TestCachedLocator_ClassifiesThroughCache(t *testing.T) {
	inner := &countingLocator{country: "Peru"}
	cached := NewCachedLocator(inner, 10, nil)
	quake := domain.NewQuakeMarker(domain.QuakeRecord{ID: "q1", Magnitude: 5})

	assert.True(t, domain.Classify(quake, cached))
	assert.Equal(t, domain.KindLandQuake, quake.Kind)
	assert.Equal(t, "Peru", quake.Quake.Country)
}

// --- LRU cache unit tests ---

func TestLRUCache_BasicGetPut(t *testing.T) {
	c := newLRUCache(3)
	c.put("a", result{country: "A", found: true})
	c.put("b", result{})

	r, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A", r.country)

	r, ok = c.get("b")
	assert.True(t, ok)
	assert.False(t, r.found)

	_, ok = c.get("missing")
	assert.False(t, ok)
}

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache(2)
	c.put("a", result{country: "A"})
	c.put("b", result{country: "B"})
	c.put("c", result{country: "C"}) // evicts "a"

	_, ok := c.get("a")
	assert.False(t, ok, "a should be evicted")
	_, ok = c.get("b")
	assert.True(t, ok)
	_, ok = c.get("c")
	assert.True(t, ok)
}

func TestLRUCache_AccessPromotes(t *testing.T) {
	c := newLRUCache(2)
	c.put("a", result{country: "A"})
	c.put("b", result{country: "B"})
	c.get("a")                       // "b" is now least recently used
	c.put("c", result{country: "C"}) // evicts "b"

	_, ok := c.get("a")
	assert.True(t, ok)
	_, ok = c.get("b")
	assert.False(t, ok, "b should be evicted")
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := newLRUCache(2)
	c.put("a", result{country: "A"})
	c.put("a", result{country: "A2"})

	r, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A2", r.country)
	assert.Equal(t, 1, c.len())
}
