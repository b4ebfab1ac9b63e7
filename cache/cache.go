package cache

import (
	"github.com/pkg/errors"

	"github.com/IvanBrykalov/lrucache/internal/recency"
)

// ErrInvalidCapacity is returned by New when Options.Capacity is below 1.
var ErrInvalidCapacity = errors.New("cache: capacity must be >= 1")

// Cache is a fixed-capacity LRU key/value store.
//
// Every operation is O(1): one map access plus a constant number of list
// relinks. Values are returned by copy; no reference into the cache's
// internal structure escapes.
//
// A Cache is not safe for concurrent use. Callers sharing one across
// goroutines must guard every method, including Get, with a single mutex.
type Cache[K comparable, V any] struct {
	ix  index[K]
	rl  *recency.List[K, V]
	cap int

	opt   Options[K, V]
	stats Stats
}

// New constructs a cache with the provided Options.
// It fails with ErrInvalidCapacity if opt.Capacity < 1.
// Defaults:
//   - nil Metrics -> NoopMetrics
func New[K comparable, V any](opt Options[K, V]) (*Cache[K, V], error) {
	if opt.Capacity < 1 {
		return nil, errors.Wrapf(ErrInvalidCapacity, "got %d", opt.Capacity)
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	return &Cache[K, V]{
		ix:  newIndex[K](opt.Capacity),
		rl:  recency.New[K, V](opt.Capacity),
		cap: opt.Capacity,
		opt: opt,
	}, nil
}

// MustNew is like New but panics on invalid Options.
func MustNew[K comparable, V any](opt Options[K, V]) *Cache[K, V] {
	c, err := New(opt)
	if err != nil {
		panic(err)
	}
	return c
}

// Get returns the value for k and whether it was present.
// A hit makes k the most recently used entry; a miss changes nothing.
func (c *Cache[K, V]) Get(k K) (V, bool) {
	h, ok := c.ix.lookup(k)
	if !ok {
		c.stats.Misses++
		c.opt.Metrics.Miss()
		var zero V
		return zero, false
	}
	c.rl.MoveToFront(h)
	c.stats.Hits++
	c.opt.Metrics.Hit()
	return c.rl.Value(h), true
}

// Put inserts or updates k→v and makes k the most recently used entry.
//
// Updating a resident key never grows the cache and never evicts. Inserting
// a new key into a full cache first evicts the least recently used entry, so
// Len never exceeds the capacity, even transiently.
//
// OnEvict runs last, once the new entry is in place, so a callback that calls
// back into the cache sees it in a consistent state.
func (c *Cache[K, V]) Put(k K, v V) {
	if h, ok := c.ix.lookup(k); ok {
		c.rl.SetValue(h, v)
		c.rl.MoveToFront(h)
		return
	}

	var (
		victim  recency.Entry[K, V]
		evicted bool
	)
	if c.ix.len() >= c.cap {
		victim, evicted = c.evictOldest()
	}

	h := c.rl.PushFront(k, v)
	c.ix.insert(k, h)
	c.opt.Metrics.Size(c.ix.len())

	if cb := c.opt.OnEvict; evicted && cb != nil {
		cb(victim.Key, victim.Value)
	}
}

// Remove deletes k if present and reports whether it was.
// Explicit removal is not counted as an eviction and does not call OnEvict.
func (c *Cache[K, V]) Remove(k K) bool {
	h, ok := c.ix.lookup(k)
	if !ok {
		return false
	}
	c.rl.Unlink(h)
	c.rl.Release(h)
	c.ix.remove(k)
	c.opt.Metrics.Size(c.ix.len())
	return true
}

// Contains reports whether k is resident without changing its recency.
func (c *Cache[K, V]) Contains(k K) bool {
	_, ok := c.ix.lookup(k)
	return ok
}

// Peek returns the value for k without changing its recency or the counters.
func (c *Cache[K, V]) Peek(k K) (V, bool) {
	h, ok := c.ix.lookup(k)
	if !ok {
		var zero V
		return zero, false
	}
	return c.rl.Value(h), true
}

// Keys returns the resident keys from most to least recently used.
// It is read-only: the recency order is left untouched.
func (c *Cache[K, V]) Keys() []K { return c.rl.Keys() }

// Len returns the number of resident entries.
func (c *Cache[K, V]) Len() int { return c.ix.len() }

// Cap returns the fixed capacity the cache was built with.
func (c *Cache[K, V]) Cap() int { return c.cap }

// Stats returns a snapshot of the hit/miss/eviction counters.
func (c *Cache[K, V]) Stats() Stats { return c.stats }

// Purge drops every entry without calling OnEvict. Capacity and counters are kept.
func (c *Cache[K, V]) Purge() {
	c.rl.Reset()
	c.ix.reset()
	c.opt.Metrics.Size(0)
}

// evictOldest removes the LRU entry from the list, then from the index,
// and returns it.
func (c *Cache[K, V]) evictOldest() (recency.Entry[K, V], bool) {
	e, ok := c.rl.EvictTail()
	if !ok {
		return e, false
	}
	c.ix.remove(e.Key)
	c.stats.Evictions++
	c.opt.Metrics.Evict()
	return e, true
}
