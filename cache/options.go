package cache

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	Hit()
	Miss()
	Evict()
	Size(entries int)
}

// Options configures the cache. Zero values are safe except Capacity;
// defaults are applied in New():
//   - nil Metrics => NoopMetrics
type Options[K comparable, V any] struct {
	// Capacity is the entry count limit. Must be >= 1.
	Capacity int

	// OnEvict is called for every capacity eviction, at the end of the Put
	// that caused it, once the new entry is resident. It may call back into
	// the cache. It is not called for Remove or Purge.
	OnEvict func(k K, v V)

	// Metrics receives Hit/Miss/Evict/Size signals.
	Metrics Metrics
}
