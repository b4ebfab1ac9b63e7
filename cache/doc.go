// Package cache provides a generic, fixed-capacity in-memory cache with
// Least-Recently-Used eviction.
//
// Design
//
//   - Storage: a map[K]Handle index for lookups and an arena-backed
//     MRU↔LRU doubly linked list (internal/recency) for ordering. The list
//     owns the entries; the index only holds handles into it. All operations
//     are O(1) expected.
//
//   - Eviction: when Put inserts a new key into a full cache, the LRU entry
//     is evicted first, then the new entry becomes MRU. Updating an existing
//     key never evicts.
//
//   - Recency: Get hits and Put both promote the entry to MRU. Contains,
//     Peek and Keys are read-only and leave the order alone.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Evict/Size signals.
//     By default NoopMetrics is used; plug the metrics/prom adapter to
//     export them.
//
//   - Callbacks: Options.OnEvict(k, v) is called for every capacity eviction.
//
// Basic usage
//
//	c, err := cache.New[string, []byte](cache.Options[string, []byte]{Capacity: 10_000})
//	if err != nil {
//	    return err
//	}
//	c.Put("a", []byte("1"))
//	if v, ok := c.Get("a"); ok {
//	    _ = v // use value
//	}
//
// Exporting metrics
//
//	m := prom.New(nil, "lrucache", "demo", nil) // implements Metrics
//	c := cache.MustNew[string, []byte](cache.Options[string, []byte]{
//	    Capacity: 10_000,
//	    Metrics:  m,
//	})
//
// Thread-safety
//
// A Cache is not safe for concurrent use. Because the index and the list
// must change together, guard the whole cache with one mutex if it has to be
// shared.
package cache
