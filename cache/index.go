package cache

import "github.com/IvanBrykalov/lrucache/internal/recency"

// index maps each resident key to its entry handle in the recency list.
// It has no ordering of its own; the Cache keeps it in step with the list.
type index[K comparable] struct {
	m map[K]recency.Handle
}

func newIndex[K comparable](capacity int) index[K] {
	return index[K]{m: make(map[K]recency.Handle, capacity)}
}

func (ix index[K]) lookup(k K) (recency.Handle, bool) {
	h, ok := ix.m[k]
	return h, ok
}

func (ix index[K]) insert(k K, h recency.Handle) { ix.m[k] = h }

// remove deletes a mapping that must exist.
func (ix index[K]) remove(k K) {
	if _, ok := ix.m[k]; !ok {
		panic("cache: index remove of absent key")
	}
	delete(ix.m, k)
}

func (ix index[K]) len() int { return len(ix.m) }

func (ix index[K]) reset() { clear(ix.m) }
