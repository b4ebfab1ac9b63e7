// Package recency implements the MRU↔LRU ordering used by the cache.
//
// Entries live in an arena (a slice of slots) and are addressed by a stable
// Handle, so relinking never allocates and no pointer into the arena escapes.
// Slot 0 is a circular sentinel: its older link is the MRU entry and its
// newer link is the LRU entry. Because the sentinel is always present,
// InsertFront and EvictTail are plain relinks with no empty-list branches.
//
// A List is not safe for concurrent use.
package recency

import "github.com/pkg/errors"

// Handle addresses an entry slot inside a List. Handles stay valid until the
// entry is released (EvictTail or Release), after which the slot may be reused.
type Handle int32

// Nil marks an unlinked position.
const Nil Handle = -1

const sentinel Handle = 0

// Entry is a detached copy of a key/value pair returned to callers.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

type slot[K comparable, V any] struct {
	key K
	val V

	// newer points toward MRU, older toward LRU.
	newer Handle
	older Handle
}

// List is an ordered sequence of entries from most- to least-recently used.
type List[K comparable, V any] struct {
	slots []slot[K, V]
	free  []Handle
	len   int
}

// New returns an empty list with room for capacity entries before the arena
// has to grow.
func New[K comparable, V any](capacity int) *List[K, V] {
	if capacity < 0 {
		capacity = 0
	}
	l := &List[K, V]{slots: make([]slot[K, V], 1, capacity+1)}
	l.slots[sentinel].newer = sentinel
	l.slots[sentinel].older = sentinel
	return l
}

// Len returns the number of linked entries.
func (l *List[K, V]) Len() int { return l.len }

// Alloc creates an unlinked entry and returns its handle.
func (l *List[K, V]) Alloc(k K, v V) Handle {
	var h Handle
	if n := len(l.free); n > 0 {
		h = l.free[n-1]
		l.free = l.free[:n-1]
	} else {
		l.slots = append(l.slots, slot[K, V]{})
		h = Handle(len(l.slots) - 1)
	}
	l.slots[h] = slot[K, V]{key: k, val: v, newer: Nil, older: Nil}
	return h
}

// Release returns an unlinked entry's slot to the free list.
func (l *List[K, V]) Release(h Handle) {
	if l.linked(h) {
		panic("recency: Release of a linked entry")
	}
	l.slots[h] = slot[K, V]{newer: Nil, older: Nil}
	l.free = append(l.free, h)
}

// InsertFront links an unlinked entry at the MRU position.
func (l *List[K, V]) InsertFront(h Handle) {
	if l.linked(h) {
		panic("recency: InsertFront of a linked entry")
	}
	front := l.slots[sentinel].older
	l.slots[h].newer = sentinel
	l.slots[h].older = front
	l.slots[front].newer = h
	l.slots[sentinel].older = h
	l.len++
}

// PushFront allocates a new entry and links it at MRU.
func (l *List[K, V]) PushFront(k K, v V) Handle {
	h := l.Alloc(k, v)
	l.InsertFront(h)
	return h
}

// Unlink detaches a member entry. The remaining entries keep their relative
// order; h is left unlinked and may be reinserted or released.
func (l *List[K, V]) Unlink(h Handle) {
	if !l.linked(h) {
		panic("recency: Unlink of an unlinked entry")
	}
	s := &l.slots[h]
	newer, older := s.newer, s.older
	s.newer, s.older = Nil, Nil
	l.slots[newer].older = older
	l.slots[older].newer = newer
	l.len--
}

// MoveToFront marks h as just used.
func (l *List[K, V]) MoveToFront(h Handle) {
	if l.slots[sentinel].older == h {
		return
	}
	l.Unlink(h)
	l.InsertFront(h)
}

// EvictTail removes the LRU entry, releases its slot and returns a copy of it.
// ok is false when the list is empty.
func (l *List[K, V]) EvictTail() (e Entry[K, V], ok bool) {
	h := l.slots[sentinel].newer
	if h == sentinel {
		return e, false
	}
	e = Entry[K, V]{Key: l.slots[h].key, Value: l.slots[h].val}
	l.Unlink(h)
	l.Release(h)
	return e, true
}

// Front returns the MRU handle, or Nil when empty.
func (l *List[K, V]) Front() Handle { return l.orNil(l.slots[sentinel].older) }

// Back returns the LRU handle, or Nil when empty.
func (l *List[K, V]) Back() Handle { return l.orNil(l.slots[sentinel].newer) }

// Key returns the key stored at h.
func (l *List[K, V]) Key(h Handle) K { return l.slots[h].key }

// Value returns the value stored at h.
func (l *List[K, V]) Value(h Handle) V { return l.slots[h].val }

// SetValue replaces the value stored at h without touching its position.
func (l *List[K, V]) SetValue(h Handle, v V) { l.slots[h].val = v }

// Keys returns the keys from MRU to LRU.
func (l *List[K, V]) Keys() []K {
	keys := make([]K, 0, l.len)
	for h := l.slots[sentinel].older; h != sentinel; h = l.slots[h].older {
		keys = append(keys, l.slots[h].key)
	}
	return keys
}

// Reset unlinks and releases every entry, keeping the arena's capacity.
func (l *List[K, V]) Reset() {
	clear(l.slots[1:])
	l.slots = l.slots[:1]
	l.slots[sentinel].newer = sentinel
	l.slots[sentinel].older = sentinel
	l.free = l.free[:0]
	l.len = 0
}

// Validate walks the list in both directions and reports the first
// inconsistency: a broken back link, a cycle that skips the sentinel, or a
// length that disagrees with Len.
func (l *List[K, V]) Validate() error {
	n := 0
	for h := l.slots[sentinel].older; h != sentinel; h = l.slots[h].older {
		if h < 0 || int(h) >= len(l.slots) {
			return errors.Errorf("recency: handle %d out of range walking MRU→LRU", h)
		}
		if older := l.slots[h].older; older < 0 || int(older) >= len(l.slots) || l.slots[older].newer != h {
			return errors.Errorf("recency: entry %d is not the newer neighbour of %d", h, older)
		}
		if n++; n > l.len {
			return errors.Errorf("recency: MRU→LRU walk exceeds Len()=%d", l.len)
		}
	}
	if n != l.len {
		return errors.Errorf("recency: MRU→LRU walk visited %d entries, Len()=%d", n, l.len)
	}

	n = 0
	for h := l.slots[sentinel].newer; h != sentinel; h = l.slots[h].newer {
		if h < 0 || int(h) >= len(l.slots) {
			return errors.Errorf("recency: handle %d out of range walking LRU→MRU", h)
		}
		if n++; n > l.len {
			return errors.Errorf("recency: LRU→MRU walk exceeds Len()=%d", l.len)
		}
	}
	if n != l.len {
		return errors.Errorf("recency: LRU→MRU walk visited %d entries, Len()=%d", n, l.len)
	}
	return nil
}

// Linked reports whether h addresses an entry currently in the list.
func (l *List[K, V]) Linked(h Handle) bool {
	return h > sentinel && int(h) < len(l.slots) && l.linked(h)
}

func (l *List[K, V]) linked(h Handle) bool {
	return l.slots[h].newer != Nil
}

func (l *List[K, V]) orNil(h Handle) Handle {
	if h == sentinel {
		return Nil
	}
	return h
}
