package cache

import (
	"fmt"
	"math/rand"
	"slices"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// checkInvariants verifies that the index and the recency list describe the
// same key set, walking from each side to the other, and that the size never
// exceeds capacity.
func (c *Cache[K, V]) checkInvariants() error {
	if err := c.rl.Validate(); err != nil {
		return err
	}
	if c.ix.len() != c.rl.Len() {
		return errors.Errorf("index has %d keys, list has %d", c.ix.len(), c.rl.Len())
	}
	if c.ix.len() > c.cap {
		return errors.Errorf("size %d exceeds capacity %d", c.ix.len(), c.cap)
	}
	for _, k := range c.rl.Keys() {
		h, ok := c.ix.lookup(k)
		if !ok {
			return errors.Errorf("key %v is in the list but not in the index", k)
		}
		if c.rl.Key(h) != k {
			return errors.Errorf("index maps %v to an entry holding %v", k, c.rl.Key(h))
		}
	}
	for k, h := range c.ix.m {
		if !c.rl.Linked(h) {
			return errors.Errorf("index maps %v to unlinked handle %d", k, h)
		}
		if c.rl.Key(h) != k {
			return errors.Errorf("index maps %v to an entry holding %v", k, c.rl.Key(h))
		}
	}
	return nil
}

// model is a slow, obviously-correct LRU used as an oracle.
type model struct {
	cap   int
	order []int // MRU first
	vals  map[int]int
}

func (m *model) touch(k int) {
	i := slices.Index(m.order, k)
	m.order = slices.Delete(m.order, i, i+1)
	m.order = slices.Insert(m.order, 0, k)
}

func (m *model) get(k int) (int, bool) {
	v, ok := m.vals[k]
	if ok {
		m.touch(k)
	}
	return v, ok
}

func (m *model) put(k, v int) (evicted int, did bool) {
	if _, ok := m.vals[k]; ok {
		m.vals[k] = v
		m.touch(k)
		return 0, false
	}
	if len(m.order) == m.cap {
		evicted = m.order[len(m.order)-1]
		m.order = m.order[:len(m.order)-1]
		delete(m.vals, evicted)
		did = true
	}
	m.vals[k] = v
	m.order = slices.Insert(m.order, 0, k)
	return evicted, did
}

// Random Get/Put/Remove sequences must match the oracle after every step,
// and the index/list bijection and the capacity bound must always hold.
func TestCache_MatchesModel(t *testing.T) {
	t.Parallel()

	for _, capacity := range []int{1, 2, 3, 8, 64} {
		t.Run(fmt.Sprintf("cap=%d", capacity), func(t *testing.T) {
			r := rand.New(rand.NewSource(int64(capacity)))

			var lastEvicted []int
			c := MustNew[int, int](Options[int, int]{
				Capacity: capacity,
				OnEvict:  func(k, _ int) { lastEvicted = append(lastEvicted, k) },
			})
			m := &model{cap: capacity, order: []int{}, vals: map[int]int{}}
			keyspace := capacity * 3

			for step := 0; step < 5_000; step++ {
				k := r.Intn(keyspace)
				lastEvicted = lastEvicted[:0]

				switch op := r.Intn(10); {
				case op < 5:
					sizeBefore := c.Len()
					got, ok := c.Get(k)
					want, wantOK := m.get(k)
					require.Equal(t, wantOK, ok, "step %d: Get(%d) presence", step, k)
					require.Equal(t, want, got, "step %d: Get(%d) value", step, k)
					require.Equal(t, sizeBefore, c.Len(), "step %d: Get must not change size", step)
				case op < 9:
					v := r.Int()
					present := c.Contains(k)
					sizeBefore := c.Len()
					ev, did := m.put(k, v)
					c.Put(k, v)
					if did {
						require.Equal(t, []int{ev}, lastEvicted, "step %d: wrong victim", step)
					} else {
						require.Empty(t, lastEvicted, "step %d: unexpected eviction", step)
					}
					if present {
						require.Equal(t, sizeBefore, c.Len(), "step %d: update must not grow", step)
					}
				default:
					_, wantOK := m.vals[k]
					if wantOK {
						i := slices.Index(m.order, k)
						m.order = slices.Delete(m.order, i, i+1)
						delete(m.vals, k)
					}
					require.Equal(t, wantOK, c.Remove(k), "step %d: Remove(%d)", step, k)
				}

				require.Equal(t, m.order, c.Keys(), "step %d: recency order", step)
				require.NoError(t, c.checkInvariants(), "step %d", step)
			}
		})
	}
}

// If K was used strictly after J, J goes first under capacity pressure.
func TestCache_RecencyLaw(t *testing.T) {
	t.Parallel()

	const capacity = 4
	var order []string
	c := MustNew[string, int](Options[string, int]{
		Capacity: capacity,
		OnEvict:  func(k string, _ int) { order = append(order, k) },
	})
	for _, k := range []string{"j", "x", "y", "k"} {
		c.Put(k, 0)
	}
	c.Get("j")    // order: j k y x
	c.Put("k", 1) // order: k j y x

	for i := 0; i < capacity; i++ {
		c.Put(fmt.Sprintf("new%d", i), i)
	}
	require.Equal(t, []string{"x", "y", "j", "k"}, order)
}

// A list holding a duplicate key next to a stale index key keeps the counts
// equal and passes the list→index walk; only the index→list walk catches it.
func TestCheckInvariants_DetectsStaleIndexKey(t *testing.T) {
	t.Parallel()

	c := MustNew[string, int](Options[string, int]{Capacity: 2})
	h1 := c.rl.PushFront("a", 1)
	h2 := c.rl.PushFront("a", 2)
	c.ix.insert("a", h1)
	c.ix.insert("ghost", h2)

	require.Error(t, c.checkInvariants())
}
