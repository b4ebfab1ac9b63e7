package main

import (
	"context"
	"math/rand"
	"strconv"

	"github.com/IvanBrykalov/lrucache/cache"
)

// workload describes a synthetic read/write mix over a Zipf keyspace.
type workload struct {
	readPct int
	keys    uint64
	zipfS   float64
	zipfV   float64
	seed    int64
	limit   uint64 // stop after this many ops; 0 = run until ctx is done
}

// report summarises one run.
type report struct {
	ops, reads, writes uint64
	hits, misses       uint64
}

func (r report) hitRate() float64 {
	if r.reads == 0 {
		return 0
	}
	return float64(r.hits) / float64(r.reads) * 100
}

// run drives c from a single goroutine, since a Cache is not safe for
// concurrent use. It returns when ctx is done or the op limit is reached.
func (w workload) run(ctx context.Context, c *cache.Cache[string, string]) report {
	r := rand.New(rand.NewSource(w.seed))
	zipf := rand.NewZipf(r, w.zipfS, w.zipfV, w.keys-1)
	key := func() string { return "k:" + strconv.FormatUint(zipf.Uint64(), 10) }

	var rep report
	for w.limit == 0 || rep.ops < w.limit {
		// Checking ctx on every op would dominate the hot loop.
		if rep.ops&1023 == 0 && ctx.Err() != nil {
			break
		}
		rep.ops++
		if r.Intn(100) < w.readPct {
			rep.reads++
			if _, ok := c.Get(key()); ok {
				rep.hits++
			} else {
				rep.misses++
			}
			continue
		}
		rep.writes++
		c.Put(key(), "v"+strconv.Itoa(r.Int()))
	}
	return rep
}

// preload fills c with n sequential keys.
func preload(c *cache.Cache[string, string], n int) {
	for i := 0; i < n; i++ {
		c.Put("k:"+strconv.Itoa(i), "v"+strconv.Itoa(i))
	}
}
