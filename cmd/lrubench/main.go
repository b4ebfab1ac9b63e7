// Command lrubench runs a synthetic workload against the cache and exposes
// optional pprof/Prometheus endpoints.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"os"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/IvanBrykalov/lrucache/cache"
	pmet "github.com/IvanBrykalov/lrucache/metrics/prom"
)

// benchEnv holds the flag values for the root command.
type benchEnv struct {
	capacity int
	preload  int
	duration time.Duration
	ops      uint64

	readPct int
	keys    uint64
	zipfS   float64
	zipfV   float64
	seed    int64

	httpAddr string
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	env := &benchEnv{}
	cmd := &cobra.Command{
		Use:   "lrubench",
		Short: "Drive a synthetic Zipf workload through an LRU cache and report hit rate and throughput.",
		Args:  cobra.NoArgs,
		RunE:  env.run,
	}

	f := cmd.Flags()
	f.IntVar(&env.capacity, "cap", 100_000, "cache capacity (entries)")
	f.IntVar(&env.preload, "preload", -1, "preload entries (-1 = cap/2)")
	f.DurationVar(&env.duration, "duration", 10*time.Second, "benchmark duration")
	f.Uint64Var(&env.ops, "ops", 0, "stop after this many operations (0 = run for --duration)")
	f.IntVar(&env.readPct, "reads", 80, "read percentage [0..100]")
	f.Uint64Var(&env.keys, "keys", 1_000_000, "keyspace size")
	f.Float64Var(&env.zipfS, "zipf_s", 1.1, "Zipf s > 1 (skew)")
	f.Float64Var(&env.zipfV, "zipf_v", 1.0, "Zipf v >= 1")
	f.Int64Var(&env.seed, "seed", time.Now().UnixNano(), "random seed")
	f.StringVar(&env.httpAddr, "http", "", "serve /metrics and /debug/pprof at addr (e.g. :8080); empty = disabled")
	return cmd
}

func (e *benchEnv) validate() error {
	switch {
	case e.readPct < 0 || e.readPct > 100:
		return pkgerrors.Errorf("--reads must be in [0..100], got %d", e.readPct)
	case e.keys < 2:
		return pkgerrors.Errorf("--keys must be >= 2, got %d", e.keys)
	case e.zipfS <= 1:
		return pkgerrors.Errorf("--zipf_s must be > 1, got %v", e.zipfS)
	case e.zipfV < 1:
		return pkgerrors.Errorf("--zipf_v must be >= 1, got %v", e.zipfV)
	}
	return nil
}

func (e *benchEnv) run(cmd *cobra.Command, _ []string) error {
	if err := e.validate(); err != nil {
		return err
	}

	opt := cache.Options[string, string]{Capacity: e.capacity}
	if e.httpAddr != "" {
		opt.Metrics = pmet.New(nil, "lrucache", "bench", nil)
		http.Handle("/metrics", promhttp.Handler())
	}
	c, err := cache.New(opt)
	if err != nil {
		return pkgerrors.Wrap(err, "building cache")
	}

	pl := e.preload
	if pl < 0 {
		pl = e.capacity / 2
	}
	preload(c, pl)

	ctx, cancel := context.WithTimeout(cmd.Context(), e.duration)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	if e.httpAddr != "" {
		srv := &http.Server{Addr: e.httpAddr, ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error {
			log.Printf("metrics: serving at %s", e.httpAddr)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return pkgerrors.Wrap(err, "metrics server")
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			return srv.Shutdown(shutdownCtx)
		})
	}

	w := workload{
		readPct: e.readPct,
		keys:    e.keys,
		zipfS:   e.zipfS,
		zipfV:   e.zipfV,
		seed:    e.seed,
		limit:   e.ops,
	}
	var rep report
	var elapsed time.Duration
	g.Go(func() error {
		start := time.Now()
		rep = w.run(ctx, c)
		elapsed = time.Since(start)
		cancel() // stop the metrics server
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	st := c.Stats()
	fmt.Fprintf(out, "cap=%d keys=%d dur=%v seed=%d\n", e.capacity, e.keys, elapsed, e.seed)
	fmt.Fprintf(out, "ops=%d (%.0f ops/s)  reads=%d  writes=%d\n",
		rep.ops, float64(rep.ops)/elapsed.Seconds(), rep.reads, rep.writes)
	fmt.Fprintf(out, "hits=%d  misses=%d  hit-rate=%.2f%%  evictions=%d\n",
		rep.hits, rep.misses, rep.hitRate(), st.Evictions)
	fmt.Fprintf(out, "Len()=%d\n", c.Len())
	return nil
}
