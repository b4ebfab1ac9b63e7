package main

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IvanBrykalov/lrucache/cache"
)

func TestWorkload_RunHonoursOpLimit(t *testing.T) {
	t.Parallel()

	c := cache.MustNew[string, string](cache.Options[string, string]{Capacity: 32})
	w := workload{readPct: 70, keys: 1_000, zipfS: 1.2, zipfV: 1, seed: 7, limit: 5_000}

	rep := w.run(context.Background(), c)
	require.Equal(t, uint64(5_000), rep.ops)
	require.Equal(t, rep.ops, rep.reads+rep.writes)
	require.Equal(t, rep.reads, rep.hits+rep.misses)
	require.LessOrEqual(t, c.Len(), 32)
	require.Equal(t, rep.hits, c.Stats().Hits)
}

func TestWorkload_StopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	c := cache.MustNew[string, string](cache.Options[string, string]{Capacity: 8})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rep := workload{readPct: 50, keys: 100, zipfS: 1.1, zipfV: 1, seed: 1}.run(ctx, c)
	require.Zero(t, rep.ops)
}

func TestPreload(t *testing.T) {
	t.Parallel()

	c := cache.MustNew[string, string](cache.Options[string, string]{Capacity: 4})
	preload(c, 10)
	require.Equal(t, []string{"k:9", "k:8", "k:7", "k:6"}, c.Keys())
}

func TestRootCmd_Report(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--cap", "64", "--ops", "2000", "--keys", "500", "--seed", "3"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	require.Contains(t, out.String(), "ops=2000 ")
	require.Contains(t, out.String(), "hit-rate=")
}

func TestRootCmd_RejectsBadFlags(t *testing.T) {
	t.Parallel()

	for _, args := range [][]string{
		{"--cap", "0", "--ops", "1"},
		{"--reads", "101"},
		{"--zipf_s", "1"},
		{"--keys", "1"},
	} {
		cmd := rootCmd()
		cmd.SetOut(io.Discard)
		cmd.SetErr(io.Discard)
		cmd.SetArgs(args)
		require.Error(t, cmd.Execute(), "args %v", args)
	}
}
