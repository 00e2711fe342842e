package liquid

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultChunkSize is the number of cells handed to a worker at a time.
const DefaultChunkSize = 256

// TickStats summarises one published tick.
type TickStats struct {
	Tick uint64

	// Moved is the liquid that crossed a cell boundary.
	Moved float64
	// Drained is the sub-threshold liquid discarded by the dust rule.
	Drained float64
	// Active counts cells that ran the flow calculation.
	Active int
}

// Engine drives ticks over a Grid. The grid is split into fixed-size chunks
// that run on up to Workers goroutines; results do not depend on either
// setting.
type Engine struct {
	workers int
	chunk   int
}

// NewEngine returns an engine with the given worker bound and chunk size.
// Non-positive values pick defaults.
func NewEngine(workers, chunk int) *Engine {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}
	return &Engine{workers: workers, chunk: chunk}
}

// Workers returns the configured worker bound.
func (e *Engine) Workers() int { return e.workers }

// ChunkSize returns the configured chunk size.
func (e *Engine) ChunkSize() int { return e.chunk }

// Step advances g by one tick: flow calculation for every cell, a barrier,
// then flow application into the back buffer, which is published by swapping.
// Callers must not edit g while Step runs.
func (e *Engine) Step(g *Grid, p Params) TickStats {
	n := len(g.cur)
	cur, nxt, flow := g.cur, g.nxt, g.flow

	e.run(n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			calculate(i, cur, flow, &p)
		}
	})

	e.run(n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			nxt[i] = apply(i, cur, flow, &p)
		}
	})

	g.cur, g.nxt = nxt, cur
	g.tick++

	stats := TickStats{Tick: g.tick}
	for i := range flow {
		o := &flow[i]
		if o.mark == markNone {
			continue
		}
		stats.Active++
		stats.Moved += float64(o.Bottom) + float64(o.Top) + float64(o.Left) + float64(o.Right)
		stats.Drained += float64(o.Drained)
	}
	return stats
}

// run calls fn over [0, n) in chunks and returns once every chunk is done.
func (e *Engine) run(n int, fn func(lo, hi int)) {
	if e.workers <= 1 || n <= e.chunk {
		fn(0, n)
		return
	}
	var g errgroup.Group
	g.SetLimit(e.workers)
	for lo := 0; lo < n; lo += e.chunk {
		hi := min(lo+e.chunk, n)
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	_ = g.Wait()
}
