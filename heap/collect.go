// ABOUTME: Collection entry point and the policy deciding when cycles run
// ABOUTME: Pulls roots from the evaluator, marks, sweeps and reports populations

package heap

import (
	"context"
	"log/slog"
	"time"

	"github.com/inhies/go-bytesize"
)

// Cycle reports one call to Collect
type Cycle struct {
	Skipped   bool // PolicyThreshold found the heap under its ceiling
	Before    Counts
	After     Counts
	Marked    int    // objects flagged during mark
	Threshold uint64 // ceiling after the cycle
	Grew      bool   // the ceiling doubled during this cycle
	Duration  time.Duration
}

// Freed is the number of objects released per kind
func (c Cycle) Freed() Counts {
	return Counts{
		Values:       c.Before.Values - c.After.Values,
		Lambdas:      c.Before.Lambdas - c.After.Lambdas,
		Environments: c.Before.Environments - c.After.Environments,
	}
}

// Collect runs a stop-the-world cycle: mark everything reachable from the
// global environment and the evaluation stack, then release the rest. It
// must not be called from inside a cycle.
func (h *Heap) Collect() Cycle {
	if h.collecting {
		fatal("collect", 0, ErrReentrantCollect)
	}
	if h.closed {
		fatal("collect", 0, ErrClosed)
	}

	before := h.Counts()
	if h.cfg.Policy == PolicyThreshold && before.Bytes() < h.threshold {
		return Cycle{Skipped: true, Before: before, After: before, Threshold: h.threshold}
	}

	if h.roots == nil {
		fatal("collect", 0, ErrNilReference)
	}

	start := time.Now()
	h.collecting = true
	h.marks = 0

	global := h.roots.GlobalEnvironment()
	stack := h.roots.EvalStack()

	h.markEnvironment(global)
	h.markRoots(stack)
	h.sweep()

	h.collecting = false
	h.cycles++

	cycle := Cycle{
		Before:   before,
		After:    h.Counts(),
		Marked:   h.marks,
		Duration: time.Since(start),
	}

	if h.cfg.Policy == PolicyThreshold && cycle.After.Bytes() > h.threshold {
		h.threshold *= 2
		cycle.Grew = true
		h.log.Info("increasing collection threshold",
			slog.String("threshold", bytesize.New(float64(h.threshold)).String()))
	}
	cycle.Threshold = h.threshold

	h.logCycle(cycle)
	return cycle
}

func (h *Heap) logCycle(c Cycle) {
	level := slog.LevelDebug
	if h.cfg.Stats {
		level = slog.LevelInfo
	}
	h.log.Log(context.Background(), level, "collection cycle",
		slog.Int("cycle", h.cycles),
		slog.Group("values",
			slog.Int("before", c.Before.Values),
			slog.Int("after", c.After.Values)),
		slog.Group("lambdas",
			slog.Int("before", c.Before.Lambdas),
			slog.Int("after", c.After.Lambdas)),
		slog.Group("environments",
			slog.Int("before", c.Before.Environments),
			slog.Int("after", c.After.Environments)),
		slog.String("bytes", bytesize.New(float64(c.After.Bytes())).String()),
		slog.Duration("pause", c.Duration))
}
