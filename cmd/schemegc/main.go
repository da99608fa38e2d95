// ABOUTME: Command-line driver running a synthetic workload against the collector
// ABOUTME: Prints cycle statistics, dumps the surviving heap and explains retention

package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/inhies/go-bytesize"
	"golang.org/x/term"

	"github.com/prateek/schemeheap"
	"github.com/prateek/schemeheap/graph"
	"github.com/prateek/schemeheap/heap"
	"github.com/prateek/schemeheap/heapdump"
	"github.com/prateek/schemeheap/internal/workload"
)

type options struct {
	config   string
	workload string
	n        int
	seed     int64
	every    int
	dump     string
	format   string
	why      uint64
	top      int
	verbose  bool
}

func main() {
	var opts options
	flag.StringVar(&opts.config, "config", "", "YAML collector configuration")
	flag.StringVar(&opts.workload, "workload", "mixed", fmt.Sprintf("workload to run %v", workload.Names()))
	flag.IntVar(&opts.n, "n", 1000, "workload size")
	flag.Int64Var(&opts.seed, "seed", 1, "random seed for the mixed workload")
	flag.IntVar(&opts.every, "every", workload.DefaultCollectEvery, "safepoints between collections")
	flag.StringVar(&opts.dump, "dump", "", "write the surviving heap to this file")
	flag.StringVar(&opts.format, "format", "json", "dump format (json or yaml)")
	flag.Uint64Var(&opts.why, "why", 0, "explain why this object id is retained")
	flag.IntVar(&opts.top, "top", 5, "number of largest retainers to print")
	flag.BoolVar(&opts.verbose, "v", false, "debug logging")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("schemegc", schemeheap.Version)
		return
	}

	if err := run(os.Stdout, opts); err != nil {
		fmt.Fprintf(os.Stderr, "schemegc: %v\n", err)
		os.Exit(1)
	}
}

// newLogger writes text to an interactive terminal and JSON otherwise
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return slog.New(slog.NewTextHandler(os.Stderr, handlerOpts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, handlerOpts))
}

func run(out io.Writer, opts options) error {
	cfg := heap.DefaultConfig()
	if opts.config != "" {
		var err error
		if cfg, err = heap.LoadConfigFile(opts.config); err != nil {
			return err
		}
	}
	logger := newLogger(opts.verbose)
	cfg.Logger = logger

	scenario, err := workload.Lookup(opts.workload)
	if err != nil {
		return err
	}

	h := heap.New(cfg)
	m := workload.New(h, opts.seed, logger)
	m.CollectEvery = opts.every

	scenario(m, opts.n)
	final := m.Collect()

	printSummary(out, h, m.Cycles(), final)

	g := h.Snapshot()
	printRetainers(out, g, opts.top)

	if opts.why != 0 {
		if err := explain(out, g, graph.ObjID(opts.why)); err != nil {
			return err
		}
	}

	if opts.dump != "" {
		if err := dump(opts.dump, opts.format, g); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s snapshot to %s\n", opts.format, opts.dump)
	}

	h.Close()
	return nil
}

func printSummary(out io.Writer, h *heap.Heap, cycles []heap.Cycle, final heap.Cycle) {
	var freed int
	for _, c := range cycles {
		freed += c.Freed().Total()
	}
	counts := h.Counts()
	fmt.Fprintf(out, "policy %s, %d cycles, %d objects freed\n", h.Config().Policy, len(cycles), freed)
	if final.Skipped {
		fmt.Fprintln(out, "final collection skipped: heap under threshold")
	}
	fmt.Fprintf(out, "live: %d values, %d lambdas, %d environments (%s, threshold %s)\n",
		counts.Values, counts.Lambdas, counts.Environments,
		bytesize.New(float64(counts.Bytes())), bytesize.New(float64(h.Threshold())))
}

func printRetainers(out io.Writer, g graph.Graph, top int) {
	if top <= 0 {
		return
	}
	retained := graph.RetainedSize(g)
	ids := make([]graph.ObjID, 0, len(retained))
	for id := range retained {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if retained[ids[i]] != retained[ids[j]] {
			return retained[ids[i]] > retained[ids[j]]
		}
		return ids[i] < ids[j]
	})
	if len(ids) > top {
		ids = ids[:top]
	}
	fmt.Fprintln(out, "largest retainers:")
	for _, id := range ids {
		obj := g.GetObject(id)
		fmt.Fprintf(out, "  %6d %-11s %10s  %s\n", id, obj.Kind, bytesize.New(float64(retained[id])), obj.Label)
	}
}

func explain(out io.Writer, g graph.Graph, id graph.ObjID) error {
	obj := g.GetObject(id)
	if obj == nil {
		return fmt.Errorf("object %d is not in the heap", id)
	}
	fmt.Fprintf(out, "object %d (%s %s):\n", id, obj.Kind, obj.Label)

	paths := graph.PathsToRoots(g, id, 3)
	if len(paths) == 0 {
		fmt.Fprintln(out, "  unreachable")
		return nil
	}
	for _, p := range paths {
		fmt.Fprintf(out, "  path %v\n", p.IDs)
	}
	idom := graph.Dominators(g)
	fmt.Fprintf(out, "  dominated by %v\n", graph.DominatorPath(idom, id))
	retained := graph.RetainedSizeSubsets(g, []graph.ObjID{id})
	fmt.Fprintf(out, "  retains %s\n", bytesize.New(float64(retained[id])))
	return nil
}

func dump(path, format string, g graph.Graph) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating dump: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return heapdump.Write(f, format, g)
}
