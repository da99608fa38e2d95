// ABOUTME: Synthetic mutator standing in for an evaluator
// ABOUTME: Builds lists, scope chains and closures while collecting at safepoints

// Package workload drives a heap the way an evaluator would: it keeps a
// global environment and an evaluation stack as roots, allocates through the
// heap, and collects at safepoints where every live temporary is rooted.
package workload

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"strconv"

	"github.com/prateek/schemeheap/heap"
)

// DefaultCollectEvery is the number of safepoints between collections
const DefaultCollectEvery = 256

// Mutator owns the roots of one heap
type Mutator struct {
	heap   *heap.Heap
	global *heap.Environment
	stack  heap.EvalStack
	rng    *rand.Rand
	log    *slog.Logger

	// CollectEvery is the number of safepoints between collections. Values
	// below 1 collect at every safepoint.
	CollectEvery int

	steps  int
	cycles []heap.Cycle
}

// New creates a mutator over h, installs it as the heap's root source and
// binds a few primitives in the global environment
func New(h *heap.Heap, seed int64, logger *slog.Logger) *Mutator {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Mutator{
		heap:         h,
		global:       h.NewEnvironment(nil),
		rng:          rand.New(rand.NewSource(seed)),
		log:          logger.With(slog.String("component", "workload")),
		CollectEvery: DefaultCollectEvery,
	}
	h.SetRootSource(m)

	m.global.Define("+", h.NewClosure(h.NewNativeLambda(func(args []*heap.Value) (*heap.Value, error) {
		var sum int64
		for _, a := range args {
			if a.Tag() != heap.TagInt {
				return h.NewError("+: not an integer"), nil
			}
			sum += a.Int()
		}
		return h.NewInt(sum), nil
	}, nil)))
	m.global.Define("list", h.NewClosure(h.NewNativeLambda(func(args []*heap.Value) (*heap.Value, error) {
		return h.List(args...), nil
	}, m.global)))
	return m
}

// GlobalEnvironment returns the outermost scope
func (m *Mutator) GlobalEnvironment() *heap.Environment { return m.global }

// EvalStack returns the frames of in-flight scenario steps
func (m *Mutator) EvalStack() []*heap.Frame { return m.stack.Frames() }

// Heap returns the heap the mutator allocates from
func (m *Mutator) Heap() *heap.Heap { return m.heap }

// Cycles returns every collection that was not skipped by the policy
func (m *Mutator) Cycles() []heap.Cycle { return m.cycles }

// Depth is the number of frames currently pushed
func (m *Mutator) Depth() int { return m.stack.Len() }

// Collect runs a cycle now
func (m *Mutator) Collect() heap.Cycle {
	c := m.heap.Collect()
	if !c.Skipped {
		m.cycles = append(m.cycles, c)
	}
	return c
}

// safepoint counts an evaluation step and collects every CollectEvery steps.
// Callers root all temporaries before reaching it.
func (m *Mutator) safepoint() {
	m.steps++
	if m.CollectEvery <= 1 || m.steps%m.CollectEvery == 0 {
		m.Collect()
	}
}

func (m *Mutator) push() *heap.Frame {
	return m.stack.Push(&heap.Frame{Env: m.global})
}

func (m *Mutator) pop() {
	m.stack.Pop()
}

// LongList builds an n element list of integers and binds it to name
func (m *Mutator) LongList(name string, n int) *heap.Value {
	h := m.heap
	frame := m.push()
	defer m.pop()

	list := h.NewNil()
	frame.ChildResult = list
	for i := n - 1; i >= 0; i-- {
		list = h.Cons(h.NewInt(int64(i)), list)
		frame.ChildResult = list
		m.safepoint()
	}
	m.global.Define(name, list)
	return list
}

// ScopeChain nests depth environments, each binding x, and binds a closure
// over the innermost one to name
func (m *Mutator) ScopeChain(name string, depth int) *heap.Value {
	h := m.heap
	frame := m.push()
	defer m.pop()

	env := m.global
	for i := 0; i < depth; i++ {
		env = h.NewEnvironment(env)
		frame.Env = env
		env.Define("x", h.NewInt(int64(i)))
		m.safepoint()
	}

	argSpec := h.List(h.NewSymbol("x"))
	frame.AddLocal(argSpec)
	body := h.NewSymbol("x")
	frame.AddLocal(body)
	clo := h.NewClosure(h.NewLambda(argSpec, body, env))
	m.global.Define(name, clo)
	return clo
}

// Closures creates n closures, each over its own scope. Even-numbered ones
// are bound in the global environment under prefix-i; the rest become
// garbage as soon as the next one is built.
func (m *Mutator) Closures(prefix string, n int) {
	h := m.heap
	frame := m.push()
	defer m.pop()

	for i := 0; i < n; i++ {
		env := h.NewEnvironment(m.global)
		frame.Env = env
		env.Define("n", h.NewInt(int64(i)))
		clo := h.NewClosure(h.NewLambda(h.NewNil(), h.NewSymbol("n"), env))
		if i%2 == 0 {
			m.global.Define(prefix+strconv.Itoa(i), clo)
		}
		frame.Env = m.global
		m.safepoint()
	}
}

// Garbage allocates n short-lived pairs that nothing keeps alive
func (m *Mutator) Garbage(n int) {
	h := m.heap
	m.push()
	defer m.pop()

	// Each pair is the in-flight result until the next one replaces it
	for i := 0; i < n; i++ {
		m.stack.Top().ChildResult = h.Cons(h.NewInt(int64(i)), h.NewNil())
		m.safepoint()
	}
}

// Mixed runs rounds of randomly chosen scenarios with small sizes. Results
// are bound to a handful of rotating names so earlier ones become garbage.
func (m *Mutator) Mixed(rounds int) {
	for r := 0; r < rounds; r++ {
		name := "mixed-" + strconv.Itoa(r%8)
		size := 1 + m.rng.Intn(64)
		switch m.rng.Intn(4) {
		case 0:
			m.LongList(name, size)
		case 1:
			m.ScopeChain(name, size)
		case 2:
			m.Closures(name+"-", size%8)
		case 3:
			m.Garbage(size)
		}
		m.log.Debug("round", slog.Int("round", r), slog.Int("size", size), slog.Int("objects", m.heap.Counts().Total()))
	}
}

// Scenario runs one named workload of size n
type Scenario func(m *Mutator, n int)

var scenarios = map[string]Scenario{
	"list":     func(m *Mutator, n int) { m.LongList("long-list", n) },
	"scope":    func(m *Mutator, n int) { m.ScopeChain("deep", n) },
	"closures": func(m *Mutator, n int) { m.Closures("closure-", n) },
	"garbage":  func(m *Mutator, n int) { m.Garbage(n) },
	"mixed":    func(m *Mutator, n int) { m.Mixed(n) },
}

// Lookup returns the scenario registered under name
func Lookup(name string) (Scenario, error) {
	s, ok := scenarios[name]
	if !ok {
		return nil, fmt.Errorf("unknown workload %q (have %v)", name, Names())
	}
	return s, nil
}

// Names lists the scenario names in sorted order
func Names() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
