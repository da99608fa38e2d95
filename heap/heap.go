// ABOUTME: Heap context owning the three allocation registries
// ABOUTME: Allocation, constructors, teardown and diagnostic accessors

// Package heap implements the memory manager of a small Scheme interpreter:
// an object model of values, lambdas and environments, per-kind allocation
// registries, and a stop-the-world mark-and-sweep collector driven by roots
// the evaluator supplies.
//
// A Heap is confined to the goroutine running the evaluator. Collection and
// mutation never overlap because they happen on that one goroutine; calling
// into the heap from a root callback while a cycle runs is a fatal error.
package heap

import (
	"log/slog"
	"unsafe"
)

// Fixed per-kind sizes used to estimate heap usage
const (
	ValueSize       = uint64(unsafe.Sizeof(Value{}))
	LambdaSize      = uint64(unsafe.Sizeof(Lambda{}))
	EnvironmentSize = uint64(unsafe.Sizeof(Environment{}))
)

// Heap tracks every allocated interpreter object
type Heap struct {
	cfg Config
	log *slog.Logger

	roots RootSource

	values  registry[*Value]
	lambdas registry[*Lambda]
	envs    registry[*Environment]

	lastID     ObjID
	threshold  uint64
	cycles     int
	marks      int // objects marked in the current cycle
	collecting bool
	closed     bool
}

// New creates a heap with three empty registries
func New(cfg Config) *Heap {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.InitialThreshold < 1 {
		cfg.InitialThreshold = DefaultThreshold
	}
	return &Heap{
		cfg:       cfg,
		log:       logger.With(slog.String("component", "gc")),
		threshold: uint64(cfg.InitialThreshold),
	}
}

// SetRootSource attaches the evaluator whose state anchors every cycle
func (h *Heap) SetRootSource(rs RootSource) {
	h.roots = rs
}

// Config returns the configuration the heap was created with
func (h *Heap) Config() Config { return h.cfg }

func (h *Heap) checkMutable(op string) {
	if h.closed {
		fatal(op, 0, ErrClosed)
	}
	if h.collecting {
		fatal(op, 0, ErrCollecting)
	}
}

func (h *Heap) nextID() ObjID {
	h.lastID++
	return h.lastID
}

// AllocValue returns a registered, unmarked nil value
func (h *Heap) AllocValue() *Value {
	h.checkMutable("alloc value")
	v := &Value{header: header{id: h.nextID()}}
	return h.values.register(v)
}

// AllocLambda returns a registered, unmarked lambda with no parts set
func (h *Heap) AllocLambda() *Lambda {
	h.checkMutable("alloc lambda")
	f := &Lambda{header: header{id: h.nextID()}}
	return h.lambdas.register(f)
}

// AllocEnvironment returns a registered, unmarked scope with no bindings
// and no parent
func (h *Heap) AllocEnvironment() *Environment {
	h.checkMutable("alloc environment")
	env := &Environment{header: header{id: h.nextID()}, heap: h}
	return h.envs.register(env)
}

// NewNil allocates an empty list
func (h *Heap) NewNil() *Value { return h.AllocValue() }

// NewBool allocates a boolean
func (h *Heap) NewBool(b bool) *Value {
	v := h.AllocValue()
	v.tag, v.boolean = TagBool, b
	return v
}

// NewInt allocates an integer
func (h *Heap) NewInt(n int64) *Value {
	v := h.AllocValue()
	v.tag, v.integer = TagInt, n
	return v
}

// NewReal allocates a floating-point number
func (h *Heap) NewReal(x float64) *Value {
	v := h.AllocValue()
	v.tag, v.real = TagReal, x
	return v
}

// NewString allocates a string owning a copy of s
func (h *Heap) NewString(s string) *Value {
	v := h.AllocValue()
	v.tag, v.str = TagString, s
	return v
}

// NewSymbol allocates a symbol named name
func (h *Heap) NewSymbol(name string) *Value {
	v := h.AllocValue()
	v.tag, v.str = TagSymbol, name
	return v
}

// NewError allocates an error value carrying msg
func (h *Heap) NewError(msg string) *Value {
	v := h.AllocValue()
	v.tag, v.str = TagError, msg
	return v
}

// Cons allocates a pair. Both sides must be non-nil; the empty list is a
// TagNil value.
func (h *Heap) Cons(car, cdr *Value) *Value {
	if car == nil || cdr == nil {
		fatal("cons", 0, ErrNilReference)
	}
	v := h.AllocValue()
	v.tag, v.car, v.cdr = TagCons, car, cdr
	return v
}

// List builds a proper list terminated by a fresh nil value
func (h *Heap) List(items ...*Value) *Value {
	list := h.NewNil()
	for i := len(items) - 1; i >= 0; i-- {
		list = h.Cons(items[i], list)
	}
	return list
}

// NewClosure wraps f in a value. The value does not own f.
func (h *Heap) NewClosure(f *Lambda) *Value {
	if f == nil {
		fatal("new closure", 0, ErrNilReference)
	}
	v := h.AllocValue()
	v.tag, v.lambda = TagClosure, f
	return v
}

// NewLambda allocates an interpreted lambda capturing env
func (h *Heap) NewLambda(argSpec, body *Value, env *Environment) *Lambda {
	if argSpec == nil || body == nil || env == nil {
		fatal("new lambda", 0, ErrNilReference)
	}
	f := h.AllocLambda()
	f.argSpec, f.body, f.env = argSpec, body, env
	return f
}

// NewNativeLambda allocates a lambda around a primitive. env may be nil.
func (h *Heap) NewNativeLambda(fn Primitive, env *Environment) *Lambda {
	if fn == nil {
		fatal("new native lambda", 0, ErrNilReference)
	}
	f := h.AllocLambda()
	f.native, f.env = fn, env
	return f
}

// NewEnvironment allocates a scope whose parent is parent (nil for global)
func (h *Heap) NewEnvironment(parent *Environment) *Environment {
	env := h.AllocEnvironment()
	env.parent = parent
	return env
}

// Counts is a per-kind population figure
type Counts struct {
	Values       int
	Lambdas      int
	Environments int
}

// Total is the number of objects over all kinds
func (c Counts) Total() int { return c.Values + c.Lambdas + c.Environments }

// Bytes estimates the memory used by objects of these populations
func (c Counts) Bytes() uint64 {
	return ValueSize*uint64(c.Values) +
		LambdaSize*uint64(c.Lambdas) +
		EnvironmentSize*uint64(c.Environments)
}

// Counts reports how many objects of each kind are registered
func (h *Heap) Counts() Counts {
	return Counts{
		Values:       h.values.len(),
		Lambdas:      h.lambdas.len(),
		Environments: h.envs.len(),
	}
}

// AllocationSize estimates the bytes held by registered objects. It does not
// include strings or binding arrays, nor the interpreter itself.
func (h *Heap) AllocationSize() uint64 { return h.Counts().Bytes() }

// Threshold is the current ceiling used by PolicyThreshold
func (h *Heap) Threshold() uint64 { return h.threshold }

// Cycles is the number of completed collection cycles
func (h *Heap) Cycles() int { return h.cycles }

// Close releases every registered object whether reachable or not. The heap
// cannot be used afterwards.
func (h *Heap) Close() {
	h.checkMutable("close")
	for i := range h.values.items {
		h.releaseValue(h.values.take(i))
	}
	h.values.compact()
	for i := range h.lambdas.items {
		h.releaseLambda(h.lambdas.take(i))
	}
	h.lambdas.compact()
	for i := range h.envs.items {
		h.releaseEnvironment(h.envs.take(i))
	}
	h.envs.compact()
	h.roots = nil
	h.closed = true
}
