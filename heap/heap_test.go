// ABOUTME: Shared helpers and tests for allocation, registries and scopes
// ABOUTME: Validates zero-initialized allocation and registry bookkeeping

package heap

import (
	"errors"
	"io"
	"log/slog"
	"testing"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestHeap returns an always-collecting heap whose roots are a fresh
// global environment and an empty evaluation stack
func newTestHeap(t *testing.T) (*Heap, *Roots) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Logger = quietLogger()
	h := New(cfg)
	roots := &Roots{Global: h.NewEnvironment(nil), Stack: &EvalStack{}}
	h.SetRootSource(roots)
	return h, roots
}

// expectFatal runs fn and checks that it panics with an invariant error
// wrapping target
func expectFatal(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok {
			t.Fatalf("expected panic wrapping %v, got %v", target, r)
		}
		var inv *InvariantError
		if !errors.As(err, &inv) {
			t.Fatalf("expected *InvariantError, got %T: %v", err, err)
		}
		if !errors.Is(err, target) {
			t.Fatalf("expected %v, got %v", target, err)
		}
	}()
	fn()
}

type slotted interface {
	ID() ObjID
	Released() bool
	registrySlot() int
}

func isRegistered(obj slotted) bool {
	return obj.registrySlot() >= 0 && !obj.Released()
}

func TestAllocationZeroInitialized(t *testing.T) {
	h, _ := newTestHeap(t)

	v := h.AllocValue()
	if v.Tag() != TagNil || v.Marked() || v.Car() != nil || v.Str() != "" {
		t.Errorf("AllocValue returned non-zero value: %+v", v)
	}

	f := h.AllocLambda()
	if f.Marked() || f.IsNative() || f.ArgSpec() != nil || f.Environment() != nil {
		t.Errorf("AllocLambda returned non-zero lambda: %+v", f)
	}

	env := h.AllocEnvironment()
	if env.Marked() || env.Parent() != nil || len(env.Bindings()) != 0 {
		t.Errorf("AllocEnvironment returned non-zero environment: %+v", env)
	}

	for _, obj := range []slotted{v, f, env} {
		if !isRegistered(obj) {
			t.Errorf("object %d not registered", obj.ID())
		}
	}
}

func TestObjectIDsUnique(t *testing.T) {
	h, roots := newTestHeap(t)

	seen := map[ObjID]bool{roots.Global.ID(): true}
	for i := 0; i < 100; i++ {
		for _, id := range []ObjID{h.AllocValue().ID(), h.AllocLambda().ID(), h.AllocEnvironment().ID()} {
			if id == 0 || seen[id] {
				t.Fatalf("duplicate or zero id %d", id)
			}
			seen[id] = true
		}
	}

	// IDs are not reused after objects are freed
	h.Collect()
	if id := h.AllocValue().ID(); seen[id] {
		t.Errorf("id %d reused after collection", id)
	}
}

func TestCounts(t *testing.T) {
	h, _ := newTestHeap(t)

	h.List(h.NewInt(1), h.NewInt(2))
	h.NewLambda(h.NewNil(), h.NewNil(), h.NewEnvironment(nil))

	want := Counts{Values: 7, Lambdas: 1, Environments: 2}
	if got := h.Counts(); got != want {
		t.Errorf("Counts() = %+v, want %+v", got, want)
	}
	if got := h.AllocationSize(); got != want.Bytes() {
		t.Errorf("AllocationSize() = %d, want %d", got, want.Bytes())
	}
	if want.Total() != 10 {
		t.Errorf("Total() = %d, want 10", want.Total())
	}
}

func TestRegistryTakeAndCompact(t *testing.T) {
	h, _ := newTestHeap(t)
	var r registry[*Value]

	vs := make([]*Value, 5)
	for i := range vs {
		vs[i] = r.register(&Value{header: header{id: h.nextID()}})
	}

	r.take(1)
	r.take(3)
	if r.len() != 3 {
		t.Errorf("len after take = %d, want 3", r.len())
	}
	if vs[1].registrySlot() != -1 || vs[3].registrySlot() != -1 {
		t.Error("taken objects should have slot -1")
	}

	r.compact()
	if len(r.items) != 3 {
		t.Fatalf("items after compact = %d, want 3", len(r.items))
	}
	for i, v := range []*Value{vs[0], vs[2], vs[4]} {
		if r.items[i] != v || v.registrySlot() != i {
			t.Errorf("slot %d holds %v (slot %d), want object %d", i, r.items[i].ID(), v.registrySlot(), v.ID())
		}
	}

	defer func() {
		if recover() == nil {
			t.Error("taking an empty slot should panic")
		}
	}()
	r.take(0)
	r.take(0)
}

func TestEnvironmentBindings(t *testing.T) {
	h, roots := newTestHeap(t)
	global := roots.Global
	inner := h.NewEnvironment(global)

	one, two, three := h.NewInt(1), h.NewInt(2), h.NewInt(3)
	global.Define("x", one)
	global.Define("y", two)
	inner.Define("x", three)

	if v, ok := inner.Lookup("x"); !ok || v != three {
		t.Errorf("inner x = %v, want 3", v)
	}
	if v, ok := inner.Lookup("y"); !ok || v != two {
		t.Errorf("inner y = %v, want 2", v)
	}
	if _, ok := inner.Lookup("z"); ok {
		t.Error("z should not resolve")
	}

	if !inner.Set("y", one) {
		t.Error("Set(y) should find the global binding")
	}
	if v, _ := global.Lookup("y"); v != one {
		t.Errorf("global y = %v, want 1", v)
	}
	if inner.Set("z", one) {
		t.Error("Set(z) should fail")
	}

	global.Define("x", two)
	if n := len(global.Bindings()); n != 2 {
		t.Errorf("redefining x added a binding: %d bindings", n)
	}
	if inner.Depth() != 1 || global.Depth() != 0 {
		t.Errorf("depths = %d, %d, want 1, 0", inner.Depth(), global.Depth())
	}
}

func TestValueString(t *testing.T) {
	h, _ := newTestHeap(t)

	tests := []struct {
		name string
		v    *Value
		want string
	}{
		{"list", h.List(h.NewInt(1), h.NewSymbol("a"), h.NewString("s")), `(1 a "s")`},
		{"dotted", h.Cons(h.NewInt(1), h.NewInt(2)), "(1 . 2)"},
		{"nested", h.List(h.List(h.NewBool(true)), h.NewReal(1.5)), "((#t) 1.5)"},
		{"empty", h.NewNil(), "()"},
		{"error", h.NewError("boom"), "#<error boom>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}

	// A cyclic list prints without looping
	a := h.Cons(h.NewInt(1), h.NewNil())
	a.SetCdr(a)
	if s := a.String(); len(s) == 0 {
		t.Error("empty rendering of cyclic list")
	}
}

func TestNativeLambda(t *testing.T) {
	h, roots := newTestHeap(t)

	add := h.NewNativeLambda(func(args []*Value) (*Value, error) {
		var sum int64
		for _, a := range args {
			sum += a.Int()
		}
		return h.NewInt(sum), nil
	}, roots.Global)

	if !add.IsNative() {
		t.Fatal("expected native lambda")
	}
	got, err := add.Call([]*Value{h.NewInt(2), h.NewInt(40)})
	if err != nil || got.Int() != 42 {
		t.Errorf("Call() = %v, %v, want 42", got, err)
	}
}

func TestEvalStack(t *testing.T) {
	var s EvalStack
	if s.Top() != nil || s.Pop() != nil {
		t.Fatal("empty stack should have no top frame")
	}

	outer := s.Push(&Frame{})
	inner := s.Push(&Frame{})
	if s.Top() != inner || s.Len() != 2 {
		t.Errorf("Top() = %p with %d frames, want inner frame of 2", s.Top(), s.Len())
	}
	if idx := inner.AddLocal(nil); idx != 0 {
		t.Errorf("AddLocal() = %d, want 0", idx)
	}

	if s.Pop() != inner || s.Top() != outer {
		t.Error("Pop should expose the outer frame")
	}
	if got := s.Frames(); len(got) != 1 || got[0] != outer {
		t.Errorf("Frames() = %v, want [outer]", got)
	}
}
