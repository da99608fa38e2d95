// ABOUTME: Exports the registered heap as a graph snapshot
// ABOUTME: Feeds reachability, paths-to-roots and retained-size diagnostics

package heap

import (
	"strconv"
	"strings"

	"github.com/prateek/schemeheap/graph"
)

const maxLabelNames = 8

// Snapshot copies every registered object and the current root set into a
// graph. It uses the heap's root source; the heap itself is not modified.
func (h *Heap) Snapshot() *graph.MemGraph {
	h.checkMutable("snapshot")
	g := graph.NewMemGraph()

	h.values.forEach(func(v *Value) {
		obj := &graph.Object{ID: v.id, Kind: graph.KindValue, Label: valueLabel(v), Size: ValueSize}
		switch v.tag {
		case TagCons:
			obj.Ptrs = appendIDs(obj.Ptrs, v.car, v.cdr)
		case TagClosure:
			if v.lambda != nil {
				obj.Ptrs = append(obj.Ptrs, v.lambda.id)
			}
		}
		g.AddObject(obj)
	})

	h.lambdas.forEach(func(f *Lambda) {
		obj := &graph.Object{ID: f.id, Kind: graph.KindLambda, Size: LambdaSize}
		if f.IsNative() {
			obj.Label = "native"
		} else {
			obj.Label = "interpreted"
			obj.Ptrs = appendIDs(obj.Ptrs, f.argSpec, f.body)
		}
		if f.env != nil {
			obj.Ptrs = append(obj.Ptrs, f.env.id)
		}
		g.AddObject(obj)
	})

	h.envs.forEach(func(env *Environment) {
		obj := &graph.Object{ID: env.id, Kind: graph.KindEnvironment, Label: envLabel(env), Size: EnvironmentSize}
		for _, b := range env.bindings {
			if b.Value != nil {
				obj.Ptrs = append(obj.Ptrs, b.Value.id)
			}
		}
		if env.parent != nil {
			obj.Ptrs = append(obj.Ptrs, env.parent.id)
		}
		g.AddObject(obj)
	})

	g.SetRoots(graph.Roots{IDs: h.rootIDs()})
	return g
}

// rootIDs lists the objects directly referenced from outside the heap
func (h *Heap) rootIDs() []ObjID {
	ids := []ObjID{}
	if h.roots == nil {
		return ids
	}
	seen := map[ObjID]bool{}
	add := func(id ObjID) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	if global := h.roots.GlobalEnvironment(); global != nil {
		add(global.id)
	}
	for _, frame := range h.roots.EvalStack() {
		if frame == nil {
			continue
		}
		if frame.Env != nil {
			add(frame.Env.id)
		}
		if frame.Expr != nil {
			add(frame.Expr.id)
		}
		if frame.ChildResult != nil {
			add(frame.ChildResult.id)
		}
		for _, local := range frame.Locals {
			if local != nil {
				add(local.id)
			}
		}
	}
	return ids
}

func appendIDs(ids []ObjID, vs ...*Value) []ObjID {
	for _, v := range vs {
		if v != nil {
			ids = append(ids, v.id)
		}
	}
	return ids
}

func valueLabel(v *Value) string {
	switch v.tag {
	case TagInt:
		return "int " + strconv.FormatInt(v.integer, 10)
	case TagSymbol:
		return "symbol " + v.str
	case TagString, TagError:
		s := v.str
		if len(s) > 24 {
			s = s[:24] + "..."
		}
		return v.tag.String() + " " + strconv.Quote(s)
	}
	return v.tag.String()
}

func envLabel(env *Environment) string {
	if len(env.bindings) == 0 {
		return "scope"
	}
	names := make([]string, 0, maxLabelNames)
	for i, b := range env.bindings {
		if i == maxLabelNames {
			names = append(names, "...")
			break
		}
		names = append(names, b.Name)
	}
	return "scope " + strings.Join(names, " ")
}
