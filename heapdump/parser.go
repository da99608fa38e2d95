// ABOUTME: Format interface for heap snapshot dumps
// ABOUTME: Defines the contract for pluggable snapshot readers and writers

package heapdump

import (
	"fmt"
	"io"

	"github.com/prateek/schemeheap/graph"
)

// Format reads and writes heap snapshots in one encoding
type Format interface {
	// Name is the short name used to select the format for writing
	Name() string

	// CanParse checks if this format can handle the given dump.
	// The reader is a preview holding at most the first few KB of the dump.
	CanParse(r io.Reader) bool

	// Parse reads the dump and builds a graph
	Parse(r io.Reader) (graph.Graph, error)

	// Write serializes the graph
	Write(w io.Writer, g graph.Graph) error
}

// dump is the document shape shared by the JSON and YAML formats
type dump struct {
	Objects []dumpObject  `json:"objects" yaml:"objects"`
	Roots   []graph.ObjID `json:"roots" yaml:"roots"`
}

type dumpObject struct {
	ID    graph.ObjID   `json:"id" yaml:"id"`
	Kind  string        `json:"kind" yaml:"kind"`
	Label string        `json:"label,omitempty" yaml:"label,omitempty"`
	Size  uint64        `json:"size" yaml:"size"`
	Ptrs  []graph.ObjID `json:"ptrs" yaml:"ptrs,flow"`
}

func toDump(g graph.Graph) dump {
	d := dump{
		Objects: make([]dumpObject, 0, g.NumObjects()),
		Roots:   append([]graph.ObjID{}, g.GetRoots().IDs...),
	}
	g.ForEachObject(func(obj *graph.Object) {
		ptrs := obj.Ptrs
		if ptrs == nil {
			ptrs = []graph.ObjID{}
		}
		d.Objects = append(d.Objects, dumpObject{
			ID:    obj.ID,
			Kind:  obj.Kind,
			Label: obj.Label,
			Size:  obj.Size,
			Ptrs:  ptrs,
		})
	})
	return d
}

func fromDump(d dump) (graph.Graph, error) {
	for i, obj := range d.Objects {
		if obj.ID == 0 {
			return nil, fmt.Errorf("object at index %d missing ID", i)
		}
		switch obj.Kind {
		case graph.KindValue, graph.KindLambda, graph.KindEnvironment:
		default:
			return nil, fmt.Errorf("object %d has unknown kind %q", obj.ID, obj.Kind)
		}
	}

	g := graph.NewMemGraph()
	for _, obj := range d.Objects {
		ptrs := obj.Ptrs
		if ptrs == nil {
			ptrs = []graph.ObjID{}
		}
		g.AddObject(&graph.Object{
			ID:    obj.ID,
			Kind:  obj.Kind,
			Label: obj.Label,
			Size:  obj.Size,
			Ptrs:  ptrs,
		})
	}

	roots := graph.Roots{IDs: d.Roots}
	if roots.IDs == nil {
		roots.IDs = []graph.ObjID{}
	}
	g.SetRoots(roots)

	return g, nil
}
