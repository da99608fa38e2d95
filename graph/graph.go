// ABOUTME: Graph interface and in-memory implementation
// ABOUTME: Stores heap snapshots for reachability and retention queries

package graph

import (
	"sort"
	"sync"
)

// Graph represents a heap object graph
type Graph interface {
	// AddObject adds an object to the graph, replacing one with the same ID
	AddObject(obj *Object)

	// GetObject retrieves an object by ID, or nil
	GetObject(id ObjID) *Object

	// NumObjects returns the total number of objects
	NumObjects() int

	// ForEachObject iterates over all objects in ascending ID order
	ForEachObject(fn func(*Object))

	// SetRoots sets the roots
	SetRoots(roots Roots)

	// GetRoots returns the roots
	GetRoots() Roots
}

// MemGraph is an in-memory implementation of Graph. It is safe for
// concurrent readers once built.
type MemGraph struct {
	mu      sync.RWMutex
	objects map[ObjID]*Object
	order   []ObjID // sorted IDs, rebuilt lazily
	roots   Roots
}

// NewMemGraph creates a new in-memory graph
func NewMemGraph() *MemGraph {
	return &MemGraph{
		objects: make(map[ObjID]*Object),
	}
}

// AddObject adds an object to the graph
func (g *MemGraph) AddObject(obj *Object) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.objects[obj.ID]; !exists {
		g.order = nil
	}
	g.objects[obj.ID] = obj
}

// GetObject retrieves an object by ID
func (g *MemGraph) GetObject(id ObjID) *Object {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.objects[id]
}

// NumObjects returns the total number of objects
func (g *MemGraph) NumObjects() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.objects)
}

// ForEachObject iterates over all objects in ascending ID order
func (g *MemGraph) ForEachObject(fn func(*Object)) {
	g.mu.Lock()
	if g.order == nil {
		g.order = make([]ObjID, 0, len(g.objects))
		for id := range g.objects {
			g.order = append(g.order, id)
		}
		sort.Slice(g.order, func(i, j int) bool { return g.order[i] < g.order[j] })
	}
	order := g.order
	g.mu.Unlock()

	for _, id := range order {
		g.mu.RLock()
		obj := g.objects[id]
		g.mu.RUnlock()
		fn(obj)
	}
}

// SetRoots sets the roots
func (g *MemGraph) SetRoots(roots Roots) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.roots = roots
}

// GetRoots returns the roots
func (g *MemGraph) GetRoots() Roots {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.roots
}
