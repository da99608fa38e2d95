// ABOUTME: Core data types for interpreter heap snapshots
// ABOUTME: Defines Object, ObjID, and Roots structures

package graph

// ObjID is a unique identifier for a heap object. Zero is reserved for the
// synthetic super-root that points at every root.
type ObjID uint64

// Object kinds as exported by heap snapshots
const (
	KindValue       = "value"
	KindLambda      = "lambda"
	KindEnvironment = "environment"
)

// Object represents a single heap object
type Object struct {
	ID    ObjID   // Unique identifier
	Kind  string  // Object kind, one of the Kind constants
	Label string  // Short human-readable description (tag, binding names)
	Size  uint64  // Estimated size in bytes
	Ptrs  []ObjID // IDs of objects this object references
}

// Roots represents the set of objects anchoring reachability
type Roots struct {
	IDs []ObjID // Object IDs that are roots
}
