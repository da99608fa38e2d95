// ABOUTME: Sentinel errors and the fatal invariant error raised by the collector
// ABOUTME: Invariant violations panic; they are never language-level errors

package heap

import (
	"errors"
	"fmt"
)

var (
	// ErrStillRegistered is raised when a release primitive sees an object
	// that is still present in its registry
	ErrStillRegistered = errors.New("object still registered")

	// ErrNilReference is raised when mark finds a required reference missing
	ErrNilReference = errors.New("required reference is nil")

	// ErrUseAfterFree is raised when a released object is reached again
	ErrUseAfterFree = errors.New("released object reached")

	// ErrReentrantCollect is raised when Collect is called during a cycle
	ErrReentrantCollect = errors.New("collect called during a collection cycle")

	// ErrCollecting is raised when the heap is mutated during a cycle
	ErrCollecting = errors.New("heap mutated during a collection cycle")

	// ErrClosed is raised when a closed heap is used
	ErrClosed = errors.New("heap is closed")

	// ErrUnknownTag is raised when a value carries a tag the collector does not know
	ErrUnknownTag = errors.New("unknown value tag")
)

// InvariantError describes a violation of the memory model. The collector
// panics with it; recover it and use errors.Is against the sentinels above.
type InvariantError struct {
	Op  string // operation that detected the violation
	ID  ObjID  // offending object, 0 when none
	Err error
}

// Error formats the operation, object and violated invariant
func (e *InvariantError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("heap: %s: object %d: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("heap: %s: %v", e.Op, e.Err)
}

// Unwrap returns the sentinel error
func (e *InvariantError) Unwrap() error { return e.Err }

func fatal(op string, id ObjID, err error) {
	panic(&InvariantError{Op: op, ID: id, Err: err})
}
