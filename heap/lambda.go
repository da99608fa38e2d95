// ABOUTME: Lambda representation for native primitives and interpreted procedures
// ABOUTME: Lambdas have their own registry and lifetime, independent of closure values

package heap

// Primitive is a built-in procedure from the interpreter's primitive table
type Primitive func(args []*Value) (*Value, error)

// Lambda is a callable. Interpreted lambdas reference their argument
// list, body and defining environment; none of these are owned.
type Lambda struct {
	header
	native  Primitive
	argSpec *Value
	body    *Value
	env     *Environment
}

// IsNative reports whether f wraps a primitive
func (f *Lambda) IsNative() bool { return f.native != nil }

// Native returns the wrapped primitive, nil when interpreted
func (f *Lambda) Native() Primitive { return f.native }

// ArgSpec returns the parameter list of an interpreted lambda
func (f *Lambda) ArgSpec() *Value { return f.argSpec }

// Body returns the body expression of an interpreted lambda
func (f *Lambda) Body() *Value { return f.body }

// Environment returns the captured scope, possibly nil for native lambdas
func (f *Lambda) Environment() *Environment { return f.env }

// Call invokes a native lambda
func (f *Lambda) Call(args []*Value) (*Value, error) {
	if f.native == nil {
		panic("heap: Call on interpreted lambda")
	}
	return f.native(args)
}
