// ABOUTME: Release primitives freeing an object's owned secondary storage
// ABOUTME: Callers must remove the object from its registry first

package heap

// releaseValue drops the value's owned string. A closure's lambda is left
// alone: lambdas live and die through their own registry.
func (h *Heap) releaseValue(v *Value) {
	if v.slot != -1 {
		fatal("release value", v.id, ErrStillRegistered)
	}
	switch v.tag {
	case TagString, TagSymbol, TagError:
		v.str = ""
	case TagCons:
		v.car, v.cdr = nil, nil
	case TagClosure:
		v.lambda = nil
	case TagNil, TagBool, TagInt, TagReal:
	default:
		fatal("release value", v.id, ErrUnknownTag)
	}
	v.marked = false
	v.released = true
}

// releaseLambda frees only the lambda itself; its argument spec and body
// belong to the value registry.
func (h *Heap) releaseLambda(f *Lambda) {
	if f.slot != -1 {
		fatal("release lambda", f.id, ErrStillRegistered)
	}
	f.native, f.argSpec, f.body, f.env = nil, nil, nil, nil
	f.marked = false
	f.released = true
}

// releaseEnvironment frees binding names and the bindings array. Bound values
// are not touched.
func (h *Heap) releaseEnvironment(env *Environment) {
	if env.slot != -1 {
		fatal("release environment", env.id, ErrStillRegistered)
	}
	clear(env.bindings)
	env.bindings = nil
	env.parent = nil
	env.marked = false
	env.released = true
}
