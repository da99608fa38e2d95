// ABOUTME: Mark phase flagging every object reachable from the roots
// ABOUTME: Long directions (cdr, parent scope) are walked iteratively

package heap

// markEnvironment marks env and its ancestors along with every bound value.
// It stops at the first scope already marked: closures often share the tail
// of a chain, and a malformed cyclic chain must not loop forever.
func (h *Heap) markEnvironment(env *Environment) {
	if env == nil {
		fatal("mark environment", 0, ErrNilReference)
	}

	for env != nil && !env.marked {
		if env.released {
			fatal("mark environment", env.id, ErrUseAfterFree)
		}
		env.marked = true
		h.marks++

		for _, b := range env.bindings {
			if b.Value == nil {
				fatal("mark binding "+b.Name, env.id, ErrNilReference)
			}
			h.markValue(b.Value)
		}

		env = env.parent
	}
}

// markValue marks v and everything it references. The car of a pair is
// marked recursively, the cdr iteratively, so long lists use constant stack.
func (h *Heap) markValue(v *Value) {
	if v == nil {
		fatal("mark value", 0, ErrNilReference)
	}

	for !v.marked {
		if v.released {
			fatal("mark value", v.id, ErrUseAfterFree)
		}
		v.marked = true
		h.marks++

		switch v.tag {
		case TagClosure:
			if v.lambda == nil {
				fatal("mark closure", v.id, ErrNilReference)
			}
			h.markLambda(v.lambda)
			return
		case TagCons:
			if v.car == nil || v.cdr == nil {
				fatal("mark cons", v.id, ErrNilReference)
			}
			h.markValue(v.car)
			v = v.cdr
		case TagNil, TagBool, TagInt, TagReal, TagString, TagSymbol, TagError:
			return
		default:
			fatal("mark value", v.id, ErrUnknownTag)
		}
	}
}

// markLambda marks f, its argument spec and body when interpreted, and the
// environment it captured.
func (h *Heap) markLambda(f *Lambda) {
	if f == nil {
		fatal("mark lambda", 0, ErrNilReference)
	}
	if f.marked {
		return
	}
	if f.released {
		fatal("mark lambda", f.id, ErrUseAfterFree)
	}
	f.marked = true
	h.marks++

	if !f.IsNative() {
		h.markValue(f.argSpec)
		h.markValue(f.body)
	}

	switch {
	case f.env != nil:
		h.markEnvironment(f.env)
	case !f.IsNative():
		fatal("mark lambda environment", f.id, ErrNilReference)
	}
}

// markRoots marks everything held by in-flight evaluation frames. Missing
// fields are normal: a frame only holds what its step has produced so far.
func (h *Heap) markRoots(stack []*Frame) {
	for _, frame := range stack {
		if frame == nil {
			continue
		}
		if frame.Env != nil {
			h.markEnvironment(frame.Env)
		}
		if frame.Expr != nil {
			h.markValue(frame.Expr)
		}
		if frame.ChildResult != nil {
			h.markValue(frame.ChildResult)
		}
		for _, local := range frame.Locals {
			if local != nil {
				h.markValue(local)
			}
		}
	}
}
