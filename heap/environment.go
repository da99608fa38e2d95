// ABOUTME: Lexical scopes: ordered name bindings plus a parent link
// ABOUTME: Bound values are referenced, not owned; names belong to the scope

package heap

// Binding associates a name with a value in one scope
type Binding struct {
	Name  string
	Value *Value
}

// Environment is one lexical scope. The chain of parents ends at the global
// environment, whose parent is nil.
type Environment struct {
	header
	bindings []Binding
	parent   *Environment
	heap     *Heap
}

// Parent returns the enclosing scope, nil for the global environment
func (e *Environment) Parent() *Environment { return e.parent }

// Bindings returns the scope's bindings in definition order. The slice is
// shared with the environment.
func (e *Environment) Bindings() []Binding { return e.bindings }

// Define binds name in this scope, replacing an existing binding of the same
// name. Rebinding during a collection cycle is fatal.
func (e *Environment) Define(name string, v *Value) {
	e.checkMutable("define " + name)
	for i := range e.bindings {
		if e.bindings[i].Name == name {
			e.bindings[i].Value = v
			return
		}
	}
	e.bindings = append(e.bindings, Binding{Name: name, Value: v})
}

// Lookup resolves name through the scope chain
func (e *Environment) Lookup(name string) (*Value, bool) {
	for env := e; env != nil; env = env.parent {
		for _, b := range env.bindings {
			if b.Name == name {
				return b.Value, true
			}
		}
	}
	return nil, false
}

// Set rebinds the nearest existing binding of name. It reports false when no
// scope in the chain binds name.
func (e *Environment) Set(name string, v *Value) bool {
	e.checkMutable("set " + name)
	for env := e; env != nil; env = env.parent {
		for i := range env.bindings {
			if env.bindings[i].Name == name {
				env.bindings[i].Value = v
				return true
			}
		}
	}
	return false
}

// Depth is the number of parent links between e and the outermost scope
func (e *Environment) Depth() int {
	n := 0
	for env := e.parent; env != nil; env = env.parent {
		n++
	}
	return n
}

func (e *Environment) checkMutable(op string) {
	if e.heap != nil {
		e.heap.checkMutable(op)
	}
}
