// ABOUTME: Root enumeration contract between the collector and the evaluator
// ABOUTME: Evaluation frames and a simple stack the evaluator can push and pop

package heap

// RootSource is implemented by the evaluator. The collector calls it once
// per cycle and never retains what it returns.
type RootSource interface {
	// GlobalEnvironment returns the outermost scope. It is never nil while
	// the interpreter lives.
	GlobalEnvironment() *Environment

	// EvalStack returns the in-flight evaluation frames in any order
	EvalStack() []*Frame
}

// Frame is one in-flight evaluation step. Any field may be nil when the
// step has not produced it yet.
type Frame struct {
	Env         *Environment
	Expr        *Value
	ChildResult *Value
	Locals      []*Value
}

// AddLocal records a temporary the step must keep alive and returns its index
func (f *Frame) AddLocal(v *Value) int {
	f.Locals = append(f.Locals, v)
	return len(f.Locals) - 1
}

// EvalStack is a stack of evaluation frames
type EvalStack struct {
	frames []*Frame
}

// Push adds a frame on top of the stack
func (s *EvalStack) Push(f *Frame) *Frame {
	s.frames = append(s.frames, f)
	return f
}

// Pop removes and returns the top frame, or nil when the stack is empty
func (s *EvalStack) Pop() *Frame {
	n := len(s.frames)
	if n == 0 {
		return nil
	}
	f := s.frames[n-1]
	s.frames[n-1] = nil
	s.frames = s.frames[:n-1]
	return f
}

// Top returns the top frame without removing it
func (s *EvalStack) Top() *Frame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

// Len returns the number of frames
func (s *EvalStack) Len() int { return len(s.frames) }

// Frames returns the frames bottom to top. The slice is shared with the stack.
func (s *EvalStack) Frames() []*Frame { return s.frames }

// Roots is a RootSource over a fixed global environment and a stack
type Roots struct {
	Global *Environment
	Stack  *EvalStack
}

// GlobalEnvironment returns r.Global
func (r *Roots) GlobalEnvironment() *Environment { return r.Global }

// EvalStack returns the frames of r.Stack, or none without a stack
func (r *Roots) EvalStack() []*Frame {
	if r.Stack == nil {
		return nil
	}
	return r.Stack.Frames()
}
