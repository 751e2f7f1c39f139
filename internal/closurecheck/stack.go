package closurecheck

import (
	"upvalcheck/internal/ast"
)

// Frame is one open closure.
type Frame struct {
	Closure ast.ExprID
	Depth   uint32
}

// FunctionStack tracks the closures enclosing the node being visited.
// The zero value is an empty stack.
type FunctionStack struct {
	frames []Frame
}

func (s *FunctionStack) Push(f Frame) {
	s.frames = append(s.frames, f)
}

// Pop removes the innermost closure. Popping an empty stack is a no-op.
func (s *FunctionStack) Pop() (Frame, bool) {
	if len(s.frames) == 0 {
		return Frame{}, false
	}
	f := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return f, true
}

// Current returns the innermost closure, false outside any closure.
func (s *FunctionStack) Current() (Frame, bool) {
	if len(s.frames) == 0 {
		return Frame{}, false
	}
	return s.frames[len(s.frames)-1], true
}

func (s *FunctionStack) Len() int {
	return len(s.frames)
}
