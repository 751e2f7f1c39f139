package ast

import (
	"upvalcheck/internal/source"
)

type LocalKind uint8

const (
	LocalVar LocalKind = iota
	LocalParam
	LocalSelf // implicit self of a method definition
	LocalLoopVar
	LocalFunction // name bound by "local function"
)

func (k LocalKind) String() string {
	switch k {
	case LocalVar:
		return "var"
	case LocalParam:
		return "param"
	case LocalSelf:
		return "self"
	case LocalLoopVar:
		return "loop"
	case LocalFunction:
		return "function"
	}
	return "local(?)"
}

// TopLevelDepth is the FunctionDepth of locals declared in the chunk itself.
// Such locals are never a closure capture source.
const TopLevelDepth uint32 = 0

// LocalData is a variable declaration.
type LocalData struct {
	Name source.StringID
	Span source.Span
	Kind LocalKind
	// FunctionDepth is the nesting depth of the declaring function:
	// TopLevelDepth for the chunk, 1 for a function defined in it, and so on.
	FunctionDepth uint32
	// Shadows is the visible local with the same name at declaration time.
	Shadows LocalID
}

type Locals struct {
	Arena *Arena[LocalData]
}

func NewLocals(capHint uint) *Locals {
	return &Locals{Arena: NewArena[LocalData](capHint)}
}

func (l *Locals) New(data LocalData) LocalID {
	return LocalID(l.Arena.Allocate(data))
}

func (l *Locals) Get(id LocalID) *LocalData {
	return l.Arena.Get(uint32(id))
}
