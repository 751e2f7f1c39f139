package closurecheck

import (
	"upvalcheck/internal/ast"
)

// Verdict explains how a variable reference was classified.
type Verdict uint8

const (
	// NotUpvalue: the reference reads a local of its own function.
	NotUpvalue Verdict = iota
	// OutsideClosure: the reference is not inside any closure.
	OutsideClosure
	// TopLevel: the local belongs to the chunk and lives as long as the script.
	TopLevel
	// SameDepth: the local is an upvalue of a block, not of an enclosing function.
	SameDepth
	// Unresolved: the reference or its declaration is missing.
	Unresolved
	// Capture: the closure captures a local of an enclosing function.
	Capture
)

var verdictNames = [...]string{
	NotUpvalue:     "not-upvalue",
	OutsideClosure: "outside-closure",
	TopLevel:       "top-level",
	SameDepth:      "same-depth",
	Unresolved:     "unresolved",
	Capture:        "capture",
}

func (v Verdict) String() string {
	if int(v) < len(verdictNames) {
		return verdictNames[v]
	}
	return "verdict(?)"
}

// Classify decides whether ref, bound to decl, stops the innermost closure
// on stack from being cached. Only Capture is a violation.
func Classify(stack *FunctionStack, ref *ast.ExprLocalData, decl *ast.LocalData) Verdict {
	if ref == nil || decl == nil {
		return Unresolved
	}
	if !ref.Upvalue {
		return NotUpvalue
	}
	if decl.FunctionDepth == ast.TopLevelDepth {
		return TopLevel
	}
	current, ok := stack.Current()
	if !ok {
		return OutsideClosure
	}
	if current.Depth == 0 {
		return Unresolved
	}
	if current.Depth <= decl.FunctionDepth {
		return SameDepth
	}
	return Capture
}
