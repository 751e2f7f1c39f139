package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"upvalcheck/internal/ast"
	"upvalcheck/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed file:
// 1) file.Span belongs to sf and lies within its content
// 2) every node span is well-formed and contained in file.Span
func CheckSpanInvariants(b *ast.Builder, fileID ast.FileID, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	f := b.Files.Get(fileID)
	if f == nil {
		return fmt.Errorf("file node not found")
	}

	if f.Span.File != sf.ID {
		return fmt.Errorf("file span points to different file id: got=%d want=%d", f.Span.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if f.Span.End < f.Span.Start || f.Span.End > lenContent {
		return fmt.Errorf("file span out of bounds: %v (content %d bytes)", f.Span, lenContent)
	}

	var firstErr error
	ast.Inspect(b, ast.StmtNode(f.Body), func(n ast.Node) bool {
		if firstErr != nil {
			return false
		}
		sp := b.Span(n)
		switch {
		case sp.End < sp.Start:
			firstErr = fmt.Errorf("%v: inverted span %v", n, sp)
		case sp.File != sf.ID:
			firstErr = fmt.Errorf("%v: span in file %d, want %d", n, sp.File, sf.ID)
		case sp.Start < f.Span.Start || sp.End > f.Span.End:
			firstErr = fmt.Errorf("%v: span %v outside file span %v", n, sp, f.Span)
		}
		return true
	})
	return firstErr
}

// bindingChecker tracks the depth of the innermost function while walking.
type bindingChecker struct {
	b      *ast.Builder
	depths []uint32
	err    error
}

func (c *bindingChecker) current() uint32 {
	if len(c.depths) == 0 {
		return ast.TopLevelDepth
	}
	return c.depths[len(c.depths)-1]
}

func (c *bindingChecker) Visit(n ast.Node) ast.Step {
	if !n.IsExpr() {
		return ast.Recurse()
	}
	if fn, ok := c.b.Exprs.Function(n.Expr); ok {
		defer func() { c.depths = append(c.depths, fn.Depth) }()
		if c.err != nil {
			return ast.Recurse()
		}
		if want := c.current() + 1; fn.Depth != want {
			c.err = fmt.Errorf("%v: function depth %d, want %d", n, fn.Depth, want)
		}
		for _, id := range append([]ast.LocalID{fn.Self}, fn.Params...) {
			if decl := c.b.Locals.Get(id); decl != nil && decl.FunctionDepth != fn.Depth {
				c.err = fmt.Errorf("%v: parameter %d declared at depth %d, want %d", n, id, decl.FunctionDepth, fn.Depth)
			}
		}
		return ast.Recurse()
	}
	if c.err != nil {
		return ast.Recurse()
	}
	if ref, ok := c.b.Exprs.Local(n.Expr); ok {
		decl := c.b.Locals.Get(ref.Local)
		switch {
		case decl == nil:
			c.err = fmt.Errorf("%v: reference to unknown local %d", n, ref.Local)
		case decl.FunctionDepth > c.current():
			c.err = fmt.Errorf("%v: local declared deeper (%d) than its use (%d)", n, decl.FunctionDepth, c.current())
		case ref.Upvalue != (decl.FunctionDepth < c.current()):
			c.err = fmt.Errorf("%v: upvalue flag %v for decl depth %d at depth %d", n, ref.Upvalue, decl.FunctionDepth, c.current())
		}
	}
	return ast.Recurse()
}

func (c *bindingChecker) Leave(n ast.Node) {
	if n.IsExpr() && c.b.Exprs.Get(n.Expr).Kind == ast.ExprFunction {
		c.depths = c.depths[:len(c.depths)-1]
	}
}

// CheckBindingInvariants verifies the scope annotations the parser leaves on
// the tree: function depths nest by one, parameters belong to their function,
// and a reference is an upvalue exactly when its declaration sits in an
// enclosing function.
func CheckBindingInvariants(b *ast.Builder, fileID ast.FileID) error {
	f := b.Files.Get(fileID)
	if f == nil {
		return fmt.Errorf("file node not found")
	}
	c := &bindingChecker{b: b}
	ast.Walk(b, ast.StmtNode(f.Body), c)
	return c.err
}
