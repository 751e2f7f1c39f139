package closurecheck

import (
	"context"
	"strconv"

	"upvalcheck/internal/ast"
	"upvalcheck/internal/source"
	"upvalcheck/internal/trace"
)

// Finding is one reference that prevents a closure from being cached.
type Finding struct {
	DeclName    string
	DeclSpan    source.Span
	ClosureName string // empty for anonymous closures
	ClosureSpan source.Span
	RefSpan     source.Span
	Closure     ast.ExprID
	Local       ast.LocalID
}

// Anonymous reports whether the capturing closure has no debug name.
func (f Finding) Anonymous() bool {
	return f.ClosureName == ""
}

type checker struct {
	b        *ast.Builder
	stack    FunctionStack
	findings []Finding

	tracer trace.Tracer
	parent uint64
}

// Check walks the file once and returns its findings in source order.
// The tree is not modified.
func Check(b *ast.Builder, file ast.FileID) []Finding {
	return CheckContext(context.Background(), b, file)
}

// CheckContext is Check with a debug trace event per finding.
func CheckContext(ctx context.Context, b *ast.Builder, file ast.FileID) []Finding {
	c := &checker{
		b:      b,
		tracer: trace.FromContext(ctx),
		parent: trace.CurrentSpan(ctx).SpanID,
	}
	ast.WalkFile(b, file, c)
	return c.findings
}

func (c *checker) Visit(n ast.Node) ast.Step {
	if !n.IsExpr() {
		return ast.Recurse()
	}
	if fn, ok := c.b.Exprs.Function(n.Expr); ok {
		c.stack.Push(Frame{Closure: n.Expr, Depth: fn.Depth})
		return ast.Explicit(ast.StmtNode(fn.Body))
	}
	if ref, ok := c.b.Exprs.Local(n.Expr); ok {
		c.reference(n.Expr, ref)
	}
	return ast.Recurse()
}

func (c *checker) Leave(n ast.Node) {
	if n.IsExpr() && c.b.Exprs.Get(n.Expr).Kind == ast.ExprFunction {
		c.stack.Pop()
	}
}

func (c *checker) reference(id ast.ExprID, ref *ast.ExprLocalData) {
	decl := c.b.Locals.Get(ref.Local)
	if Classify(&c.stack, ref, decl) != Capture {
		return
	}

	frame, _ := c.stack.Current()
	fn, _ := c.b.Exprs.Function(frame.Closure)
	f := Finding{
		DeclName:    c.b.Name(decl.Name),
		DeclSpan:    decl.Span,
		ClosureName: c.b.Name(fn.DebugName),
		ClosureSpan: c.b.Exprs.Get(frame.Closure).Span,
		RefSpan:     c.b.Exprs.Get(id).Span,
		Closure:     frame.Closure,
		Local:       ref.Local,
	}
	c.findings = append(c.findings, f)

	if c.tracer.Enabled() {
		trace.Point(c.tracer, trace.ScopeNode, "finding", f.DeclName, c.parent, map[string]string{
			"closure":    f.ClosureName,
			"decl_depth": strconv.FormatUint(uint64(decl.FunctionDepth), 10),
			"depth":      strconv.FormatUint(uint64(frame.Depth), 10),
		})
	}
}
