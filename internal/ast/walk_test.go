package ast_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"upvalcheck/internal/ast"
	"upvalcheck/internal/source"
)

func sp(start, end uint32) source.Span { return source.Span{Start: start, End: end} }

// build creates: local x = 1; f(function() return x end, y)
func build(t *testing.T) (*ast.Builder, ast.StmtID, ast.ExprID) {
	t.Helper()
	b := ast.NewBuilder(ast.Hints{}, nil)
	x := b.Locals.New(ast.LocalData{Name: b.StringsInterner.Intern("x"), Span: sp(6, 7)})

	one := b.Exprs.NewLiteral(ast.ExprNumber, sp(10, 11), b.StringsInterner.Intern("1"))
	decl := b.Stmts.NewLocal(sp(0, 11), []ast.LocalID{x}, []ast.ExprID{one})

	ref := b.Exprs.NewLocal(sp(33, 34), x, true)
	ret := b.Stmts.NewReturn(sp(26, 34), []ast.ExprID{ref})
	body := b.Stmts.NewBlock(sp(26, 34), []ast.StmtID{ret})
	fn := b.Exprs.NewFunction(sp(15, 38), ast.ExprFunctionData{Depth: 1, Body: body})

	callee := b.Exprs.NewGlobal(sp(13, 14), b.StringsInterner.Intern("f"))
	y := b.Exprs.NewGlobal(sp(40, 41), b.StringsInterner.Intern("y"))
	call := b.Exprs.NewCall(sp(13, 42), callee, []ast.ExprID{fn, y}, false)
	stmt := b.Stmts.NewExpr(sp(13, 42), call)

	root := b.Stmts.NewBlock(sp(0, 42), []ast.StmtID{decl, stmt})
	return b, root, fn
}

type recorder struct {
	b      *ast.Builder
	events []string
	skip   ast.ExprID
	only   ast.ExprID
}

func (r *recorder) label(n ast.Node) string {
	if n.IsStmt() {
		return "S:" + r.b.Stmts.Get(n.Stmt).Kind.String()
	}
	return "E:" + r.b.Exprs.Get(n.Expr).Kind.String()
}

func (r *recorder) Visit(n ast.Node) ast.Step {
	r.events = append(r.events, "+"+r.label(n))
	switch {
	case r.skip.IsValid() && n.Expr == r.skip:
		return ast.Handled()
	case r.only.IsValid() && n.Expr == r.only:
		fn, _ := r.b.Exprs.Function(n.Expr)
		return ast.Explicit(ast.StmtNode(fn.Body))
	}
	return ast.Recurse()
}

func (r *recorder) Leave(n ast.Node) {
	r.events = append(r.events, "-"+r.label(n))
}

func TestWalkPreOrderSourceOrder(t *testing.T) {
	b, root, _ := build(t)
	var got []string
	ast.Inspect(b, ast.StmtNode(root), func(n ast.Node) bool {
		if n.IsStmt() {
			got = append(got, b.Stmts.Get(n.Stmt).Kind.String())
		} else {
			got = append(got, b.Exprs.Get(n.Expr).Kind.String())
		}
		return true
	})
	want := []string{"Block", "Local", "Number", "Expr", "Call", "Global", "Function", "Block", "Return", "Local", "Global"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("pre-order mismatch (-want +got):\n%s", diff)
	}
}

func TestWalkHandledSkipsButLeaves(t *testing.T) {
	b, root, fn := build(t)
	r := &recorder{b: b, skip: fn}
	ast.Walk(b, ast.StmtNode(root), r)

	for _, ev := range r.events {
		if ev == "+E:Local" {
			t.Fatalf("handled function body was walked: %v", r.events)
		}
	}
	opens, closes := 0, 0
	for _, ev := range r.events {
		if ev[0] == '+' {
			opens++
		} else {
			closes++
		}
	}
	if opens != closes {
		t.Errorf("Visit/Leave unbalanced: %d vs %d", opens, closes)
	}
}

func TestWalkExplicitChildren(t *testing.T) {
	b, _, fn := build(t)
	r := &recorder{b: b, only: fn}
	ast.Walk(b, ast.ExprNode(fn), r)
	want := []string{
		"+E:Function",
		"+S:Block", "+S:Return", "+E:Local", "-E:Local", "-S:Return", "-S:Block",
		"-E:Function",
	}
	if diff := cmp.Diff(want, r.events); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
}

func TestAccessorsRejectWrongKind(t *testing.T) {
	b, root, fn := build(t)
	if _, ok := b.Exprs.Call(fn); ok {
		t.Error("Call accessor accepted a function expression")
	}
	if _, ok := b.Stmts.If(root); ok {
		t.Error("If accessor accepted a block")
	}
	if b.Exprs.Get(ast.NoExprID) != nil || b.Stmts.Get(ast.StmtID(999)) != nil {
		t.Error("invalid ids must resolve to nil")
	}
	if got := b.Span(ast.ExprNode(fn)); got != sp(15, 38) {
		t.Errorf("Span = %v", got)
	}
	if kids := ast.Children(b, ast.Node{}); kids != nil {
		t.Errorf("zero node has children: %v", kids)
	}
}
