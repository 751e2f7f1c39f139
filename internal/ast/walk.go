package ast

import (
	"fmt"

	"upvalcheck/internal/source"
)

// Node is a handle to either a statement or an expression.
type Node struct {
	Stmt StmtID
	Expr ExprID
}

func StmtNode(id StmtID) Node { return Node{Stmt: id} }
func ExprNode(id ExprID) Node { return Node{Expr: id} }

func (n Node) IsStmt() bool { return n.Stmt.IsValid() }
func (n Node) IsExpr() bool { return n.Expr.IsValid() }
func (n Node) IsZero() bool { return !n.Stmt.IsValid() && !n.Expr.IsValid() }

func (n Node) String() string {
	switch {
	case n.IsStmt():
		return fmt.Sprintf("stmt#%d", n.Stmt)
	case n.IsExpr():
		return fmt.Sprintf("expr#%d", n.Expr)
	}
	return "node#0"
}

// Span returns the source range of n.
func (b *Builder) Span(n Node) source.Span {
	if n.IsStmt() {
		if st := b.Stmts.Get(n.Stmt); st != nil {
			return st.Span
		}
	}
	if n.IsExpr() {
		if ex := b.Exprs.Get(n.Expr); ex != nil {
			return ex.Span
		}
	}
	return source.Span{}
}

type stepMode uint8

const (
	stepRecurse stepMode = iota
	stepHandled
	stepExplicit
)

// Step tells Walk how to continue after Visit.
type Step struct {
	mode     stepMode
	children []Node
}

// Recurse walks the default children of the node.
func Recurse() Step { return Step{mode: stepRecurse} }

// Handled skips the children of the node.
func Handled() Step { return Step{mode: stepHandled} }

// Explicit walks only the listed children, in order.
func Explicit(children ...Node) Step { return Step{mode: stepExplicit, children: children} }

// Visitor is driven by Walk. Leave is called once for every node after its
// children, including nodes whose Visit returned Handled.
type Visitor interface {
	Visit(n Node) Step
	Leave(n Node)
}

// Walk traverses the tree rooted at root depth-first in source order.
func Walk(b *Builder, root Node, v Visitor) {
	if root.IsZero() {
		return
	}
	step := v.Visit(root)
	switch step.mode {
	case stepRecurse:
		for _, c := range Children(b, root) {
			Walk(b, c, v)
		}
	case stepExplicit:
		for _, c := range step.children {
			Walk(b, c, v)
		}
	}
	v.Leave(root)
}

// WalkFile walks the body of a parsed file.
func WalkFile(b *Builder, file FileID, v Visitor) {
	if f := b.Files.Get(file); f != nil {
		Walk(b, StmtNode(f.Body), v)
	}
}

type inspector func(Node) bool

func (f inspector) Visit(n Node) Step {
	if f(n) {
		return Recurse()
	}
	return Handled()
}

func (inspector) Leave(Node) {}

// Inspect calls f for every node in pre-order; returning false prunes the subtree.
func Inspect(b *Builder, root Node, f func(Node) bool) {
	Walk(b, root, inspector(f))
}

// Children lists the default children of n in source order.
// Declarations (LocalIDs) are not nodes and never appear here.
func Children(b *Builder, n Node) []Node {
	var out []Node
	addE := func(ids ...ExprID) {
		for _, id := range ids {
			if id.IsValid() {
				out = append(out, ExprNode(id))
			}
		}
	}
	addS := func(ids ...StmtID) {
		for _, id := range ids {
			if id.IsValid() {
				out = append(out, StmtNode(id))
			}
		}
	}

	if n.IsStmt() {
		st := b.Stmts.Get(n.Stmt)
		if st == nil {
			return nil
		}
		switch st.Kind {
		case StmtBlock:
			d, _ := b.Stmts.Block(n.Stmt)
			addS(d.Stmts...)
		case StmtLocal:
			d, _ := b.Stmts.Local(n.Stmt)
			addE(d.Values...)
		case StmtLocalFunction:
			d, _ := b.Stmts.LocalFunction(n.Stmt)
			addE(d.Func)
		case StmtFunction:
			d, _ := b.Stmts.Function(n.Stmt)
			addE(d.Target, d.Func)
		case StmtAssign:
			d, _ := b.Stmts.Assign(n.Stmt)
			addE(d.Targets...)
			addE(d.Values...)
		case StmtCompoundAssign:
			d, _ := b.Stmts.CompoundAssign(n.Stmt)
			addE(d.Target, d.Value)
		case StmtExpr:
			d, _ := b.Stmts.Expr(n.Stmt)
			addE(d.Expr)
		case StmtDo:
			d, _ := b.Stmts.Do(n.Stmt)
			addS(d.Body)
		case StmtWhile:
			d, _ := b.Stmts.While(n.Stmt)
			addE(d.Cond)
			addS(d.Body)
		case StmtRepeat:
			d, _ := b.Stmts.Repeat(n.Stmt)
			addS(d.Body)
			addE(d.Cond)
		case StmtIf:
			d, _ := b.Stmts.If(n.Stmt)
			addE(d.Cond)
			addS(d.Then, d.Else)
		case StmtNumericFor:
			d, _ := b.Stmts.NumericFor(n.Stmt)
			addE(d.From, d.To, d.Step)
			addS(d.Body)
		case StmtGenericFor:
			d, _ := b.Stmts.GenericFor(n.Stmt)
			addE(d.Values...)
			addS(d.Body)
		case StmtReturn:
			d, _ := b.Stmts.Return(n.Stmt)
			addE(d.Values...)
		}
		return out
	}

	ex := b.Exprs.Get(n.Expr)
	if ex == nil {
		return nil
	}
	switch ex.Kind {
	case ExprGroup:
		d, _ := b.Exprs.Group(n.Expr)
		addE(d.Inner)
	case ExprIndex:
		d, _ := b.Exprs.Index(n.Expr)
		addE(d.Target, d.Index)
	case ExprIndexName:
		d, _ := b.Exprs.IndexName(n.Expr)
		addE(d.Target)
	case ExprCall:
		d, _ := b.Exprs.Call(n.Expr)
		addE(d.Target)
		addE(d.Args...)
	case ExprFunction:
		d, _ := b.Exprs.Function(n.Expr)
		addS(d.Body)
	case ExprTable:
		d, _ := b.Exprs.Table(n.Expr)
		for _, it := range d.Items {
			addE(it.Key, it.Value)
		}
	case ExprUnary:
		d, _ := b.Exprs.Unary(n.Expr)
		addE(d.Operand)
	case ExprBinary:
		d, _ := b.Exprs.Binary(n.Expr)
		addE(d.Left, d.Right)
	case ExprIfElse:
		d, _ := b.Exprs.IfElse(n.Expr)
		addE(d.Cond, d.Then, d.Else)
	case ExprInterpString:
		d, _ := b.Exprs.InterpString(n.Expr)
		addE(d.Exprs...)
	case ExprTypeAssertion:
		d, _ := b.Exprs.TypeAssertion(n.Expr)
		addE(d.Value)
	}
	return out
}
