package ast

import (
	"upvalcheck/internal/source"
)

// Exprs manages allocation of expressions and their payloads.
type Exprs struct {
	Arena          *Arena[Expr]
	Literals       *Arena[ExprLiteralData]
	Groups         *Arena[ExprGroupData]
	LocalRefs      *Arena[ExprLocalData]
	Globals        *Arena[ExprGlobalData]
	Indices        *Arena[ExprIndexData]
	IndexNames     *Arena[ExprIndexNameData]
	Calls          *Arena[ExprCallData]
	Functions      *Arena[ExprFunctionData]
	Tables         *Arena[ExprTableData]
	Unaries        *Arena[ExprUnaryData]
	Binaries       *Arena[ExprBinaryData]
	IfElses        *Arena[ExprIfElseData]
	Interps        *Arena[ExprInterpStringData]
	TypeAssertions *Arena[ExprTypeAssertionData]
}

func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	small := capHint/8 + 1
	return &Exprs{
		Arena:          NewArena[Expr](capHint),
		Literals:       NewArena[ExprLiteralData](capHint / 2),
		Groups:         NewArena[ExprGroupData](small),
		LocalRefs:      NewArena[ExprLocalData](capHint / 2),
		Globals:        NewArena[ExprGlobalData](capHint / 4),
		Indices:        NewArena[ExprIndexData](small),
		IndexNames:     NewArena[ExprIndexNameData](capHint / 4),
		Calls:          NewArena[ExprCallData](capHint / 4),
		Functions:      NewArena[ExprFunctionData](small),
		Tables:         NewArena[ExprTableData](small),
		Unaries:        NewArena[ExprUnaryData](small),
		Binaries:       NewArena[ExprBinaryData](capHint / 4),
		IfElses:        NewArena[ExprIfElseData](small),
		Interps:        NewArena[ExprInterpStringData](small),
		TypeAssertions: NewArena[ExprTypeAssertionData](small),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload PayloadID) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

// Get returns the expression with the given ID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

func (e *Exprs) payload(id ExprID, kind ExprKind) (PayloadID, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != kind {
		return NoPayloadID, false
	}
	return expr.Payload, true
}

// NewSimple creates a payload-free expression (nil, varargs, error).
func (e *Exprs) NewSimple(kind ExprKind, span source.Span) ExprID {
	return e.new(kind, span, NoPayloadID)
}

// NewLiteral creates a number, string or boolean literal.
func (e *Exprs) NewLiteral(kind ExprKind, span source.Span, raw source.StringID) ExprID {
	payload := e.Literals.Allocate(ExprLiteralData{Raw: raw})
	return e.new(kind, span, PayloadID(payload))
}

// Literal returns the literal data of a number, string or boolean expression.
func (e *Exprs) Literal(id ExprID) (*ExprLiteralData, bool) {
	expr := e.Get(id)
	if expr == nil {
		return nil, false
	}
	switch expr.Kind {
	case ExprNumber, ExprString, ExprBool:
		return e.Literals.Get(uint32(expr.Payload)), true
	}
	return nil, false
}

func (e *Exprs) NewGroup(span source.Span, inner ExprID) ExprID {
	payload := e.Groups.Allocate(ExprGroupData{Inner: inner})
	return e.new(ExprGroup, span, PayloadID(payload))
}

func (e *Exprs) Group(id ExprID) (*ExprGroupData, bool) {
	p, ok := e.payload(id, ExprGroup)
	if !ok {
		return nil, false
	}
	return e.Groups.Get(uint32(p)), true
}

// NewLocal creates a reference to local.
func (e *Exprs) NewLocal(span source.Span, local LocalID, upvalue bool) ExprID {
	payload := e.LocalRefs.Allocate(ExprLocalData{Local: local, Upvalue: upvalue})
	return e.new(ExprLocal, span, PayloadID(payload))
}

// Local returns the binding of a local reference.
func (e *Exprs) Local(id ExprID) (*ExprLocalData, bool) {
	p, ok := e.payload(id, ExprLocal)
	if !ok {
		return nil, false
	}
	return e.LocalRefs.Get(uint32(p)), true
}

func (e *Exprs) NewGlobal(span source.Span, name source.StringID) ExprID {
	payload := e.Globals.Allocate(ExprGlobalData{Name: name})
	return e.new(ExprGlobal, span, PayloadID(payload))
}

func (e *Exprs) Global(id ExprID) (*ExprGlobalData, bool) {
	p, ok := e.payload(id, ExprGlobal)
	if !ok {
		return nil, false
	}
	return e.Globals.Get(uint32(p)), true
}

func (e *Exprs) NewIndex(span source.Span, target, index ExprID) ExprID {
	payload := e.Indices.Allocate(ExprIndexData{Target: target, Index: index})
	return e.new(ExprIndex, span, PayloadID(payload))
}

func (e *Exprs) Index(id ExprID) (*ExprIndexData, bool) {
	p, ok := e.payload(id, ExprIndex)
	if !ok {
		return nil, false
	}
	return e.Indices.Get(uint32(p)), true
}

func (e *Exprs) NewIndexName(span source.Span, target ExprID, name source.StringID, nameSpan source.Span, method bool) ExprID {
	payload := e.IndexNames.Allocate(ExprIndexNameData{Target: target, Name: name, NameSpan: nameSpan, Method: method})
	return e.new(ExprIndexName, span, PayloadID(payload))
}

func (e *Exprs) IndexName(id ExprID) (*ExprIndexNameData, bool) {
	p, ok := e.payload(id, ExprIndexName)
	if !ok {
		return nil, false
	}
	return e.IndexNames.Get(uint32(p)), true
}

func (e *Exprs) NewCall(span source.Span, target ExprID, args []ExprID, self bool) ExprID {
	payload := e.Calls.Allocate(ExprCallData{Target: target, Args: append([]ExprID(nil), args...), Self: self})
	return e.new(ExprCall, span, PayloadID(payload))
}

func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	p, ok := e.payload(id, ExprCall)
	if !ok {
		return nil, false
	}
	return e.Calls.Get(uint32(p)), true
}

// NewFunction creates a closure expression. The body is attached later
// with Function(id).Body once it is parsed.
func (e *Exprs) NewFunction(span source.Span, data ExprFunctionData) ExprID {
	payload := e.Functions.Allocate(data)
	return e.new(ExprFunction, span, PayloadID(payload))
}

func (e *Exprs) Function(id ExprID) (*ExprFunctionData, bool) {
	p, ok := e.payload(id, ExprFunction)
	if !ok {
		return nil, false
	}
	return e.Functions.Get(uint32(p)), true
}

func (e *Exprs) NewTable(span source.Span, items []TableItem) ExprID {
	payload := e.Tables.Allocate(ExprTableData{Items: items})
	return e.new(ExprTable, span, PayloadID(payload))
}

func (e *Exprs) Table(id ExprID) (*ExprTableData, bool) {
	p, ok := e.payload(id, ExprTable)
	if !ok {
		return nil, false
	}
	return e.Tables.Get(uint32(p)), true
}

func (e *Exprs) NewUnary(span source.Span, op UnaryOp, operand ExprID) ExprID {
	payload := e.Unaries.Allocate(ExprUnaryData{Op: op, Operand: operand})
	return e.new(ExprUnary, span, PayloadID(payload))
}

func (e *Exprs) Unary(id ExprID) (*ExprUnaryData, bool) {
	p, ok := e.payload(id, ExprUnary)
	if !ok {
		return nil, false
	}
	return e.Unaries.Get(uint32(p)), true
}

func (e *Exprs) NewBinary(span source.Span, op BinaryOp, left, right ExprID) ExprID {
	payload := e.Binaries.Allocate(ExprBinaryData{Op: op, Left: left, Right: right})
	return e.new(ExprBinary, span, PayloadID(payload))
}

func (e *Exprs) Binary(id ExprID) (*ExprBinaryData, bool) {
	p, ok := e.payload(id, ExprBinary)
	if !ok {
		return nil, false
	}
	return e.Binaries.Get(uint32(p)), true
}

func (e *Exprs) NewIfElse(span source.Span, cond, then, els ExprID) ExprID {
	payload := e.IfElses.Allocate(ExprIfElseData{Cond: cond, Then: then, Else: els})
	return e.new(ExprIfElse, span, PayloadID(payload))
}

func (e *Exprs) IfElse(id ExprID) (*ExprIfElseData, bool) {
	p, ok := e.payload(id, ExprIfElse)
	if !ok {
		return nil, false
	}
	return e.IfElses.Get(uint32(p)), true
}

func (e *Exprs) NewInterpString(span source.Span, segments []source.StringID, exprs []ExprID) ExprID {
	payload := e.Interps.Allocate(ExprInterpStringData{Segments: segments, Exprs: exprs})
	return e.new(ExprInterpString, span, PayloadID(payload))
}

func (e *Exprs) InterpString(id ExprID) (*ExprInterpStringData, bool) {
	p, ok := e.payload(id, ExprInterpString)
	if !ok {
		return nil, false
	}
	return e.Interps.Get(uint32(p)), true
}

func (e *Exprs) NewTypeAssertion(span source.Span, value ExprID) ExprID {
	payload := e.TypeAssertions.Allocate(ExprTypeAssertionData{Value: value})
	return e.new(ExprTypeAssertion, span, PayloadID(payload))
}

func (e *Exprs) TypeAssertion(id ExprID) (*ExprTypeAssertionData, bool) {
	p, ok := e.payload(id, ExprTypeAssertion)
	if !ok {
		return nil, false
	}
	return e.TypeAssertions.Get(uint32(p)), true
}
