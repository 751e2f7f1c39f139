package ast

import (
	"upvalcheck/internal/source"
)

// Stmts manages allocation of statements and their payloads.
type Stmts struct {
	Arena           *Arena[Stmt]
	Blocks          *Arena[StmtBlockData]
	Locals          *Arena[StmtLocalData]
	LocalFunctions  *Arena[StmtLocalFunctionData]
	Functions       *Arena[StmtFunctionData]
	Assigns         *Arena[StmtAssignData]
	CompoundAssigns *Arena[StmtCompoundAssignData]
	Exprs           *Arena[StmtExprData]
	Bodies          *Arena[StmtBodyData]
	Whiles          *Arena[StmtWhileData]
	Repeats         *Arena[StmtRepeatData]
	Ifs             *Arena[StmtIfData]
	NumericFors     *Arena[StmtNumericForData]
	GenericFors     *Arena[StmtGenericForData]
	Returns         *Arena[StmtReturnData]
	TypeAliases     *Arena[StmtTypeAliasData]
}

func NewStmts(capHint uint) *Stmts {
	if capHint == 0 {
		capHint = 1 << 8
	}
	small := capHint/8 + 1
	return &Stmts{
		Arena:           NewArena[Stmt](capHint),
		Blocks:          NewArena[StmtBlockData](capHint / 4),
		Locals:          NewArena[StmtLocalData](capHint / 4),
		LocalFunctions:  NewArena[StmtLocalFunctionData](small),
		Functions:       NewArena[StmtFunctionData](small),
		Assigns:         NewArena[StmtAssignData](small),
		CompoundAssigns: NewArena[StmtCompoundAssignData](small),
		Exprs:           NewArena[StmtExprData](capHint / 4),
		Bodies:          NewArena[StmtBodyData](small),
		Whiles:          NewArena[StmtWhileData](small),
		Repeats:         NewArena[StmtRepeatData](small),
		Ifs:             NewArena[StmtIfData](small),
		NumericFors:     NewArena[StmtNumericForData](small),
		GenericFors:     NewArena[StmtGenericForData](small),
		Returns:         NewArena[StmtReturnData](small),
		TypeAliases:     NewArena[StmtTypeAliasData](small),
	}
}

func (s *Stmts) new(kind StmtKind, span source.Span, payload PayloadID) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{Kind: kind, Span: span, Payload: payload}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func (s *Stmts) payload(id StmtID, kind StmtKind) (PayloadID, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != kind {
		return NoPayloadID, false
	}
	return st.Payload, true
}

// NewSimple creates a payload-free statement (break, continue, error).
func (s *Stmts) NewSimple(kind StmtKind, span source.Span) StmtID {
	return s.new(kind, span, NoPayloadID)
}

func (s *Stmts) NewBlock(span source.Span, stmts []StmtID) StmtID {
	payload := s.Blocks.Allocate(StmtBlockData{Stmts: stmts})
	return s.new(StmtBlock, span, PayloadID(payload))
}

func (s *Stmts) Block(id StmtID) (*StmtBlockData, bool) {
	p, ok := s.payload(id, StmtBlock)
	if !ok {
		return nil, false
	}
	return s.Blocks.Get(uint32(p)), true
}

func (s *Stmts) NewLocal(span source.Span, vars []LocalID, values []ExprID) StmtID {
	payload := s.Locals.Allocate(StmtLocalData{Vars: vars, Values: values})
	return s.new(StmtLocal, span, PayloadID(payload))
}

func (s *Stmts) Local(id StmtID) (*StmtLocalData, bool) {
	p, ok := s.payload(id, StmtLocal)
	if !ok {
		return nil, false
	}
	return s.Locals.Get(uint32(p)), true
}

func (s *Stmts) NewLocalFunction(span source.Span, name LocalID, fn ExprID) StmtID {
	payload := s.LocalFunctions.Allocate(StmtLocalFunctionData{Name: name, Func: fn})
	return s.new(StmtLocalFunction, span, PayloadID(payload))
}

func (s *Stmts) LocalFunction(id StmtID) (*StmtLocalFunctionData, bool) {
	p, ok := s.payload(id, StmtLocalFunction)
	if !ok {
		return nil, false
	}
	return s.LocalFunctions.Get(uint32(p)), true
}

func (s *Stmts) NewFunction(span source.Span, target, fn ExprID) StmtID {
	payload := s.Functions.Allocate(StmtFunctionData{Target: target, Func: fn})
	return s.new(StmtFunction, span, PayloadID(payload))
}

func (s *Stmts) Function(id StmtID) (*StmtFunctionData, bool) {
	p, ok := s.payload(id, StmtFunction)
	if !ok {
		return nil, false
	}
	return s.Functions.Get(uint32(p)), true
}

func (s *Stmts) NewAssign(span source.Span, targets, values []ExprID) StmtID {
	payload := s.Assigns.Allocate(StmtAssignData{Targets: targets, Values: values})
	return s.new(StmtAssign, span, PayloadID(payload))
}

func (s *Stmts) Assign(id StmtID) (*StmtAssignData, bool) {
	p, ok := s.payload(id, StmtAssign)
	if !ok {
		return nil, false
	}
	return s.Assigns.Get(uint32(p)), true
}

func (s *Stmts) NewCompoundAssign(span source.Span, op BinaryOp, target, value ExprID) StmtID {
	payload := s.CompoundAssigns.Allocate(StmtCompoundAssignData{Op: op, Target: target, Value: value})
	return s.new(StmtCompoundAssign, span, PayloadID(payload))
}

func (s *Stmts) CompoundAssign(id StmtID) (*StmtCompoundAssignData, bool) {
	p, ok := s.payload(id, StmtCompoundAssign)
	if !ok {
		return nil, false
	}
	return s.CompoundAssigns.Get(uint32(p)), true
}

func (s *Stmts) NewExpr(span source.Span, expr ExprID) StmtID {
	payload := s.Exprs.Allocate(StmtExprData{Expr: expr})
	return s.new(StmtExpr, span, PayloadID(payload))
}

func (s *Stmts) Expr(id StmtID) (*StmtExprData, bool) {
	p, ok := s.payload(id, StmtExpr)
	if !ok {
		return nil, false
	}
	return s.Exprs.Get(uint32(p)), true
}

func (s *Stmts) NewDo(span source.Span, body StmtID) StmtID {
	payload := s.Bodies.Allocate(StmtBodyData{Body: body})
	return s.new(StmtDo, span, PayloadID(payload))
}

func (s *Stmts) Do(id StmtID) (*StmtBodyData, bool) {
	p, ok := s.payload(id, StmtDo)
	if !ok {
		return nil, false
	}
	return s.Bodies.Get(uint32(p)), true
}

func (s *Stmts) NewWhile(span source.Span, cond ExprID, body StmtID) StmtID {
	payload := s.Whiles.Allocate(StmtWhileData{Cond: cond, Body: body})
	return s.new(StmtWhile, span, PayloadID(payload))
}

func (s *Stmts) While(id StmtID) (*StmtWhileData, bool) {
	p, ok := s.payload(id, StmtWhile)
	if !ok {
		return nil, false
	}
	return s.Whiles.Get(uint32(p)), true
}

func (s *Stmts) NewRepeat(span source.Span, body StmtID, cond ExprID) StmtID {
	payload := s.Repeats.Allocate(StmtRepeatData{Body: body, Cond: cond})
	return s.new(StmtRepeat, span, PayloadID(payload))
}

func (s *Stmts) Repeat(id StmtID) (*StmtRepeatData, bool) {
	p, ok := s.payload(id, StmtRepeat)
	if !ok {
		return nil, false
	}
	return s.Repeats.Get(uint32(p)), true
}

func (s *Stmts) NewIf(span source.Span, cond ExprID, then, els StmtID) StmtID {
	payload := s.Ifs.Allocate(StmtIfData{Cond: cond, Then: then, Else: els})
	return s.new(StmtIf, span, PayloadID(payload))
}

func (s *Stmts) If(id StmtID) (*StmtIfData, bool) {
	p, ok := s.payload(id, StmtIf)
	if !ok {
		return nil, false
	}
	return s.Ifs.Get(uint32(p)), true
}

func (s *Stmts) NewNumericFor(span source.Span, data StmtNumericForData) StmtID {
	payload := s.NumericFors.Allocate(data)
	return s.new(StmtNumericFor, span, PayloadID(payload))
}

func (s *Stmts) NumericFor(id StmtID) (*StmtNumericForData, bool) {
	p, ok := s.payload(id, StmtNumericFor)
	if !ok {
		return nil, false
	}
	return s.NumericFors.Get(uint32(p)), true
}

func (s *Stmts) NewGenericFor(span source.Span, vars []LocalID, values []ExprID, body StmtID) StmtID {
	payload := s.GenericFors.Allocate(StmtGenericForData{Vars: vars, Values: values, Body: body})
	return s.new(StmtGenericFor, span, PayloadID(payload))
}

func (s *Stmts) GenericFor(id StmtID) (*StmtGenericForData, bool) {
	p, ok := s.payload(id, StmtGenericFor)
	if !ok {
		return nil, false
	}
	return s.GenericFors.Get(uint32(p)), true
}

func (s *Stmts) NewReturn(span source.Span, values []ExprID) StmtID {
	payload := s.Returns.Allocate(StmtReturnData{Values: values})
	return s.new(StmtReturn, span, PayloadID(payload))
}

func (s *Stmts) Return(id StmtID) (*StmtReturnData, bool) {
	p, ok := s.payload(id, StmtReturn)
	if !ok {
		return nil, false
	}
	return s.Returns.Get(uint32(p)), true
}

func (s *Stmts) NewTypeAlias(span source.Span, name source.StringID, exported bool) StmtID {
	payload := s.TypeAliases.Allocate(StmtTypeAliasData{Name: name, Exported: exported})
	return s.new(StmtTypeAlias, span, PayloadID(payload))
}

func (s *Stmts) TypeAlias(id StmtID) (*StmtTypeAliasData, bool) {
	p, ok := s.payload(id, StmtTypeAlias)
	if !ok {
		return nil, false
	}
	return s.TypeAliases.Get(uint32(p)), true
}
