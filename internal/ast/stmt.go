package ast

import (
	"upvalcheck/internal/source"
)

type StmtKind uint8

const (
	StmtError StmtKind = iota
	StmtBlock
	StmtLocal
	StmtLocalFunction
	StmtFunction
	StmtAssign
	StmtCompoundAssign
	StmtExpr
	StmtDo
	StmtWhile
	StmtRepeat
	StmtIf
	StmtNumericFor
	StmtGenericFor
	StmtReturn
	StmtBreak
	StmtContinue
	StmtTypeAlias
)

var stmtKindNames = [...]string{
	StmtError:          "Error",
	StmtBlock:          "Block",
	StmtLocal:          "Local",
	StmtLocalFunction:  "LocalFunction",
	StmtFunction:       "Function",
	StmtAssign:         "Assign",
	StmtCompoundAssign: "CompoundAssign",
	StmtExpr:           "Expr",
	StmtDo:             "Do",
	StmtWhile:          "While",
	StmtRepeat:         "Repeat",
	StmtIf:             "If",
	StmtNumericFor:     "NumericFor",
	StmtGenericFor:     "GenericFor",
	StmtReturn:         "Return",
	StmtBreak:          "Break",
	StmtContinue:       "Continue",
	StmtTypeAlias:      "TypeAlias",
}

func (k StmtKind) String() string {
	if int(k) < len(stmtKindNames) {
		return stmtKindNames[k]
	}
	return "Stmt(?)"
}

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

type StmtBlockData struct {
	Stmts []StmtID
}

type StmtLocalData struct {
	Vars   []LocalID
	Values []ExprID
}

type StmtLocalFunctionData struct {
	Name LocalID
	Func ExprID
}

// StmtFunctionData is "function a.b:c() end". Target is the assigned name
// expression (Local, Global or IndexName chain).
type StmtFunctionData struct {
	Target ExprID
	Func   ExprID
}

type StmtAssignData struct {
	Targets []ExprID
	Values  []ExprID
}

type StmtCompoundAssignData struct {
	Op     BinaryOp
	Target ExprID
	Value  ExprID
}

type StmtExprData struct {
	Expr ExprID
}

// StmtBodyData is shared by do blocks.
type StmtBodyData struct {
	Body StmtID
}

type StmtWhileData struct {
	Cond ExprID
	Body StmtID
}

// StmtRepeatData is "repeat Body until Cond"; Cond sees the body's locals.
type StmtRepeatData struct {
	Body StmtID
	Cond ExprID
}

// StmtIfData is one if/elseif arm. Else is NoStmtID, a Block, or the next If.
type StmtIfData struct {
	Cond ExprID
	Then StmtID
	Else StmtID
}

type StmtNumericForData struct {
	Var  LocalID
	From ExprID
	To   ExprID
	Step ExprID // NoExprID when omitted
	Body StmtID
}

type StmtGenericForData struct {
	Vars   []LocalID
	Values []ExprID
	Body   StmtID
}

type StmtReturnData struct {
	Values []ExprID
}

type StmtTypeAliasData struct {
	Name     source.StringID
	Exported bool
}
