package ast

import (
	"upvalcheck/internal/source"
)

type ExprKind uint8

const (
	ExprError ExprKind = iota // placeholder produced by error recovery
	ExprNil
	ExprBool
	ExprNumber
	ExprString
	ExprVarargs
	ExprGroup
	ExprLocal  // reference to a declared local
	ExprGlobal // name that resolved to no local
	ExprIndex
	ExprIndexName
	ExprCall
	ExprFunction
	ExprTable
	ExprUnary
	ExprBinary
	ExprIfElse
	ExprInterpString
	ExprTypeAssertion // expr :: T, the type itself is not kept
)

var exprKindNames = [...]string{
	ExprError:         "Error",
	ExprNil:           "Nil",
	ExprBool:          "Bool",
	ExprNumber:        "Number",
	ExprString:        "String",
	ExprVarargs:       "Varargs",
	ExprGroup:         "Group",
	ExprLocal:         "Local",
	ExprGlobal:        "Global",
	ExprIndex:         "Index",
	ExprIndexName:     "IndexName",
	ExprCall:          "Call",
	ExprFunction:      "Function",
	ExprTable:         "Table",
	ExprUnary:         "Unary",
	ExprBinary:        "Binary",
	ExprIfElse:        "IfElse",
	ExprInterpString:  "InterpString",
	ExprTypeAssertion: "TypeAssertion",
}

func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) {
		return exprKindNames[k]
	}
	return "Expr(?)"
}

type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

type UnaryOp uint8

const (
	UnaryNeg UnaryOp = iota // -
	UnaryNot                // not
	UnaryLen                // #
)

func (op UnaryOp) String() string {
	switch op {
	case UnaryNeg:
		return "-"
	case UnaryNot:
		return "not"
	case UnaryLen:
		return "#"
	}
	return "?"
}

type BinaryOp uint8

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinFloorDiv
	BinMod
	BinPow
	BinConcat
	BinEq
	BinNe
	BinLt
	BinLe
	BinGt
	BinGe
	BinAnd
	BinOr
)

var binaryOpNames = [...]string{
	BinAdd: "+", BinSub: "-", BinMul: "*", BinDiv: "/", BinFloorDiv: "//",
	BinMod: "%", BinPow: "^", BinConcat: "..", BinEq: "==", BinNe: "~=",
	BinLt: "<", BinLe: "<=", BinGt: ">", BinGe: ">=", BinAnd: "and", BinOr: "or",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return "?"
}

// ExprLiteralData carries the raw source text of numbers, strings and booleans.
type ExprLiteralData struct {
	Raw source.StringID
}

type ExprGroupData struct {
	Inner ExprID
}

// ExprLocalData is a variable reference bound to its declaration.
type ExprLocalData struct {
	Local LocalID
	// Upvalue is set when Local was declared in an enclosing function.
	Upvalue bool
}

type ExprGlobalData struct {
	Name source.StringID
}

type ExprIndexData struct {
	Target ExprID
	Index  ExprID
}

// ExprIndexNameData is t.name or, as a call target, t:name.
type ExprIndexNameData struct {
	Target   ExprID
	Name     source.StringID
	NameSpan source.Span
	Method   bool // ':' instead of '.'
}

type ExprCallData struct {
	Target ExprID
	Args   []ExprID
	Self   bool // method call, Target is a Method IndexName
}

// ExprFunctionData is a closure expression.
type ExprFunctionData struct {
	// Depth counts enclosing function literals including this one,
	// so a function written at the top of a chunk has depth 1.
	Depth uint32
	// DebugName is the name the closure is bound to at its definition,
	// source.NoStringID when anonymous.
	DebugName source.StringID
	Self      LocalID // implicit self of "function t:m()"
	Params    []LocalID
	Vararg    bool
	Body      StmtID
}

type TableItemKind uint8

const (
	TableItemList    TableItemKind = iota // value
	TableItemRecord                       // name = value
	TableItemGeneral                      // [key] = value
)

type TableItem struct {
	Kind  TableItemKind
	Name  source.StringID
	Key   ExprID
	Value ExprID
}

type ExprTableData struct {
	Items []TableItem
}

type ExprUnaryData struct {
	Op      UnaryOp
	Operand ExprID
}

type ExprBinaryData struct {
	Op    BinaryOp
	Left  ExprID
	Right ExprID
}

// ExprIfElseData is "if c then a else b"; elseif chains nest in Else.
type ExprIfElseData struct {
	Cond ExprID
	Then ExprID
	Else ExprID
}

type ExprInterpStringData struct {
	Segments []source.StringID
	Exprs    []ExprID
}

type ExprTypeAssertionData struct {
	Value ExprID
}
