package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	Name

	KwAnd
	KwBreak
	KwDo
	KwElse
	KwElseif
	KwEnd
	KwFalse
	KwFor
	KwFunction
	KwIf
	KwIn
	KwLocal
	KwNil
	KwNot
	KwOr
	KwRepeat
	KwReturn
	KwThen
	KwTrue
	KwUntil
	KwWhile

	Number
	String     // quoted string
	LongString // [[...]] or [==[...]==]

	InterpSimple // `text` without holes
	InterpBegin  // `text{
	InterpMid    // }text{
	InterpEnd    // }text`

	Plus          // +
	Minus         // -
	Star          // *
	Slash         // /
	SlashSlash    // //
	Percent       // %
	Caret         // ^
	Hash          // #
	Concat        // ..
	Dots          // ...
	EqEq          // ==
	NotEq         // ~=
	Lt            // <
	LtEq          // <=
	Gt            // >
	GtEq          // >=
	Assign        // =
	PlusAssign    // +=
	MinusAssign   // -=
	StarAssign    // *=
	SlashAssign   // /=
	FloorAssign   // //=
	PercentAssign // %=
	CaretAssign   // ^=
	ConcatAssign  // ..=
	LParen        // (
	RParen        // )
	LBrace        // {
	RBrace        // }
	LBracket      // [
	RBracket      // ]
	Semicolon     // ;
	Colon         // :
	ColonColon    // ::
	Comma         // ,
	Dot           // .
	Arrow         // ->
	Question      // ?
	Pipe          // |
	Amp           // &
	At            // @

	kindCount
)

var kindNames = [kindCount]string{
	Invalid:       "Invalid",
	EOF:           "EOF",
	Name:          "Name",
	KwAnd:         "and",
	KwBreak:       "break",
	KwDo:          "do",
	KwElse:        "else",
	KwElseif:      "elseif",
	KwEnd:         "end",
	KwFalse:       "false",
	KwFor:         "for",
	KwFunction:    "function",
	KwIf:          "if",
	KwIn:          "in",
	KwLocal:       "local",
	KwNil:         "nil",
	KwNot:         "not",
	KwOr:          "or",
	KwRepeat:      "repeat",
	KwReturn:      "return",
	KwThen:        "then",
	KwTrue:        "true",
	KwUntil:       "until",
	KwWhile:       "while",
	Number:        "Number",
	String:        "String",
	LongString:    "LongString",
	InterpSimple:  "InterpSimple",
	InterpBegin:   "InterpBegin",
	InterpMid:     "InterpMid",
	InterpEnd:     "InterpEnd",
	Plus:          "+",
	Minus:         "-",
	Star:          "*",
	Slash:         "/",
	SlashSlash:    "//",
	Percent:       "%",
	Caret:         "^",
	Hash:          "#",
	Concat:        "..",
	Dots:          "...",
	EqEq:          "==",
	NotEq:         "~=",
	Lt:            "<",
	LtEq:          "<=",
	Gt:            ">",
	GtEq:          ">=",
	Assign:        "=",
	PlusAssign:    "+=",
	MinusAssign:   "-=",
	StarAssign:    "*=",
	SlashAssign:   "/=",
	FloorAssign:   "//=",
	PercentAssign: "%=",
	CaretAssign:   "^=",
	ConcatAssign:  "..=",
	LParen:        "(",
	RParen:        ")",
	LBrace:        "{",
	RBrace:        "}",
	LBracket:      "[",
	RBracket:      "]",
	Semicolon:     ";",
	Colon:         ":",
	ColonColon:    "::",
	Comma:         ",",
	Dot:           ".",
	Arrow:         "->",
	Question:      "?",
	Pipe:          "|",
	Amp:           "&",
	At:            "@",
}

// String returns the lexeme for fixed tokens and the category name otherwise.
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsCompoundAssign reports whether k is one of the op= operators.
func (k Kind) IsCompoundAssign() bool {
	return k >= PlusAssign && k <= ConcatAssign
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool {
	return k >= KwAnd && k <= KwWhile
}

// BlockEnd reports whether k closes a statement list.
func (k Kind) BlockEnd() bool {
	switch k {
	case EOF, KwEnd, KwElse, KwElseif, KwUntil:
		return true
	default:
		return false
	}
}
