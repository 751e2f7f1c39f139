package token

import (
	"upvalcheck/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a number, string or constant literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case Number, String, LongString, InterpSimple, KwNil, KwTrue, KwFalse:
		return true
	default:
		return false
	}
}

// IsName reports whether the token is an identifier, optionally a specific one.
func (t Token) IsName(text ...string) bool {
	if t.Kind != Name {
		return false
	}
	if len(text) == 0 {
		return true
	}
	for _, s := range text {
		if t.Text == s {
			return true
		}
	}
	return false
}

// HasNewlineBefore reports whether a line break separates t from the previous token.
func (t Token) HasNewlineBefore() bool {
	for _, tr := range t.Leading {
		switch tr.Kind {
		case TriviaNewline:
			return true
		case TriviaBlockComment:
			for i := 0; i < len(tr.Text); i++ {
				if tr.Text[i] == '\n' {
					return true
				}
			}
		}
	}
	return false
}
