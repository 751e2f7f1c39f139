package lexer

import (
	"upvalcheck/internal/diag"
	"upvalcheck/internal/token"
)

// scanQuotedString reads '...' or "..." including escapes.
// An unescaped newline ends the literal with an error.
func (lx *Lexer) scanQuotedString() token.Token {
	start := lx.cursor.Mark()
	quote := lx.cursor.Bump()

	for {
		if lx.cursor.EOF() || lx.cursor.Peek() == '\n' {
			tok := lx.emit(token.String, start)
			lx.errLex(diag.LexUnterminatedString, tok.Span, "Malformed string; did you forget to finish it?")
			return tok
		}
		b := lx.cursor.Bump()
		switch b {
		case quote:
			return lx.emit(token.String, start)
		case '\\':
			lx.scanEscape()
		}
	}
}

// scanEscape validates the escape after a consumed backslash.
func (lx *Lexer) scanEscape() {
	escStart := lx.cursor.Mark() - 1
	if lx.cursor.EOF() {
		return
	}
	b := lx.cursor.Bump()
	switch b {
	case 'a', 'b', 'f', 'n', 'r', 't', 'v', '\\', '"', '\'', '`', '{', '\n':
	case 'z':
		for isSpace(lx.cursor.Peek()) || lx.cursor.Peek() == '\n' {
			lx.cursor.Bump()
		}
	case 'x':
		if !isHex(lx.cursor.PeekAt(0)) || !isHex(lx.cursor.PeekAt(1)) {
			lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(escStart), "String literal contains malformed escape sequence")
			return
		}
		lx.cursor.Off += 2
	case 'u':
		if !lx.cursor.Eat('{') {
			lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(escStart), "String literal contains malformed escape sequence")
			return
		}
		var cp uint32
		n := 0
		for isHex(lx.cursor.Peek()) {
			cp = cp*16 + hexVal(lx.cursor.Bump())
			n++
			if cp > 0x10FFFF {
				break
			}
		}
		if n == 0 || cp > 0x10FFFF || !lx.cursor.Eat('}') {
			lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(escStart), "String literal contains malformed escape sequence")
		}
	default:
		if isDec(b) {
			v := uint32(b - '0')
			for i := 0; i < 2 && isDec(lx.cursor.Peek()); i++ {
				v = v*10 + uint32(lx.cursor.Bump()-'0')
			}
			if v > 255 {
				lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(escStart), "String literal contains malformed escape sequence")
			}
			return
		}
		lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(escStart), "String literal contains malformed escape sequence")
	}
}

func hexVal(b byte) uint32 {
	switch {
	case b >= '0' && b <= '9':
		return uint32(b - '0')
	case b >= 'a' && b <= 'f':
		return uint32(b-'a') + 10
	default:
		return uint32(b-'A') + 10
	}
}

// atLongBracket reports whether the cursor sits on "[[" or "[=".
func (lx *Lexer) atLongBracket() bool {
	b1 := lx.cursor.PeekAt(1)
	return b1 == '[' || b1 == '='
}

// readLongOpen consumes "[", "="*, "[" and returns the level.
// On failure the cursor is left after the '=' run.
func (lx *Lexer) readLongOpen() (int, bool) {
	if !lx.cursor.Eat('[') {
		return 0, false
	}
	level := 0
	for lx.cursor.Eat('=') {
		level++
	}
	return level, lx.cursor.Eat('[')
}

// readLongBody consumes up to and including the closing bracket of level.
func (lx *Lexer) readLongBody(level int) bool {
	for !lx.cursor.EOF() {
		if lx.cursor.Bump() != ']' {
			continue
		}
		mark := lx.cursor.Mark()
		n := 0
		for lx.cursor.Eat('=') {
			n++
		}
		if n == level && lx.cursor.Eat(']') {
			return true
		}
		lx.cursor.Reset(mark)
	}
	return false
}

func (lx *Lexer) scanLongString() token.Token {
	start := lx.cursor.Mark()
	level, ok := lx.readLongOpen()
	if !ok {
		tok := lx.emit(token.Invalid, start)
		lx.errLex(diag.LexBadLongBracket, tok.Span, "Invalid long string delimiter")
		return tok
	}
	if !lx.readLongBody(level) {
		tok := lx.emit(token.LongString, start)
		lx.errLex(diag.LexUnterminatedLongString, tok.Span, "Malformed string; did you forget to finish it?")
		return tok
	}
	return lx.emit(token.LongString, start)
}

// scanInterpSegment reads interpolated string text after '`' (first) or after
// the '}' closing a hole, up to the next '{' or the closing '`'.
func (lx *Lexer) scanInterpSegment(start Mark, first bool) token.Token {
	for {
		if lx.cursor.EOF() || lx.cursor.Peek() == '\n' {
			kind := token.InterpEnd
			if first {
				kind = token.InterpSimple
			}
			tok := lx.emit(kind, start)
			lx.errLex(diag.LexUnterminatedString, tok.Span, "Malformed interpolated string; did you forget to add a '`'?")
			return tok
		}
		switch lx.cursor.Bump() {
		case '\\':
			lx.scanEscape()
		case '`':
			if first {
				return lx.emit(token.InterpSimple, start)
			}
			return lx.emit(token.InterpEnd, start)
		case '{':
			if lx.cursor.Peek() == '{' {
				lx.errLex(diag.LexUnbalancedInterp, lx.cursor.SpanFrom(lx.cursor.Mark()-1),
					"Double braces are not permitted within interpolated strings; did you mean '\\{'?")
			}
			lx.braces = append(lx.braces, true)
			if first {
				return lx.emit(token.InterpBegin, start)
			}
			return lx.emit(token.InterpMid, start)
		}
	}
}
