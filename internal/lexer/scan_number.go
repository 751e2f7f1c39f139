package lexer

import (
	"upvalcheck/internal/diag"
	"upvalcheck/internal/token"
)

// scanNumber accepts 123, 1_000, 0x1F, 0b1010, 1.5, .5, 3., 1e10, 2.5E-3.
// Trailing identifier characters make the whole run a malformed number.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '0' && (b1 == 'x' || b1 == 'X' || b1 == 'b' || b1 == 'B') {
		lx.cursor.Off += 2
		digit := isHex
		if b1 == 'b' || b1 == 'B' {
			digit = func(b byte) bool { return b == '0' || b == '1' }
		}
		n := 0
		for digit(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
			if lx.cursor.Bump() != '_' {
				n++
			}
		}
		if n == 0 {
			return lx.badNumber(start)
		}
		return lx.finishNumber(start)
	}

	lx.digits()
	if lx.cursor.Peek() == '.' && lx.cursor.PeekAt(1) != '.' {
		lx.cursor.Bump()
		lx.digits()
	}
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		lx.cursor.Bump()
		if b := lx.cursor.Peek(); b == '+' || b == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			return lx.badNumber(start)
		}
		lx.digits()
	}
	return lx.finishNumber(start)
}

func (lx *Lexer) digits() {
	for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}
}

func (lx *Lexer) finishNumber(start Mark) token.Token {
	if isIdentContinueByte(lx.cursor.Peek()) || lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)) {
		return lx.badNumber(start)
	}
	return lx.emit(token.Number, start)
}

func (lx *Lexer) badNumber(start Mark) token.Token {
	for isIdentContinueByte(lx.cursor.Peek()) || lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)) {
		lx.cursor.Bump()
	}
	tok := lx.emit(token.Number, start)
	lx.errLex(diag.LexBadNumber, tok.Span, "Malformed number")
	return tok
}
