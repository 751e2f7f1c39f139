package lexer

import (
	"upvalcheck/internal/diag"
	"upvalcheck/internal/token"
)

// scanOperatorOrPunct is greedy: three-byte operators first, then two, then one.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()

	switch {
	case lx.try3('.', '.', '.'):
		return lx.emit(token.Dots, start)
	case lx.try3('.', '.', '='):
		return lx.emit(token.ConcatAssign, start)
	case lx.try3('/', '/', '='):
		return lx.emit(token.FloorAssign, start)
	case lx.try2('.', '.'):
		return lx.emit(token.Concat, start)
	case lx.try2('/', '/'):
		return lx.emit(token.SlashSlash, start)
	case lx.try2('=', '='):
		return lx.emit(token.EqEq, start)
	case lx.try2('~', '='):
		return lx.emit(token.NotEq, start)
	case lx.try2('<', '='):
		return lx.emit(token.LtEq, start)
	case lx.try2('>', '='):
		return lx.emit(token.GtEq, start)
	case lx.try2('+', '='):
		return lx.emit(token.PlusAssign, start)
	case lx.try2('-', '='):
		return lx.emit(token.MinusAssign, start)
	case lx.try2('*', '='):
		return lx.emit(token.StarAssign, start)
	case lx.try2('/', '='):
		return lx.emit(token.SlashAssign, start)
	case lx.try2('%', '='):
		return lx.emit(token.PercentAssign, start)
	case lx.try2('^', '='):
		return lx.emit(token.CaretAssign, start)
	case lx.try2(':', ':'):
		return lx.emit(token.ColonColon, start)
	case lx.try2('-', '>'):
		return lx.emit(token.Arrow, start)
	}

	ch := lx.cursor.Bump()
	switch ch {
	case '+':
		return lx.emit(token.Plus, start)
	case '-':
		return lx.emit(token.Minus, start)
	case '*':
		return lx.emit(token.Star, start)
	case '/':
		return lx.emit(token.Slash, start)
	case '%':
		return lx.emit(token.Percent, start)
	case '^':
		return lx.emit(token.Caret, start)
	case '#':
		return lx.emit(token.Hash, start)
	case '<':
		return lx.emit(token.Lt, start)
	case '>':
		return lx.emit(token.Gt, start)
	case '=':
		return lx.emit(token.Assign, start)
	case '(':
		return lx.emit(token.LParen, start)
	case ')':
		return lx.emit(token.RParen, start)
	case '{':
		lx.braces = append(lx.braces, false)
		return lx.emit(token.LBrace, start)
	case '}':
		if n := len(lx.braces); n > 0 {
			lx.braces = lx.braces[:n-1]
		}
		return lx.emit(token.RBrace, start)
	case '[':
		return lx.emit(token.LBracket, start)
	case ']':
		return lx.emit(token.RBracket, start)
	case ';':
		return lx.emit(token.Semicolon, start)
	case ':':
		return lx.emit(token.Colon, start)
	case ',':
		return lx.emit(token.Comma, start)
	case '.':
		return lx.emit(token.Dot, start)
	case '?':
		return lx.emit(token.Question, start)
	case '|':
		return lx.emit(token.Pipe, start)
	case '&':
		return lx.emit(token.Amp, start)
	case '@':
		return lx.emit(token.At, start)
	}

	// swallow the rest of a multi-byte UTF-8 sequence so the error covers one character
	for !lx.cursor.EOF() && lx.cursor.Peek()&0xC0 == 0x80 {
		lx.cursor.Bump()
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnknownChar, tok.Span, "Unexpected character '"+tok.Text+"'")
	return tok
}
