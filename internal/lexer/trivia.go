package lexer

import (
	"upvalcheck/internal/diag"
	"upvalcheck/internal/token"
)

// collectLeadingTrivia gathers whitespace and comments before a significant token.
//   - runs of ' ', '\t', '\r', '\v', '\f' coalesce into one TriviaSpace
//   - runs of '\n' coalesce into one TriviaNewline
//   - "--" up to the end of line is TriviaLineComment
//   - "--[[ ]]" and "--[==[ ]==]" are TriviaBlockComment
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = lx.hold[:0]
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		b := lx.cursor.Peek()

		switch {
		case isSpace(b):
			for isSpace(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaSpace, start)
			continue

		case b == '\n':
			for lx.cursor.Peek() == '\n' {
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaNewline, start)
			continue

		case b == '-' && lx.cursor.PeekAt(1) == '-':
			lx.scanComment()
			continue
		}
		break
	}
}

func (lx *Lexer) pushTrivia(kind token.TriviaKind, start Mark) {
	sp := lx.cursor.SpanFrom(start)
	lx.hold = append(lx.hold, token.Trivia{Kind: kind, Span: sp, Text: lx.text(sp)})
}

func (lx *Lexer) scanComment() {
	start := lx.cursor.Mark()
	lx.cursor.Off += 2 // "--"

	if lx.cursor.Peek() == '[' {
		open := lx.cursor.Mark()
		if level, ok := lx.readLongOpen(); ok {
			if !lx.readLongBody(level) {
				lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unfinished long comment")
			}
			lx.pushTrivia(token.TriviaBlockComment, start)
			return
		}
		// "--[" or "--[=" without a second bracket is an ordinary line comment
		lx.cursor.Reset(open)
	}

	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.cursor.Bump()
	}
	lx.pushTrivia(token.TriviaLineComment, start)
}
