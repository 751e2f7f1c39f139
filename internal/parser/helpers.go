package parser

import (
	"fmt"

	"upvalcheck/internal/diag"
	"upvalcheck/internal/source"
	"upvalcheck/internal/token"
)

// advance consumes the next token and records its span.
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
	}
	return tok
}

// getDiagnosticSpan points at the next token, or right after the last one at EOF.
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.lx.Peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

// describe renders a token the way syntax errors quote it.
func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "<eof>"
	case token.Invalid:
		if tok.Text == "" {
			return "<invalid>"
		}
	}
	return "'" + tok.Text + "'"
}

func quoteKind(k token.Kind) string {
	switch k {
	case token.Name:
		return "identifier"
	case token.EOF:
		return "<eof>"
	}
	return "'" + k.String() + "'"
}

// expect consumes a token of kind k or reports
// "Expected <k> when parsing <context>, got <tok>".
func (p *Parser) expect(k token.Kind, code diag.Code, context string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	diagSpan := p.getDiagnosticSpan()
	p.report(code, diag.SevError, diagSpan, fmt.Sprintf("Expected %s when parsing %s, got %s", quoteKind(k), context, describe(p.peek())))
	return token.Token{Kind: token.Invalid, Span: diagSpan}, false
}

// expectMatch consumes the token closing open, e.g. 'end' for 'function'.
func (p *Parser) expectMatch(k token.Kind, open token.Token, code diag.Code) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	where := fmt.Sprintf("offset %d", open.Span.Start)
	if p.fs != nil {
		openPos := p.fs.Position(open.Span)
		curPos := p.fs.Position(p.peek().Span)
		if openPos.Line == curPos.Line {
			where = fmt.Sprintf("column %d", openPos.Col)
		} else {
			where = fmt.Sprintf("line %d", openPos.Line)
		}
	}
	sp := p.getDiagnosticSpan()
	p.reportWith(code, diag.SevError, sp,
		fmt.Sprintf("Expected %s (to close '%s' at %s), got %s", quoteKind(k), open.Text, where, describe(p.peek())),
		[]diag.Note{{Span: open.Span, Msg: fmt.Sprintf("'%s' opened here", open.Text)}},
		[]diag.Fix{closeFix(k, sp, p.at(token.EOF))})
	return false
}

// closeFix inserts the missing closing token at sp.
func closeFix(k token.Kind, sp source.Span, atEOF bool) diag.Fix {
	text := k.String() + " "
	if atEOF {
		text = " " + k.String()
	}
	return diag.Fix{
		Title: "insert " + quoteKind(k),
		Edits: []diag.FixEdit{{Span: source.Span{File: sp.File, Start: sp.Start, End: sp.Start}, NewText: text}},
	}
}

// expectName consumes an identifier.
func (p *Parser) expectName(context string) (token.Token, bool) {
	return p.expect(token.Name, diag.SynExpectIdentifier, context)
}

func (p *Parser) err(code diag.Code, msg string) bool {
	return p.report(code, diag.SevError, p.getDiagnosticSpan(), msg)
}

func (p *Parser) errAt(code diag.Code, sp source.Span, msg string) bool {
	return p.report(code, diag.SevError, sp, msg)
}

// report emits a diagnostic unless parsing has bailed out.
// Reaching the error budget makes this the last one.
func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) bool {
	return p.reportWith(code, sev, sp, msg, nil, nil)
}

func (p *Parser) reportWith(code diag.Code, sev diag.Severity, sp source.Span, msg string, notes []diag.Note, fixes []diag.Fix) bool {
	if p.bail {
		return false
	}
	if sev == diag.SevError {
		p.opts.CurrentErrors++
	}
	if p.opts.Enough() {
		p.bail = true
	}
	if p.opts.Reporter == nil {
		return false
	}
	p.opts.Reporter.Report(code, sev, sp, msg, notes, fixes)
	return true
}
