package parser

import (
	"upvalcheck/internal/diag"
	"upvalcheck/internal/token"
)

// Type annotations are parsed for syntax only; nothing is kept.
// Names inside typeof(...) resolve against the scope but are not part of the tree.

func (p *Parser) parseOptionalTypeAnnotation() {
	if !p.at(token.Colon) {
		return
	}
	colon := p.advance()
	p.requireFeature(FeatureTypes, colon.Span, "type annotation")
	p.parseType()
}

func (p *Parser) parseType() {
	if !p.enter() {
		p.leave()
		return
	}
	defer p.leave()

	if p.atAny(token.Pipe, token.Amp) {
		p.advance()
	}
	p.parseSimpleType()
	p.parseTypeTail()
}

// parseTypeTail handles the optional marker and union or intersection parts.
func (p *Parser) parseTypeTail() {
	for {
		switch {
		case p.at(token.Question):
			p.advance()
		case p.atAny(token.Pipe, token.Amp):
			p.advance()
			p.parseSimpleType()
		default:
			return
		}
	}
}

func (p *Parser) parseSimpleType() {
	tok := p.peek()
	switch tok.Kind {
	case token.KwNil, token.KwTrue, token.KwFalse, token.String, token.LongString:
		p.advance()
	case token.Name:
		p.advance()
		if tok.Text == token.CtxTypeof && p.at(token.LParen) {
			open := p.advance()
			p.parseExpr()
			p.expectMatch(token.RParen, open, diag.SynUnclosedParen)
			return
		}
		p.parseNamedTypeRest()
	case token.LBrace:
		p.parseTableType()
	case token.LParen, token.Lt:
		p.parseFunctionType()
	case token.Dots:
		p.advance()
		p.parseSimpleType()
	default:
		p.err(diag.SynExpectType, "Expected type, got "+describe(tok))
	}
}

// parseNamedTypeRest parses ".Name", "<args>" and a trailing "..." after a type name.
func (p *Parser) parseNamedTypeRest() {
	for p.eat(token.Dot) {
		if _, ok := p.expectName("type name"); !ok {
			return
		}
	}
	if p.at(token.Lt) {
		open := p.advance()
		for !p.at(token.Gt) && !p.at(token.EOF) {
			p.parseType()
			if !p.eat(token.Comma) {
				break
			}
		}
		p.expectMatch(token.Gt, open, diag.SynUnexpectedToken)
	}
	p.eat(token.Dots)
}

func (p *Parser) parseTableType() {
	open := p.advance()
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		switch {
		case p.at(token.LBracket):
			lb := p.advance()
			if p.atAny(token.String, token.LongString) {
				p.advance()
			} else {
				p.parseType()
			}
			p.expectMatch(token.RBracket, lb, diag.SynUnclosedBracket)
			p.expect(token.Colon, diag.SynUnexpectedToken, "table type")
			p.parseType()
		case p.at(token.Name):
			name := p.advance()
			if name.IsName("read", "write") && p.atAny(token.Name, token.LBracket) {
				if p.at(token.LBracket) {
					lb := p.advance()
					p.parseType()
					p.expectMatch(token.RBracket, lb, diag.SynUnclosedBracket)
				} else {
					p.advance()
				}
			}
			if p.eat(token.Colon) {
				p.parseType()
				break
			}
			// array shorthand {T}
			p.parseNamedTypeRest()
			p.parseTypeTail()
		default:
			p.parseType()
		}
		if !p.atAny(token.Comma, token.Semicolon) {
			break
		}
		p.advance()
	}
	p.expectMatch(token.RBrace, open, diag.SynUnclosedBrace)
}

// parseFunctionType parses "<T>(A, name: B, ...C) -> R" or a parenthesized type.
func (p *Parser) parseFunctionType() {
	generic := false
	if p.at(token.Lt) {
		p.parseGenericDecl()
		generic = true
	}
	open, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "function type")
	if !ok {
		return
	}
	for !p.at(token.RParen) && !p.at(token.EOF) {
		if p.at(token.Name) {
			p.advance()
			if p.eat(token.Colon) {
				p.parseType()
			} else {
				p.parseNamedTypeRest()
				p.parseTypeTail()
			}
		} else {
			p.parseType()
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expectMatch(token.RParen, open, diag.SynUnclosedParen)

	if p.eat(token.Arrow) {
		p.parseType()
	} else if generic {
		p.err(diag.SynExpectType, "Expected '->' after generic type parameters, got "+describe(p.peek()))
	}
}

// parseGenericDecl parses "<T, U..., V = number>".
func (p *Parser) parseGenericDecl() {
	open := p.advance()
	for !p.at(token.Gt) && !p.at(token.EOF) {
		if _, ok := p.expectName("generic type name"); !ok {
			break
		}
		p.eat(token.Dots)
		if p.eat(token.Assign) {
			p.parseType()
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expectMatch(token.Gt, open, diag.SynUnexpectedToken)
}
