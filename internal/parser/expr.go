package parser

import (
	"upvalcheck/internal/ast"
	"upvalcheck/internal/diag"
	"upvalcheck/internal/source"
	"upvalcheck/internal/token"
)

type priority struct{ left, right int }

const unaryPriority = 8

var binaryOps = map[token.Kind]ast.BinaryOp{
	token.Plus:       ast.BinAdd,
	token.Minus:      ast.BinSub,
	token.Star:       ast.BinMul,
	token.Slash:      ast.BinDiv,
	token.SlashSlash: ast.BinFloorDiv,
	token.Percent:    ast.BinMod,
	token.Caret:      ast.BinPow,
	token.Concat:     ast.BinConcat,
	token.EqEq:       ast.BinEq,
	token.NotEq:      ast.BinNe,
	token.Lt:         ast.BinLt,
	token.LtEq:       ast.BinLe,
	token.Gt:         ast.BinGt,
	token.GtEq:       ast.BinGe,
	token.KwAnd:      ast.BinAnd,
	token.KwOr:       ast.BinOr,
}

var binaryPriority = map[ast.BinaryOp]priority{
	ast.BinAdd: {6, 6}, ast.BinSub: {6, 6},
	ast.BinMul: {7, 7}, ast.BinDiv: {7, 7}, ast.BinFloorDiv: {7, 7}, ast.BinMod: {7, 7},
	ast.BinPow:    {10, 9},
	ast.BinConcat: {5, 4},
	ast.BinEq:     {3, 3}, ast.BinNe: {3, 3},
	ast.BinLt: {3, 3}, ast.BinLe: {3, 3}, ast.BinGt: {3, 3}, ast.BinGe: {3, 3},
	ast.BinAnd: {2, 2},
	ast.BinOr:  {1, 1},
}

var unaryOps = map[token.Kind]ast.UnaryOp{
	token.Minus: ast.UnaryNeg,
	token.KwNot: ast.UnaryNot,
	token.Hash:  ast.UnaryLen,
}

func (p *Parser) parseExpr() ast.ExprID {
	return p.parseSubExpr(0)
}

func (p *Parser) parseExprList() []ast.ExprID {
	exprs := []ast.ExprID{p.parseExpr()}
	for p.eat(token.Comma) {
		exprs = append(exprs, p.parseExpr())
	}
	return exprs
}

func (p *Parser) errorExpr() ast.ExprID {
	return p.arenas.Exprs.NewSimple(ast.ExprError, p.getDiagnosticSpan())
}

func (p *Parser) exprSpan(id ast.ExprID) source.Span {
	return p.arenas.Exprs.Get(id).Span
}

// parseSubExpr climbs binary operators binding tighter than limit.
func (p *Parser) parseSubExpr(limit int) ast.ExprID {
	if !p.enter() {
		p.leave()
		return p.errorExpr()
	}
	defer p.leave()

	start := p.peek().Span
	var left ast.ExprID
	if op, ok := unaryOps[p.peek().Kind]; ok {
		p.advance()
		operand := p.parseSubExpr(unaryPriority)
		left = p.arenas.Exprs.NewUnary(p.spanFrom(start), op, operand)
	} else {
		left = p.parseAssertionTail(p.parseSimpleExpr())
	}
	return p.parseBinaryTail(start, left, limit)
}

func (p *Parser) parseBinaryTail(start source.Span, left ast.ExprID, limit int) ast.ExprID {
	for {
		op, ok := binaryOps[p.peek().Kind]
		if !ok {
			return left
		}
		prio := binaryPriority[op]
		if prio.left <= limit {
			return left
		}
		opTok := p.advance()
		if op == ast.BinFloorDiv {
			p.requireFeature(FeatureFloorDiv, opTok.Span, "floor division")
		}
		right := p.parseSubExpr(prio.right)
		left = p.arenas.Exprs.NewBinary(p.spanFrom(start), op, left, right)
	}
}

// parseExprFromPrefix continues an expression whose leading name was already consumed.
func (p *Parser) parseExprFromPrefix(prefix ast.ExprID) ast.ExprID {
	start := p.exprSpan(prefix)
	left := p.parseAssertionTail(p.parseSuffixes(prefix))
	return p.parseBinaryTail(start, left, 0)
}

// parseAssertionTail handles "expr :: T".
func (p *Parser) parseAssertionTail(expr ast.ExprID) ast.ExprID {
	for p.at(token.ColonColon) {
		tok := p.advance()
		p.requireFeature(FeatureTypes, tok.Span, "type assertion")
		p.parseType()
		expr = p.arenas.Exprs.NewTypeAssertion(p.spanFrom(p.exprSpan(expr)), expr)
	}
	return expr
}

func (p *Parser) parseSimpleExpr() ast.ExprID {
	tok := p.peek()
	switch tok.Kind {
	case token.KwNil:
		p.advance()
		return p.arenas.Exprs.NewSimple(ast.ExprNil, tok.Span)
	case token.KwTrue, token.KwFalse:
		p.advance()
		return p.arenas.Exprs.NewLiteral(ast.ExprBool, tok.Span, p.intern(tok.Text))
	case token.Number:
		p.advance()
		return p.arenas.Exprs.NewLiteral(ast.ExprNumber, tok.Span, p.intern(tok.Text))
	case token.String, token.LongString:
		p.advance()
		return p.arenas.Exprs.NewLiteral(ast.ExprString, tok.Span, p.intern(tok.Text))
	case token.InterpSimple:
		p.advance()
		p.requireFeature(FeatureInterpString, tok.Span, "string interpolation")
		return p.arenas.Exprs.NewLiteral(ast.ExprString, tok.Span, p.intern(tok.Text))
	case token.InterpBegin:
		return p.parseInterpString()
	case token.Dots:
		p.advance()
		if !p.currentFunc().vararg {
			p.errAt(diag.SynVarargOutsideVararg, tok.Span, "Cannot use '...' outside of a vararg function")
		}
		return p.arenas.Exprs.NewSimple(ast.ExprVarargs, tok.Span)
	case token.LBrace:
		return p.parseTable()
	case token.KwFunction:
		p.advance()
		return p.parseFunctionBody(tok, bodyInfo{})
	case token.KwIf:
		ifTok := p.advance()
		p.requireFeature(FeatureIfExpr, ifTok.Span, "if-then-else expression")
		return p.parseIfElseExpr(ifTok)
	}
	return p.parsePrimaryExpr()
}

func (p *Parser) parsePrimaryExpr() ast.ExprID {
	return p.parseSuffixes(p.parsePrefixExpr())
}

func (p *Parser) parsePrefixExpr() ast.ExprID {
	tok := p.peek()
	switch tok.Kind {
	case token.Name:
		p.advance()
		return p.resolveName(tok)
	case token.LParen:
		open := p.advance()
		inner := p.parseExpr()
		p.expectMatch(token.RParen, open, diag.SynUnclosedParen)
		return p.arenas.Exprs.NewGroup(p.spanFrom(open.Span), inner)
	case token.Invalid:
		// the lexer has reported it
		return p.errorExpr()
	}
	p.err(diag.SynExpectExpression, "Expected identifier when parsing expression, got "+describe(tok))
	return p.errorExpr()
}

// parseSuffixes applies field access, indexing and calls to prefix.
func (p *Parser) parseSuffixes(expr ast.ExprID) ast.ExprID {
	start := p.exprSpan(expr)
	for {
		tok := p.peek()
		switch tok.Kind {
		case token.Dot:
			p.advance()
			name, ok := p.expectName("field name")
			if !ok {
				return expr
			}
			expr = p.arenas.Exprs.NewIndexName(p.spanFrom(start), expr, p.intern(name.Text), name.Span, false)
		case token.LBracket:
			open := p.advance()
			index := p.parseExpr()
			p.expectMatch(token.RBracket, open, diag.SynUnclosedBracket)
			expr = p.arenas.Exprs.NewIndex(p.spanFrom(start), expr, index)
		case token.Colon:
			p.advance()
			name, ok := p.expectName("method name")
			if !ok {
				return expr
			}
			method := p.arenas.Exprs.NewIndexName(p.spanFrom(start), expr, p.intern(name.Text), name.Span, true)
			args := p.parseCallArgs()
			expr = p.arenas.Exprs.NewCall(p.spanFrom(start), method, args, true)
		case token.LParen:
			if tok.HasNewlineBefore() {
				p.errAt(diag.SynAmbiguousCall, tok.Span, "Ambiguous syntax: this looks like an argument list for a function call, but could also be a start of new statement; use ';' to separate statements")
			}
			args := p.parseCallArgs()
			expr = p.arenas.Exprs.NewCall(p.spanFrom(start), expr, args, false)
		case token.String, token.LongString, token.LBrace:
			args := p.parseCallArgs()
			expr = p.arenas.Exprs.NewCall(p.spanFrom(start), expr, args, false)
		default:
			return expr
		}
	}
}

func (p *Parser) parseCallArgs() []ast.ExprID {
	tok := p.peek()
	switch tok.Kind {
	case token.LParen:
		open := p.advance()
		if p.eat(token.RParen) {
			return nil
		}
		args := p.parseExprList()
		p.expectMatch(token.RParen, open, diag.SynUnclosedParen)
		return args
	case token.LBrace:
		return []ast.ExprID{p.parseTable()}
	case token.String, token.LongString:
		p.advance()
		return []ast.ExprID{p.arenas.Exprs.NewLiteral(ast.ExprString, tok.Span, p.intern(tok.Text))}
	}
	p.err(diag.SynUnexpectedToken, "Expected '(', '{' or <string> when parsing function call, got "+describe(tok))
	return nil
}

func (p *Parser) parseTable() ast.ExprID {
	open := p.advance()
	var items []ast.TableItem
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		switch {
		case p.at(token.LBracket):
			lb := p.advance()
			key := p.parseExpr()
			p.expectMatch(token.RBracket, lb, diag.SynUnclosedBracket)
			p.expect(token.Assign, diag.SynExpectAssign, "table field")
			value := p.parseExpr()
			items = append(items, ast.TableItem{Kind: ast.TableItemGeneral, Key: key, Value: value})
		case p.at(token.Name):
			nameTok := p.advance()
			if p.eat(token.Assign) {
				name := p.intern(nameTok.Text)
				value := p.parseExpr()
				p.nameFunction(value, name)
				items = append(items, ast.TableItem{Kind: ast.TableItemRecord, Name: name, Value: value})
				break
			}
			value := p.parseExprFromPrefix(p.resolveName(nameTok))
			items = append(items, ast.TableItem{Kind: ast.TableItemList, Value: value})
		default:
			items = append(items, ast.TableItem{Kind: ast.TableItemList, Value: p.parseExpr()})
		}
		if !p.atAny(token.Comma, token.Semicolon) {
			break
		}
		p.advance()
	}
	p.expectMatch(token.RBrace, open, diag.SynUnclosedBrace)
	return p.arenas.Exprs.NewTable(p.spanFrom(open.Span), items)
}

// parseIfElseExpr parses the rest of "if c then a [elseif ...] else b".
func (p *Parser) parseIfElseExpr(ifTok token.Token) ast.ExprID {
	cond := p.parseExpr()
	p.expect(token.KwThen, diag.SynExpectThen, "if then else expression")
	then := p.parseExpr()

	var els ast.ExprID
	if p.at(token.KwElseif) {
		els = p.parseIfElseExpr(p.advance())
	} else if _, ok := p.expect(token.KwElse, diag.SynUnexpectedToken, "if then else expression"); ok {
		els = p.parseExpr()
	} else {
		els = p.errorExpr()
	}
	return p.arenas.Exprs.NewIfElse(p.spanFrom(ifTok.Span), cond, then, els)
}

func (p *Parser) parseInterpString() ast.ExprID {
	begin := p.advance()
	p.requireFeature(FeatureInterpString, begin.Span, "string interpolation")

	segments := []source.StringID{p.intern(begin.Text)}
	var exprs []ast.ExprID
	for {
		if p.atAny(token.InterpMid, token.InterpEnd) {
			p.err(diag.SynExpectExpression, "Malformed interpolated string, expected expression inside '{}'")
			exprs = append(exprs, p.errorExpr())
		} else {
			exprs = append(exprs, p.parseExpr())
		}

		tok := p.peek()
		switch tok.Kind {
		case token.InterpMid:
			p.advance()
			segments = append(segments, p.intern(tok.Text))
			continue
		case token.InterpEnd:
			p.advance()
			segments = append(segments, p.intern(tok.Text))
		default:
			p.err(diag.SynUnexpectedToken, "Malformed interpolated string, expected '}' after expression, got "+describe(tok))
		}
		return p.arenas.Exprs.NewInterpString(p.spanFrom(begin.Span), segments, exprs)
	}
}

type bodyInfo struct {
	debugName source.StringID
	method    bool
}

// parseFunctionBody parses "(params) body end" after the function keyword.
// The closure is allocated before its body so nested references see its depth.
func (p *Parser) parseFunctionBody(open token.Token, info bodyInfo) ast.ExprID {
	fn := p.arenas.Exprs.NewFunction(open.Span, ast.ExprFunctionData{
		Depth:     p.nextDepth(),
		DebugName: info.debugName,
	})
	p.pushFunction(fn, false)
	p.openBlock()

	self := ast.NoLocalID
	if info.method {
		self = p.declareLocal(token.Token{Kind: token.Name, Text: "self", Span: open.Span}, ast.LocalSelf)
		p.activate(self)
	}

	if p.at(token.Lt) {
		lt := p.peek()
		p.requireFeature(FeatureTypes, lt.Span, "generic function")
		p.parseGenericDecl()
	}

	var params []ast.LocalID
	vararg := false
	if lparen, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "function"); ok {
		if !p.at(token.RParen) {
			for {
				if p.at(token.Dots) {
					p.advance()
					vararg = true
					p.parseOptionalTypeAnnotation()
					break
				}
				name, ok := p.expectName("function parameter")
				if !ok {
					break
				}
				params = append(params, p.declareLocal(name, ast.LocalParam))
				p.parseOptionalTypeAnnotation()
				if !p.eat(token.Comma) {
					break
				}
			}
		}
		p.expectMatch(token.RParen, lparen, diag.SynUnclosedParen)
	}
	p.activate(params...)
	p.currentFunc().vararg = vararg
	p.parseOptionalTypeAnnotation()

	start := p.peek().Span
	stmts := p.parseStatementList()
	body := p.arenas.Stmts.NewBlock(p.spanFrom(start), stmts)
	p.expectMatch(token.KwEnd, open, diag.SynExpectEnd)

	p.closeBlock()
	p.popFunction()

	p.arenas.Exprs.Get(fn).Span = p.spanFrom(open.Span)
	data, _ := p.arenas.Exprs.Function(fn)
	data.Self = self
	data.Params = params
	data.Vararg = vararg
	data.Body = body
	return fn
}
