package parser

import (
	"upvalcheck/internal/ast"
	"upvalcheck/internal/diag"
	"upvalcheck/internal/source"
	"upvalcheck/internal/token"
)

// parseStatementList parses statements until a block terminator.
func (p *Parser) parseStatementList() []ast.StmtID {
	var stmts []ast.StmtID
	for !p.peek().Kind.BlockEnd() && !p.bail {
		if p.ctx != nil && p.ctx.Err() != nil {
			p.bail = true
			break
		}
		if p.eat(token.Semicolon) {
			continue
		}
		before := p.peek().Span
		stmt, last := p.parseStatement()
		if stmt.IsValid() {
			stmts = append(stmts, stmt)
		}
		p.eat(token.Semicolon)
		if last {
			break
		}
		if p.peek().Span == before && !p.at(token.EOF) {
			// nothing consumed, the error is already reported
			p.advance()
		}
	}
	return stmts
}

// parseStatement returns the statement and whether it must end its block.
func (p *Parser) parseStatement() (ast.StmtID, bool) {
	if !p.enter() {
		p.leave()
		return ast.NoStmtID, true
	}
	defer p.leave()

	tok := p.peek()
	switch tok.Kind {
	case token.KwIf:
		return p.parseIf(), false
	case token.KwWhile:
		return p.parseWhile(), false
	case token.KwDo:
		return p.parseDo(), false
	case token.KwFor:
		return p.parseFor(), false
	case token.KwRepeat:
		return p.parseRepeat(), false
	case token.KwFunction:
		return p.parseFunctionStat(), false
	case token.KwLocal:
		return p.parseLocal(), false
	case token.KwReturn:
		return p.parseReturn(), true
	case token.KwBreak:
		return p.parseBreak(), true
	case token.At:
		return p.parseAttributed(), false
	case token.Name:
		switch tok.Text {
		case token.CtxContinue, token.CtxType, token.CtxExport:
			return p.parseContextual()
		}
	}
	return p.parseExprStatement(), false
}

// parseContextual handles statements introduced by a contextual keyword.
// The word is consumed first; if it turns out to be a plain name the
// statement continues as an expression.
func (p *Parser) parseContextual() (ast.StmtID, bool) {
	word := p.advance()
	switch word.Text {
	case token.CtxContinue:
		if p.feature(FeatureContinue) && !p.continuesExpression() {
			return p.parseContinue(word), true
		}
	case token.CtxType:
		if p.atAny(token.Name, token.KwFunction) {
			return p.parseTypeAlias(word, false), false
		}
	case token.CtxExport:
		if p.peek().IsName(token.CtxType) {
			p.advance()
			return p.parseTypeAlias(word, true), false
		}
	}
	expr := p.parseSuffixes(p.resolveName(word))
	return p.parseExprStatementFrom(expr), false
}

// continuesExpression reports whether the token after "continue" makes it a name.
func (p *Parser) continuesExpression() bool {
	next := p.peek()
	switch next.Kind {
	case token.Assign, token.Comma, token.LParen, token.Dot, token.LBracket,
		token.Colon, token.String, token.LongString, token.LBrace:
		return true
	}
	return next.Kind.IsCompoundAssign()
}

// skipUntil drops tokens up to k or the end of the enclosing block.
func (p *Parser) skipUntil(k token.Kind) {
	for !p.at(k) && !p.peek().Kind.BlockEnd() {
		p.advance()
	}
}

func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

// spanFrom covers start up to the last consumed token.
func (p *Parser) spanFrom(start source.Span) source.Span {
	if p.lastSpan.End <= start.Start || p.lastSpan.File != start.File {
		return source.Span{File: start.File, Start: start.Start, End: start.Start}
	}
	return start.Cover(p.lastSpan)
}

// parseBlock parses a statement list in its own scope.
func (p *Parser) parseBlock() ast.StmtID {
	start := p.peek().Span
	p.openBlock()
	stmts := p.parseStatementList()
	p.closeBlock()
	return p.arenas.Stmts.NewBlock(p.spanFrom(start), stmts)
}

func (p *Parser) parseLoopBody() ast.StmtID {
	fn := p.currentFunc()
	fn.loops++
	body := p.parseBlock()
	p.currentFunc().loops--
	return body
}

func (p *Parser) parseIf() ast.StmtID {
	ifTok := p.advance()
	stmt := p.parseIfArm(ifTok)
	p.expectMatch(token.KwEnd, ifTok, diag.SynExpectEnd)
	p.arenas.Stmts.Get(stmt).Span = p.spanFrom(ifTok.Span)
	return stmt
}

// parseIfArm parses "cond then block [elseif ...|else block]" without the closing end.
func (p *Parser) parseIfArm(start token.Token) ast.StmtID {
	cond := p.parseExpr()
	p.expect(token.KwThen, diag.SynExpectThen, "if statement")
	then := p.parseBlock()

	els := ast.NoStmtID
	switch {
	case p.at(token.KwElseif):
		els = p.parseIfArm(p.advance())
	case p.at(token.KwElse):
		p.advance()
		els = p.parseBlock()
	}
	return p.arenas.Stmts.NewIf(p.spanFrom(start.Span), cond, then, els)
}

func (p *Parser) parseWhile() ast.StmtID {
	whileTok := p.advance()
	cond := p.parseExpr()
	p.expect(token.KwDo, diag.SynExpectDo, "while loop")
	body := p.parseLoopBody()
	p.expectMatch(token.KwEnd, whileTok, diag.SynExpectEnd)
	return p.arenas.Stmts.NewWhile(p.spanFrom(whileTok.Span), cond, body)
}

func (p *Parser) parseDo() ast.StmtID {
	doTok := p.advance()
	body := p.parseBlock()
	p.expectMatch(token.KwEnd, doTok, diag.SynExpectEnd)
	return p.arenas.Stmts.NewDo(p.spanFrom(doTok.Span), body)
}

// parseRepeat keeps the body scope open while parsing the until condition.
func (p *Parser) parseRepeat() ast.StmtID {
	repeatTok := p.advance()
	start := p.peek().Span

	p.openBlock()
	p.currentFunc().loops++
	stmts := p.parseStatementList()
	p.currentFunc().loops--
	body := p.arenas.Stmts.NewBlock(p.spanFrom(start), stmts)

	cond := ast.NoExprID
	if p.expectMatch(token.KwUntil, repeatTok, diag.SynExpectEnd) {
		cond = p.parseExpr()
	}
	p.closeBlock()
	return p.arenas.Stmts.NewRepeat(p.spanFrom(repeatTok.Span), body, cond)
}

func (p *Parser) parseFor() ast.StmtID {
	forTok := p.advance()
	first, ok := p.expectName("for loop")
	if !ok {
		return p.arenas.Stmts.NewSimple(ast.StmtError, p.spanFrom(forTok.Span))
	}
	p.parseOptionalTypeAnnotation()

	if p.eat(token.Assign) {
		from := p.parseExpr()
		p.expect(token.Comma, diag.SynForBadHeader, "for loop")
		to := p.parseExpr()
		step := ast.NoExprID
		if p.eat(token.Comma) {
			step = p.parseExpr()
		}
		p.expect(token.KwDo, diag.SynExpectDo, "for loop")

		p.openBlock()
		v := p.declareLocal(first, ast.LocalLoopVar)
		p.activate(v)
		body := p.parseLoopBody()
		p.closeBlock()
		p.expectMatch(token.KwEnd, forTok, diag.SynExpectEnd)

		return p.arenas.Stmts.NewNumericFor(p.spanFrom(forTok.Span), ast.StmtNumericForData{
			Var:  v,
			From: from,
			To:   to,
			Step: step,
			Body: body,
		})
	}

	names := []token.Token{first}
	for p.eat(token.Comma) {
		name, ok := p.expectName("for loop")
		if !ok {
			break
		}
		names = append(names, name)
		p.parseOptionalTypeAnnotation()
	}
	if !p.at(token.KwIn) {
		p.err(diag.SynForBadHeader, "Expected '=' or 'in' when parsing for loop, got "+describe(p.peek()))
		p.skipUntil(token.KwDo)
		if !p.eat(token.KwDo) {
			return p.arenas.Stmts.NewSimple(ast.StmtError, p.spanFrom(forTok.Span))
		}
		body := p.parseLoopBody()
		p.expectMatch(token.KwEnd, forTok, diag.SynExpectEnd)
		return p.arenas.Stmts.NewGenericFor(p.spanFrom(forTok.Span), nil, nil, body)
	}
	p.advance()
	values := p.parseExprList()
	p.expect(token.KwDo, diag.SynExpectDo, "for loop")

	p.openBlock()
	vars := make([]ast.LocalID, 0, len(names))
	for _, name := range names {
		vars = append(vars, p.declareLocal(name, ast.LocalLoopVar))
	}
	p.activate(vars...)
	body := p.parseLoopBody()
	p.closeBlock()
	p.expectMatch(token.KwEnd, forTok, diag.SynExpectEnd)

	return p.arenas.Stmts.NewGenericFor(p.spanFrom(forTok.Span), vars, values, body)
}

// parseFunctionStat parses "function a.b:c(...) end".
func (p *Parser) parseFunctionStat() ast.StmtID {
	fnTok := p.advance()
	nameTok, ok := p.expectName("function name")
	if !ok {
		return p.arenas.Stmts.NewSimple(ast.StmtError, p.spanFrom(fnTok.Span))
	}
	target := p.resolveName(nameTok)
	debugName := nameTok.Text
	method := false
	for p.atAny(token.Dot, token.Colon) {
		sep := p.advance()
		field, ok := p.expectName("field name")
		if !ok {
			break
		}
		method = sep.Kind == token.Colon
		target = p.arenas.Exprs.NewIndexName(nameTok.Span.Cover(field.Span), target, p.intern(field.Text), field.Span, method)
		debugName = field.Text
		if method {
			break
		}
	}

	fn := p.parseFunctionBody(fnTok, bodyInfo{debugName: p.intern(debugName), method: method})
	return p.arenas.Stmts.NewFunction(p.spanFrom(fnTok.Span), target, fn)
}

func (p *Parser) parseLocal() ast.StmtID {
	localTok := p.advance()
	if p.at(token.KwFunction) {
		return p.parseLocalFunction(localTok)
	}

	var vars []ast.LocalID
	for {
		name, ok := p.expectName("variable name")
		if !ok {
			break
		}
		vars = append(vars, p.declareLocal(name, ast.LocalVar))
		p.parseOptionalTypeAnnotation()
		if !p.eat(token.Comma) {
			break
		}
	}

	var values []ast.ExprID
	if p.eat(token.Assign) {
		values = p.parseExprList()
	}
	p.activate(vars...)

	for i := range min(len(vars), len(values)) {
		p.nameFunction(values[i], p.arenas.Locals.Get(vars[i]).Name)
	}
	return p.arenas.Stmts.NewLocal(p.spanFrom(localTok.Span), vars, values)
}

// parseLocalFunction makes the name visible before the body so the
// function can call itself.
func (p *Parser) parseLocalFunction(localTok token.Token) ast.StmtID {
	fnTok := p.advance()
	nameTok, ok := p.expectName("variable name")
	if !ok {
		return p.arenas.Stmts.NewSimple(ast.StmtError, p.spanFrom(localTok.Span))
	}
	name := p.declareLocal(nameTok, ast.LocalFunction)
	p.activate(name)
	fn := p.parseFunctionBody(fnTok, bodyInfo{debugName: p.intern(nameTok.Text)})
	return p.arenas.Stmts.NewLocalFunction(p.spanFrom(localTok.Span), name, fn)
}

var knownAttributes = map[string]bool{
	"checked":    true,
	"native":     true,
	"deprecated": true,
}

// parseAttributed parses "@attr function" and "@attr local function".
func (p *Parser) parseAttributed() ast.StmtID {
	start := p.peek().Span
	for p.at(token.At) {
		at := p.advance()
		p.requireFeature(FeatureAttributes, at.Span, "attribute")
		name, ok := p.expectName("attribute")
		if ok && !knownAttributes[name.Text] {
			p.errAt(diag.SynUnexpectedToken, at.Span.Cover(name.Span), "Invalid attribute '@"+name.Text+"'")
		}
	}
	switch {
	case p.at(token.KwFunction):
		return p.parseFunctionStat()
	case p.at(token.KwLocal):
		localTok := p.advance()
		if p.at(token.KwFunction) {
			return p.parseLocalFunction(localTok)
		}
	}
	p.err(diag.SynUnexpectedToken, "Expected 'function' or 'local function' after attribute, got "+describe(p.peek()))
	return p.arenas.Stmts.NewSimple(ast.StmtError, p.spanFrom(start))
}

func (p *Parser) parseReturn() ast.StmtID {
	retTok := p.advance()
	var values []ast.ExprID
	if !p.peek().Kind.BlockEnd() && !p.at(token.Semicolon) {
		values = p.parseExprList()
	}
	return p.arenas.Stmts.NewReturn(p.spanFrom(retTok.Span), values)
}

func (p *Parser) parseBreak() ast.StmtID {
	tok := p.advance()
	if p.currentFunc().loops == 0 {
		p.errAt(diag.SynBreakOutsideLoop, tok.Span, "break statement must be inside a loop")
	}
	return p.arenas.Stmts.NewSimple(ast.StmtBreak, tok.Span)
}

func (p *Parser) parseContinue(tok token.Token) ast.StmtID {
	if p.currentFunc().loops == 0 {
		p.errAt(diag.SynContinueOutsideLoop, tok.Span, "continue statement must be inside a loop")
	}
	return p.arenas.Stmts.NewSimple(ast.StmtContinue, tok.Span)
}

// parseTypeAlias parses the rest of "type Name<...> = T" or "type function".
func (p *Parser) parseTypeAlias(start token.Token, exported bool) ast.StmtID {
	p.requireFeature(FeatureTypes, start.Span, "type alias")

	if p.at(token.KwFunction) {
		fnTok := p.advance()
		nameTok, ok := p.expectName("type function name")
		if !ok {
			return p.arenas.Stmts.NewSimple(ast.StmtError, p.spanFrom(start.Span))
		}
		// type functions run in the type checker, the body is not kept
		p.parseFunctionBody(fnTok, bodyInfo{})
		return p.arenas.Stmts.NewTypeAlias(p.spanFrom(start.Span), p.intern(nameTok.Text), exported)
	}

	nameTok, ok := p.expectName("type alias")
	if !ok {
		return p.arenas.Stmts.NewSimple(ast.StmtError, p.spanFrom(start.Span))
	}
	if p.at(token.Lt) {
		p.parseGenericDecl()
	}
	if _, ok := p.expect(token.Assign, diag.SynExpectAssign, "type alias"); ok {
		p.parseType()
	}
	return p.arenas.Stmts.NewTypeAlias(p.spanFrom(start.Span), p.intern(nameTok.Text), exported)
}

func (p *Parser) parseExprStatement() ast.StmtID {
	return p.parseExprStatementFrom(p.parsePrimaryExpr())
}

// parseExprStatementFrom finishes a statement that began with a primary expression.
func (p *Parser) parseExprStatementFrom(expr ast.ExprID) ast.StmtID {
	switch {
	case p.atAny(token.Assign, token.Comma):
		return p.parseAssign(expr)
	case p.peek().Kind.IsCompoundAssign():
		return p.parseCompoundAssign(expr)
	}

	e := p.arenas.Exprs.Get(expr)
	if e.Kind != ast.ExprCall && e.Kind != ast.ExprError {
		p.errAt(diag.SynExpectStatement, e.Span, "Incomplete statement: expected assignment or a function call")
	}
	return p.arenas.Stmts.NewExpr(e.Span, expr)
}

func (p *Parser) checkAssignable(expr ast.ExprID) {
	e := p.arenas.Exprs.Get(expr)
	switch e.Kind {
	case ast.ExprLocal, ast.ExprGlobal, ast.ExprIndex, ast.ExprError:
		return
	case ast.ExprIndexName:
		if data, ok := p.arenas.Exprs.IndexName(expr); ok && !data.Method {
			return
		}
	}
	p.errAt(diag.SynNotAssignable, e.Span, "Assigned expression must be a variable or a field")
}

func (p *Parser) parseAssign(first ast.ExprID) ast.StmtID {
	start := p.arenas.Exprs.Get(first).Span
	p.checkAssignable(first)
	targets := []ast.ExprID{first}
	for p.eat(token.Comma) {
		target := p.parsePrimaryExpr()
		p.checkAssignable(target)
		targets = append(targets, target)
	}

	var values []ast.ExprID
	if _, ok := p.expect(token.Assign, diag.SynExpectAssign, "assignment"); ok {
		values = p.parseExprList()
	}
	for i := range min(len(targets), len(values)) {
		p.nameFunction(values[i], p.targetName(targets[i]))
	}
	return p.arenas.Stmts.NewAssign(p.spanFrom(start), targets, values)
}

var compoundOps = map[token.Kind]ast.BinaryOp{
	token.PlusAssign:    ast.BinAdd,
	token.MinusAssign:   ast.BinSub,
	token.StarAssign:    ast.BinMul,
	token.SlashAssign:   ast.BinDiv,
	token.FloorAssign:   ast.BinFloorDiv,
	token.PercentAssign: ast.BinMod,
	token.CaretAssign:   ast.BinPow,
	token.ConcatAssign:  ast.BinConcat,
}

func (p *Parser) parseCompoundAssign(target ast.ExprID) ast.StmtID {
	start := p.arenas.Exprs.Get(target).Span
	p.checkAssignable(target)
	opTok := p.advance()
	p.requireFeature(FeatureCompoundAssign, opTok.Span, "compound assignment")
	if opTok.Kind == token.FloorAssign {
		p.requireFeature(FeatureFloorDiv, opTok.Span, "floor division")
	}
	value := p.parseExpr()
	return p.arenas.Stmts.NewCompoundAssign(p.spanFrom(start), compoundOps[opTok.Kind], target, value)
}

// nameFunction gives an anonymous closure the name it is bound to.
func (p *Parser) nameFunction(value ast.ExprID, name source.StringID) {
	if !p.opts.InferNames || !value.IsValid() || name == source.NoStringID {
		return
	}
	if fn, ok := p.arenas.Exprs.Function(value); ok && fn.DebugName == source.NoStringID {
		fn.DebugName = name
	}
}

func (p *Parser) targetName(target ast.ExprID) source.StringID {
	if data, ok := p.arenas.Exprs.Local(target); ok {
		return p.arenas.Locals.Get(data.Local).Name
	}
	if data, ok := p.arenas.Exprs.Global(target); ok {
		return data.Name
	}
	if data, ok := p.arenas.Exprs.IndexName(target); ok {
		return data.Name
	}
	return source.NoStringID
}
