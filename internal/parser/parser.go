package parser

import (
	"context"
	"slices"

	"upvalcheck/internal/ast"
	"upvalcheck/internal/diag"
	"upvalcheck/internal/lexer"
	"upvalcheck/internal/source"
	"upvalcheck/internal/token"
)

const defaultMaxDepth = 200

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
	Features      Features
	// InferNames also names closures bound by "local f = function",
	// "f = function", "t.f = function" and "{ f = function }".
	InferNames bool
	// MaxDepth bounds syntactic nesting; 0 selects the default.
	MaxDepth int
}

// DefaultOptions enables every Luau extension.
func DefaultOptions() Options {
	return Options{Features: AllFeatures}
}

// Enough reports whether the error budget is exhausted.
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	File   ast.FileID
	Errors uint
}

// Parser holds the state for one file.
type Parser struct {
	ctx      context.Context
	lx       *lexer.Lexer
	arenas   *ast.Builder
	file     ast.FileID
	fs       *source.FileSet
	opts     Options
	lastSpan source.Span // span of the last consumed token

	funcs   []funcScope
	visible []ast.LocalID
	blocks  []int

	depth int
	bail  bool
}

// ParseFile parses one chunk and resolves every name to its declaration.
func ParseFile(
	ctx context.Context,
	fs *source.FileSet,
	lx *lexer.Lexer,
	arenas *ast.Builder,
	opts Options,
) Result {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = defaultMaxDepth
	}
	p := Parser{
		ctx:      ctx,
		lx:       lx,
		arenas:   arenas,
		fs:       fs,
		opts:     opts,
		lastSpan: lx.EmptySpan(),
	}
	p.file = arenas.Files.New(lx.EmptySpan())

	p.parseChunk()

	return Result{
		File:   p.file,
		Errors: p.opts.CurrentErrors + uint(lx.ErrorCount()),
	}
}

func (p *Parser) parseChunk() {
	start := p.peek().Span
	p.pushFunction(ast.NoExprID, true)
	p.openBlock()

	var stmts []ast.StmtID
	for {
		stmts = append(stmts, p.parseStatementList()...)
		if p.at(token.EOF) || p.bail {
			break
		}
		p.err(diag.SynUnexpectedToken, "Expected <eof>, got "+describe(p.peek()))
		p.advance()
	}

	p.closeBlock()
	p.popFunction()

	span := start.Cover(p.lastSpan)
	if len(stmts) == 0 {
		span = start
	}
	file := p.arenas.Files.Get(p.file)
	file.Span = span
	file.Body = p.arenas.Stmts.NewBlock(span, stmts)
}

func (p *Parser) peek() token.Token {
	return p.lx.Peek()
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atAny(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

func (p *Parser) IsError() bool {
	return p.opts.CurrentErrors != 0
}

func (p *Parser) feature(f Features) bool {
	return p.opts.Features.Has(f)
}

// requireFeature reports use of a disabled extension and lets parsing go on.
func (p *Parser) requireFeature(f Features, sp source.Span, what string) {
	if !p.feature(f) {
		p.errAt(diag.SynFeatureDisabled, sp, what+" requires the '"+f.String()+"' feature")
	}
}

func (p *Parser) intern(text string) source.StringID {
	return p.arenas.StringsInterner.Intern(text)
}

// enter guards recursion depth; callers must call leave when it returns true.
func (p *Parser) enter() bool {
	p.depth++
	if p.depth > p.opts.MaxDepth {
		p.err(diag.SynUnexpectedToken, "Exceeded allowed recursion depth; simplify your expression to make the code compile")
		p.bail = true
		return false
	}
	return true
}

func (p *Parser) leave() {
	p.depth--
}
