package parser

import (
	"fmt"

	"fortio.org/safecast"

	"upvalcheck/internal/ast"
	"upvalcheck/internal/source"
	"upvalcheck/internal/token"
)

// funcScope is one entry of the enclosing-function stack.
// The chunk sits at index 0 with depth 0.
type funcScope struct {
	fn     ast.ExprID
	depth  uint32
	vararg bool
	loops  int
}

func (p *Parser) pushFunction(fn ast.ExprID, vararg bool) uint32 {
	depth, err := safecast.Conv[uint32](len(p.funcs))
	if err != nil {
		panic(fmt.Errorf("function depth overflow: %w", err))
	}
	p.funcs = append(p.funcs, funcScope{fn: fn, depth: depth, vararg: vararg})
	return depth
}

func (p *Parser) popFunction() {
	p.funcs = p.funcs[:len(p.funcs)-1]
}

func (p *Parser) currentFunc() *funcScope {
	return &p.funcs[len(p.funcs)-1]
}

// nextDepth is the depth a function literal parsed now would get.
func (p *Parser) nextDepth() uint32 {
	depth, _ := safecast.Conv[uint32](len(p.funcs))
	return depth
}

func (p *Parser) openBlock() {
	p.blocks = append(p.blocks, len(p.visible))
}

func (p *Parser) closeBlock() {
	n := p.blocks[len(p.blocks)-1]
	p.blocks = p.blocks[:len(p.blocks)-1]
	p.visible = p.visible[:n]
}

// declareLocal creates a declaration owned by the current function.
// It stays invisible until activate, so "local x = x" reads the outer x.
func (p *Parser) declareLocal(tok token.Token, kind ast.LocalKind) ast.LocalID {
	name := p.intern(tok.Text)
	shadows, _ := p.lookup(name)
	return p.arenas.Locals.New(ast.LocalData{
		Name:          name,
		Span:          tok.Span,
		Kind:          kind,
		FunctionDepth: p.currentFunc().depth,
		Shadows:       shadows,
	})
}

func (p *Parser) activate(ids ...ast.LocalID) {
	for _, id := range ids {
		if id.IsValid() {
			p.visible = append(p.visible, id)
		}
	}
}

// lookup finds the innermost visible local called name.
func (p *Parser) lookup(name source.StringID) (ast.LocalID, bool) {
	for i := len(p.visible) - 1; i >= 0; i-- {
		if p.arenas.Locals.Get(p.visible[i]).Name == name {
			return p.visible[i], true
		}
	}
	return ast.NoLocalID, false
}

// resolveName turns a name token into a Local or Global reference.
func (p *Parser) resolveName(tok token.Token) ast.ExprID {
	name := p.intern(tok.Text)
	if id, ok := p.lookup(name); ok {
		upvalue := p.arenas.Locals.Get(id).FunctionDepth < p.currentFunc().depth
		return p.arenas.Exprs.NewLocal(tok.Span, id, upvalue)
	}
	return p.arenas.Exprs.NewGlobal(tok.Span, name)
}
