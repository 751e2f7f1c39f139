package ast

import (
	"upvalcheck/internal/source"
)

type Hints struct{ Files, Stmts, Exprs, Locals uint }

// Builder owns every arena of one parse session.
type Builder struct {
	Files           *Files
	Stmts           *Stmts
	Exprs           *Exprs
	Locals          *Locals
	StringsInterner *source.Interner
}

func NewBuilder(hints Hints, interner *source.Interner) *Builder {
	if hints.Files == 0 {
		hints.Files = 1 << 2
	}
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 8
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 9
	}
	if hints.Locals == 0 {
		hints.Locals = 1 << 7
	}
	if interner == nil {
		interner = source.NewInterner()
	}
	return &Builder{
		Files:           NewFiles(hints.Files),
		Stmts:           NewStmts(hints.Stmts),
		Exprs:           NewExprs(hints.Exprs),
		Locals:          NewLocals(hints.Locals),
		StringsInterner: interner,
	}
}

func (b *Builder) NewFile(sp source.Span) FileID {
	return b.Files.New(sp)
}

// Name resolves an interned identifier; NoStringID yields "".
func (b *Builder) Name(id source.StringID) string {
	s, _ := b.StringsInterner.Lookup(id)
	return s
}
