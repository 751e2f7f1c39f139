package parser

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"upvalcheck/internal/ast"
	"upvalcheck/internal/diag"
	"upvalcheck/internal/lexer"
	"upvalcheck/internal/source"
)

func parseSource(t *testing.T, input string) (*ast.Builder, ast.FileID, *diag.Bag) {
	return parseSourceWithOptions(t, input, DefaultOptions())
}

func parseSourceWithOptions(t *testing.T, input string, opts Options) (*ast.Builder, ast.FileID, *diag.Bag) {
	t.Helper()
	return parseSourceContext(t, context.Background(), input, opts)
}

func parseSourceContext(t *testing.T, ctx context.Context, input string, opts Options) (*ast.Builder, ast.FileID, *diag.Bag) {
	t.Helper()

	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.luau", []byte(input))
	file := fs.Get(fileID)

	bag := diag.NewBag(100)
	reporter := &diag.BagReporter{Bag: bag}

	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	builder := ast.NewBuilder(ast.Hints{}, nil)

	if opts.MaxErrors == 0 {
		opts.MaxErrors = 100
	}
	opts.Reporter = reporter

	result := ParseFile(ctx, fs, lx, builder, opts)
	return builder, result.File, bag
}

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func diagnosticCodes(bag *diag.Bag) []diag.Code {
	var codes []diag.Code
	for _, d := range bag.Items() {
		codes = append(codes, d.Code)
	}
	return codes
}

// refInfo describes one name reference in the tree.
type refInfo struct {
	Name      string
	Global    bool
	Upvalue   bool
	DeclDepth uint32
	Kind      ast.LocalKind
}

func collectRefs(b *ast.Builder, fileID ast.FileID) []refInfo {
	var refs []refInfo
	ast.Inspect(b, ast.StmtNode(b.Files.Get(fileID).Body), func(n ast.Node) bool {
		if !n.IsExpr() {
			return true
		}
		if ref, ok := b.Exprs.Local(n.Expr); ok {
			decl := b.Locals.Get(ref.Local)
			refs = append(refs, refInfo{
				Name:      b.Name(decl.Name),
				Upvalue:   ref.Upvalue,
				DeclDepth: decl.FunctionDepth,
				Kind:      decl.Kind,
			})
		}
		if g, ok := b.Exprs.Global(n.Expr); ok {
			refs = append(refs, refInfo{Name: b.Name(g.Name), Global: true})
		}
		return true
	})
	return refs
}

type closureInfo struct {
	Name  string
	Depth uint32
}

func collectClosures(b *ast.Builder, fileID ast.FileID) []closureInfo {
	var out []closureInfo
	ast.Inspect(b, ast.StmtNode(b.Files.Get(fileID).Body), func(n ast.Node) bool {
		if !n.IsExpr() {
			return true
		}
		if fn, ok := b.Exprs.Function(n.Expr); ok {
			out = append(out, closureInfo{Name: b.Name(fn.DebugName), Depth: fn.Depth})
		}
		return true
	})
	return out
}

func topLevelKinds(b *ast.Builder, fileID ast.FileID) []ast.StmtKind {
	block, ok := b.Stmts.Block(b.Files.Get(fileID).Body)
	if !ok {
		return nil
	}
	var kinds []ast.StmtKind
	for _, id := range block.Stmts {
		kinds = append(kinds, b.Stmts.Get(id).Kind)
	}
	return kinds
}
