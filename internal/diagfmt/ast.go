package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"upvalcheck/internal/ast"
	"upvalcheck/internal/source"
)

// ASTOpts selects what the AST dumps show.
type ASTOpts struct {
	// Bindings annotates local references and declarations with their
	// binding: declaring depth, kind and upvalue flag.
	Bindings bool
}

type ASTNodeOutput struct {
	Type     string          `json:"type"`
	Kind     string          `json:"kind"`
	Span     source.Span     `json:"span"`
	Label    string          `json:"label,omitempty"`
	Fields   map[string]any  `json:"fields,omitempty"`
	Children []ASTNodeOutput `json:"children,omitempty"`
}

// FormatASTPretty prints the file as an indented tree:
//
//	File test.luau (span: 1:1-3:4)
//	└─ Block (span: 1:1-3:4)
//	   ├─ Local x (span: 1:1-1:12)
//	   │  └─ Number 1 (span: 1:11-1:12)
func FormatASTPretty(w io.Writer, b *ast.Builder, fileID ast.FileID, fs *source.FileSet, opts ASTOpts) error {
	root, err := buildFileTreeNode(b, fileID, fs, opts)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, root.label); err != nil {
		return err
	}
	return writeIndented(w, root.children, "")
}

func writeIndented(w io.Writer, nodes []*treeNode, prefix string) error {
	for i, n := range nodes {
		branch, next := "├─ ", "│  "
		if i == len(nodes)-1 {
			branch, next = "└─ ", "   "
		}
		if _, err := fmt.Fprintf(w, "%s%s%s\n", prefix, branch, n.label); err != nil {
			return err
		}
		if err := writeIndented(w, n.children, prefix+next); err != nil {
			return err
		}
	}
	return nil
}

// FormatASTTree draws the file top-down with connector lines.
// Suitable for small chunks only.
func FormatASTTree(w io.Writer, b *ast.Builder, fileID ast.FileID, fs *source.FileSet, opts ASTOpts) error {
	root, err := buildFileTreeNode(b, fileID, fs, opts)
	if err != nil {
		return err
	}
	for _, line := range renderTree(root).lines {
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

// FormatASTJSON encodes the tree with the same labels as the pretty form.
func FormatASTJSON(w io.Writer, b *ast.Builder, fileID ast.FileID, opts ASTOpts) error {
	file := b.Files.Get(fileID)
	if file == nil {
		return fmt.Errorf("file %d not found", fileID)
	}
	out := ASTNodeOutput{
		Type:     "File",
		Kind:     "File",
		Span:     file.Span,
		Children: []ASTNodeOutput{nodeJSON(b, ast.StmtNode(file.Body), opts)},
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func nodeJSON(b *ast.Builder, n ast.Node, opts ASTOpts) ASTNodeOutput {
	out := ASTNodeOutput{Span: b.Span(n), Label: nodeDetail(b, n, opts)}
	if n.IsStmt() {
		out.Type = "Stmt"
		out.Kind = b.Stmts.Get(n.Stmt).Kind.String()
	} else {
		out.Type = "Expr"
		out.Kind = b.Exprs.Get(n.Expr).Kind.String()
		if fn, ok := b.Exprs.Function(n.Expr); ok {
			out.Fields = map[string]any{"depth": fn.Depth, "name": b.Name(fn.DebugName)}
		}
		if ref, ok := b.Exprs.Local(n.Expr); ok && opts.Bindings {
			decl := b.Locals.Get(ref.Local)
			out.Fields = map[string]any{"local": uint32(ref.Local), "upvalue": ref.Upvalue}
			if decl != nil {
				out.Fields["decl_depth"] = decl.FunctionDepth
			}
		}
	}
	for _, c := range ast.Children(b, n) {
		out.Children = append(out.Children, nodeJSON(b, c, opts))
	}
	return out
}

func buildFileTreeNode(b *ast.Builder, fileID ast.FileID, fs *source.FileSet, opts ASTOpts) (*treeNode, error) {
	file := b.Files.Get(fileID)
	if file == nil {
		return nil, fmt.Errorf("file %d not found", fileID)
	}
	header := "File"
	if fs != nil {
		if _, ok := fs.Lookup(file.Source); ok {
			header = "File " + displayPath(fs, file.Source, PathModeAuto)
		}
	}
	root := &treeNode{label: fmt.Sprintf("%s (span: %s)", header, formatSpan(file.Span, fs))}
	root.children = append(root.children, buildNodeTree(b, ast.StmtNode(file.Body), fs, opts))
	return root, nil
}

func buildNodeTree(b *ast.Builder, n ast.Node, fs *source.FileSet, opts ASTOpts) *treeNode {
	var kind string
	if n.IsStmt() {
		kind = b.Stmts.Get(n.Stmt).Kind.String()
	} else {
		kind = b.Exprs.Get(n.Expr).Kind.String()
	}
	label := kind
	if detail := nodeDetail(b, n, opts); detail != "" {
		label += " " + detail
	}
	node := &treeNode{label: fmt.Sprintf("%s (span: %s)", label, formatSpan(b.Span(n), fs))}
	for _, c := range ast.Children(b, n) {
		node.children = append(node.children, buildNodeTree(b, c, fs, opts))
	}
	return node
}

// nodeDetail is the short inline description that follows the kind.
func nodeDetail(b *ast.Builder, n ast.Node, opts ASTOpts) string {
	if n.IsStmt() {
		return stmtDetail(b, n.Stmt, opts)
	}
	return exprDetail(b, n.Expr, opts)
}

func stmtDetail(b *ast.Builder, id ast.StmtID, opts ASTOpts) string {
	switch b.Stmts.Get(id).Kind {
	case ast.StmtLocal:
		d, _ := b.Stmts.Local(id)
		return localList(b, d.Vars, opts)
	case ast.StmtLocalFunction:
		d, _ := b.Stmts.LocalFunction(id)
		return localList(b, []ast.LocalID{d.Name}, opts)
	case ast.StmtNumericFor:
		d, _ := b.Stmts.NumericFor(id)
		return localList(b, []ast.LocalID{d.Var}, opts)
	case ast.StmtGenericFor:
		d, _ := b.Stmts.GenericFor(id)
		return localList(b, d.Vars, opts)
	case ast.StmtCompoundAssign:
		d, _ := b.Stmts.CompoundAssign(id)
		return d.Op.String() + "="
	case ast.StmtTypeAlias:
		d, _ := b.Stmts.TypeAlias(id)
		if d.Exported {
			return "export " + b.Name(d.Name)
		}
		return b.Name(d.Name)
	}
	return ""
}

func exprDetail(b *ast.Builder, id ast.ExprID, opts ASTOpts) string {
	switch b.Exprs.Get(id).Kind {
	case ast.ExprBool, ast.ExprNumber, ast.ExprString:
		d, _ := b.Exprs.Literal(id)
		return b.Name(d.Raw)
	case ast.ExprLocal:
		d, _ := b.Exprs.Local(id)
		decl := b.Locals.Get(d.Local)
		if decl == nil {
			return "<unbound>"
		}
		s := b.Name(decl.Name)
		if opts.Bindings {
			s += fmt.Sprintf(" -> #%d depth=%d", d.Local, decl.FunctionDepth)
			if d.Upvalue {
				s += " upvalue"
			}
		}
		return s
	case ast.ExprGlobal:
		d, _ := b.Exprs.Global(id)
		return b.Name(d.Name)
	case ast.ExprIndexName:
		d, _ := b.Exprs.IndexName(id)
		if d.Method {
			return ":" + b.Name(d.Name)
		}
		return "." + b.Name(d.Name)
	case ast.ExprCall:
		d, _ := b.Exprs.Call(id)
		return fmt.Sprintf("args=%d", len(d.Args))
	case ast.ExprFunction:
		d, _ := b.Exprs.Function(id)
		name := "<anonymous>"
		if d.DebugName != source.NoStringID {
			name = b.Name(d.DebugName)
		}
		var params []ast.LocalID
		if d.Self.IsValid() {
			params = append(params, d.Self)
		}
		params = append(params, d.Params...)
		s := fmt.Sprintf("%s depth=%d (%s", name, d.Depth, localList(b, params, opts))
		if d.Vararg {
			if len(params) > 0 {
				s += ", "
			}
			s += "..."
		}
		return s + ")"
	case ast.ExprUnary:
		d, _ := b.Exprs.Unary(id)
		return d.Op.String()
	case ast.ExprBinary:
		d, _ := b.Exprs.Binary(id)
		return d.Op.String()
	case ast.ExprTable:
		d, _ := b.Exprs.Table(id)
		return fmt.Sprintf("items=%d", len(d.Items))
	}
	return ""
}

func localList(b *ast.Builder, ids []ast.LocalID, opts ASTOpts) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		decl := b.Locals.Get(id)
		if decl == nil {
			continue
		}
		name := b.Name(decl.Name)
		if opts.Bindings {
			name += fmt.Sprintf("#%d[%s depth=%d]", id, decl.Kind, decl.FunctionDepth)
		}
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}
