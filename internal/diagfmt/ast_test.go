package diagfmt

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"upvalcheck/internal/ast"
	"upvalcheck/internal/diag"
	"upvalcheck/internal/lexer"
	"upvalcheck/internal/parser"
	"upvalcheck/internal/source"
)

func parseFixture(t *testing.T, src string) (*source.FileSet, *ast.Builder, ast.FileID) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("dump.lua", []byte(src))
	bag := diag.NewBag(10)
	r := diag.BagReporter{Bag: bag}
	b := ast.NewBuilder(ast.Hints{}, nil)
	opts := parser.DefaultOptions()
	opts.MaxErrors = 10
	opts.Reporter = r
	res := parser.ParseFile(context.Background(), fs, lexer.New(fs.Get(id), lexer.Options{Reporter: r}), b, opts)
	if bag.Len() != 0 {
		t.Fatalf("parse errors: %v", bag.Items())
	}
	return fs, b, res.File
}

func TestFormatASTPrettyBindings(t *testing.T) {
	fs, b, file := parseFixture(t, "local x = 1\nreturn function(a) return x + a end\n")

	var buf bytes.Buffer
	if err := FormatASTPretty(&buf, b, file, fs, ASTOpts{Bindings: true}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"File dump.lua (span: ",
		"└─ Block (span: ",
		"├─ Local x#1[var depth=0] (span: 1:1-",
		"Number 1 (span: 1:11-1:12)",
		"Function <anonymous> depth=1 (a#2[param depth=1]) (span: 2:8-",
		"Local x -> #1 depth=0 upvalue (span: 2:27-2:28)",
		"Local a -> #2 depth=1 (span: 2:31-2:32)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dump lacks %q:\n%s", want, out)
		}
	}
}

func TestFormatASTPrettyWithoutBindings(t *testing.T) {
	fs, b, file := parseFixture(t, "local function f() end\n")
	var buf bytes.Buffer
	if err := FormatASTPretty(&buf, b, file, fs, ASTOpts{}); err != nil {
		t.Fatal(err)
	}
	if out := buf.String(); !strings.Contains(out, "LocalFunction f (span:") || strings.Contains(out, "depth=0]") {
		t.Errorf("unexpected dump:\n%s", out)
	}
}

func TestFormatASTJSON(t *testing.T) {
	_, b, file := parseFixture(t, "print(1)\n")
	var buf bytes.Buffer
	if err := FormatASTJSON(&buf, b, file, ASTOpts{}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{`"kind": "Call"`, `"kind": "Global"`, `"label": "print"`} {
		if !strings.Contains(out, want) {
			t.Errorf("JSON lacks %s:\n%s", want, out)
		}
	}
}

func TestRenderTree(t *testing.T) {
	root := &treeNode{label: "ab", children: []*treeNode{{label: "c"}, {label: "d"}}}
	var got []string
	for _, l := range renderTree(root).lines {
		got = append(got, strings.TrimRight(l, " "))
	}
	want := []string{" ab", `/ | \`, "c   d"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}
