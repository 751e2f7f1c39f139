package closurecheck

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"upvalcheck/internal/ast"
	"upvalcheck/internal/diag"
	"upvalcheck/internal/diagfmt"
	"upvalcheck/internal/lexer"
	"upvalcheck/internal/parser"
	"upvalcheck/internal/source"
)

type parsed struct {
	fs   *source.FileSet
	b    *ast.Builder
	file ast.FileID
}

func parse(t *testing.T, src string) parsed {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.luau", []byte(src))
	bag := diag.NewBag(100)
	reporter := diag.BagReporter{Bag: bag}
	b := ast.NewBuilder(ast.Hints{}, nil)
	opts := parser.DefaultOptions()
	opts.MaxErrors = 100
	opts.Reporter = reporter
	res := parser.ParseFile(context.Background(), fs, lexer.New(fs.Get(id), lexer.Options{Reporter: reporter}), b, opts)
	if bag.Len() != 0 {
		t.Fatalf("unexpected parse errors: %v", bag.Items())
	}
	return parsed{fs: fs, b: b, file: res.File}
}

// summary is the part of a finding that is stable across parses.
type summary struct {
	Decl    string
	Closure string
	DeclAt  string
	FnAt    string
	RefAt   string
}

func summarize(p parsed, findings []Finding) []summary {
	var out []summary
	for _, f := range findings {
		out = append(out, summary{
			Decl:    f.DeclName,
			Closure: f.ClosureName,
			DeclAt:  diagfmt.SpanLocation(p.fs, f.DeclSpan, diagfmt.PathModeAsGiven),
			FnAt:    diagfmt.SpanLocation(p.fs, f.ClosureSpan, diagfmt.PathModeAsGiven),
			RefAt:   diagfmt.SpanLocation(p.fs, f.RefSpan, diagfmt.PathModeAsGiven),
		})
	}
	return out
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []summary
	}{
		{
			name: "captured local",
			src: "function outer()\n" +
				"  local x = 1\n" +
				"  local function inner() return x end\n" +
				"end\n",
			want: []summary{{
				Decl: "x", Closure: "inner",
				DeclAt: "test.luau(2,9)", FnAt: "test.luau(3,9)", RefAt: "test.luau(3,33)",
			}},
		},
		{
			name: "top level local",
			src:  "local y = 1\nfunction f() return y end\n",
		},
		{
			name: "same function",
			src:  "function f() local z = 1; return z end\n",
		},
		{
			name: "innermost closure",
			src: "function a()\n" +
				"  local v = 1\n" +
				"  function b()\n" +
				"    function c() return v end\n" +
				"  end\n" +
				"end\n",
			want: []summary{{
				Decl: "v", Closure: "c",
				DeclAt: "test.luau(2,9)", FnAt: "test.luau(4,5)", RefAt: "test.luau(4,25)",
			}},
		},
		{
			name: "anonymous closure",
			src: "local function f(n)\n" +
				"  return function() return n end\n" +
				"end\n",
			want: []summary{{
				Decl: "n", Closure: "",
				DeclAt: "test.luau(1,18)", FnAt: "test.luau(2,10)", RefAt: "test.luau(2,28)",
			}},
		},
		{
			name: "block local is not an upvalue",
			src:  "function f()\n  local a = 1\n  do local b = a; return b end\nend\n",
		},
		{
			name: "loop variable",
			src: "function f(t)\n" +
				"  for i = 1, 10 do\n" +
				"    t[i] = function() return i end\n" +
				"  end\n" +
				"end\n",
			want: []summary{{
				Decl: "i", Closure: "",
				DeclAt: "test.luau(2,7)", FnAt: "test.luau(3,12)", RefAt: "test.luau(3,30)",
			}},
		},
		{
			name: "global reference",
			src:  "function f() return function() return print end end\n",
		},
		{
			name: "method self",
			src: "function T:m()\n" +
				"  return function() return self end\n" +
				"end\n",
			want: []summary{{
				Decl: "self", Closure: "",
				DeclAt: "test.luau(1,1)", FnAt: "test.luau(2,10)", RefAt: "test.luau(2,28)",
			}},
		},
		{
			name: "parameter of enclosing function",
			src:  "function f(a) local function g() return a + a end end\n",
			want: []summary{
				{Decl: "a", Closure: "g", DeclAt: "test.luau(1,12)", FnAt: "test.luau(1,21)", RefAt: "test.luau(1,41)"},
				{Decl: "a", Closure: "g", DeclAt: "test.luau(1,12)", FnAt: "test.luau(1,21)", RefAt: "test.luau(1,45)"},
			},
		},
		{
			name: "recursive local function at top level",
			src:  "local function fib(n) if n < 2 then return n end return fib(n-1) + fib(n-2) end\n",
		},
		{
			name: "recursive local function inside a function",
			src:  "function m() local function rec() return rec() end end\n",
			want: []summary{{
				Decl: "rec", Closure: "rec",
				DeclAt: "test.luau(1,29)", FnAt: "test.luau(1,20)", RefAt: "test.luau(1,42)",
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parse(t, tt.src)
			got := summarize(p, Check(p.b, p.file))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("findings mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCheckIsRepeatable(t *testing.T) {
	p := parse(t, "function f(a) return function() return a end end\n")
	first := Check(p.b, p.file)
	second := Check(p.b, p.file)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second run differs (-first +second):\n%s", diff)
	}
}

func TestFindingsInSourceOrder(t *testing.T) {
	p := parse(t, "function f(a, b)\n"+
		"  local g = function() return b end\n"+
		"  local h = function() return a end\n"+
		"end\n")
	var names []string
	for _, f := range Check(p.b, p.file) {
		names = append(names, f.DeclName)
	}
	if diff := cmp.Diff([]string{"b", "a"}, names); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestMessage(t *testing.T) {
	p := parse(t, "function outer()\n"+
		"  local x = 1\n"+
		"  local function inner() return x end\n"+
		"  return function() return x end\n"+
		"end\n")
	findings := Check(p.b, p.file)
	var got []string
	for _, f := range findings {
		got = append(got, Message(p.fs, f, diagfmt.PathModeAsGiven))
	}
	want := []string{
		`Usage of upvalue "x" declared at test.luau(2,9) prevents closure "inner" at test.luau(3,9) from being cached`,
		`Usage of upvalue "x" declared at test.luau(2,9) prevents anonymous closure at test.luau(4,10) from being cached`,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestReport(t *testing.T) {
	p := parse(t, "function outer()\n  local x = 1\n  return function() return x end\nend\n")
	bag := diag.NewBag(10)
	Report(diag.BagReporter{Bag: bag}, p.fs, Check(p.b, p.file), diagfmt.PathModeAsGiven)

	items := bag.Items()
	if len(items) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(items))
	}
	d := items[0]
	if d.Severity != diag.SevWarning || d.Code != diag.CacheUncachedClosure {
		t.Errorf("got %v %v, want warning %v", d.Severity, d.Code, diag.CacheUncachedClosure)
	}
	var notes []string
	for _, n := range d.Notes {
		notes = append(notes, diagfmt.SpanLocation(p.fs, n.Span, diagfmt.PathModeAsGiven)+" "+n.Msg)
	}
	want := []string{
		`test.luau(2,9) "x" is declared here`,
		`test.luau(3,10) anonymous closure defined here`,
	}
	if diff := cmp.Diff(want, notes); diff != "" {
		t.Errorf("notes mismatch (-want +got):\n%s", diff)
	}
}
