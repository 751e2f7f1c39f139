package fuzztests

import (
	"context"
	"testing"
	"time"

	"upvalcheck/internal/ast"
	"upvalcheck/internal/closurecheck"
	"upvalcheck/internal/diag"
	"upvalcheck/internal/diagfmt"
	"upvalcheck/internal/lexer"
	"upvalcheck/internal/parser"
	"upvalcheck/internal/source"
	"upvalcheck/internal/testkit"
)

// parseTimeout bounds one parse; exceeding it means the parser loops.
const parseTimeout = 5 * time.Second

type parsed struct {
	fs      *source.FileSet
	file    *source.File
	builder *ast.Builder
	result  parser.Result
}

func parseInput(ctx context.Context, input []byte) parsed {
	fs := source.NewFileSet()
	content, flags := source.Normalize(input)
	file := fs.Get(fs.Add("fuzz.luau", content, flags|source.FileVirtual))

	bag := diag.NewBag(128)
	reporter := diag.BagReporter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: reporter})

	builder := ast.NewBuilder(ast.Hints{}, nil)
	opts := parser.DefaultOptions()
	opts.Reporter = reporter
	opts.MaxErrors = 128

	res := parser.ParseFile(ctx, fs, lx, builder, opts)
	return parsed{fs: fs, file: file, builder: builder, result: res}
}

// FuzzCheckInvariants parses arbitrary input and, when it parses cleanly,
// checks the tree invariants and runs the closure checker.
func FuzzCheckInvariants(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		p := parseInput(context.Background(), clampInput(input))
		if p.result.Errors > 0 {
			return
		}
		if err := testkit.CheckSpanInvariants(p.builder, p.result.File, p.file); err != nil {
			t.Fatalf("span invariants: %v\ninput: %q", err, truncateForLog(input, 200))
		}
		if err := testkit.CheckBindingInvariants(p.builder, p.result.File); err != nil {
			t.Fatalf("binding invariants: %v\ninput: %q", err, truncateForLog(input, 200))
		}
		for _, finding := range closurecheck.Check(p.builder, p.result.File) {
			if !finding.ClosureSpan.Contains(finding.RefSpan) {
				t.Fatalf("reference %v outside closure %v\ninput: %q", finding.RefSpan, finding.ClosureSpan, truncateForLog(input, 200))
			}
			_ = closurecheck.Message(p.fs, finding, diagfmt.PathModeAsGiven)
		}
	})
}

// FuzzParserNoHang fails when a single parse takes longer than parseTimeout.
func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)

	f.Add([]byte("local function f(\n"))
	f.Add([]byte("if x then else elseif y then end end"))
	f.Add([]byte("local t = { [1] = , }"))
	f.Add([]byte("f(a)(b)\n(c)(d)"))
	f.Add([]byte("type T = { [string]: (number) -> (string, ...number) "))
	f.Add([]byte("local s = `{`{`{"))
	f.Add([]byte("((((((((((((((((((((((((((((((((((((((("))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			_ = parseInput(ctx, input)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			t.Fatalf("parser hang detected: parsing took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
