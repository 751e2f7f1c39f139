package driver

import (
	"context"
	"io"
	"strconv"

	"upvalcheck/internal/ast"
	"upvalcheck/internal/diag"
	"upvalcheck/internal/lexer"
	"upvalcheck/internal/parser"
	"upvalcheck/internal/source"
	"upvalcheck/internal/trace"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Builder *ast.Builder
	FileID  ast.FileID
	Bag     *diag.Bag
}

// Parse reads and parses path. Syntax errors land in the bag; the error
// return is for unreadable input only.
func Parse(ctx context.Context, path string, opts Options) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := load(fs, path)
	if err != nil {
		return nil, err
	}
	return parseLoaded(ctx, fs, fileID, opts)
}

// ParseReader is Parse for an in-memory source named name.
func ParseReader(ctx context.Context, name string, r io.Reader, opts Options) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.LoadReader(name, r)
	if err != nil {
		return nil, &ReadError{Path: name, Err: err}
	}
	return parseLoaded(ctx, fs, fileID, opts)
}

func parseLoaded(ctx context.Context, fs *source.FileSet, fileID source.FileID, opts Options) (*ParseResult, error) {
	file := fs.Get(fileID)
	bag := diag.NewBag(opts.bagLimit())
	// recovery can report the same problem twice at one position
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: bag})

	popts, err := opts.parserOptions(reporter)
	if err != nil {
		return nil, err
	}

	span, ctx := trace.StartSpan(ctx, trace.ScopePass, "parse")
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	builder := ast.NewBuilder(ast.Hints{}, nil)
	result := parser.ParseFile(ctx, fs, lx, builder, popts)
	span.WithExtra("errors", strconv.FormatUint(uint64(result.Errors), 10)).End(file.Path)

	return &ParseResult{
		FileSet: fs,
		File:    file,
		Builder: builder,
		FileID:  result.File,
		Bag:     bag,
	}, nil
}
