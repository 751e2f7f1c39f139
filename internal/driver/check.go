package driver

import (
	"context"
	"io"
	"strconv"

	"upvalcheck/internal/ast"
	"upvalcheck/internal/closurecheck"
	"upvalcheck/internal/diag"
	"upvalcheck/internal/diagfmt"
	"upvalcheck/internal/observ"
	"upvalcheck/internal/source"
	"upvalcheck/internal/trace"
)

// Result is the outcome of checking one file.
type Result struct {
	Path    string
	FileSet *source.FileSet
	File    *source.File
	// Builder and ASTFile are nil/zero on cache hits.
	Builder *ast.Builder
	ASTFile ast.FileID
	Bag     *diag.Bag
	// Findings is empty when the file had syntax errors or came from the cache.
	Findings []closurecheck.Finding
	// FindingCount survives cache hits.
	FindingCount int
	// SyntaxErrors is set when parsing failed and the analysis was skipped.
	SyntaxErrors bool
	Cached       bool
	Timing       observ.Report
	// Err is set by CheckDir for files that could not be read; the other
	// fields are then zero.
	Err error
}

// Check reads, parses and analyzes path ("-" reads Stdin).
// Unreadable input is returned as a *ReadError.
func Check(ctx context.Context, path string, opts Options) (*Result, error) {
	span, ctx := trace.StartSpan(ctx, trace.ScopeFile, path)
	defer span.End("")

	timer := observ.NewTimer()
	emit(opts.Progress, Event{File: path, Stage: StageRead, Status: StatusWorking})
	idx := timer.Begin("read")
	fs := source.NewFileSet()
	fileID, err := load(fs, path)
	timer.End(idx, "")
	if err != nil {
		emit(opts.Progress, Event{File: path, Stage: StageRead, Status: StatusError, Err: err})
		return nil, err
	}
	return run(ctx, fs, fileID, path, opts, timer)
}

// CheckReader analyzes the contents of r under the display name name.
func CheckReader(ctx context.Context, name string, r io.Reader, opts Options) (*Result, error) {
	span, ctx := trace.StartSpan(ctx, trace.ScopeFile, name)
	defer span.End("")

	timer := observ.NewTimer()
	idx := timer.Begin("read")
	fs := source.NewFileSet()
	fileID, err := fs.LoadReader(name, r)
	timer.End(idx, "")
	if err != nil {
		return nil, &ReadError{Path: name, Err: err}
	}
	return run(ctx, fs, fileID, name, opts, timer)
}

func run(ctx context.Context, fs *source.FileSet, fileID source.FileID, path string, opts Options, timer *observ.Timer) (*Result, error) {
	file := fs.Get(fileID)
	res := &Result{Path: path, FileSet: fs, File: file}
	defer func() { res.Timing = timer.Report() }()

	var key Digest
	if opts.Cache != nil {
		key = opts.Cache.Key(file, opts)
		var payload DiskPayload
		if hit, err := opts.Cache.Get(key, &payload); err == nil && hit {
			res.Bag = diag.NewBag(0)
			payload.restore(res.Bag, fileID)
			res.FindingCount = payload.Findings
			res.SyntaxErrors = diagfmt.HasSyntaxErrors(res.Bag)
			res.Cached = true
			trace.Point(trace.FromContext(ctx), trace.ScopePass, "cache-hit", path, trace.CurrentSpan(ctx).SpanID, nil)
			emit(opts.Progress, Event{File: path, Stage: StageCheck, Status: doneStatus(res)})
			return res, nil
		}
	}

	emit(opts.Progress, Event{File: path, Stage: StageParse, Status: StatusWorking})
	idx := timer.Begin("parse")
	parsed, err := parseLoaded(ctx, fs, fileID, opts)
	if err != nil {
		timer.End(idx, "")
		return nil, err
	}
	timer.End(idx, strconv.Itoa(parsed.Bag.Len())+" errors")
	res.Builder, res.ASTFile, res.Bag = parsed.Builder, parsed.FileID, parsed.Bag

	// Positions in a tree built from broken input are not trustworthy.
	if diagfmt.HasSyntaxErrors(res.Bag) {
		res.SyntaxErrors = true
		emit(opts.Progress, Event{File: path, Stage: StageParse, Status: StatusError})
		putCache(opts, key, res)
		return res, nil
	}

	emit(opts.Progress, Event{File: path, Stage: StageCheck, Status: StatusWorking})
	idx = timer.Begin("check")
	span, cctx := trace.StartSpan(ctx, trace.ScopePass, "check")
	res.Findings = closurecheck.CheckContext(cctx, res.Builder, res.ASTFile)
	res.FindingCount = len(res.Findings)
	// findings are never capped
	warnings := diag.NewBag(0)
	closurecheck.Report(diag.BagReporter{Bag: warnings}, fs, res.Findings, opts.PathMode)
	res.Bag.Merge(warnings)
	span.WithExtra("findings", strconv.Itoa(res.FindingCount)).End(path)
	timer.End(idx, strconv.Itoa(res.FindingCount)+" findings")

	putCache(opts, key, res)
	emit(opts.Progress, Event{File: path, Stage: StageCheck, Status: doneStatus(res)})
	return res, nil
}

func putCache(opts Options, key Digest, res *Result) {
	if opts.Cache == nil {
		return
	}
	// A failed write only costs a re-check next time.
	_ = opts.Cache.Put(key, toPayload(res.File.Path, res.Bag, res.FindingCount))
}

func doneStatus(res *Result) Status {
	if res.SyntaxErrors {
		return StatusError
	}
	return StatusDone
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
