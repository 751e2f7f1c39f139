package driver

import (
	"context"
	"errors"
	"io/fs"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"upvalcheck/internal/trace"
)

// ListFiles returns the sorted sources under dir that CheckDir would check.
func ListFiles(dir string, opts Options) ([]string, error) {
	exts := opts.extensions()
	var files []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(dir, p)
		if relErr != nil {
			rel = p
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if p != dir && excluded(rel, d.Name(), opts.Exclude) {
				return filepath.SkipDir
			}
			return nil
		}
		if !hasExtension(d.Name(), exts) || excluded(rel, d.Name(), opts.Exclude) {
			return nil
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func hasExtension(name string, exts []string) bool {
	for _, ext := range exts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// excluded matches patterns against the relative path and the base name.
// A malformed pattern matches nothing.
func excluded(rel, base string, patterns []string) bool {
	for _, pat := range patterns {
		if ok, _ := path.Match(pat, rel); ok {
			return true
		}
		if ok, _ := path.Match(pat, base); ok {
			return true
		}
		// "dir/**" excludes a whole subtree
		if prefix, found := strings.CutSuffix(pat, "/**"); found && (rel == prefix || strings.HasPrefix(rel, prefix+"/")) {
			return true
		}
	}
	return false
}

// CheckDir checks every matching file under dir in parallel and returns the
// results in sorted path order. Unreadable files yield a Result with Err set
// instead of failing the run; cancellation of ctx does fail it.
func CheckDir(ctx context.Context, dir string, opts Options) ([]*Result, error) {
	files, err := ListFiles(dir, opts)
	if err != nil {
		return nil, err
	}
	return CheckFiles(ctx, files, opts)
}

// CheckFiles checks the given paths in parallel, keeping their order.
func CheckFiles(ctx context.Context, files []string, opts Options) ([]*Result, error) {
	if len(files) == 0 {
		return nil, nil
	}
	span, ctx := trace.StartSpan(ctx, trace.ScopeDriver, "check-files")
	defer span.WithExtra("files", itoa(len(files))).End("")

	for _, p := range files {
		emit(opts.Progress, Event{File: p, Stage: StageRead, Status: StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// each goroutine writes its own slot
	results := make([]*Result, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, p := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := Check(gctx, p, opts)
			var readErr *ReadError
			switch {
			case errors.As(err, &readErr):
				results[i] = &Result{Path: p, Err: err}
			case err != nil:
				return err
			default:
				results[i] = res
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
