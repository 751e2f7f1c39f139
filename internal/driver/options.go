package driver

import (
	"fmt"

	"fortio.org/safecast"

	"upvalcheck/internal/diag"
	"upvalcheck/internal/diagfmt"
	"upvalcheck/internal/parser"
)

// DefaultExtensions are the file suffixes CheckDir picks up.
var DefaultExtensions = []string{".lua", ".luau"}

// Options configure a check run.
type Options struct {
	// MaxDiagnostics caps the syntax errors kept per file, 0 means unlimited.
	// Capture warnings are never capped.
	MaxDiagnostics int
	Features       parser.Features
	InferNames     bool
	// PathMode controls the file names embedded in warning messages.
	PathMode diagfmt.PathMode

	// Cache, when set, stores the diagnostics of checked files.
	Cache *DiskCache
	// Progress receives per-file events.
	Progress ProgressSink

	// Jobs bounds the parallelism of CheckDir, 0 means GOMAXPROCS.
	Jobs int
	// Exclude holds glob patterns matched against slash-separated paths
	// relative to the checked directory and against base names.
	Exclude    []string
	Extensions []string
}

// DefaultOptions enables every language feature.
func DefaultOptions() Options {
	return Options{
		MaxDiagnostics: 200,
		Features:       parser.AllFeatures,
	}
}

func (o Options) bagLimit() int {
	if o.MaxDiagnostics <= 0 {
		return 0
	}
	return o.MaxDiagnostics
}

func (o Options) parserOptions(r diag.Reporter) (parser.Options, error) {
	popts := parser.DefaultOptions()
	popts.Features = o.Features
	popts.InferNames = o.InferNames
	popts.Reporter = r
	if o.MaxDiagnostics > 0 {
		maxErrors, err := safecast.Conv[uint](o.MaxDiagnostics)
		if err != nil {
			return popts, fmt.Errorf("max diagnostics: %w", err)
		}
		popts.MaxErrors = maxErrors
	}
	return popts, nil
}

func (o Options) extensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions
	}
	return o.Extensions
}
