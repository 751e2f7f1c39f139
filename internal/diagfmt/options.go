package diagfmt

import (
	"fmt"

	"upvalcheck/internal/source"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAsGiven prints the path the file was loaded under.
	PathModeAsGiven PathMode = iota
	// PathModeAuto shortens long absolute paths to their base name.
	PathModeAuto
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// ParsePathMode reads a flag value.
func ParsePathMode(s string) (PathMode, error) {
	switch s {
	case "", "given":
		return PathModeAsGiven, nil
	case "auto":
		return PathModeAuto, nil
	case "absolute":
		return PathModeAbsolute, nil
	case "relative":
		return PathModeRelative, nil
	case "basename":
		return PathModeBasename, nil
	}
	return PathModeAsGiven, fmt.Errorf("invalid path mode %q (expected: given|auto|absolute|relative|basename)", s)
}

// PlainOpts configures the "<loc>: <kind>: <message>" format.
type PlainOpts struct {
	PathMode PathMode
	// Header prints "Parse errors were encountered:" before syntax errors.
	Header bool
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	Context   int // lines of source shown before the primary line
	PathMode  PathMode
	Width     int // truncate source lines to this many columns, 0 = unlimited
	ShowNotes bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool
	PathMode         PathMode
	Max              int // cap on printed entries, the bag is untouched
	IncludeNotes     bool
}

// SarifRunMeta provides metadata for SARIF output.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InformationURI string
	InvocationArgs []string
}

// displayPath renders the path of file id according to mode.
func displayPath(fs *source.FileSet, id source.FileID, mode PathMode) string {
	f, ok := fs.Lookup(id)
	if !ok {
		return source.StdinName
	}
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	case PathModeAuto:
		return f.FormatPath("auto", "")
	default:
		return f.Path
	}
}
