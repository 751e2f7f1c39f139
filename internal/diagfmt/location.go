package diagfmt

import (
	"fmt"

	"upvalcheck/internal/source"
)

// FormatLocation renders "name(line,col)" from a 1-based position.
func FormatLocation(name string, lc source.LineCol) string {
	return fmt.Sprintf("%s(%d,%d)", name, lc.Line, lc.Col)
}

// SpanLocation formats the start of sp.
func SpanLocation(fs *source.FileSet, sp source.Span, mode PathMode) string {
	if _, ok := fs.Lookup(sp.File); !ok {
		return FormatLocation(source.StdinName, source.LineCol{Line: 1, Col: 1})
	}
	return FormatLocation(displayPath(fs, sp.File, mode), fs.Position(sp))
}

// formatSpan renders "startLine:startCol-endLine:endCol".
// Without a FileSet it falls back to byte offsets.
func formatSpan(span source.Span, fs *source.FileSet) string {
	if fs != nil {
		if _, ok := fs.Lookup(span.File); ok {
			start, end := fs.Resolve(span)
			return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
		}
	}
	return fmt.Sprintf("span(%d-%d)", span.Start, span.End)
}
