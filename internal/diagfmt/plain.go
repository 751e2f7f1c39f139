package diagfmt

import (
	"fmt"
	"io"

	"upvalcheck/internal/diag"
	"upvalcheck/internal/source"
)

// ParseErrorsHeader precedes the syntax errors of a file that failed to parse.
const ParseErrorsHeader = "Parse errors were encountered:"

// PlainLine formats a single diagnostic as "<loc>: <kind>: <message>".
func PlainLine(fs *source.FileSet, d diag.Diagnostic, mode PathMode) string {
	return fmt.Sprintf("%s: %s: %s", SpanLocation(fs, d.Primary, mode), d.Code.Kind(), d.Message)
}

// Plain writes one line per diagnostic in bag order.
// With opts.Header the first syntax error is preceded by ParseErrorsHeader.
func Plain(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PlainOpts) error {
	headerDone := !opts.Header
	for _, d := range bag.Items() {
		if !headerDone && isSyntax(d.Code) {
			if _, err := fmt.Fprintln(w, ParseErrorsHeader); err != nil {
				return err
			}
			headerDone = true
		}
		if _, err := fmt.Fprintln(w, PlainLine(fs, d, opts.PathMode)); err != nil {
			return err
		}
	}
	return nil
}

func isSyntax(code diag.Code) bool {
	return code.Kind() == "SyntaxError"
}

// HasSyntaxErrors reports whether the bag holds lexical or syntax errors.
func HasSyntaxErrors(bag *diag.Bag) bool {
	for _, d := range bag.Items() {
		if d.Severity == diag.SevError && isSyntax(d.Code) {
			return true
		}
	}
	return false
}
