package closurecheck

import (
	"fmt"

	"upvalcheck/internal/diag"
	"upvalcheck/internal/diagfmt"
	"upvalcheck/internal/source"
)

// describeClosure is `closure "name"` or `anonymous closure`.
func describeClosure(f Finding) string {
	if f.Anonymous() {
		return "anonymous closure"
	}
	return `closure "` + f.ClosureName + `"`
}

// Message renders the warning text using mode for embedded locations.
func Message(fs *source.FileSet, f Finding, mode diagfmt.PathMode) string {
	return fmt.Sprintf(`Usage of upvalue "%s" declared at %s prevents %s at %s from being cached`,
		f.DeclName,
		diagfmt.SpanLocation(fs, f.DeclSpan, mode),
		describeClosure(f),
		diagfmt.SpanLocation(fs, f.ClosureSpan, mode),
	)
}

// Report emits one warning per finding, anchored at the reference.
func Report(r diag.Reporter, fs *source.FileSet, findings []Finding, mode diagfmt.PathMode) {
	for _, f := range findings {
		diag.ReportWarning(r, diag.CacheUncachedClosure, f.RefSpan, Message(fs, f, mode)).
			WithNote(f.DeclSpan, `"`+f.DeclName+`" is declared here`).
			WithNote(f.ClosureSpan.Head(), describeClosure(f)+" defined here").
			Emit()
	}
}
