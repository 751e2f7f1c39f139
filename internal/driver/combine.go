package driver

import (
	"upvalcheck/internal/diag"
	"upvalcheck/internal/source"
)

// Combine copies the files of results into one FileSet and rebases their
// diagnostics onto it, so a directory run renders as a single report.
// Results with Err set are skipped.
func Combine(results []*Result) (*source.FileSet, *diag.Bag) {
	fs := source.NewFileSet()
	bag := diag.NewBag(0)
	for _, res := range results {
		if res == nil || res.Err != nil || res.File == nil || res.Bag == nil {
			continue
		}
		id := fs.Add(res.File.Path, res.File.Content, res.File.Flags)
		rebase := func(sp source.Span) source.Span {
			sp.File = id
			return sp
		}
		part := diag.NewBag(0)
		part.Merge(res.Bag)
		part.Transform(func(d diag.Diagnostic) diag.Diagnostic {
			d.Primary = rebase(d.Primary)
			notes := make([]diag.Note, len(d.Notes))
			for i, n := range d.Notes {
				notes[i] = diag.Note{Span: rebase(n.Span), Msg: n.Msg}
			}
			d.Notes = notes
			return d
		})
		bag.Merge(part)
	}
	return fs, bag
}
