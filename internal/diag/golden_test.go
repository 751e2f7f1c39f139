package diag

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"upvalcheck/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	userFile := fs.Add("/workspace/testdata/sample.lua", []byte("a\nb\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevWarning,
			Code:     CacheUncachedClosure,
			Message:  "later",
			Primary:  source.Span{File: userFile, Start: 2, End: 3},
		},
		{
			Severity: SevError,
			Code:     SynUnexpectedToken,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: userFile, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: source.FileID(42)}, Msg: "unknown file is skipped"},
				{Span: source.Span{File: userFile, Start: 2, End: 3}, Msg: "note line"},
			},
		},
	}

	want := "error SYN2001 testdata/sample.lua:1:1 first line second\n" +
		"note SYN2001 testdata/sample.lua:2:1 note line\n" +
		"warning UCC3001 testdata/sample.lua:2:1 later"

	if diff := cmp.Diff(want, FormatGoldenDiagnostics(diags, fs, true)); diff != "" {
		t.Fatalf("golden diagnostics mismatch (-want +got):\n%s", diff)
	}

	short := "warning UCC3001 testdata/sample.lua:2:1 later\n" +
		"error SYN2001 testdata/sample.lua:1:1 first line second"
	if diff := cmp.Diff(short, FormatShortDiagnostics(diags, fs, false)); diff != "" {
		t.Fatalf("short diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatGoldenEmpty(t *testing.T) {
	if got := FormatGoldenDiagnostics(nil, source.NewFileSet(), true); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}
