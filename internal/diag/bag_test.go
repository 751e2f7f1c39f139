package diag

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"upvalcheck/internal/source"
)

func span(start, end uint32) source.Span {
	return source.Span{Start: start, End: end}
}

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	for i := range 3 {
		b.Add(NewError(SynUnexpectedToken, span(uint32(i), uint32(i)+1), "x"))
	}
	if b.Len() != 2 || b.Dropped() != 1 {
		t.Fatalf("Len = %d, Dropped = %d; want 2, 1", b.Len(), b.Dropped())
	}

	unbounded := NewBag(0)
	for range 100 {
		unbounded.Add(NewWarning(CacheUncachedClosure, span(0, 1), "w"))
	}
	if unbounded.Len() != 100 {
		t.Fatalf("unbounded bag dropped entries: %d", unbounded.Len())
	}
}

func TestBagSeverityQueries(t *testing.T) {
	b := NewBag(0)
	b.Add(NewWarning(CacheUncachedClosure, span(0, 1), "w"))
	if b.HasErrors() || !b.HasWarnings() {
		t.Fatalf("HasErrors = %v, HasWarnings = %v", b.HasErrors(), b.HasWarnings())
	}
	b.Add(NewError(SynExpectEnd, span(5, 6), "e"))
	if !b.HasErrors() {
		t.Fatal("expected errors")
	}

	want := map[Severity]int{SevWarning: 1, SevError: 1}
	if diff := cmp.Diff(want, b.CountBy()); diff != "" {
		t.Errorf("CountBy mismatch (-want +got):\n%s", diff)
	}

	warnings := b.Filter(func(d Diagnostic) bool { return d.Severity == SevWarning })
	if warnings.Len() != 1 || warnings.Items()[0].Code != CacheUncachedClosure {
		t.Errorf("Filter = %+v", warnings.Items())
	}
}

func TestBagMergeGrowsLimit(t *testing.T) {
	a := NewBag(1)
	a.Add(NewError(SynExpectEnd, span(0, 1), "a"))
	other := NewBag(0)
	other.Add(NewError(SynExpectEnd, span(1, 2), "b"))
	other.Add(NewError(SynExpectEnd, span(2, 3), "c"))
	a.Merge(other)
	if a.Len() != 3 || a.Cap() != 3 {
		t.Fatalf("Len = %d, Cap = %d", a.Len(), a.Cap())
	}
}

func TestCodeKinds(t *testing.T) {
	tests := []struct {
		code Code
		id   string
		kind string
	}{
		{LexUnterminatedString, "LEX1002", "SyntaxError"},
		{SynExpectEnd, "SYN2004", "SyntaxError"},
		{CacheUncachedClosure, "UCC3001", "UncachedClosureWarning"},
		{IOLoadFileError, "IO4001", "IOError"},
		{ProjConfigInvalid, "PRJ5001", "ConfigError"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := tt.code.ID(); got != tt.id {
				t.Errorf("ID = %q, want %q", got, tt.id)
			}
			if got := tt.code.Kind(); got != tt.kind {
				t.Errorf("Kind = %q, want %q", got, tt.kind)
			}
		})
	}
}

func TestReportBuilderAndDedup(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})

	for range 2 {
		ReportWarning(r, CacheUncachedClosure, span(4, 5), "same").
			WithNote(span(0, 1), "declared here").
			Emit()
	}
	if bag.Len() != 1 {
		t.Fatalf("dedup reporter let %d entries through", bag.Len())
	}
	if n := len(bag.Items()[0].Notes); n != 1 {
		t.Errorf("notes = %d, want 1", n)
	}

	var seen int
	MultiReporter{NopReporter{}, ReporterFunc(func(Code, Severity, source.Span, string, []Note, []Fix) { seen++ })}.
		Report(SynExpectEnd, SevError, span(0, 0), "x", nil, nil)
	if seen != 1 {
		t.Errorf("MultiReporter forwarded %d times", seen)
	}
}
