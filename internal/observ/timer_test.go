package observ

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	read := tm.Begin("read")
	tm.End(read, "")
	parse := tm.Begin("parse")
	tm.End(parse, "0 errors")
	tm.End(42, "ignored")

	var names, notes []string
	for _, p := range tm.Report().Phases {
		names = append(names, p.Name)
		notes = append(notes, p.Note)
	}
	if diff := cmp.Diff([]string{"read", "parse"}, names); diff != "" {
		t.Errorf("phases (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"", "0 errors"}, notes); diff != "" {
		t.Errorf("notes (-want +got):\n%s", diff)
	}
}

func TestSummary(t *testing.T) {
	r := Report{TotalMS: 1.5, Phases: []PhaseReport{{Name: "check", DurationMS: 1.5, Note: "2 findings"}}}
	want := "timings: a.lua\n" +
		"  check         1.50 ms  // 2 findings\n" +
		"  total         1.50 ms\n"
	if got := r.Summary("a.lua"); got != want {
		t.Errorf("Summary:\n%s\nwant:\n%s", got, want)
	}
	if empty := NewTimer().Summary(); !strings.HasPrefix(empty, "timings:\n") {
		t.Errorf("empty summary = %q", empty)
	}
}
