package ui

import (
	"strings"
	"testing"

	"upvalcheck/internal/driver"
)

func TestApplyEvent(t *testing.T) {
	m := NewProgressModel("checking", []string{"a.lua", "b.lua"}, nil).(*progressModel)

	m.applyEvent(driver.Event{File: "a.lua", Stage: driver.StageParse, Status: driver.StatusWorking})
	if got := m.items[0].status; got != "parsing" {
		t.Errorf("status = %q, want parsing", got)
	}
	m.applyEvent(driver.Event{File: "a.lua", Stage: driver.StageCheck, Status: driver.StatusDone})
	m.applyEvent(driver.Event{File: "b.lua", Stage: driver.StageParse, Status: driver.StatusError})
	m.applyEvent(driver.Event{File: "unknown.lua", Stage: driver.StageRead, Status: driver.StatusWorking})

	if got := m.finished(); got != 2 {
		t.Errorf("finished = %d, want 2", got)
	}
	view := m.View()
	for _, want := range []string{"checking 2/2", "done", "error", "a.lua", "b.lua"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"averyveryverylongname.lua", 10, "averyve..."},
		{"abcdef", 3, "abc"},
		{"名前名前名前", 7, "名前..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
