package trace

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestLevelScopes(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeFile, false},
		{LevelDetail, ScopeFile, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"off", "ERROR", "phase", "Detail", "debug"} {
		if _, err := ParseLevel(s); err != nil {
			t.Errorf("ParseLevel(%q): %v", s, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestStartSpanNesting(t *testing.T) {
	ring := NewRingTracer(16, LevelDetail)
	ctx := WithTracer(context.Background(), ring)

	outer, ctx := StartSpan(ctx, ScopeDriver, "check")
	inner, _ := StartSpan(ctx, ScopeFile, "file:a.luau")
	Point(ring, ScopeNode, "finding", "x", inner.ID(), nil)
	inner.End("")
	outer.End("")

	events := ring.Snapshot()
	if len(events) != 4 {
		t.Fatalf("expected 4 events (node point filtered), got %d", len(events))
	}
	if events[1].ParentID != outer.ID() {
		t.Fatalf("file span parent = %d, want %d", events[1].ParentID, outer.ID())
	}
}

func TestStreamFormats(t *testing.T) {
	var buf bytes.Buffer
	st := NewStreamTracer(&buf, LevelDebug, FormatChrome)
	span := Begin(st, ScopePass, "parse", 0)
	span.WithExtra("file", "a.luau").End("ok")
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "{\"traceEvents\":[") || !strings.HasSuffix(out, "]}\n") {
		t.Fatalf("unexpected chrome envelope: %q", out)
	}
	if !strings.Contains(out, `"ph":"B"`) || !strings.Contains(out, `"ph":"E"`) {
		t.Fatalf("missing begin/end phases: %q", out)
	}

	text := string(FormatEvent(&Event{Kind: KindPoint, Name: "finding", Extra: map[string]string{"b": "2", "a": "1"}}, FormatText))
	if !strings.Contains(text, "• finding {a=1, b=2}") {
		t.Fatalf("unexpected text event: %q", text)
	}
}

func TestRingWraps(t *testing.T) {
	ring := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(ring, ScopeNode, name, "", 0, nil)
	}
	var got []string
	for _, ev := range ring.Snapshot() {
		got = append(got, ev.Name)
	}
	if strings.Join(got, "") != "cde" {
		t.Fatalf("snapshot = %v, want [c d e]", got)
	}

	var buf bytes.Buffer
	if err := ring.Dump(&buf, FormatText); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if n := strings.Count(buf.String(), "\n"); n != 3 {
		t.Fatalf("dump wrote %d lines, want 3:\n%s", n, buf.String())
	}
}

func TestNewModes(t *testing.T) {
	var buf bytes.Buffer
	tests := []struct {
		mode StorageMode
		want string
	}{
		{ModeStream, "*trace.StreamTracer"},
		{ModeRing, "*trace.RingTracer"},
		{ModeBoth, "*trace.MultiTracer"},
	}
	for _, tt := range tests {
		tr, err := New(Config{Level: LevelPhase, Mode: tt.mode, Output: &buf})
		if err != nil {
			t.Fatalf("New(%s): %v", tt.mode, err)
		}
		if got := fmt.Sprintf("%T", tr); got != tt.want {
			t.Errorf("New(%s) = %s, want %s", tt.mode, got, tt.want)
		}
	}
	if tr, err := New(Config{Level: LevelOff, Mode: ModeStream}); err != nil || tr.Enabled() {
		t.Errorf("LevelOff should give a disabled tracer, got %T %v", tr, err)
	}
	if _, err := ParseMode("sideways"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestHeartbeatStop(t *testing.T) {
	ring := NewRingTracer(64, LevelPhase)
	h := StartHeartbeat(ring, time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	h.Stop()
	h.Stop()
	after := len(ring.Snapshot())
	time.Sleep(5 * time.Millisecond)
	if len(ring.Snapshot()) != after {
		t.Fatal("heartbeat kept emitting after Stop")
	}
	if StartHeartbeat(Nop, time.Millisecond) != nil {
		t.Error("heartbeat started for a disabled tracer")
	}
}
