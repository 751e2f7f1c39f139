package trace

import (
	"io"
	"os"
	"sync"
)

// StreamTracer formats and writes every event as it arrives.
// Write errors are ignored: tracing must never fail a check.
type StreamTracer struct {
	level  Level
	format Format

	mu    sync.Mutex
	w     io.Writer
	count int
}

// NewStreamTracer writes to w. Chrome output is framed as
// {"traceEvents":[ ... ]} and is only complete after Close.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	t := &StreamTracer{w: w, level: level, format: format}
	if format == FormatChrome {
		t.write("{\"traceEvents\":[\n")
	}
	return t
}

func (t *StreamTracer) write(s string) {
	_, _ = io.WriteString(t.w, s) //nolint:errcheck
}

func (t *StreamTracer) Emit(ev *Event) {
	if ev.Kind != KindHeartbeat && !t.level.ShouldEmit(ev.Scope) {
		return
	}
	ev.Seq = NextSeq()
	data := FormatEvent(ev, t.format)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.format == FormatChrome && t.count > 0 {
		t.write(",\n")
	}
	t.count++
	_, _ = t.w.Write(data) //nolint:errcheck
}

// Flush forwards to the writer when it buffers.
func (t *StreamTracer) Flush() error {
	if f, ok := t.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Close terminates Chrome framing, flushes and closes the writer unless it
// is stdout or stderr.
func (t *StreamTracer) Close() error {
	t.mu.Lock()
	if t.format == FormatChrome {
		t.write("\n]}\n")
	}
	t.mu.Unlock()

	if err := t.Flush(); err != nil {
		return err
	}
	if t.w == os.Stdout || t.w == os.Stderr {
		return nil
	}
	if c, ok := t.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (t *StreamTracer) Level() Level  { return t.level }
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
