// Package trace records what the checker is doing: which command runs,
// which stage each file is in, and which findings were produced.
//
// Enable it from the command line:
//
//	upvalcheck check --trace=- --trace-level=detail src/
//
// Tracers:
//
//   - Nop: tracing disabled
//   - StreamTracer: writes events as they happen (text, NDJSON or Chrome JSON)
//   - RingTracer: keeps the last events in memory for dumps
//   - MultiTracer: fans out to several tracers
//
// Levels select scopes: phase shows driver and pass spans, detail adds
// per-file spans, debug adds one point event per finding.
//
// The tracer travels in the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span, ctx := trace.StartSpan(ctx, trace.ScopePass, "parse")
//	defer span.End("")
package trace
