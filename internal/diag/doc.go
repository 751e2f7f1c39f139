// Package diag defines the diagnostic model shared by the lexer, the parser
// and the closure checker.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity: Info, Warning or Error (severity.go).
//   - Code: compact numeric identifier with a stable ID such as "SYN2001",
//     a Title and a Kind. Kind is the category word the plain output prints
//     ("SyntaxError", "UncachedClosureWarning", "IOError").
//   - Message: one line of human oriented text.
//   - Primary: the source.Span the diagnostic is anchored at.
//   - Notes: secondary spans such as "declared here".
//   - Fixes: optional text edits.
//
// # Emitting diagnostics
//
// Phases receive a Reporter and either call Report directly or go through
// ReportBuilder (see ReportWarning) to attach notes before Emit.
// BagReporter stores into a Bag, which supports limits, merging and
// filtering.
//
// Package diag does no formatting or IO; rendering lives in internal/diagfmt.
package diag
