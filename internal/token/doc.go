// Package token defines lexical token kinds and trivia for Lua and Luau sources.
// Invariants:
//   - Token.Text is the exact source slice of Token.Span.
//   - Comments and whitespace never appear in the main stream; they ride on
//     the next token as leading Trivia.
//   - Contextual Luau words (continue, type, export, typeof) are identifiers.
//     The parser decides from context whether they act as keywords.
//   - Interpolated strings are split into InterpBegin/InterpMid/InterpEnd
//     segments around the embedded expressions, or a single InterpSimple.
package token
