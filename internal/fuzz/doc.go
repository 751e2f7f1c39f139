// Package fuzztests holds Go fuzz harnesses for the lexer, the parser and
// the closure checker. They guard against panics, hangs and malformed trees
// on arbitrary input.
package fuzztests
