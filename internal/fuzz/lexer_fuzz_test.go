package fuzztests

import (
	"testing"

	"upvalcheck/internal/diag"
	"upvalcheck/internal/lexer"
	"upvalcheck/internal/source"
	"upvalcheck/internal/token"
)

const maxFuzzInput = 1 << 16 // 64 KiB

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		fs := source.NewFileSet()
		content, flags := source.Normalize(input)
		file := fs.Get(fs.Add("fuzz.luau", content, flags|source.FileVirtual))

		bag := diag.NewBag(64)
		lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
		size := uint32(len(file.Content))
		for {
			tok := lx.Next()
			if tok.Span.End < tok.Span.Start || tok.Span.End > size {
				t.Fatalf("token %v has span %v in %d bytes", tok.Kind, tok.Span, size)
			}
			if tok.Kind == token.EOF {
				break
			}
		}
	})
}
