package lexer_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"upvalcheck/internal/diag"
	"upvalcheck/internal/lexer"
	"upvalcheck/internal/source"
	"upvalcheck/internal/token"
)

func makeTestLexer(input string) (*lexer.Lexer, *diag.Bag) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.luau", []byte(input)))
	bag := diag.NewBag(0)
	return lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}}), bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, t := range toks {
		if t.Kind != token.EOF {
			out = append(out, t.Kind)
		}
	}
	return out
}

func expectTokens(t *testing.T, input string, want ...token.Kind) {
	t.Helper()
	lx, bag := makeTestLexer(input)
	got := kinds(lx.All())
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tokens for %q (-want +got):\n%s", input, diff)
	}
	if bag.Len() != 0 {
		t.Errorf("unexpected diagnostics for %q: %+v", input, bag.Items())
	}
}

func TestKeywordsAndNames(t *testing.T) {
	expectTokens(t, "local function f() end",
		token.KwLocal, token.KwFunction, token.Name, token.LParen, token.RParen, token.KwEnd)
	expectTokens(t, "continue type typeof self",
		token.Name, token.Name, token.Name, token.Name)
}

func TestOperators(t *testing.T) {
	expectTokens(t, "a ..= b //= c // d ... ~= == <= >= -> :: += -= *= /= %= ^=",
		token.Name, token.ConcatAssign, token.Name, token.FloorAssign, token.Name,
		token.SlashSlash, token.Name, token.Dots, token.NotEq, token.EqEq, token.LtEq,
		token.GtEq, token.Arrow, token.ColonColon, token.PlusAssign, token.MinusAssign,
		token.StarAssign, token.SlashAssign, token.PercentAssign, token.CaretAssign)
	expectTokens(t, "#t .. x",
		token.Hash, token.Name, token.Concat, token.Name)
}

func TestNumbers(t *testing.T) {
	tests := []string{"0", "123", "1_000", "0x1F", "0XaB_cd", "0b1010", "1.5", ".5", "3.", "1e10", "2.5E-3", "1e+2"}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			lx, bag := makeTestLexer(in)
			tok := lx.Next()
			if tok.Kind != token.Number || tok.Text != in {
				t.Errorf("got %v %q", tok.Kind, tok.Text)
			}
			if bag.Len() != 0 {
				t.Errorf("diagnostics: %+v", bag.Items())
			}
		})
	}

	expectTokens(t, "1..2", token.Number, token.Concat, token.Number)
}

func TestMalformedNumbers(t *testing.T) {
	for _, in := range []string{"0x", "12abc", "1e", "0b"} {
		t.Run(in, func(t *testing.T) {
			lx, bag := makeTestLexer(in)
			lx.All()
			if bag.Len() != 1 || bag.Items()[0].Code != diag.LexBadNumber {
				t.Errorf("diagnostics = %+v", bag.Items())
			}
		})
	}
}

func TestStrings(t *testing.T) {
	expectTokens(t, `'a' "b\"c" "\x41\u{1F600}\65\z
	   tail"`, token.String, token.String, token.String)
	expectTokens(t, "[[long\nstring]] [==[with ]] inside]==]", token.LongString, token.LongString)
	expectTokens(t, "t[ [[k]] ]", token.Name, token.LBracket, token.LongString, token.RBracket)
}

func TestStringErrors(t *testing.T) {
	tests := []struct {
		in   string
		code diag.Code
	}{
		{"'open", diag.LexUnterminatedString},
		{"\"line\nbreak\"", diag.LexUnterminatedString},
		{`"\q"`, diag.LexBadEscape},
		{`"\x4"`, diag.LexBadEscape},
		{`"\256"`, diag.LexBadEscape},
		{`"\u{110000}"`, diag.LexBadEscape},
		{"[==[never closed", diag.LexUnterminatedLongString},
		{"[=x", diag.LexBadLongBracket},
		{"--[[open comment", diag.LexUnterminatedBlockComment},
		{"$", diag.LexUnknownChar},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			lx, bag := makeTestLexer(tt.in)
			lx.All()
			if bag.Len() == 0 || bag.Items()[0].Code != tt.code {
				t.Fatalf("diagnostics = %+v, want first %s", bag.Items(), tt.code.ID())
			}
			if lx.ErrorCount() != bag.Len() {
				t.Errorf("ErrorCount = %d, bag = %d", lx.ErrorCount(), bag.Len())
			}
		})
	}
}

func TestComments(t *testing.T) {
	lx, bag := makeTestLexer("-- line\n--[[ block\n]] --[=[ x ]=] a --[ not long\nb")
	toks := lx.All()
	if diff := cmp.Diff([]token.Kind{token.Name, token.Name}, kinds(toks)); diff != "" {
		t.Fatalf("kinds (-want +got):\n%s", diff)
	}
	var trivia []token.TriviaKind
	for _, tr := range toks[0].Leading {
		trivia = append(trivia, tr.Kind)
	}
	want := []token.TriviaKind{
		token.TriviaLineComment, token.TriviaNewline, token.TriviaBlockComment,
		token.TriviaSpace, token.TriviaBlockComment, token.TriviaSpace,
	}
	if diff := cmp.Diff(want, trivia); diff != "" {
		t.Errorf("trivia (-want +got):\n%s", diff)
	}
	if !toks[1].HasNewlineBefore() {
		t.Error("b follows a line comment and a newline")
	}
	if bag.Len() != 0 {
		t.Errorf("diagnostics: %+v", bag.Items())
	}
}

func TestInterpolatedStrings(t *testing.T) {
	expectTokens(t, "`plain`", token.InterpSimple)
	expectTokens(t, "`a{x}b{ {y} }c`",
		token.InterpBegin, token.Name, token.InterpMid,
		token.LBrace, token.Name, token.RBrace, token.InterpEnd)
	expectTokens(t, "`\\{not a hole}`", token.InterpSimple)

	lx, _ := makeTestLexer("`x{a}y`")
	toks := lx.All()
	texts := []string{toks[0].Text, toks[1].Text, toks[2].Text}
	if diff := cmp.Diff([]string{"`x{", "a", "}y`"}, texts); diff != "" {
		t.Errorf("segment texts (-want +got):\n%s", diff)
	}
}

func TestSpansMatchText(t *testing.T) {
	input := "local x = `v{1}` .. [[s]] -- c\nreturn x"
	lx, _ := makeTestLexer(input)
	for _, tok := range lx.All() {
		if got := input[tok.Span.Start:tok.Span.End]; got != tok.Text {
			t.Errorf("%v span text %q != token text %q", tok.Kind, got, tok.Text)
		}
	}
}

func TestPeekIsStable(t *testing.T) {
	lx, _ := makeTestLexer("a b")
	if p1, p2 := lx.Peek(), lx.Peek(); p1.Text != "a" || p2.Text != "a" {
		t.Fatalf("Peek = %q, %q", p1.Text, p2.Text)
	}
	if n := lx.Next(); n.Text != "a" {
		t.Fatalf("Next = %q", n.Text)
	}
	if n := lx.Next(); n.Text != "b" {
		t.Fatalf("Next = %q", n.Text)
	}
	for range 2 {
		if n := lx.Next(); n.Kind != token.EOF {
			t.Fatalf("after end: %v", n.Kind)
		}
	}
}
