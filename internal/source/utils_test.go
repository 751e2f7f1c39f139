package source

import (
	"testing"
)

func TestNormalizeCRLF(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		changed bool
	}{
		{"a\nb", "a\nb", false},
		{"a\r\nb\r\n", "a\nb\n", true},
		{"a\rb", "a\rb", false},
		{"\r\r\n", "\r\n", true},
	}
	for _, tt := range tests {
		got, changed := normalizeCRLF([]byte(tt.in))
		if string(got) != tt.want || changed != tt.changed {
			t.Errorf("normalizeCRLF(%q) = %q, %v; want %q, %v", tt.in, got, changed, tt.want, tt.changed)
		}
	}
}

func TestRemoveBOM(t *testing.T) {
	got, had := removeBOM([]byte("\xEF\xBB\xBFx"))
	if string(got) != "x" || !had {
		t.Errorf("removeBOM = %q, %v", got, had)
	}
	got, had = removeBOM([]byte("xy"))
	if string(got) != "xy" || had {
		t.Errorf("removeBOM short = %q, %v", got, had)
	}
}

func TestBlankShebangLines(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		changed bool
	}{
		{"none", "local x\n", "local x\n", false},
		{"first line", "#!/bin/luau\nprint(1)\n", "\nprint(1)\n", true},
		{"last line without newline", "print(1)\n#!tail", "print(1)\n", true},
		{"two bytes only", "#!\nx\n", "#!\nx\n", false},
		{"two bytes before crlf", "#!\r\nx\n", "#!\r\nx\n", false},
		{"two bytes at eof", "x\n#!", "x\n#!", false},
		{"three bytes", "#!x\ny\n", "\ny\n", true},
		{"inside string stays", "x = '#!'\n", "x = '#!'\n", false},
		{"several", "#!a\n#!b\nx\n", "\n\nx\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := blankShebangLines([]byte(tt.in))
			if string(got) != tt.want || changed != tt.changed {
				t.Errorf("got %q, %v; want %q, %v", got, changed, tt.want, tt.changed)
			}
		})
	}
}

func TestToLineColEmptyIndex(t *testing.T) {
	if got := toLineCol(nil, 5); got != (LineCol{Line: 1, Col: 6}) {
		t.Errorf("toLineCol(nil, 5) = %+v", got)
	}
}

func TestRelativePathEscape(t *testing.T) {
	rel, err := RelativePath("/a/b/c.lua", "/a")
	if err != nil {
		t.Fatal(err)
	}
	if rel != "b/c.lua" {
		t.Errorf("RelativePath = %q", rel)
	}
	out, err := RelativePath("/x/y.lua", "/a/b")
	if err != nil {
		t.Fatal(err)
	}
	if out != "/x/y.lua" {
		t.Errorf("escaping path should stay absolute, got %q", out)
	}
}
