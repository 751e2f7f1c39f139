package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("test.luau", []byte("local a = 1"), 0)
	if id1 != 0 {
		t.Errorf("expected first FileID to be 0, got %d", id1)
	}
	id2 := fs.Add("test.luau", []byte("local b = 2"), 0)
	if id2 != 1 {
		t.Errorf("expected second FileID to be 1, got %d", id2)
	}

	latest, ok := fs.GetLatest("test.luau")
	if !ok || latest != id2 {
		t.Errorf("GetLatest = %d, %v; want %d, true", latest, ok, id2)
	}
	if got := string(fs.Get(id1).Content); got != "local a = 1" {
		t.Errorf("old version content = %q", got)
	}
	if fs.Len() != 2 {
		t.Errorf("Len = %d, want 2", fs.Len())
	}
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.lua", []byte("a\nb\n"))
	file := fs.Get(id)

	want := []uint32{1, 3}
	if len(file.LineIdx) != len(want) {
		t.Fatalf("LineIdx = %v, want %v", file.LineIdx, want)
	}
	for i, v := range want {
		if file.LineIdx[i] != v {
			t.Errorf("LineIdx[%d] = %d, want %d", i, file.LineIdx[i], v)
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("expected FileVirtual flag")
	}
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("r.lua", []byte("local x\nprint(x)\n"))

	tests := []struct {
		name string
		off  uint32
		want LineCol
	}{
		{"first byte", 0, LineCol{1, 1}},
		{"mid first line", 6, LineCol{1, 7}},
		{"newline byte", 7, LineCol{1, 8}},
		{"second line start", 8, LineCol{2, 1}},
		{"second line x", 14, LineCol{2, 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fs.Position(Span{File: id, Start: tt.off, End: tt.off})
			if got != tt.want {
				t.Errorf("Position(%d) = %+v, want %+v", tt.off, got, tt.want)
			}
		})
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	file := fs.Get(fs.AddVirtual("l.lua", []byte("one\ntwo\nthree")))

	tests := []struct {
		line uint32
		want string
	}{
		{0, ""},
		{1, "one"},
		{2, "two"},
		{3, "three"},
		{4, ""},
	}
	for _, tt := range tests {
		if got := file.GetLine(tt.line); got != tt.want {
			t.Errorf("GetLine(%d) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestLoadNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.lua")
	content := "\xEF\xBB\xBF#!/usr/bin/env luau\r\nlocal x = 1\r\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	file := fs.Get(id)
	if got, want := string(file.Content), "\nlocal x = 1\n"; got != want {
		t.Errorf("content = %q, want %q", got, want)
	}
	for _, flag := range []FileFlags{FileHadBOM, FileNormalizedCRLF, FileHadShebang} {
		if file.Flags&flag == 0 {
			t.Errorf("expected flag %d to be set, flags = %b", flag, file.Flags)
		}
	}
	if file.Flags&FileVirtual != 0 {
		t.Error("disk files must not be virtual")
	}
}

func TestLoadMissingFile(t *testing.T) {
	fs := NewFileSet()
	if _, err := fs.Load(filepath.Join(t.TempDir(), "missing.lua")); err == nil {
		t.Fatal("expected error for missing file")
	}
	if fs.Len() != 0 {
		t.Errorf("failed load must not add a file, Len = %d", fs.Len())
	}
}

func TestLoadReaderShebang(t *testing.T) {
	tests := []struct {
		name      string
		wantLine1 string
		wantFlag  bool
	}{
		{StdinName, "#!shebang", false},
		{"piped.luau", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := NewFileSet()
			id, err := fs.LoadReader(tt.name, strings.NewReader("#!shebang\r\nreturn 1\n"))
			if err != nil {
				t.Fatal(err)
			}
			file := fs.Get(id)
			if file.Path != tt.name {
				t.Errorf("Path = %q, want %q", file.Path, tt.name)
			}
			if file.Flags&FileVirtual == 0 || file.Flags&FileNormalizedCRLF == 0 {
				t.Errorf("flags = %b", file.Flags)
			}
			if got := file.Flags&FileHadShebang != 0; got != tt.wantFlag {
				t.Errorf("shebang flag = %v, want %v", got, tt.wantFlag)
			}
			if got := file.GetLine(1); got != tt.wantLine1 {
				t.Errorf("line 1 = %q, want %q", got, tt.wantLine1)
			}
			if got := file.GetLine(2); got != "return 1" {
				t.Errorf("line 2 = %q", got)
			}
		})
	}
}

func TestFormatPath(t *testing.T) {
	fs := NewFileSet()
	file := fs.Get(fs.Add("dir/sub/file.lua", nil, 0))

	if got := file.FormatPath("basename", ""); got != "file.lua" {
		t.Errorf("basename = %q", got)
	}
	if got := file.FormatPath("", ""); got != "dir/sub/file.lua" {
		t.Errorf("default = %q", got)
	}
	if got := file.FormatPath("auto", ""); got != "dir/sub/file.lua" {
		t.Errorf("auto = %q", got)
	}
	abs := file.FormatPath("absolute", "")
	if !filepath.IsAbs(filepath.FromSlash(abs)) {
		t.Errorf("absolute = %q", abs)
	}

	virtual := fs.Get(fs.AddVirtual(StdinName, nil))
	if got := virtual.FormatPath("absolute", ""); got != StdinName {
		t.Errorf("virtual files keep their name, got %q", got)
	}
}
