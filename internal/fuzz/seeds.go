package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const maxSeedBytes = 64 << 10

var inlineSeeds = []string{
	"",
	"return 1\n",
	"local function outer(p)\n  return function() return p end\nend\n",
	"local t = {}\nfunction t:m() return function() return self end end\n",
	"for i = 1, 3 do\n  local f = function() return i end\nend\n",
	"local x: number = 1\nlocal y = if x then x else 0\n",
	"type F = (number) -> string\nexport type G<T> = { f: F, v: T }\n",
	"local s = `a{1 + 2}b`\n",
	"while true do continue end\n",
	"local f = function(...) return ... end\nf(\n",
	"#!/usr/bin/env luau\nprint(1)\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range inlineSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

// addTestdataSeeds adds every *.lua and *.luau file under testdata/.
func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		if ext := filepath.Ext(path); ext != ".lua" && ext != ".luau" {
			return nil
		}
		// #nosec G304 -- path comes from the repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
