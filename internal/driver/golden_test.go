package driver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"upvalcheck/internal/diagfmt"
	"upvalcheck/internal/testkit"
)

// TestGolden checks every testdata/luau/*.luau file against the plain
// output stored next to it in a .out file.
func TestGolden(t *testing.T) {
	inputs, err := filepath.Glob(filepath.Join("..", "..", "testdata", "luau", "*.luau"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(inputs) == 0 {
		t.Skip("no golden inputs")
	}
	for _, input := range inputs {
		name := filepath.Base(input)
		t.Run(strings.TrimSuffix(name, ".luau"), func(t *testing.T) {
			src, err := os.ReadFile(input)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			want, err := os.ReadFile(strings.TrimSuffix(input, ".luau") + ".out")
			if err != nil {
				t.Fatalf("read golden: %v", err)
			}

			res, err := CheckReader(context.Background(), name, strings.NewReader(string(src)), DefaultOptions())
			if err != nil {
				t.Fatalf("CheckReader: %v", err)
			}
			var got strings.Builder
			if err := diagfmt.Plain(&got, res.Bag, res.FileSet, diagfmt.PlainOpts{Header: true}); err != nil {
				t.Fatalf("Plain: %v", err)
			}
			if diff := cmp.Diff(string(want), got.String()); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}

			if res.SyntaxErrors {
				return
			}
			if err := testkit.CheckSpanInvariants(res.Builder, res.ASTFile, res.File); err != nil {
				t.Errorf("span invariants: %v", err)
			}
			if err := testkit.CheckBindingInvariants(res.Builder, res.ASTFile); err != nil {
				t.Errorf("binding invariants: %v", err)
			}
		})
	}
}
