package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func writeFile(t *testing.T, p, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	cfgPath := filepath.Join(root, ConfigFileName)
	writeFile(t, cfgPath, "[check]\njobs = 2\n")
	src := filepath.Join(root, "src", "deep", "a.lua")
	writeFile(t, src, "return 1\n")

	for _, start := range []string{src, filepath.Dir(src), root} {
		got, ok, err := Find(start)
		if err != nil || !ok {
			t.Fatalf("Find(%s) = %q, %v, %v", start, got, ok, err)
		}
		if got != cfgPath {
			t.Errorf("Find(%s) = %q, want %q", start, got, cfgPath)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, ConfigFileName)
	writeFile(t, p, `
[check]
format = "json"
jobs = 4
exclude = ["vendor/**", "*_spec.lua"]

[cache]
enabled = true
`)
	f, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	want := Config{
		Check: CheckConfig{Format: "json", Jobs: 4, Exclude: []string{"vendor/**", "*_spec.lua"}},
		Cache: CacheConfig{Enabled: true},
	}
	if diff := cmp.Diff(want, f.Config); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if !f.IsDefined("check", "jobs") || f.IsDefined("check", "max_diagnostics") {
		t.Error("IsDefined does not follow the file contents")
	}
	if f.Root != dir {
		t.Errorf("Root = %q, want %q", f.Root, dir)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "[check\n", "failed to parse TOML"},
		{"unknown key", "[check]\ncolour = true\n", "unknown keys: check.colour"},
		{"format", "[check]\nformat = \"xml\"\n", `unknown format "xml"`},
		{"jobs", "[check]\njobs = -1\n", "jobs must not be negative"},
		{"features", "[check]\nfeatures = \"warp\"\n", "[check].features"},
		{"pattern", "[check]\nexclude = [\"[\"]\n", "bad pattern"},
		{"extension", "[check]\nextensions = [\"lua\"]\n", "must start with '.'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := filepath.Join(t.TempDir(), ConfigFileName)
			writeFile(t, p, tt.content)
			_, err := Load(p)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p, err := WriteDefault(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	f, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Default(), f.Config, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("default config mismatch (-want +got):\n%s", diff)
	}
	if _, err := WriteDefault(dir, false); err == nil {
		t.Error("second WriteDefault succeeded without force")
	}
	if _, err := WriteDefault(dir, true); err != nil {
		t.Errorf("forced WriteDefault: %v", err)
	}
}

func TestLoadForWithoutConfig(t *testing.T) {
	f, err := LoadFor(t.TempDir())
	if err != nil || f != nil {
		t.Errorf("LoadFor = %v, %v; want nil, nil", f, err)
	}
}
