package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"upvalcheck/internal/diagfmt"
	"upvalcheck/internal/parser"
	"upvalcheck/internal/project"
)

// newTestRoot mirrors the command tree built by main without touching the
// package level commands.
func newTestRoot() (*cobra.Command, *cobra.Command) {
	root := &cobra.Command{
		Use:           "upvalcheck",
		Args:          cobra.MaximumNArgs(2),
		RunE:          runCheck,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().String("color", "off", "")
	root.PersistentFlags().Bool("timings", false, "")
	root.PersistentFlags().Int("max-diagnostics", 200, "")
	addCheckFlags(root)

	check := &cobra.Command{Use: "check", Args: cobra.MaximumNArgs(2), RunE: runCheck}
	addCheckFlags(check)
	root.AddCommand(check)
	return root, check
}

func TestResolveCheckSettings(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, project.ConfigFileName)
	data := `[check]
format = "json"
max_diagnostics = 10
jobs = 8
features = "none"
exclude = ["gen/**"]

[cache]
enabled = true
dir = ".cache"
`
	if err := os.WriteFile(cfgPath, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := project.Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	_, check := newTestRoot()
	if err := check.ParseFlags([]string{"--jobs", "3", "--fullpath", "--ui", "off"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	got, err := resolveCheckSettings(check, cfg)
	if err != nil {
		t.Fatalf("resolveCheckSettings: %v", err)
	}

	want := checkSettings{
		format:         "json",
		maxDiagnostics: 10,
		jobs:           3,
		features:       parser.Features(0),
		exclude:        []string{"gen/**"},
		cache:          true,
		cacheDir:       filepath.Join(dir, ".cache"),
		pathMode:       diagfmt.PathModeAbsolute,
		ui:             uiModeOff,
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(checkSettings{})); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveCheckSettingsConflicts(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"warnings", []string{"--no-warnings", "--warnings-as-errors"}},
		{"features", []string{"--features", "nosuchthing"}},
		{"ui", []string{"--ui", "sometimes"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, check := newTestRoot()
			if err := check.ParseFlags(tt.args); err != nil {
				t.Fatalf("ParseFlags: %v", err)
			}
			if _, err := resolveCheckSettings(check, nil); err == nil {
				t.Errorf("want an error for %v", tt.args)
			}
		})
	}
}

func TestRunCheck(t *testing.T) {
	dir := t.TempDir()
	clean := filepath.Join(dir, "clean.luau")
	capture := filepath.Join(dir, "capture.luau")
	broken := filepath.Join(dir, "broken.luau")
	files := map[string]string{
		clean:   "local x = 1\nreturn function() return x end\n",
		capture: "local function outer(p)\n  return function() return p end\nend\n",
		broken:  "local function f(\n",
	}
	for p, src := range files {
		if err := os.WriteFile(p, []byte(src), 0o600); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}

	tests := []struct {
		name       string
		args       []string
		wantStatus int
		wantErr    string
	}{
		{name: "clean file", args: []string{clean}},
		{name: "warnings keep status zero", args: []string{"check", capture}, wantErr: "UncachedClosureWarning"},
		{name: "warnings as errors", args: []string{"check", "--warnings-as-errors", capture}, wantStatus: 1, wantErr: "UncachedClosureWarning"},
		{name: "no warnings", args: []string{"check", "--no-warnings", capture}},
		{name: "two argument form", args: []string{"ignored", capture}, wantErr: "UncachedClosureWarning"},
		{name: "syntax errors", args: []string{broken}, wantStatus: 1, wantErr: diagfmt.ParseErrorsHeader},
		{name: "missing argument", args: []string{}, wantStatus: 1, wantErr: "Usage:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, _ := newTestRoot()
			var stdout, stderr bytes.Buffer
			root.SetOut(&stdout)
			root.SetErr(&stderr)
			root.SetArgs(tt.args)

			err := root.Execute()
			status := 0
			if err != nil {
				st, ok := err.(exitStatus)
				if !ok {
					t.Fatalf("Execute: %v", err)
				}
				status = int(st)
			}
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			if tt.wantErr == "" && stderr.Len() > 0 {
				t.Errorf("unexpected stderr:\n%s", stderr.String())
			}
			if !strings.Contains(stderr.String(), tt.wantErr) {
				t.Errorf("stderr does not contain %q:\n%s", tt.wantErr, stderr.String())
			}
		})
	}
}

func TestRunCheckDirectoryJSON(t *testing.T) {
	dir := t.TempDir()
	for name, src := range map[string]string{
		"a.luau": "local function outer(p)\n  return function() return p end\nend\n",
		"b.lua":  "return 1\n",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	root, _ := newTestRoot()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs([]string{"check", "--format", "json", "--ui", "off", dir})
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v\n%s", err, stderr.String())
	}
	out := stdout.String()
	if !strings.Contains(out, `"count": 1`) || !strings.Contains(out, "a.luau") {
		t.Errorf("unexpected JSON output:\n%s", out)
	}
}

func TestExitCode(t *testing.T) {
	if got := exitCode(nil); got != 0 {
		t.Errorf("exitCode(nil) = %d", got)
	}
	if got := exitCode(exitStatus(3)); got != 3 {
		t.Errorf("exitCode(exitStatus(3)) = %d", got)
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, " on ": uiModeOn, "off": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := readUIMode("maybe"); err == nil {
		t.Errorf("readUIMode(maybe) accepted")
	}
}

func TestShouldUseTUI(t *testing.T) {
	if !shouldUseTUI(uiModeOn) {
		t.Errorf("--ui on did not enable the progress bar")
	}
	if shouldUseTUI(uiModeOff) {
		t.Errorf("--ui off enabled the progress bar")
	}
}
