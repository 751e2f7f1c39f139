package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"upvalcheck/internal/diag"
)

func TestParseFeatures(t *testing.T) {
	tests := []struct {
		input   string
		want    Features
		wantErr bool
	}{
		{input: "", want: AllFeatures},
		{input: "all", want: AllFeatures},
		{input: "none", want: 0},
		{input: "lua51", want: 0},
		{input: "types,continue", want: FeatureTypes | FeatureContinue},
		{input: " types , if-expr ", want: FeatureTypes | FeatureIfExpr},
		{input: "-types", want: AllFeatures &^ FeatureTypes},
		{input: "-types,-continue", want: AllFeatures &^ (FeatureTypes | FeatureContinue)},
		{input: "bogus", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFeatures(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("ParseFeatures(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFeaturesString(t *testing.T) {
	if got := (FeatureTypes | FeatureContinue).String(); got != "continue,types" {
		t.Fatalf("unexpected String(): %q", got)
	}
	if got := AllFeatures.String(); got != "all" {
		t.Fatalf("unexpected String(): %q", got)
	}
	if got := Features(0).String(); got != "none" {
		t.Fatalf("unexpected String(): %q", got)
	}
}

func TestDisabledFeatures(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []diag.Code
	}{
		{"compound assignment", "x = 1 x += 1", []diag.Code{diag.SynFeatureDisabled}},
		{"if expression", "local v = if a then b else c", []diag.Code{diag.SynFeatureDisabled}},
		{"type annotation", "local n: number = 1", []diag.Code{diag.SynFeatureDisabled}},
		{"interpolated string", "local s = `hi {x}`", []diag.Code{diag.SynFeatureDisabled}},
		{"floor division", "local q = 7 // 2", []diag.Code{diag.SynFeatureDisabled}},
		{"continue is a plain name", "while true do continue end", []diag.Code{diag.SynExpectStatement}},
		{"continue call", "continue(1)", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, bag := parseSourceWithOptions(t, tt.input, Options{Features: 0})
			if diff := cmp.Diff(tt.want, diagnosticCodes(bag)); diff != "" {
				t.Fatalf("codes mismatch (-want +got):\n%s\nall: %s", diff, diagnosticsSummary(bag))
			}
		})
	}
}

func TestContinueAsName(t *testing.T) {
	inputs := []string{
		"continue = 1",
		"continue(1)",
		"continue.x = 1",
		"local t = { continue = 1 }",
		"for i = 1, 2 do if i then continue end end",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, _, bag := parseSource(t, input)
			if bag.HasErrors() {
				t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(bag))
			}
		})
	}
}
