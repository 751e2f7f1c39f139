package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"upvalcheck/internal/diagfmt"
	"upvalcheck/internal/driver"
	"upvalcheck/internal/parser"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <file.luau|->",
	Short: "Parse a Luau source file and print its syntax tree",
	Long: `Parse prints the syntax tree of a Luau source file. With --bindings every
local reference shows the declaration it resolves to, its function depth and
whether it is an upvalue.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|tree|json)")
	parseCmd.Flags().Bool("bindings", false, "annotate locals with their declaration and depth")
	parseCmd.Flags().String("features", "all", "Luau syntax extensions to accept (all|none|comma separated names)")
	parseCmd.Flags().Bool("infer-names", false, "name closures assigned to fields and variables")
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	bindings, err := cmd.Flags().GetBool("bindings")
	if err != nil {
		return fmt.Errorf("failed to get bindings flag: %w", err)
	}
	featureSpec, err := cmd.Flags().GetString("features")
	if err != nil {
		return fmt.Errorf("failed to get features flag: %w", err)
	}
	inferNames, err := cmd.Flags().GetBool("infer-names")
	if err != nil {
		return fmt.Errorf("failed to get infer-names flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	opts := driver.DefaultOptions()
	opts.MaxDiagnostics = maxDiagnostics
	opts.InferNames = inferNames
	if opts.Features, err = parser.ParseFeatures(featureSpec); err != nil {
		return fmt.Errorf("invalid --features: %w", err)
	}

	result, err := driver.Parse(cmd.Context(), args[0], opts)
	if err != nil {
		return err
	}

	if result.Bag.Len() > 0 {
		colored, err := useColor(cmd, os.Stderr)
		if err != nil {
			return err
		}
		if err := diagfmt.Pretty(cmd.ErrOrStderr(), result.Bag, result.FileSet, diagfmt.PrettyOpts{Color: colored, Context: 2}); err != nil {
			return err
		}
	}

	astOpts := diagfmt.ASTOpts{Bindings: bindings}
	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		err = diagfmt.FormatASTPretty(out, result.Builder, result.FileID, result.FileSet, astOpts)
	case "tree":
		err = diagfmt.FormatASTTree(out, result.Builder, result.FileID, result.FileSet, astOpts)
	case "json":
		err = diagfmt.FormatASTJSON(out, result.Builder, result.FileID, astOpts)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return err
	}
	if result.Bag.HasErrors() {
		return exitStatus(1)
	}
	return nil
}
