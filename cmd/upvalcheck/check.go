package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"upvalcheck/internal/diag"
	"upvalcheck/internal/diagfmt"
	"upvalcheck/internal/driver"
	"upvalcheck/internal/parser"
	"upvalcheck/internal/project"
	"upvalcheck/internal/source"
	"upvalcheck/internal/ui"
	"upvalcheck/internal/version"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.luau|directory|->",
	Short: "Report closures that cannot be cached",
	Long: `Check parses a Luau source file, every *.lua/*.luau file of a directory,
or standard input ("-"), and warns about closures that capture a local of an
enclosing function.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runCheck,
}

func init() {
	addCheckFlags(checkCmd)
}

// addCheckFlags registers the check flags on cmd; the root command shares them.
func addCheckFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "plain", "output format ("+strings.Join(project.Formats, "|")+")")
	cmd.Flags().String("features", "all", "Luau syntax extensions to accept (all|none|comma separated names)")
	cmd.Flags().Bool("infer-names", false, "name closures assigned to fields and variables")
	cmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	cmd.Flags().String("ui", "auto", "progress UI for directories (auto|on|off)")
	cmd.Flags().Bool("warnings-as-errors", false, "exit with status 1 when warnings are reported")
	cmd.Flags().Bool("no-warnings", false, "ignore warnings")
	cmd.Flags().Bool("cache", false, "reuse results of unchanged files from the disk cache")
	cmd.Flags().String("cache-dir", "", "disk cache directory (default $XDG_CACHE_HOME/upvalcheck)")
	cmd.Flags().Bool("fullpath", false, "emit absolute file paths")
	cmd.Flags().StringSlice("exclude", nil, "glob patterns of paths to skip in directories")
}

// checkSettings are the flag values after merging the project config.
type checkSettings struct {
	format           string
	maxDiagnostics   int
	warningsAsErrors bool
	noWarnings       bool
	jobs             int
	features         parser.Features
	inferNames       bool
	exclude          []string
	extensions       []string
	cache            bool
	cacheDir         string
	pathMode         diagfmt.PathMode
	ui               uiMode
	timings          bool
}

// runCheck implements both "upvalcheck <path>" and "upvalcheck check <path>".
// With two arguments the second one is the input.
func runCheck(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
		return exitStatus(1)
	}
	target := args[len(args)-1]

	cfg, err := project.LoadFor(target)
	if err != nil {
		return err
	}
	s, err := resolveCheckSettings(cmd, cfg)
	if err != nil {
		return err
	}

	opts := driver.Options{
		MaxDiagnostics: s.maxDiagnostics,
		Features:       s.features,
		InferNames:     s.inferNames,
		PathMode:       s.pathMode,
		Jobs:           s.jobs,
		Exclude:        s.exclude,
		Extensions:     s.extensions,
	}
	if s.cache {
		dc, cacheErr := driver.OpenDiskCache("upvalcheck", s.cacheDir, version.Version)
		if cacheErr != nil {
			return fmt.Errorf("failed to open disk cache: %w", cacheErr)
		}
		opts.Cache = dc
	}

	var results []*driver.Result
	if target != source.StdinName && isDir(target) {
		results, err = checkDir(cmd.Context(), target, opts, s)
	} else {
		var res *driver.Result
		res, err = driver.Check(cmd.Context(), target, opts)
		results = []*driver.Result{res}
	}
	if err != nil {
		return err
	}

	return report(cmd, results, s, args)
}

func isDir(p string) bool {
	st, err := os.Stat(p)
	return err == nil && st.IsDir()
}

// checkDir runs driver.CheckFiles, drawing the progress UI when enabled.
func checkDir(ctx context.Context, dir string, opts driver.Options, s checkSettings) ([]*driver.Result, error) {
	files, err := driver.ListFiles(dir, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	if !shouldUseTUI(s.ui) || len(files) == 0 {
		return driver.CheckFiles(ctx, files, opts)
	}

	type outcome struct {
		results []*driver.Result
		err     error
	}
	events := make(chan driver.Event, 256)
	done := make(chan outcome, 1)
	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.CheckFiles(ctx, files, opts)
		close(events)
		done <- outcome{results: res, err: err}
	}()

	uiErr := ui.Run(os.Stderr, "checking "+dir, files, events)
	if uiErr != nil {
		// keep the workers unblocked
		for range events {
		}
	}
	out := <-done
	if out.err != nil {
		return nil, out.err
	}
	return out.results, uiErr
}

// report prints the results and turns them into an exit status.
func report(cmd *cobra.Command, results []*driver.Result, s checkSettings, args []string) error {
	status := 0
	checked := make([]*driver.Result, 0, len(results))
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), res.Err.Error())
			status = 1
			continue
		}
		if res.SyntaxErrors {
			status = 1
		}
		if s.timings {
			if s.format == "json" || s.format == "sarif" {
				driver.AppendTimings(res)
			} else {
				fmt.Fprint(cmd.ErrOrStderr(), res.Timing.Summary(res.Path))
			}
		}
		checked = append(checked, res)
	}

	var fs *source.FileSet
	var bag *diag.Bag
	if len(checked) == 1 {
		fs, bag = checked[0].FileSet, checked[0].Bag
	} else {
		fs, bag = driver.Combine(checked)
	}
	if s.noWarnings {
		bag = bag.Filter(func(d diag.Diagnostic) bool { return d.Severity != diag.SevWarning })
	}
	if s.warningsAsErrors && bag.HasWarnings() {
		status = 1
	}

	if err := render(cmd, bag, fs, s, args); err != nil {
		return fmt.Errorf("failed to format diagnostics: %w", err)
	}
	if status != 0 {
		return exitStatus(status)
	}
	return nil
}

func render(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet, s checkSettings, args []string) error {
	out := cmd.OutOrStdout()
	switch s.format {
	case "plain":
		return diagfmt.Plain(cmd.ErrOrStderr(), bag, fs, diagfmt.PlainOpts{PathMode: s.pathMode, Header: true})
	case "pretty":
		colored, err := useColor(cmd, os.Stdout)
		if err != nil {
			return err
		}
		if err := diagfmt.Pretty(out, bag, fs, diagfmt.PrettyOpts{
			Color:     colored,
			Context:   2,
			PathMode:  s.pathMode,
			ShowNotes: true,
		}); err != nil {
			return err
		}
		return writeSummary(out, bag)
	case "short":
		return writeShort(out, bag, fs)
	case "json":
		return diagfmt.JSON(out, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         s.pathMode,
			IncludeNotes:     true,
		})
	case "sarif":
		return diagfmt.Sarif(out, bag, fs, diagfmt.SarifRunMeta{
			ToolName:       "upvalcheck",
			ToolVersion:    version.Version,
			InvocationArgs: args,
		})
	default:
		return fmt.Errorf("unknown format: %s", s.format)
	}
}

func writeSummary(w io.Writer, bag *diag.Bag) error {
	if bag.Len() == 0 {
		return nil
	}
	counts := bag.CountBy()
	_, err := fmt.Fprintf(w, "%d error(s), %d warning(s)\n", counts[diag.SevError], counts[diag.SevWarning])
	return err
}

func writeShort(w io.Writer, bag *diag.Bag, fs *source.FileSet) error {
	text := diag.FormatShortDiagnostics(bag.Items(), fs, false)
	if text == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, text)
	return err
}

// resolveCheckSettings applies flags over the project config: a flag wins
// when it was set on the command line, a config key when the file defines it.
func resolveCheckSettings(cmd *cobra.Command, cfg *project.File) (checkSettings, error) {
	flags := cmd.Flags()
	var s checkSettings
	var err error

	if s.format, err = flags.GetString("format"); err != nil {
		return s, fmt.Errorf("failed to get format flag: %w", err)
	}
	if s.maxDiagnostics, err = cmd.Root().PersistentFlags().GetInt("max-diagnostics"); err != nil {
		return s, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if s.timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return s, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if s.warningsAsErrors, err = flags.GetBool("warnings-as-errors"); err != nil {
		return s, fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if s.noWarnings, err = flags.GetBool("no-warnings"); err != nil {
		return s, fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	if s.jobs, err = flags.GetInt("jobs"); err != nil {
		return s, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	featureSpec, err := flags.GetString("features")
	if err != nil {
		return s, fmt.Errorf("failed to get features flag: %w", err)
	}
	if s.inferNames, err = flags.GetBool("infer-names"); err != nil {
		return s, fmt.Errorf("failed to get infer-names flag: %w", err)
	}
	if s.exclude, err = flags.GetStringSlice("exclude"); err != nil {
		return s, fmt.Errorf("failed to get exclude flag: %w", err)
	}
	if s.cache, err = flags.GetBool("cache"); err != nil {
		return s, fmt.Errorf("failed to get cache flag: %w", err)
	}
	if s.cacheDir, err = flags.GetString("cache-dir"); err != nil {
		return s, fmt.Errorf("failed to get cache-dir flag: %w", err)
	}
	fullPath, err := flags.GetBool("fullpath")
	if err != nil {
		return s, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return s, fmt.Errorf("failed to get ui flag: %w", err)
	}

	if cfg != nil {
		c := cfg.Config
		fromConfig := func(flag string, key ...string) bool {
			return !flags.Changed(flag) && cfg.IsDefined(key...)
		}
		if fromConfig("format", "check", "format") {
			s.format = c.Check.Format
		}
		if fromConfig("max-diagnostics", "check", "max_diagnostics") {
			s.maxDiagnostics = c.Check.MaxDiagnostics
		}
		if fromConfig("warnings-as-errors", "check", "warnings_as_errors") {
			s.warningsAsErrors = c.Check.WarningsAsErrors
		}
		if fromConfig("jobs", "check", "jobs") {
			s.jobs = c.Check.Jobs
		}
		if fromConfig("features", "check", "features") {
			featureSpec = c.Check.Features
		}
		if fromConfig("infer-names", "check", "infer_names") {
			s.inferNames = c.Check.InferNames
		}
		if fromConfig("exclude", "check", "exclude") {
			s.exclude = c.Check.Exclude
		}
		if cfg.IsDefined("check", "extensions") {
			s.extensions = c.Check.Extensions
		}
		if fromConfig("cache", "cache", "enabled") {
			s.cache = c.Cache.Enabled
		}
		if fromConfig("cache-dir", "cache", "dir") && c.Cache.Dir != "" {
			s.cacheDir = resolveFrom(cfg.Root, c.Cache.Dir)
		}
	}

	if s.noWarnings && s.warningsAsErrors {
		return s, errors.New("no-warnings and warnings-as-errors flags cannot be used together")
	}
	if s.features, err = parser.ParseFeatures(featureSpec); err != nil {
		return s, fmt.Errorf("invalid --features: %w", err)
	}
	if s.ui, err = readUIMode(uiValue); err != nil {
		return s, err
	}
	if fullPath {
		s.pathMode = diagfmt.PathModeAbsolute
	}
	return s, nil
}

// resolveFrom makes a config-relative path absolute.
func resolveFrom(root, p string) string {
	if root == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
