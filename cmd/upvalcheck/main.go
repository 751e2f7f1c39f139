package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"upvalcheck/internal/driver"
	"upvalcheck/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "upvalcheck [flags] <file.luau|directory|->",
	Short: "Find closures that capture locals of their enclosing functions",
	Long: `upvalcheck reports Luau closures that use an upvalue declared in an
enclosing function. Such closures are re-created on every call of the
enclosing function instead of being cached by the VM.`,
	Args:              cobra.MaximumNArgs(2),
	RunE:              runCheck,
	PersistentPreRunE: setupRun,
	SilenceErrors:     true,
	SilenceUsage:      true,
}

// cleanups run after the command finished, in reverse order. failed is set
// when the command returned an error or panicked.
var cleanups []func(failed bool)

func runCleanups(failed bool) {
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i](failed)
	}
	cleanups = nil
}

// exitStatus is returned by commands that already reported why they failed.
type exitStatus int

func (e exitStatus) Error() string {
	return "exit status " + strconv.Itoa(int(e))
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 200, "maximum number of syntax errors per file (0=unlimited)")

	rootCmd.PersistentFlags().String("trace", "", "write a trace to this file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "events kept by the ring tracer")
	rootCmd.PersistentFlags().Duration("trace-heartbeat", 0, "emit heartbeat trace events at this interval (0=off)")

	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to this file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to this file")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to this file")

	addCheckFlags(rootCmd)

	status := exitCode(execute())
	runCleanups(status != 0)
	os.Exit(status)
}

func execute() error {
	defer func() {
		if r := recover(); r != nil {
			runCleanups(true)
			panic(r)
		}
	}()
	return rootCmd.Execute()
}

// exitCode prints err unless it is an exitStatus and maps it to a status.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var status exitStatus
	if errors.As(err, &status) {
		return int(status)
	}
	var readErr *driver.ReadError
	if errors.As(err, &readErr) {
		fmt.Fprintln(os.Stderr, readErr.Error())
		return 1
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	return 1
}

// setupRun starts tracing and profiling for every command.
func setupRun(cmd *cobra.Command, _ []string) error {
	stopTrace, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	cleanups = append(cleanups, stopTrace)

	stopProf, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	cleanups = append(cleanups, func(bool) { stopProf() })
	return nil
}

// useColor resolves --color for output written to f.
func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch colorFlag {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto":
		return isTerminal(f), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
