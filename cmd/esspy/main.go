package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"esspy/internal/logger"
	"esspy/internal/prof"
	"esspy/internal/runner"
	"esspy/internal/version"
)

const usageLine = "usage: esspy <file.esspy>"

var rootCmd = &cobra.Command{
	Use:   "esspy <file.esspy>",
	Short: "Run Go programs written with Sanskrit keywords",
	Long: `esspy runs programs whose keywords are written in Devanagari. Every keyword
is transliterated to Go, the result is checked by the Go parser, then executed
by an embedded interpreter.`,
	// без Args cobra считает лишний аргумент неизвестной подкомандой
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		verbose, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("log-json")
		if err := logger.Initialize(verbose, jsonLogs); err != nil {
			return err
		}
		return startProfiling(cmd)
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		logger.Cleanup()
	},
}

// profile is the active profiling session; main stops it after the command
// finishes, including on failure.
var profile *prof.Session

func startProfiling(cmd *cobra.Command) error {
	var opts prof.Options
	opts.CPU, _ = cmd.Flags().GetString("cpuprofile")
	opts.Mem, _ = cmd.Flags().GetString("memprofile")
	opts.Trace, _ = cmd.Flags().GetString("trace")
	if !opts.Enabled() {
		return nil
	}
	s, err := prof.Start(opts)
	if err != nil {
		return err
	}
	profile = s
	return nil
}

// exitError carries a process status out of a command without printing.
type exitError struct{ status int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.status) }

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(translateCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(reverseCmd)
	rootCmd.AddCommand(keywordsCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().CountP("verbose", "v", "log more (-v info, -vv debug)")
	rootCmd.PersistentFlags().Bool("log-json", false, "write logs as JSON")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().Bool("no-cache", false, "do not use the translation cache")
	rootCmd.PersistentFlags().String("cpuprofile", "", "write a CPU profile to file")
	rootCmd.PersistentFlags().String("memprofile", "", "write a heap profile to file on exit")
	rootCmd.PersistentFlags().String("trace", "", "write a runtime execution trace to file")
}

// main runs the root command. Commands that already printed their failure
// return exitError.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if perr := profile.Stop(); perr != nil {
		fmt.Fprintln(os.Stderr, "esspy: profiling:", perr)
	}
	if err != nil {
		var ee exitError
		if errors.As(err, &ee) {
			os.Exit(ee.status)
		}
		fmt.Fprintln(os.Stderr, "esspy:", err)
		os.Exit(1)
	}
}

// runRoot is the single-argument form: esspy <file>.
func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(cmd.OutOrStdout(), usageLine)
		return exitError{status: 2}
	}
	if status := runner.RunFile(cmd.Context(), args[0], cmd.OutOrStdout()); status != 0 {
		return exitError{status: status}
	}
	return nil
}
