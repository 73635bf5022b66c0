package main

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"esspy/internal/diag"
	"esspy/internal/observ"
	"esspy/internal/runner"
	"esspy/internal/source"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] <file.esspy> [args...]",
	Short: "Translate and execute an esspy program",
	Long: `Run transliterates an esspy program to Go, validates it and executes it with
the embedded interpreter. Imports of esspy modules resolve against the project
import roots. Arguments after the file are passed to the program.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExecution,
}

func init() {
	runCmd.Flags().Bool("hints", true, "warn about keywords of other dialects")
}

func runExecution(cmd *cobra.Command, args []string) error {
	path := args[0]
	hints, _ := cmd.Flags().GetBool("hints")

	bag := diag.NewBag(maxDiagnostics(cmd))
	files := source.NewFileSet()
	opts := runner.Options{
		Files:  files,
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
		Stdin:  os.Stdin,
		Args:   args,
		Env:    os.Environ(),
	}
	if hints {
		opts.Reporter = diag.BagReporter{Bag: bag}
	}

	var timer *observ.Timer
	if timingsEnabled(cmd) {
		timer = observ.NewTimer()
	}
	err := timer.Measure("run", func() error {
		return runner.New(opts).Run(cmd.Context(), path)
	})

	if err := printDiagnostics(cmd, cmd.ErrOrStderr(), "pretty", bag, files); err != nil {
		return err
	}
	reportTimings("pretty", nil, "run", path, timer.Report())

	// ошибки перевода уже напечатаны как диагностики
	var re *runner.RunError
	if err != nil && bag.HasErrors() && !errors.As(err, &re) {
		return exitError{status: 1}
	}
	if status := runner.Report(cmd.ErrOrStderr(), path, err); status != 0 {
		return exitError{status: status}
	}
	return nil
}
