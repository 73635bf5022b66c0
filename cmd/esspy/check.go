package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"esspy/internal/driver"
	"esspy/internal/logger"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.esspy|dir>",
	Short: "Validate esspy sources without running them",
	Long: `Check translates the given file, or every file under a directory, and
reports lexical errors, invalid translations and dialect hints. For a
directory it also links the esspy modules by their imports and reports
missing modules and import cycles. With --watch it checks again on every
change until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().Bool("watch", false, "re-check on every change")
	checkCmd.Flags().String("format", "pretty", "diagnostics format (pretty|json|sarif)")
	checkCmd.Flags().IntP("jobs", "j", 0, "parallel translations (0 = GOMAXPROCS)")
	checkCmd.Flags().Bool("hints", true, "warn about keywords of other dialects")
}

func runCheck(cmd *cobra.Command, args []string) error {
	target := args[0]
	format, _ := cmd.Flags().GetString("format")
	format = strings.ToLower(format)
	if err := checkFormat(format); err != nil {
		return err
	}
	watch, _ := cmd.Flags().GetBool("watch")

	info, err := os.Stat(target)
	if err != nil {
		return errors.Wrapf(err, "check %s", target)
	}

	check := func() (bool, error) {
		if info.IsDir() {
			return checkDir(cmd, target, format)
		}
		return checkFile(cmd, target, format)
	}

	ok, err := check()
	if err != nil {
		return err
	}
	if !watch {
		if !ok {
			return exitError{status: 1}
		}
		return nil
	}

	dir := target
	if !info.IsDir() {
		dir = filepath.Dir(target)
	}
	fmt.Fprintf(os.Stderr, "watching %s (Ctrl-C to stop)\n", dir)
	return driver.Watch(cmd.Context(), dir, driver.DefaultDebounce, func() {
		fmt.Fprintf(os.Stderr, "\n--- %s ---\n", time.Now().Format(time.TimeOnly))
		if _, err := check(); err != nil {
			logger.Errorw("check failed", "target", target, "error", err)
		}
	})
}

func checkFile(cmd *cobra.Command, path, format string) (bool, error) {
	res, err := driver.TranslateFile(path, driverOptions(cmd, path))
	if err != nil {
		return false, err
	}
	if res.Timing != nil {
		reportTimings(format, res.Bag, "check", path, *res.Timing)
	}
	if err := printDiagnostics(cmd, cmd.OutOrStdout(), format, res.Bag, res.FileSet); err != nil {
		return false, err
	}
	if format == "pretty" && res.OK() {
		fmt.Fprintf(cmd.OutOrStdout(), "ok: %s\n", path)
	}
	return res.OK(), nil
}

func checkDir(cmd *cobra.Command, dir, format string) (bool, error) {
	jobs, _ := cmd.Flags().GetInt("jobs")
	res, err := driver.CheckDir(cmd.Context(), dir, driver.CheckOptions{
		DirOptions: driver.DirOptions{Options: driverOptions(cmd, dir), Jobs: jobs},
	})
	if err != nil {
		return false, err
	}

	bag := res.Diagnostics()
	reportTimings(format, bag, "check", "", res.Timing())
	if err := printDiagnostics(cmd, cmd.OutOrStdout(), format, limit(bag, maxDiagnostics(cmd)), res.FileSet); err != nil {
		return false, err
	}

	ok := !res.HasErrors()
	if format == "pretty" {
		status := "ok"
		if !ok {
			status = "failed"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d files, %d modules", status, len(res.Files), len(res.Modules))
		if res.Cyclic {
			fmt.Fprint(cmd.OutOrStdout(), ", import cycle")
		}
		fmt.Fprintln(cmd.OutOrStdout())
	}
	return ok, nil
}
