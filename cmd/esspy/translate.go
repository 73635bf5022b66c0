package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"esspy/internal/diag"
	"esspy/internal/driver"
	"esspy/internal/observ"
	"esspy/internal/source"
	"esspy/internal/ui"
)

var translateCmd = &cobra.Command{
	Use:   "translate [flags] <file.esspy|dir>",
	Short: "Print the Go text of an esspy program",
	Long: `Translate prints the Go text of a single esspy file. Given a directory it
translates every *.esspy file under it in parallel and writes the .go files
into --out, keeping the directory layout.`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

func init() {
	translateCmd.Flags().StringP("out", "o", "", "output directory for a directory translation")
	translateCmd.Flags().Bool("ui", false, "show a progress view (directory mode, terminal only)")
	translateCmd.Flags().IntP("jobs", "j", 0, "parallel translations (0 = GOMAXPROCS)")
	translateCmd.Flags().String("format", "pretty", "diagnostics format (pretty|json|sarif)")
	translateCmd.Flags().Bool("hints", true, "warn about keywords of other dialects")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	target := args[0]
	format, _ := cmd.Flags().GetString("format")
	format = strings.ToLower(format)
	if err := checkFormat(format); err != nil {
		return err
	}

	info, err := os.Stat(target)
	if err != nil {
		return errors.Wrapf(err, "translate %s", target)
	}
	if info.IsDir() {
		return translateDir(cmd, target, format)
	}

	res, err := driver.TranslateFile(target, driverOptions(cmd, target))
	if err != nil {
		return err
	}
	if res.Timing != nil {
		reportTimings(format, res.Bag, "translate", target, *res.Timing)
	}
	if err := printDiagnostics(cmd, cmd.OutOrStdout(), format, res.Bag, res.FileSet); err != nil {
		return err
	}
	if !res.OK() {
		if format == "pretty" && res.Bag.Len() == 0 {
			fmt.Fprintln(os.Stderr, res.Err())
		}
		return exitError{status: 1}
	}
	if format == "pretty" {
		fmt.Fprint(cmd.OutOrStdout(), driver.GoText(res))
	}
	return nil
}

func translateDir(cmd *cobra.Command, dir, format string) error {
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		return errors.WithHint(errors.Newf("translate %s: a directory needs --out", dir), "pass -o <dir> to write the .go files")
	}
	jobs, _ := cmd.Flags().GetInt("jobs")
	withUI, _ := cmd.Flags().GetBool("ui")

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	opts := driver.DirOptions{Options: driverOptions(cmd, absDir), Jobs: jobs}

	var (
		fileSet *source.FileSet
		results []driver.DirResult
	)
	translateAll := func(observer driver.Observer) error {
		opts.OnEvent = observer
		var terr error
		fileSet, results, terr = driver.TranslateDir(cmd.Context(), absDir, opts)
		return terr
	}

	if withUI && isTerminal(os.Stderr) {
		files, lerr := driver.ListSourceFiles(absDir)
		if lerr != nil {
			return lerr
		}
		err = ui.RunProgress(os.Stderr, "translating "+dir, absDir, files, translateAll)
	} else {
		err = translateAll(nil)
	}
	if err != nil {
		return err
	}
	if err := printDirDiagnostics(cmd, format, fileSet, results); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
		}
	}
	written, err := driver.WriteGo(results, out)
	if err != nil {
		return err
	}
	if format == "pretty" {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d of %d files to %s\n", len(written), len(results), out)
	}
	if failed > 0 {
		return exitError{status: 1}
	}
	return nil
}

// printDirDiagnostics renders the diagnostics of every file of a directory
// run as one report.
func printDirDiagnostics(cmd *cobra.Command, format string, fs *source.FileSet, results []driver.DirResult) error {
	bag := diag.NewBag(0)
	var total observ.Report
	for _, r := range results {
		if r.TranslateResult == nil {
			continue
		}
		bag.Merge(r.Bag)
		if r.Timing != nil {
			total.Add(*r.Timing)
		}
	}
	bag.Sort()
	reportTimings(format, bag, "translate", "", total)
	return printDiagnostics(cmd, cmd.OutOrStdout(), format, limit(bag, maxDiagnostics(cmd)), fs)
}

// limit copies at most n diagnostics of bag into a bag of cap n, so the
// dropped count is reported.
func limit(bag *diag.Bag, n int) *diag.Bag {
	if n <= 0 {
		return bag
	}
	out := diag.NewBag(n)
	for _, d := range bag.Items() {
		out.Add(d)
	}
	return out
}
