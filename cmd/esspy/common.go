package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"esspy/internal/diag"
	"esspy/internal/diagfmt"
	"esspy/internal/driver"
	"esspy/internal/logger"
	"esspy/internal/observ"
	"esspy/internal/project"
	"esspy/internal/source"
	"esspy/internal/version"
)

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func useColor(cmd *cobra.Command, f *os.File) bool {
	switch flag, _ := cmd.Flags().GetString("color"); flag {
	case "on", "always":
		return true
	case "off", "never":
		return false
	default:
		return isTerminal(f)
	}
}

func maxDiagnostics(cmd *cobra.Command) int {
	n, _ := cmd.Flags().GetInt("max-diagnostics")
	return n
}

func timingsEnabled(cmd *cobra.Command) bool {
	on, _ := cmd.Flags().GetBool("timings")
	return on
}

// driverOptions builds driver options for a target; the manifest next to it
// (if any) decides whether the translation cache is used.
func driverOptions(cmd *cobra.Command, target string) driver.Options {
	opts := driver.Options{
		MaxDiagnostics: maxDiagnostics(cmd),
		Hints:          true,
		Timings:        timingsEnabled(cmd),
	}
	if hints, err := cmd.Flags().GetBool("hints"); err == nil {
		opts.Hints = hints
	}

	noCache, _ := cmd.Flags().GetBool("no-cache")
	if noCache {
		return opts
	}
	dir := target
	if info, err := os.Stat(target); err == nil && !info.IsDir() {
		dir = filepath.Dir(target)
	}
	m, _, err := project.Discover(dir)
	if err != nil {
		logger.Warnw("ignoring project manifest", "dir", dir, "error", err)
	}
	if !m.CacheEnabled() {
		return opts
	}
	cache, err := driver.OpenDiskCache("esspy")
	if err != nil {
		logger.Debugw("translation cache disabled", "error", err)
		return opts
	}
	opts.Cache = cache
	return opts
}

// printDiagnostics renders bag in the requested format. Pretty output is
// meant for stderr; json and sarif go to w as the command's result.
func printDiagnostics(cmd *cobra.Command, w io.Writer, format string, bag *diag.Bag, fs *source.FileSet) error {
	if bag == nil || fs == nil {
		return nil
	}
	switch format {
	case "", "pretty":
		if bag.Len() == 0 {
			return nil
		}
		diagfmt.Pretty(os.Stderr, bag, fs, diagfmt.PrettyOpts{
			Color:       useColor(cmd, os.Stderr),
			Context:     1,
			ShowNotes:   true,
			ShowFixes:   true,
			ShowPreview: false,
		})
		return nil
	case "json":
		return diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.PathModeAuto,
			IncludeNotes:     true,
			IncludeFixes:     true,
			IncludePreviews:  true,
		})
	case "sarif":
		return diagfmt.Sarif(w, bag, fs, diagfmt.SarifRunMeta{
			ToolName:       "esspy",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args[1:],
		})
	default:
		return errors.Newf("unknown format %q (must be pretty, json or sarif)", format)
	}
}

func checkFormat(format string) error {
	switch strings.ToLower(format) {
	case "pretty", "json", "sarif":
		return nil
	}
	return errors.Newf("unknown format %q (must be pretty, json or sarif)", format)
}

// reportTimings prints report for pretty output or adds it to bag otherwise.
func reportTimings(format string, bag *diag.Bag, kind, path string, report observ.Report) {
	if len(report.Phases) == 0 {
		return
	}
	if format == "pretty" {
		fmt.Fprintf(os.Stderr, "timings (%s): total %.2f ms\n", kind, report.TotalMS)
		for _, p := range report.Phases {
			fmt.Fprintf(os.Stderr, "  %-12s %8.2f ms\n", p.Name, p.DurationMS)
		}
		return
	}
	driver.AppendTimingDiagnostic(bag, kind, path, report)
}
