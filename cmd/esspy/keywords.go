package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"esspy/internal/keywords"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "List the keyword table",
	Args:  cobra.NoArgs,
	RunE:  runKeywords,
}

func init() {
	keywordsCmd.Flags().String("format", "pretty", "output format (pretty|json|yaml)")
}

type keywordRow struct {
	Source string `json:"source" yaml:"source"`
	Go     string `json:"go" yaml:"go"`
	Class  string `json:"class" yaml:"class"`
}

func runKeywords(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")

	entries := keywords.Default.Entries()
	rows := make([]keywordRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, keywordRow{Source: e.Source, Go: e.Host, Class: e.Class.String()})
	}

	out := cmd.OutOrStdout()
	switch strings.ToLower(format) {
	case "pretty":
		renderKeywordsPretty(out, rows)
		return nil
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// renderKeywordsPretty aligns the columns by display width; Devanagari
// spellings take fewer cells than bytes.
func renderKeywordsPretty(w io.Writer, rows []keywordRow) {
	width := runewidth.StringWidth("esspy")
	for _, r := range rows {
		width = max(width, runewidth.StringWidth(r.Source))
	}
	fmt.Fprintf(w, "%s  %-12s %s\n", runewidth.FillRight("esspy", width), "go", "class")
	for _, r := range rows {
		fmt.Fprintf(w, "%s  %-12s %s\n", runewidth.FillRight(r.Source, width), r.Go, r.Class)
	}
}
