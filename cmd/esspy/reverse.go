package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"esspy/internal/translit"
)

var reverseCmd = &cobra.Command{
	Use:   "reverse <file.go>",
	Short: "Rewrite Go source with esspy keywords",
	Long: `Reverse replaces Go keywords and builtins with their Devanagari spellings.
Translating the output again gives Go that parses the same way.`,
	Args: cobra.ExactArgs(1),
	RunE: runReverse,
}

func runReverse(cmd *cobra.Command, args []string) error {
	path := args[0]
	// #nosec G304 -- path is provided by the user
	src, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}
	out, err := translit.Reverse(src, translit.Options{Path: path})
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
