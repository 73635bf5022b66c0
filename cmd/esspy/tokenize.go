package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"esspy/internal/diagfmt"
	"esspy/internal/driver"
	"esspy/internal/token"
	"esspy/internal/translit"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] <file.esspy>",
	Short: "Dump the tokens of an esspy source file",
	Long: `Tokenize lists the tokens of an esspy file as the translator sees them,
with the Go text each keyword is replaced with.`,
	Args: cobra.ExactArgs(1),
	RunE: runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	result, err := driver.Tokenize(filePath, maxDiagnostics(cmd))
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// Выводим диагностику в stderr, если есть
	if result.Bag.Len() > 0 {
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:   useColor(cmd, os.Stderr),
			Context: 2,
		})
	}

	sub := substitutions(result)
	switch format {
	case "pretty":
		return diagfmt.FormatTokensPretty(cmd.OutOrStdout(), result.Tokens, result.FileSet, sub)
	case "json":
		return diagfmt.FormatTokensJSON(cmd.OutOrStdout(), result.Tokens, sub)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// substitutions maps each rewritten token to its Go text. A file that does
// not tokenize has none.
func substitutions(result *driver.TokenizeResult) diagfmt.Substituter {
	if result.Bag.HasErrors() {
		return nil
	}
	res, err := translit.TranslateFile(result.File, translit.Options{})
	if err != nil {
		return nil
	}
	byStart := make(map[uint32]string, len(res.Subs))
	for _, s := range res.Subs {
		byStart[s.Span.Start] = s.To
	}
	return func(tok token.Token) (string, bool) {
		if tok.Kind != token.Name {
			return "", false
		}
		host, ok := byStart[tok.Span.Start]
		return host, ok
	}
}
