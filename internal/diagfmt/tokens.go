package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"esspy/internal/source"
	"esspy/internal/token"
)

type TokenOutput struct {
	Kind string      `json:"kind"`
	Host string      `json:"host"`
	Text string      `json:"text,omitempty"`
	Go   string      `json:"go,omitempty"`
	Span source.Span `json:"span"`
}

// Substituter returns the Go text a token is replaced with, if any.
type Substituter func(token.Token) (string, bool)

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet, sub Substituter) error {
	for i, tok := range tokens {
		startPos, endPos := fs.Resolve(tok.Span)

		if _, err := fmt.Fprintf(w, "%3d: %-8s %-8s", i+1, tok.Kind.String(), tok.Host.String()); err != nil {
			return err
		}
		if tok.Text != "" {
			fmt.Fprintf(w, " %q", tok.Text)
		}
		if sub != nil {
			if host, ok := sub(tok); ok {
				fmt.Fprintf(w, " -> %q", host)
			}
		}
		fmt.Fprintf(w, " at %d:%d-%d:%d\n",
			startPos.Line, startPos.Col,
			endPos.Line, endPos.Col)

		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token, sub Substituter) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		out := TokenOutput{
			Kind: tok.Kind.String(),
			Host: tok.Host.String(),
			Text: tok.Text,
			Span: tok.Span,
		}
		if sub != nil {
			if host, ok := sub(tok); ok {
				out.Go = host
			}
		}
		output = append(output, out)
		if tok.Kind == token.EOF {
			break
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
