package testkit

import (
	"fmt"

	"esspy/internal/source"
	"esspy/internal/token"
)

// CheckTokenInvariants runs a minimal set of invariants on a scanned file:
// 1) the stream is non-empty and ends with EOF
// 2) every span points into file and lies within its content
// 3) spans are ordered and do not overlap
// 4) the text of every token except Newline and EOF is the source under its span
func CheckTokenInvariants(file *source.File, toks []token.Token) error {
	if file == nil {
		return fmt.Errorf("nil file")
	}
	if len(toks) == 0 {
		return fmt.Errorf("empty token stream")
	}
	if last := toks[len(toks)-1]; last.Kind != token.EOF {
		return fmt.Errorf("stream ends with %s, not EOF", last.Kind)
	}

	size := len(file.Content)
	prevEnd := 0
	for i, tok := range toks {
		sp := tok.Span
		if sp.File != file.ID {
			return fmt.Errorf("token %d: span points to file %d, want %d", i, sp.File, file.ID)
		}
		start, end := int(sp.Start), int(sp.End)
		if start > end || end > size {
			return fmt.Errorf("token %d (%s): span %v outside content of %d bytes", i, tok.Kind, sp, size)
		}
		if start < prevEnd {
			return fmt.Errorf("token %d (%s): span %v overlaps previous token ending at %d", i, tok.Kind, sp, prevEnd)
		}
		prevEnd = end

		switch tok.Kind {
		case token.Newline, token.EOF:
			if tok.Text != "" {
				return fmt.Errorf("token %d (%s): unexpected text %q", i, tok.Kind, tok.Text)
			}
		default:
			if want := string(file.Content[start:end]); tok.Text != want {
				return fmt.Errorf("token %d (%s): text %q, source has %q", i, tok.Kind, tok.Text, want)
			}
		}
	}
	return nil
}
