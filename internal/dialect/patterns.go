package dialect

import (
	"bytes"
	gotoken "go/token"

	"esspy/internal/keywords"
	"esspy/internal/source"
	"esspy/internal/token"
)

// observeBlockColon records a Python-style block header such as `यदि x:`:
// a colon that ends its line, on a line that is neither a switch case nor a
// label.
func observeBlockColon(e *Evidence, file *source.File, head, tok token.Token, table *keywords.Table) {
	if tok.Kind != token.Op || tok.Host != gotoken.COLON || file == nil {
		return
	}
	rest := file.Content[tok.Span.End:]
	if i := bytes.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[:i]
	}
	rest = bytes.TrimSpace(rest)
	if len(rest) > 0 && !bytes.HasPrefix(rest, []byte("//")) {
		return
	}
	if isCaseHead(head, table) || (head.IsName() && head.Span.End == tok.Span.Start) {
		return
	}
	e.Add(Hint{
		Dialect: Python,
		Score:   4,
		Reason:  "python block colon at end of line",
		Span:    tok.Span,
		Word:    ":",
	})
}

func isCaseHead(head token.Token, table *keywords.Table) bool {
	text := head.Text
	if head.IsName() {
		if host, ok := table.Lookup(text); ok {
			text = host
		}
	}
	return text == "case" || text == "default"
}
