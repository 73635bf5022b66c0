package token

import (
	gotoken "go/token"

	"esspy/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Host gotoken.Token // класс от go/scanner; у склеенных имён: IDENT
	Text string
	Span source.Span
	Line string
}

// WithText returns a copy of t with new text; position and line are kept.
func (t Token) WithText(text string) Token {
	t.Text = text
	return t
}

// IsName reports whether the token is an identifier.
func (t Token) IsName() bool { return t.Kind == Name }

// Synthetic reports whether the token has no source bytes behind it.
func (t Token) Synthetic() bool {
	return t.Kind == Newline || t.Kind == EOF
}

// IsPeriod reports whether the token is the selector operator.
func (t Token) IsPeriod() bool {
	return t.Kind == Op && t.Host == gotoken.PERIOD
}
