package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// Name is an identifier, possibly in a non-Latin script.
	Name
	// Keyword is a Go keyword written directly in the source.
	Keyword
	// Op is an operator or delimiter.
	Op
	// Literal is a number, rune, or string literal.
	Literal
	// Comment is a line or block comment.
	Comment
	// Newline is an automatically inserted semicolon.
	Newline
	// Illegal is a character the host scanner rejects.
	Illegal
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Name:
		return "NAME"
	case Keyword:
		return "KEYWORD"
	case Op:
		return "OP"
	case Literal:
		return "LITERAL"
	case Comment:
		return "COMMENT"
	case Newline:
		return "NEWLINE"
	case Illegal:
		return "ILLEGAL"
	default:
		return "INVALID"
	}
}
