package translit

import (
	"fmt"

	"esspy/internal/syntax"
)

// SyntaxError reports that the translated text is not a valid program.
// Positions refer to the original source.
type SyntaxError struct {
	Path string
	Diag syntax.Diagnostic
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: invalid syntax after translation: %s", e.Path, e.Diag.Line, e.Diag.Col, e.Diag.Msg)
}
