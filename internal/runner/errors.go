package runner

import (
	"fmt"
	"strings"

	"github.com/traefik/yaegi/interp"

	"esspy/internal/translit"
)

// RunError reports a failure while the program was being compiled or run by
// the interpreter. Messages are shown with source names restored.
type RunError struct {
	Path  string
	Err   error
	Panic any    // значение паники, если программа упала
	Stack []byte // стек интерпретатора для паники
}

func (e *RunError) Error() string {
	var msg string
	if e.Panic != nil {
		msg = fmt.Sprintf("panic: %v", e.Panic)
	} else {
		msg = e.Err.Error()
	}
	return strings.TrimSpace(translit.Demangle(msg))
}

func (e *RunError) Unwrap() error { return e.Err }

// Panicked reports whether the program itself panicked.
func (e *RunError) Panicked() bool { return e.Panic != nil }

func newRunError(path string, err error) *RunError {
	re := &RunError{Path: path, Err: err}
	var p interp.Panic
	if asPanic(err, &p) {
		re.Panic = p.Value
		re.Stack = p.Stack
	}
	return re
}

func asPanic(err error, out *interp.Panic) bool {
	switch p := err.(type) {
	case interp.Panic:
		*out = p
		return true
	case *interp.Panic:
		*out = *p
		return true
	}
	return false
}
