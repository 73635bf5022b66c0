package syntax

import (
	"errors"
	"fmt"
	"go/parser"
	"go/scanner"
	"go/token"
	"strings"
)

// Diagnostic explains why text is not a valid program.
type Diagnostic struct {
	Msg    string `json:"message"`
	Line   int    `json:"line"`   // 1-based
	Col    int    `json:"column"` // 1-based, в байтах
	Offset int    `json:"offset"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s", d.Line, d.Col, d.Msg)
}

// Result is the outcome of Validate. Text is the input, unchanged.
type Result struct {
	Text        string
	Plan        Plan
	Diagnostics []Diagnostic
}

// OK reports whether the text parsed.
func (r Result) OK() bool { return len(r.Diagnostics) == 0 }

// First returns the first diagnostic or nil.
func (r Result) First() *Diagnostic {
	if len(r.Diagnostics) == 0 {
		return nil
	}
	return &r.Diagnostics[0]
}

// Validate parses text with go/parser. name is used only in messages.
func Validate(name, text string) Result {
	plan := Analyze(text)
	res := Result{Text: text, Plan: plan}

	w := wrap(text, plan)
	fset := token.NewFileSet()
	_, err := parser.ParseFile(fset, name, w.text, parser.AllErrors|parser.SkipObjectResolution)
	if err == nil {
		return res
	}

	var list scanner.ErrorList
	if !errors.As(err, &list) {
		res.Diagnostics = []Diagnostic{{Msg: err.Error(), Line: 1, Col: 1}}
		return res
	}
	list.RemoveMultiples()
	for _, e := range list {
		res.Diagnostics = append(res.Diagnostics, locate(text, w.original(e.Pos.Offset), e.Msg))
	}
	return res
}

func locate(text string, off int, msg string) Diagnostic {
	if off < 0 {
		off = 0
	}
	if off > len(text) {
		off = len(text)
	}
	line := 1 + strings.Count(text[:off], "\n")
	lineStart := strings.LastIndexByte(text[:off], '\n') + 1
	return Diagnostic{Msg: msg, Line: line, Col: off - lineStart + 1, Offset: off}
}
