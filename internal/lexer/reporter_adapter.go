package lexer

import (
	"strings"

	"esspy/internal/diag"
	"esspy/internal/source"
)

// ReporterAdapter адаптирует diag.Bag для использования в лексере.
type ReporterAdapter struct {
	Bag *diag.Bag
}

// Reporter returns a lexer Reporter that files scanner errors into the bag.
func (r *ReporterAdapter) Reporter() Reporter {
	return DiagReporter(diag.BagReporter{Bag: r.Bag})
}

// DiagReporter turns scanner messages into error diagnostics sent to rep.
func DiagReporter(rep diag.Reporter) Reporter {
	if rep == nil {
		return nil
	}
	return diagReporter{rep: rep}
}

type diagReporter struct {
	rep diag.Reporter
}

func (d diagReporter) Report(span source.Span, msg string) {
	diag.ReportError(d.rep, codeFor(msg), span, msg).Emit()
}

// codeFor maps go/scanner messages onto diagnostic codes.
func codeFor(msg string) diag.Code {
	switch {
	case strings.HasPrefix(msg, "illegal character"):
		return diag.LexUnknownChar
	case strings.HasPrefix(msg, "illegal UTF-8"), strings.Contains(msg, "BOM"):
		return diag.LexBadEncoding
	case strings.Contains(msg, "comment not terminated"):
		return diag.LexUnterminatedComment
	case strings.Contains(msg, "literal not terminated"):
		return diag.LexUnterminatedString
	case strings.Contains(msg, "number") || strings.Contains(msg, "digit") || strings.Contains(msg, "exponent"):
		return diag.LexBadNumber
	default:
		return diag.LexInfo
	}
}
