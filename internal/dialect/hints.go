package dialect

import (
	"esspy/internal/diag"
)

// maxForeignHints limits Python/Go hints per file.
const maxForeignHints = 3

// Emit turns evidence into diagnostics.
//
// Legacy spellings are reported one warning per occurrence, with a fix when
// the replacement is unambiguous. Python and Go hints are reported only when
// the file failed to translate and one dialect clearly dominates.
func Emit(e *Evidence, rep diag.Reporter, hasErrors bool) {
	if e == nil || rep == nil {
		return
	}
	for _, h := range e.Of(Legacy) {
		b := diag.ReportWarning(rep, diag.DialectLegacyKeyword, h.Span, RenderHint(Legacy, RenderInput{
			Detected: h.Word,
			Reason:   h.Reason,
		}))
		if h.Suggest != "" {
			b.Replace("replace with "+h.Suggest, h.Span, h.Suggest)
		}
		b.Emit()
	}

	if !hasErrors {
		return
	}
	foreign := NewEvidence()
	for _, h := range e.Hints() {
		if h.Dialect != Legacy {
			foreign.Add(h)
		}
	}
	c := Classifier{}.Classify(foreign)
	if !Eligible(c) {
		return
	}
	code := diag.DialectPython
	if c.Kind == Go {
		code = diag.DialectHostKeyword
	}
	n := 0
	for i, h := range foreign.Of(c.Kind) {
		if n == maxForeignHints {
			break
		}
		msg := RenderHint(c.Kind, RenderInput{Seed: i, Detected: h.Word, Reason: h.Reason, Suggest: h.Suggest})
		b := diag.ReportInfo(rep, code, h.Span, msg)
		if h.Suggest != "" {
			b.Replace("replace with "+h.Suggest, h.Span, h.Suggest)
		}
		b.Emit()
		n++
	}
}
