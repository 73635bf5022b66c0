package diag

import "esspy/internal/source"

// New builds a diagnostic without notes or fixes.
func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func NewWarning(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevWarning, code, primary, msg)
}

// NewInfo builds an informational diagnostic. Its span may be empty when
// the data is about a whole run rather than a place in a file.
func NewInfo(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevInfo, code, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

// WithFix appends a fix. A fix without edits is dropped: it could not be
// applied or previewed.
func (d Diagnostic) WithFix(title string, edits ...FixEdit) Diagnostic {
	if len(edits) == 0 {
		return d
	}
	d.Fixes = append(d.Fixes, Fix{Title: title, Edits: edits})
	return d
}

// Replace is the common single-edit fix: put text in place of span.
func (d Diagnostic) Replace(title string, span source.Span, text string) Diagnostic {
	return d.WithFix(title, FixEdit{Span: span, NewText: text})
}
