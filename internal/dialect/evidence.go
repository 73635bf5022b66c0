package dialect

import "esspy/internal/source"

// Hint is a small piece of evidence suggesting a particular dialect.
// It is not itself a diagnostic.
type Hint struct {
	Dialect Kind
	Score   int
	Reason  string
	Span    source.Span
	Word    string
	Suggest string // текущее написание, если замена однозначна
}

// Evidence aggregates per-file hints collected from tokens.
type Evidence struct {
	hints []Hint
}

// NewEvidence creates a new Evidence container.
func NewEvidence() *Evidence {
	return &Evidence{
		hints: make([]Hint, 0, 16),
	}
}

// Add appends a hint to the evidence collection.
func (e *Evidence) Add(h Hint) {
	if e == nil {
		return
	}
	e.hints = append(e.hints, h)
}

// Hints returns the collected hints.
func (e *Evidence) Hints() []Hint {
	if e == nil {
		return nil
	}
	return e.hints
}

// Of returns the hints for one dialect.
func (e *Evidence) Of(k Kind) []Hint {
	var out []Hint
	for _, h := range e.Hints() {
		if h.Dialect == k {
			out = append(out, h)
		}
	}
	return out
}
