// Package diag defines the diagnostic model shared by the translation pipeline.
//
// # Purpose
//
//   - Provide deterministic data structures for findings produced by the
//     lexer, the syntax validator, the module loader and the runner.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or formatting layers.
//   - Model replacement suggestions as structured edits (used by dialect
//     hints to propose the current spelling of a legacy keyword).
//
// # Scope
//
// Package diag does not format or print anything. Rendering lives in
// internal/diagfmt, orchestration in internal/driver.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning or Error (severity.go).
//   - Code – numeric identifier with a stable string form (codes.go).
//   - Message – short human oriented text.
//   - Primary – the source.Span pointing at the problem, always in the
//     coordinates of the original (untranslated) file.
//   - Notes – optional secondary spans.
//   - Fixes – optional replacement edits.
//
// # Emitting diagnostics
//
// Phases build diagnostics through ReportBuilder (ReportError, ReportWarning,
// ReportInfo) and call Emit. BagReporter collects them into a Bag, which
// supports limits, sorting and deduplication and may be shared between
// goroutines.
package diag
