// Package runner executes esspy programs with an embedded Go interpreter.
//
// A run reads the file, translates and validates it, and only then hands the
// Go text to a fresh interpreter. Imports other than the standard library are
// served by finders over the run's import roots, then by the loader meta path.
// A run never changes the meta path. Programs with a package clause run their
// main function; snippets run as top-level statements.
package runner
