// Package loader resolves import paths to esspy or Go packages and serves
// them to the interpreter.
//
// Resolution walks the meta path: an ordered list of Finder values. The first
// finder that returns a ModuleSpec wins; a nil spec defers to the next finder.
// Registration is explicit (Register / Unregister) and happens only in entry
// points: the CLI, runner setup and tests.
//
// FS exposes the meta path as an fs.FS laid out like a GOPATH, which is what
// the interpreter reads imported sources from.
package loader
