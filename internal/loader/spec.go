package loader

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"esspy/internal/project"
)

// ErrNotFound is returned when no finder on the meta path knows a module.
var ErrNotFound = errors.New("module not found")

// Finder locates modules by import path. FindSpec returns (nil, nil) when the
// module is not its to load. Implementations must be comparable (pointers).
type Finder interface {
	FindSpec(importPath string) (*ModuleSpec, error)
}

// Loader produces the Go text of one module file.
type Loader interface {
	// GetFilename returns the name under which path is shown to the interpreter.
	GetFilename(path string) string
	// GetData returns the Go source of path.
	GetData(path string) ([]byte, error)
}

// ModuleSpec describes a module found by a Finder.
type ModuleSpec struct {
	ImportPath string
	Origin     string   // каталог или единственный файл модуля
	Files      []string // абсолютные пути, отсортированы
	Kind       project.ModuleKind
	Loader     Loader
}

// FileFor returns the file presented to the interpreter as name.
func (s *ModuleSpec) FileFor(name string) (string, bool) {
	for _, f := range s.Files {
		if s.Loader.GetFilename(f) == name {
			return f, true
		}
	}
	return "", false
}

// ImportError reports a module that was found but could not be loaded: it
// failed to tokenize, or its translation is not a valid program.
type ImportError struct {
	ImportPath string
	Path       string
	Err        error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("cannot import %q: %v", e.ImportPath, e.Err)
}

func (e *ImportError) Unwrap() error { return e.Err }
