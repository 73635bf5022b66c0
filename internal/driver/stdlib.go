package driver

import (
	"path"
	"sync"

	"github.com/traefik/yaegi/stdlib"
)

// stdlibPaths lists the import paths the interpreter provides natively.
// Keys of stdlib.Symbols have the form "import/path/name".
var stdlibPaths = sync.OnceValue(func() map[string]bool {
	out := make(map[string]bool, len(stdlib.Symbols))
	for key := range stdlib.Symbols {
		out[path.Dir(key)] = true
	}
	return out
})

// IsStdlib reports whether importPath is served by the interpreter itself.
func IsStdlib(importPath string) bool {
	return stdlibPaths()[importPath]
}
