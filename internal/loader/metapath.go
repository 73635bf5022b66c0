package loader

import (
	"slices"
	"sync"

	"github.com/cockroachdb/errors"

	"esspy/internal/logger"
)

var (
	metaMu   sync.Mutex
	metaPath []Finder
)

// Register puts f at the front of the meta path. Registering a finder that
// is already present does nothing, and the function returned for such a call
// does nothing either: only the call that inserted f can remove it.
func Register(f Finder) (unregister func()) {
	metaMu.Lock()
	defer metaMu.Unlock()
	if slices.Contains(metaPath, f) {
		return func() {}
	}
	metaPath = slices.Insert(metaPath, 0, f)
	logger.Debugw("finder registered", "finder", f, "len", len(metaPath))
	var once sync.Once
	return func() { once.Do(func() { Unregister(f) }) }
}

// Unregister removes f and reports whether it was present.
func Unregister(f Finder) bool {
	metaMu.Lock()
	defer metaMu.Unlock()
	i := slices.Index(metaPath, f)
	if i < 0 {
		return false
	}
	metaPath = slices.Delete(metaPath, i, i+1)
	return true
}

// Finders returns a snapshot of the meta path.
func Finders() []Finder {
	metaMu.Lock()
	defer metaMu.Unlock()
	return slices.Clone(metaPath)
}

// Find asks each finder in turn. It returns ErrNotFound when none of them
// knows importPath.
func Find(importPath string, finders ...Finder) (*ModuleSpec, error) {
	if finders == nil {
		finders = Finders()
	}
	for _, f := range finders {
		spec, err := f.FindSpec(importPath)
		if err != nil {
			return nil, err
		}
		if spec != nil {
			return spec, nil
		}
	}
	logger.Debugw("module miss", "import", importPath, "finders", len(finders))
	return nil, errors.Wrapf(ErrNotFound, "%q", importPath)
}
