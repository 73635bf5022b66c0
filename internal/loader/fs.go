package loader

import (
	"bytes"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
)

// GoPath is the root the interpreter is pointed at. Sources of module a/b
// live under GoPath/src/a/b.
const GoPath = "_esspy"

const srcPrefix = GoPath + "/src/"

// FS serves modules from finders as a read-only GOPATH tree. Only the tree
// the interpreter asks for exists: GoPath/src/<import path> is a directory
// when some finder knows the import path, and holds one .go entry per module
// file.
//
// Load failures are remembered: the interpreter folds them into plain
// strings, so callers use Failures to recover the typed error.
type FS struct {
	finders []Finder // nil: снимок meta path на момент каждого запроса

	mu       sync.Mutex
	specs    map[string]*ModuleSpec
	data     map[string][]byte
	failures []*ImportError
}

var (
	_ fs.StatFS     = (*FS)(nil)
	_ fs.ReadDirFS  = (*FS)(nil)
	_ fs.ReadFileFS = (*FS)(nil)
)

// NewFS returns an FS over finders, or over the meta path when none are given.
func NewFS(finders ...Finder) *FS {
	return &FS{
		finders: finders,
		specs:   make(map[string]*ModuleSpec),
		data:    make(map[string][]byte),
	}
}

// Failures returns the import errors met so far, in order.
func (fsys *FS) Failures() []*ImportError {
	fsys.mu.Lock()
	defer fsys.mu.Unlock()
	return append([]*ImportError(nil), fsys.failures...)
}

// Modules returns the specs resolved so far, keyed by import path.
func (fsys *FS) Modules() map[string]*ModuleSpec {
	fsys.mu.Lock()
	defer fsys.mu.Unlock()
	out := make(map[string]*ModuleSpec, len(fsys.specs))
	for k, v := range fsys.specs {
		if v != nil {
			out[k] = v
		}
	}
	return out
}

func (fsys *FS) lookup(importPath string) (*ModuleSpec, error) {
	fsys.mu.Lock()
	spec, ok := fsys.specs[importPath]
	fsys.mu.Unlock()
	if ok {
		return spec, nil
	}

	finders := fsys.finders
	if finders == nil {
		finders = Finders()
	}
	spec, err := Find(importPath, finders...)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	fsys.mu.Lock()
	fsys.specs[importPath] = spec
	fsys.mu.Unlock()
	return spec, nil
}

// resolve splits name into the module and the file inside it. file is ""
// when name points at the module directory itself.
func (fsys *FS) resolve(op, name string) (spec *ModuleSpec, file string, err error) {
	notExist := &fs.PathError{Op: op, Path: name, Err: fs.ErrNotExist}
	if !fs.ValidPath(name) || !strings.HasPrefix(name, srcPrefix) {
		return nil, "", notExist
	}
	rel := strings.TrimPrefix(name, srcPrefix)

	if strings.HasSuffix(rel, ".go") {
		dir, base := path.Split(rel)
		spec, err = fsys.lookup(strings.TrimSuffix(dir, "/"))
		if err != nil {
			return nil, "", &fs.PathError{Op: op, Path: name, Err: err}
		}
		if spec != nil {
			if f, ok := spec.FileFor(base); ok {
				return spec, f, nil
			}
		}
	}

	spec, err = fsys.lookup(rel)
	if err != nil {
		return nil, "", &fs.PathError{Op: op, Path: name, Err: err}
	}
	if spec == nil {
		return nil, "", notExist
	}
	return spec, "", nil
}

func (fsys *FS) read(spec *ModuleSpec, file string) ([]byte, error) {
	fsys.mu.Lock()
	data, ok := fsys.data[file]
	fsys.mu.Unlock()
	if ok {
		return data, nil
	}

	data, err := spec.Loader.GetData(file)
	if err != nil {
		var ie *ImportError
		if errors.As(err, &ie) {
			fsys.mu.Lock()
			fsys.failures = append(fsys.failures, ie)
			fsys.mu.Unlock()
		}
		return nil, err
	}
	fsys.mu.Lock()
	fsys.data[file] = data
	fsys.mu.Unlock()
	return data, nil
}

// ReadFile implements fs.ReadFileFS.
func (fsys *FS) ReadFile(name string) ([]byte, error) {
	spec, file, err := fsys.resolve("readfile", name)
	if err != nil {
		return nil, err
	}
	if file == "" {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: errors.New("is a directory")}
	}
	data, err := fsys.read(spec, file)
	if err != nil {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: err}
	}
	return bytes.Clone(data), nil
}

// ReadDir implements fs.ReadDirFS.
func (fsys *FS) ReadDir(name string) ([]fs.DirEntry, error) {
	spec, file, err := fsys.resolve("readdir", name)
	if err != nil {
		return nil, err
	}
	if file != "" {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: errors.New("not a directory")}
	}
	return fsys.entries(spec), nil
}

func (fsys *FS) entries(spec *ModuleSpec) []fs.DirEntry {
	out := make([]fs.DirEntry, 0, len(spec.Files))
	for _, f := range spec.Files {
		out = append(out, fs.FileInfoToDirEntry(fileInfo{name: spec.Loader.GetFilename(f)}))
	}
	return out
}

// Stat implements fs.StatFS.
func (fsys *FS) Stat(name string) (fs.FileInfo, error) {
	spec, file, err := fsys.resolve("stat", name)
	if err != nil {
		return nil, err
	}
	if file == "" {
		return fileInfo{name: path.Base(name), dir: true}, nil
	}
	return fileInfo{name: spec.Loader.GetFilename(file)}, nil
}

// Open implements fs.FS.
func (fsys *FS) Open(name string) (fs.File, error) {
	spec, file, err := fsys.resolve("open", name)
	if err != nil {
		return nil, err
	}
	if file == "" {
		return &dirFile{info: fileInfo{name: path.Base(name), dir: true}, entries: fsys.entries(spec)}, nil
	}
	data, err := fsys.read(spec, file)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	return &memFile{
		info:   fileInfo{name: spec.Loader.GetFilename(file), size: int64(len(data))},
		Reader: bytes.NewReader(data),
	}, nil
}

type fileInfo struct {
	name string
	size int64
	dir  bool
}

func (fi fileInfo) Name() string       { return fi.name }
func (fi fileInfo) Size() int64        { return fi.size }
func (fi fileInfo) ModTime() time.Time { return time.Time{} }
func (fi fileInfo) IsDir() bool        { return fi.dir }
func (fi fileInfo) Sys() any           { return nil }

func (fi fileInfo) Mode() fs.FileMode {
	if fi.dir {
		return fs.ModeDir | 0o555
	}
	return 0o444
}

type memFile struct {
	info fileInfo
	*bytes.Reader
}

func (f *memFile) Stat() (fs.FileInfo, error) { return f.info, nil }
func (f *memFile) Close() error               { return nil }

type dirFile struct {
	info    fileInfo
	entries []fs.DirEntry
	off     int
}

func (d *dirFile) Stat() (fs.FileInfo, error) { return d.info, nil }
func (d *dirFile) Close() error               { return nil }

func (d *dirFile) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.info.name, Err: errors.New("is a directory")}
}

func (d *dirFile) ReadDir(n int) ([]fs.DirEntry, error) {
	rest := d.entries[d.off:]
	if n <= 0 {
		d.off = len(d.entries)
		return rest, nil
	}
	if len(rest) == 0 {
		return nil, io.EOF
	}
	if n > len(rest) {
		n = len(rest)
	}
	d.off += n
	return rest[:n], nil
}
