package loader

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"esspy/internal/diag"
	"esspy/internal/keywords"
	"esspy/internal/logger"
	"esspy/internal/project"
	"esspy/internal/source"
	"esspy/internal/translit"
)

// SourceFinder finds esspy modules. Import path a/b resolves, for each root
// in order, to the directory <root>/a/b holding *.esspy files, or else to the
// single file <root>/a/b.esspy.
type SourceFinder struct {
	Roots    []string
	Table    *keywords.Table // nil: keywords.Default
	Reporter diag.Reporter   // optional; receives translation diagnostics of loaded files
	// Files, when set, holds every loaded file so the spans reported to
	// Reporter resolve against one set.
	Files *source.FileSet
}

// NewSourceFinder returns a finder over roots.
func NewSourceFinder(roots ...string) *SourceFinder {
	return &SourceFinder{Roots: roots}
}

func (f *SourceFinder) FindSpec(importPath string) (*ModuleSpec, error) {
	if !project.IsValidImportPath(importPath) {
		return nil, nil
	}
	rel := filepath.FromSlash(importPath)
	for _, root := range f.Roots {
		dir := filepath.Join(root, rel)
		files, err := listFiles(dir, source.IsSourcePath)
		if err != nil {
			return nil, errors.Wrapf(err, "scanning %s", dir)
		}
		if len(files) > 0 {
			logger.Debugw("source module", "import", importPath, "dir", dir, "files", len(files))
			return f.spec(importPath, dir, files), nil
		}
		file := dir + source.Extension
		if info, err := os.Stat(file); err == nil && info.Mode().IsRegular() {
			logger.Debugw("source module", "import", importPath, "file", file)
			return f.spec(importPath, file, []string{file}), nil
		}
	}
	return nil, nil
}

func (f *SourceFinder) spec(importPath, origin string, files []string) *ModuleSpec {
	return &ModuleSpec{
		ImportPath: importPath,
		Origin:     origin,
		Files:      files,
		Kind:       project.ModuleKindSource,
		Loader:     &SourceLoader{ImportPath: importPath, Table: f.Table, Reporter: f.Reporter, Files: f.Files},
	}
}

// SourceLoader translates esspy files on read.
type SourceLoader struct {
	ImportPath string
	Table      *keywords.Table
	Reporter   diag.Reporter
	Files      *source.FileSet // nil: a private set per file
}

// GetFilename shows a.esspy as a.go.
func (l *SourceLoader) GetFilename(path string) string {
	return strings.TrimSuffix(filepath.Base(path), source.Extension) + ".go"
}

// GetData reads and translates path. A lex failure or an invalid translation
// yields *ImportError and no bytes.
func (l *SourceLoader) GetData(path string) ([]byte, error) {
	fs := l.Files
	if fs == nil {
		fs = source.NewFileSet()
	}
	id, err := fs.Load(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	res, err := translit.TranslateFile(fs.Get(id), translit.Options{Table: l.Table, Reporter: l.Reporter})
	if err != nil {
		return nil, &ImportError{ImportPath: l.ImportPath, Path: path, Err: err}
	}
	if !res.OK() {
		return nil, &ImportError{ImportPath: l.ImportPath, Path: path, Err: res.Err()}
	}
	if res.Plan.Mode.HasPackageClause() {
		return []byte(res.Text), nil
	}
	return nil, &ImportError{
		ImportPath: l.ImportPath,
		Path:       path,
		Err:        errors.Newf("%s: an imported module must begin with a package clause", path),
	}
}

// NativeFinder finds plain Go packages under roots. It sits at the end of the
// meta path.
type NativeFinder struct {
	Roots []string
}

// NewNativeFinder returns a finder over roots.
func NewNativeFinder(roots ...string) *NativeFinder {
	return &NativeFinder{Roots: roots}
}

func (f *NativeFinder) FindSpec(importPath string) (*ModuleSpec, error) {
	if !project.IsValidImportPath(importPath) {
		return nil, nil
	}
	for _, root := range f.Roots {
		dir := filepath.Join(root, filepath.FromSlash(importPath))
		files, err := listFiles(dir, isGoFile)
		if err != nil {
			return nil, errors.Wrapf(err, "scanning %s", dir)
		}
		if len(files) > 0 {
			logger.Debugw("native module", "import", importPath, "dir", dir)
			return &ModuleSpec{
				ImportPath: importPath,
				Origin:     dir,
				Files:      files,
				Kind:       project.ModuleKindNative,
				Loader:     nativeLoader{},
			}, nil
		}
	}
	return nil, nil
}

type nativeLoader struct{}

func (nativeLoader) GetFilename(path string) string { return filepath.Base(path) }

func (nativeLoader) GetData(path string) ([]byte, error) {
	// #nosec G304 -- path comes from a finder root
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return data, nil
}

func isGoFile(path string) bool {
	return strings.HasSuffix(path, ".go") && !strings.HasSuffix(path, "_test.go")
}

// listFiles returns the regular files in dir accepted by keep. A missing
// directory, or a path that is not a directory, yields no files.
func listFiles(dir string, keep func(string) bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || isNotDir(dir) {
			return nil, nil
		}
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() && keep(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	slices.Sort(files)
	return files, nil
}

func isNotDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
