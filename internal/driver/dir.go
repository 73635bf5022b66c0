package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"esspy/internal/diag"
	"esspy/internal/source"
)

// DirOptions configure TranslateDir.
type DirOptions struct {
	Options
	Jobs    int // <= 0: GOMAXPROCS
	OnEvent Observer
}

// DirResult is the outcome for one file of a directory.
type DirResult struct {
	Path    string // путь на диске
	Rel     string // относительно каталога запуска, через '/'
	LoadErr error
	*TranslateResult
}

// OK reports whether the file loaded and translated cleanly.
func (r DirResult) OK() bool {
	return r.LoadErr == nil && r.TranslateResult.OK()
}

// Err returns the load error or the translation failure, or nil.
func (r DirResult) Err() error {
	if r.LoadErr != nil {
		return r.LoadErr
	}
	return r.TranslateResult.Err()
}

// ListSourceFiles returns the sorted *.esspy files under dir. Directories
// whose names start with '.' or '_' are skipped.
func ListSourceFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && (strings.HasPrefix(d.Name(), ".") || strings.HasPrefix(d.Name(), "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if source.IsSourcePath(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// TranslateDir translates every esspy file under dir in parallel. Results
// keep the order of ListSourceFiles. Per-file failures are reported in the
// results; the error return is for listing failures and cancellation.
func TranslateDir(ctx context.Context, dir string, opts DirOptions) (*source.FileSet, []DirResult, error) {
	files, err := ListSourceFiles(dir)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "listing %s", dir)
	}
	fileSet := source.NewFileSetWithBase(dir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]DirResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = translateOne(fileSet, dir, path, i, len(files), opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

func translateOne(fileSet *source.FileSet, dir, path string, index, total int, opts DirOptions) DirResult {
	started := time.Now()
	opts.OnEvent.emit(FileEvent{Path: path, Index: index, Total: total, Status: FileStarted})

	rel, err := filepath.Rel(dir, path)
	if err != nil {
		rel = path
	}
	res := DirResult{Path: path, Rel: filepath.ToSlash(rel)}

	id, err := fileSet.Load(path)
	if err != nil {
		res.LoadErr = errors.Wrapf(err, "reading %s", path)
		// пустой виртуальный файл, чтобы диагностике было куда указывать
		file := fileSet.Get(fileSet.AddVirtual(path, nil))
		res.TranslateResult = &TranslateResult{FileSet: fileSet, File: file, Bag: diag.NewBag(opts.MaxDiagnostics)}
		diag.ReportError(&diag.BagReporter{Bag: res.Bag}, diag.IOLoadFileError, source.Span{File: file.ID}, err.Error()).Emit()
		opts.OnEvent.emit(FileEvent{Path: path, Index: index, Total: total, Status: FileFailed, Elapsed: time.Since(started), Errors: 1})
		return res
	}
	res.TranslateResult = translateLoaded(fileSet, fileSet.Get(id), opts.Options)

	status := FileDone
	switch {
	case !res.OK():
		status = FileFailed
	case res.Cached:
		status = FileCached
	}
	opts.OnEvent.emit(FileEvent{
		Path:    path,
		Index:   index,
		Total:   total,
		Status:  status,
		Elapsed: time.Since(started),
		Errors:  res.Bag.ErrorCount(),
	})
	return res
}
