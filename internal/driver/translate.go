package driver

import (
	"github.com/cockroachdb/errors"

	"esspy/internal/diag"
	"esspy/internal/keywords"
	"esspy/internal/logger"
	"esspy/internal/observ"
	"esspy/internal/source"
	"esspy/internal/translit"
)

// Options are shared by every driver entry point.
type Options struct {
	MaxDiagnostics int
	Table          *keywords.Table // nil: keywords.Default
	Hints          bool            // подсказки о ключевых словах других диалектов
	Cache          *DiskCache      // nil отключает кэш
	Timings        bool
}

func (o Options) table() *keywords.Table {
	if o.Table != nil {
		return o.Table
	}
	return keywords.Default
}

// TranslateResult is the outcome for one file.
type TranslateResult struct {
	FileSet *source.FileSet
	File    *source.File
	Result  translit.Result
	LexErr  error // *lexer.Error; Result is empty then
	Bag     *diag.Bag
	Timing  *observ.Report
	Cached  bool
}

// OK reports whether the file tokenized and its translation validated.
func (r *TranslateResult) OK() bool {
	return r != nil && r.LexErr == nil && r.Result.OK()
}

// Err returns the failure as an error, or nil.
func (r *TranslateResult) Err() error {
	if r.LexErr != nil {
		return r.LexErr
	}
	return r.Result.Err()
}

// TranslateFile loads and translates path. The error return is for I/O;
// translation failures are reported through the result.
func TranslateFile(path string, opts Options) (*TranslateResult, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return translateLoaded(fs, fs.Get(id), opts), nil
}

func translateLoaded(fs *source.FileSet, file *source.File, opts Options) *TranslateResult {
	var timer *observ.Timer
	if opts.Timings {
		timer = observ.NewTimer()
	}
	res := &TranslateResult{FileSet: fs, File: file, Bag: diag.NewBag(opts.MaxDiagnostics)}
	key := cacheKey(file, opts.table(), opts.Hints)

	if opts.Cache != nil {
		_ = timer.Measure("cache", func() error {
			var payload DiskPayload
			hit, err := opts.Cache.Get(key, &payload)
			if err != nil {
				logger.Warnw("translation cache unreadable", "path", file.Path, "error", err)
				return err
			}
			if hit && payload.Schema == diskCacheSchemaVersion && payload.valid() {
				res.Result = payload.restore(file, res.Bag)
				res.Cached = true
			}
			return nil
		})
	}

	if !res.Cached {
		_ = timer.Measure("translate", func() error {
			tr, err := translit.TranslateFile(file, translit.Options{
				Table:    opts.Table,
				Reporter: &diag.BagReporter{Bag: res.Bag},
				Hints:    opts.Hints,
			})
			res.Result, res.LexErr = tr, err
			return err
		})
		if opts.Cache != nil && res.OK() {
			if err := opts.Cache.Put(key, newDiskPayload(file, res.Result, res.Bag)); err != nil {
				logger.Warnw("translation cache write failed", "path", file.Path, "error", err)
			}
		}
	} else {
		logger.Debugw("cache hit", "path", file.Path)
	}

	if timer != nil {
		report := timer.Report()
		res.Timing = &report
	}
	return res
}
