package runner

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"esspy/internal/diag"
	"esspy/internal/keywords"
	"esspy/internal/loader"
	"esspy/internal/logger"
	"esspy/internal/project"
	"esspy/internal/source"
	"esspy/internal/syntax"
	"esspy/internal/translit"
)

// Options configure a Runner. Zero values mean the process streams, no
// arguments and the default keyword table.
type Options struct {
	Stdout   io.Writer
	Stderr   io.Writer
	Stdin    io.Reader
	Args     []string // os.Args программы; Args[0]: путь к файлу
	Env      []string
	Table    *keywords.Table
	Reporter diag.Reporter // диагностики перевода и подсказки
	// Roots overrides import roots. By default they come from esspy.toml, or
	// the directory of the program when there is no manifest.
	Roots []string
	// Files, when set, receives the program and every esspy module it
	// imports, so spans reported to Reporter resolve against it.
	Files *source.FileSet
}

// Runner executes esspy programs. A Runner may be reused; each run gets a
// fresh interpreter.
type Runner struct {
	opts Options
}

// New returns a Runner.
func New(opts Options) *Runner {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	return &Runner{opts: opts}
}

// Run executes the program at path. The error is *lexer.Error,
// *translit.SyntaxError, *RunError, or an I/O error wrapping fs.ErrNotExist
// when the file is absent.
func (r *Runner) Run(ctx context.Context, path string) error {
	fs := r.fileSet()
	id, err := fs.Load(path)
	if err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}
	roots, err := r.roots(path)
	if err != nil {
		return err
	}
	return r.run(ctx, fs.Get(id), roots)
}

// RunSource executes src as if read from name. Imports resolve against the
// configured roots and the meta path.
func (r *Runner) RunSource(ctx context.Context, name string, src []byte) error {
	fs := r.fileSet()
	id := fs.AddVirtual(name, src)
	return r.run(ctx, fs.Get(id), r.opts.Roots)
}

func (r *Runner) fileSet() *source.FileSet {
	if r.opts.Files != nil {
		return r.opts.Files
	}
	return source.NewFileSet()
}

func (r *Runner) roots(path string) ([]string, error) {
	if len(r.opts.Roots) > 0 {
		return r.opts.Roots, nil
	}
	m, ok, err := project.Discover(filepath.Dir(path))
	if err != nil {
		return nil, errors.WithHint(errors.Wrap(err, "loading project manifest"), "fix or remove "+project.ManifestName)
	}
	if ok {
		return m.ImportRoots()
	}
	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, errors.Wrap(err, "resolving program directory")
	}
	return []string{dir}, nil
}

func (r *Runner) run(ctx context.Context, file *source.File, roots []string) error {
	res, err := translit.TranslateFile(file, translit.Options{
		Table:    r.opts.Table,
		Reporter: r.opts.Reporter,
		Hints:    r.opts.Reporter != nil,
	})
	if err != nil {
		return err
	}
	if !res.OK() {
		// невалидный перевод не исполняется
		return res.Err()
	}

	// finders of this run stay local; the meta path is only read
	var finders []loader.Finder
	if len(roots) > 0 {
		sf := &loader.SourceFinder{Roots: roots, Table: r.opts.Table, Reporter: r.opts.Reporter, Files: r.opts.Files}
		finders = append(finders, sf, loader.NewNativeFinder(roots...))
	}
	fsys := loader.NewFS(append(finders, loader.Finders()...)...)

	logger.Debugw("run", "path", file.Path, "mode", res.Plan.Mode.String(), "roots", roots)
	if err := r.exec(ctx, file.Path, res, fsys); err != nil {
		if failures := fsys.Failures(); len(failures) > 0 {
			return failures[0]
		}
		return err
	}
	return nil
}

func (r *Runner) exec(ctx context.Context, path string, res translit.Result, fsys *loader.FS) (err error) {
	args := r.opts.Args
	if len(args) == 0 {
		args = []string{path}
	}
	i := interp.New(interp.Options{
		GoPath:               loader.GoPath,
		SourcecodeFilesystem: fsys,
		Stdout:               r.opts.Stdout,
		Stderr:               r.opts.Stderr,
		Stdin:                r.opts.Stdin,
		Args:                 args,
		Env:                  r.opts.Env,
	})
	if err := i.Use(stdlib.Symbols); err != nil {
		return errors.Wrap(err, "loading standard library symbols")
	}

	defer func() {
		if p := recover(); p != nil {
			err = &RunError{Path: path, Panic: p}
		}
	}()

	for _, chunk := range chunks(res) {
		if _, err := i.EvalWithContext(ctx, chunk); err != nil {
			if ctx.Err() != nil {
				return &RunError{Path: path, Err: errors.Wrap(ctx.Err(), "execution cancelled")}
			}
			return newRunError(path, err)
		}
	}
	return nil
}

// chunks splits the translated text into the pieces evaluated in order.
// A script with leading imports is evaluated as the imports, then its
// statements padded with newlines so reported lines stay true.
func chunks(res translit.Result) []string {
	text := res.Text
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if res.Plan.Mode != syntax.ModeScript {
		return []string{text}
	}
	head := text[:res.Plan.Split]
	body := strings.Repeat("\n", strings.Count(head, "\n")) + text[res.Plan.Split:]
	return []string{head, body}
}
