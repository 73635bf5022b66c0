package driver

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"fortio.org/safecast"
	"github.com/cockroachdb/errors"

	"esspy/internal/diag"
	"esspy/internal/loader"
	"esspy/internal/logger"
	"esspy/internal/observ"
	"esspy/internal/project"
	"esspy/internal/project/dag"
	"esspy/internal/source"
	"esspy/internal/syntax"
)

// CheckOptions configure CheckDir.
type CheckOptions struct {
	DirOptions
	// Roots are the import roots. By default they come from esspy.toml, or
	// the checked directory when there is no manifest.
	Roots []string
}

// CheckResult is the outcome of checking a directory.
type CheckResult struct {
	FileSet *source.FileSet
	Files   []DirResult
	Modules []project.ModuleMeta // импортируемые раньше импортирующих
	Project *diag.Bag            // диагностики графа импортов
	Cyclic  bool
}

// HasErrors reports whether any file or the import graph has errors.
func (r *CheckResult) HasErrors() bool {
	if r.Project.HasErrors() {
		return true
	}
	for _, f := range r.Files {
		if f.Bag != nil && f.Bag.HasErrors() {
			return true
		}
	}
	return false
}

// Diagnostics merges every diagnostic of the check in source order.
func (r *CheckResult) Diagnostics() *diag.Bag {
	out := diag.NewBag(0)
	for _, f := range r.Files {
		out.Merge(f.Bag)
	}
	out.Merge(r.Project)
	out.Sort()
	return out
}

// Timing sums the per-file timings.
func (r *CheckResult) Timing() observ.Report {
	var total observ.Report
	for _, f := range r.Files {
		if f.TranslateResult != nil && f.Timing != nil {
			total.Add(*f.Timing)
		}
	}
	return total
}

// CheckDir translates every file under dir, then links the esspy modules
// found there by their imports and reports missing modules, import cycles and
// imports of modules that failed to translate.
func CheckDir(ctx context.Context, dir string, opts CheckOptions) (*CheckResult, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %s", dir)
	}
	roots, err := checkRoots(absDir, opts.Roots)
	if err != nil {
		return nil, err
	}
	fileSet, files, err := TranslateDir(ctx, absDir, opts.DirOptions)
	if err != nil {
		return nil, err
	}

	res := &CheckResult{FileSet: fileSet, Files: files, Project: diag.NewBag(opts.MaxDiagnostics)}
	g := newModuleGraph(absDir, roots, &diag.BagReporter{Bag: res.Project})
	for i := range files {
		g.addFile(&files[i])
	}
	g.resolve()

	metas := make([]project.ModuleMeta, 0, len(g.order))
	nodes := make([]dag.ModuleNode, 0, len(g.order))
	for _, path := range g.order {
		b := g.byPath[path]
		meta := b.build(g.reporter)
		metas = append(metas, meta)
		nodes = append(nodes, dag.ModuleNode{Meta: meta, Reporter: g.reporter, Broken: b.broken, FirstErr: b.first})
	}

	idx := dag.BuildIndex(metas)
	graph, slots := dag.BuildGraph(idx, nodes)
	topo := dag.ToposortKahn(graph)
	dag.ReportCycles(idx, graph, slots, topo)
	dag.ReportBrokenDeps(idx, slots)
	hashes := dag.ModuleHashes(graph, slots, topo)

	seen := make(map[dag.ModuleID]bool, len(slots))
	appendModule := func(id dag.ModuleID) {
		if seen[id] || !slots[int(id)].Present {
			return
		}
		seen[id] = true
		meta := slots[int(id)].Meta
		meta.ModuleHash = hashes[int(id)]
		res.Modules = append(res.Modules, meta)
	}
	for _, id := range topo.DependencyOrder() {
		appendModule(id)
	}
	for i := range slots {
		appendModule(dag.ModuleID(i))
	}
	res.Cyclic = topo.Cyclic

	logger.Debugw("import graph", "dir", absDir, "modules", len(res.Modules), "cyclic", topo.Cyclic)
	return res, nil
}

func checkRoots(dir string, roots []string) ([]string, error) {
	if len(roots) > 0 {
		return roots, nil
	}
	m, ok, err := project.Discover(dir)
	if err != nil {
		return nil, errors.WithHint(errors.Wrap(err, "loading project manifest"), "fix or remove "+project.ManifestName)
	}
	if !ok {
		return []string{dir}, nil
	}
	return m.ImportRoots()
}

type moduleBuilder struct {
	path     string
	dir      string
	kind     project.ModuleKind
	files    []*DirResult
	external bool // найден вне проверяемого каталога, не проверяется
	broken   bool
	first    *diag.Diagnostic
}

type moduleGraph struct {
	dir      string
	roots    []string
	reporter diag.Reporter
	finders  []loader.Finder
	byPath   map[string]*moduleBuilder
	order    []string
	// файлы по логическому пути "a/b" для модулей из одного файла
	singles map[string]*DirResult
}

func newModuleGraph(dir string, roots []string, reporter diag.Reporter) *moduleGraph {
	return &moduleGraph{
		dir:      dir,
		roots:    roots,
		reporter: reporter,
		finders:  []loader.Finder{loader.NewSourceFinder(roots...), loader.NewNativeFinder(roots...)},
		byPath:   make(map[string]*moduleBuilder),
		singles:  make(map[string]*DirResult),
	}
}

func (g *moduleGraph) module(path, dir string, kind project.ModuleKind) *moduleBuilder {
	if b, ok := g.byPath[path]; ok {
		return b
	}
	b := &moduleBuilder{path: path, dir: dir, kind: kind}
	g.byPath[path] = b
	g.order = append(g.order, path)
	return b
}

// addFile places r into the module of its directory. Files directly in an
// import root are modules of their own.
func (g *moduleGraph) addFile(r *DirResult) {
	if single, ok := project.LogicalPath(g.roots, r.Path); ok {
		g.singles[single] = r
	}
	dir := filepath.Dir(r.Path)
	if mod, ok := project.LogicalPath(g.roots, dir); ok {
		g.module(mod, dir, project.ModuleKindSource).add(r)
		return
	}
	mod, ok := project.LogicalPath(g.roots, r.Path)
	if !ok {
		mod = strings.TrimSuffix(r.Rel, source.Extension)
	}
	g.module(mod, r.Path, project.ModuleKindSource).add(r)
}

func (b *moduleBuilder) add(r *DirResult) {
	b.files = append(b.files, r)
	if r.OK() || b.broken {
		return
	}
	b.broken = true
	if r.Bag != nil {
		if first, ok := r.Bag.First(); ok {
			b.first = &first
		}
	}
}

// resolve adds the modules that imports refer to but that are not
// directories of the checked tree: single-file modules, and packages found
// by the finders elsewhere under the roots.
func (g *moduleGraph) resolve() {
	for i := 0; i < len(g.order); i++ {
		b := g.byPath[g.order[i]]
		for _, imp := range b.imports() {
			if _, ok := g.byPath[imp.path]; ok || !project.IsValidImportPath(imp.path) {
				continue
			}
			if r, ok := g.singles[imp.path]; ok {
				g.module(imp.path, r.Path, project.ModuleKindSource).add(r)
				continue
			}
			spec, err := loader.Find(imp.path, g.finders...)
			if err != nil {
				continue // останется отсутствующим, об этом сообщит граф
			}
			ext := g.module(imp.path, spec.Origin, spec.Kind)
			ext.external = true
		}
	}
}

type importRef struct {
	path string
	span source.Span
}

// imports lists non-standard imports of the valid files of b.
func (b *moduleBuilder) imports() []importRef {
	if b.external {
		return nil
	}
	var out []importRef
	for _, r := range b.files {
		if !r.OK() {
			continue
		}
		h := syntax.Inspect(r.Result.Text, r.Result.Plan)
		for _, imp := range h.Imports {
			if IsStdlib(imp.Path) {
				continue
			}
			out = append(out, importRef{path: imp.Path, span: spanOf(r, imp.Offset, imp.End)})
		}
	}
	return out
}

func spanOf(r *DirResult, start, end int) source.Span {
	s := r.Result.SourceOffset(start)
	e := r.Result.SourceOffset(end)
	if e < s {
		e = s
	}
	return source.Span{File: r.File.ID, Start: toOffset(s), End: toOffset(e)}
}

func toOffset(off int) uint32 {
	v, err := safecast.Conv[uint32](off)
	if err != nil {
		panic(fmt.Errorf("offset overflow: %w", err))
	}
	return v
}

func (b *moduleBuilder) build(reporter diag.Reporter) project.ModuleMeta {
	meta := project.ModuleMeta{Path: b.path, Dir: b.dir, Kind: b.kind, Name: "main"}
	if b.external {
		meta.Name = filepath.Base(b.path)
		return meta
	}

	hashes := make([]project.Digest, 0, len(b.files))
	for _, r := range b.files {
		if r.File == nil {
			continue
		}
		hash := project.Digest(r.File.Hash)
		hashes = append(hashes, hash)
		meta.Files = append(meta.Files, project.ModuleFileMeta{Path: r.Path, Hash: hash})
	}
	meta.ContentHash = project.Combine(project.Digest{}, hashes...)

	named := false
	for _, r := range b.files {
		if !r.OK() {
			continue
		}
		h := syntax.Inspect(r.Result.Text, r.Result.Plan)
		if h.Package == "" {
			continue
		}
		sp := spanOf(r, h.PackageOffset, h.PackageOffset+len(h.Package))
		if !named {
			meta.Name, meta.Span, named = h.Package, sp, true
		} else if h.Package != meta.Name {
			diag.ReportError(reporter, diag.ProjImportFailed, sp,
				fmt.Sprintf("module %q mixes packages %s and %s", b.path, meta.Name, h.Package)).
				WithNote(meta.Span, "package "+meta.Name+" declared here").Emit()
		}
	}

	seen := make(map[string]bool)
	for _, imp := range b.imports() {
		if !project.IsValidImportPath(imp.path) {
			diag.ReportError(reporter, diag.ProjImportFailed, imp.span,
				fmt.Sprintf("invalid import path %q", imp.path)).Emit()
			continue
		}
		if seen[imp.path] {
			continue
		}
		seen[imp.path] = true
		meta.Imports = append(meta.Imports, project.ImportMeta{Path: imp.path, Span: imp.span})
	}
	return meta
}
