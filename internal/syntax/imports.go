package syntax

import (
	"go/parser"
	"go/token"
	"strconv"
)

// Import is one import spec. Offsets are those of the path literal in the
// input text.
type Import struct {
	Path   string
	Name   string // локальное имя, если задано
	Offset int
	End    int
}

// Header is what precedes the body of a text: the package clause, if any,
// and the imports.
type Header struct {
	Package       string // "" без package clause; snippets belong to main
	PackageOffset int
	Imports       []Import
}

// Inspect reads the header of text wrapped per plan. It stops after the
// imports and tolerates errors past them.
func Inspect(text string, plan Plan) Header {
	w := wrap(text, plan)
	fset := token.NewFileSet()
	f, _ := parser.ParseFile(fset, "", w.text, parser.ImportsOnly|parser.SkipObjectResolution)
	if f == nil {
		return Header{}
	}
	tf := fset.File(f.Package)
	if tf == nil {
		return Header{}
	}

	var h Header
	if plan.Mode.HasPackageClause() && f.Name != nil {
		h.Package = f.Name.Name
		h.PackageOffset = w.original(tf.Offset(f.Name.Pos()))
	}
	for _, spec := range f.Imports {
		if spec.Path == nil {
			continue
		}
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		imp := Import{
			Path:   p,
			Offset: w.original(tf.Offset(spec.Path.Pos())),
			End:    w.original(tf.Offset(spec.Path.End())),
		}
		if spec.Name != nil {
			imp.Name = spec.Name.Name
		}
		h.Imports = append(h.Imports, imp)
	}
	return h
}
