package translit

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"esspy/internal/diag"
	"esspy/internal/dialect"
	"esspy/internal/keywords"
	"esspy/internal/lexer"
	"esspy/internal/source"
	"esspy/internal/syntax"
	"esspy/internal/token"
)

// Options configure a translation.
type Options struct {
	Table    *keywords.Table // nil: keywords.Default
	Path     string          // имя для сообщений, когда исходник не из файла
	Reporter diag.Reporter   // получает диагностики лексера, синтаксиса и подсказки
	Hints    bool            // искать ключевые слова старого диалекта
}

func (o Options) table() *keywords.Table {
	if o.Table != nil {
		return o.Table
	}
	return keywords.Default
}

func (o Options) path() string {
	if o.Path != "" {
		return o.Path
	}
	return "<input>"
}

// Substitution records one rewritten name.
type Substitution struct {
	Span    source.Span // в исходнике
	From    string
	To      string
	Out     int  // offset of To in the translated text
	Keyword bool // false for a name that was only mangled
}

// Result is the outcome of a translation. When Invalid is non-nil, Text
// must not be compiled or executed; it is kept for inspection only.
type Result struct {
	Text    string
	Plan    syntax.Plan
	Invalid *syntax.Diagnostic
	Subs    []Substitution
	File    *source.File
}

// OK reports whether the translation validated.
func (r Result) OK() bool { return r.Invalid == nil }

// Err returns *SyntaxError for an invalid result, nil otherwise.
func (r Result) Err() error {
	if r.Invalid == nil {
		return nil
	}
	path := ""
	if r.File != nil {
		path = r.File.Path
	}
	return &SyntaxError{Path: path, Diag: *r.Invalid}
}

// SourceOffset maps an offset of Text back to the source. Offsets inside a
// substituted word map to the start of the word.
func (r Result) SourceOffset(out int) int {
	return offsetMap(r.Subs).original(out)
}

// Translate translates src held in memory.
func Translate(src []byte, opts Options) (Result, error) {
	fs := source.NewFileSet()
	id := fs.AddVirtual(opts.path(), src)
	return TranslateFile(fs.Get(id), opts)
}

// TranslateFile translates a file already loaded into a source.FileSet.
// The returned error is always *lexer.Error.
func TranslateFile(file *source.File, opts Options) (Result, error) {
	toks, err := lexer.Scan(file, lexer.Options{Reporter: lexer.DiagReporter(opts.Reporter)})
	if err != nil {
		return Result{File: file}, err
	}

	out, subs := substitute(toks, opts.table())
	text := serialize(file.Content, out, subs)
	res := Result{Text: text, Subs: subs, File: file}

	for _, tok := range toks {
		if !tok.IsName() || !Reserved(tok.Text) {
			continue
		}
		pos := file.Position(tok.Span.Start)
		d := syntax.Diagnostic{
			Msg:    fmt.Sprintf("name %s is spelled like an escaped mark; rename it", tok.Text),
			Line:   int(pos.Line),
			Col:    int(pos.Col),
			Offset: int(tok.Span.Start),
		}
		if res.Invalid == nil {
			res.Invalid = &d
		}
		if opts.Reporter != nil {
			diag.ReportError(opts.Reporter, diag.SynReservedName, tok.Span, d.Msg).Emit()
		}
	}

	check := syntax.Validate(file.Path, text)
	res.Plan = check.Plan
	if !check.OK() {
		m := offsetMap(subs)
		for i, d := range check.Diagnostics {
			mapped := remap(file, m, d)
			if i == 0 && res.Invalid == nil {
				res.Invalid = &mapped
			}
			if opts.Reporter != nil {
				sp := spanAt(file, mapped.Offset)
				diag.ReportError(opts.Reporter, diag.SynInvalidProgram, sp, mapped.Msg).Emit()
			}
		}
	}

	if opts.Hints && opts.Reporter != nil {
		ev := dialect.NewEvidence()
		dialect.Observe(ev, file, toks, opts.table())
		dialect.Emit(ev, opts.Reporter, !res.OK())
	}
	return res, nil
}

// substitute returns a new token slice with keyword names replaced and
// other names mangled, plus the list of changes. Out offsets are filled by
// serialize.
func substitute(toks []token.Token, table *keywords.Table) ([]token.Token, []Substitution) {
	out := make([]token.Token, len(toks))
	var subs []Substitution
	var prev token.Token
	for i, tok := range toks {
		out[i] = tok
		if tok.IsName() {
			to, isKeyword := rename(tok.Text, prev.IsPeriod(), table)
			if to != tok.Text {
				out[i] = tok.WithText(to)
				subs = append(subs, Substitution{Span: tok.Span, From: tok.Text, To: to, Keyword: isKeyword})
			}
		}
		if !tok.Synthetic() && tok.Kind != token.Comment {
			prev = tok
		}
	}
	return out, subs
}

func rename(name string, afterPeriod bool, table *keywords.Table) (string, bool) {
	if !afterPeriod {
		if host, ok := table.Lookup(name); ok {
			return host, true
		}
	}
	return Mangle(name), false
}

// serialize writes the bytes between tokens verbatim and token text in
// between, filling Out for every substitution.
func serialize(src []byte, toks []token.Token, subs []Substitution) string {
	var b strings.Builder
	b.Grow(len(src) + len(src)/4)
	prev := 0
	si := 0
	for _, tok := range toks {
		start, end := int(tok.Span.Start), int(tok.Span.End)
		if start > prev {
			b.Write(src[prev:start])
			prev = start
		}
		if si < len(subs) && subs[si].Span == tok.Span && !tok.Synthetic() {
			subs[si].Out = b.Len()
			si++
		}
		b.WriteString(tok.Text)
		if end > prev {
			prev = end
		}
	}
	if prev < len(src) {
		b.Write(src[prev:])
	}
	return b.String()
}

func remap(file *source.File, m offsetMap, d syntax.Diagnostic) syntax.Diagnostic {
	off := m.original(d.Offset)
	if off > len(file.Content) {
		off = len(file.Content)
	}
	pos := file.Position(spanAt(file, off).Start)
	return syntax.Diagnostic{
		Msg:    Demangle(d.Msg),
		Line:   int(pos.Line),
		Col:    int(pos.Col),
		Offset: off,
	}
}

func spanAt(file *source.File, off int) source.Span {
	s, err := safecast.Conv[uint32](off)
	if err != nil {
		panic(fmt.Errorf("offset overflow: %w", err))
	}
	return source.Span{File: file.ID, Start: s, End: s}
}
