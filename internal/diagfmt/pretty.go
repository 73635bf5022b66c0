package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"esspy/internal/diag"
	"esspy/internal/source"
)

type palette struct {
	err     *color.Color
	warn    *color.Color
	info    *color.Color
	code    *color.Color
	loc     *color.Color
	gutter  *color.Color
	caret   *color.Color
	note    *color.Color
	fix     *color.Color
	added   *color.Color
	removed *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:     color.New(color.FgRed, color.Bold),
		warn:    color.New(color.FgYellow, color.Bold),
		info:    color.New(color.FgCyan, color.Bold),
		code:    color.New(color.Faint),
		loc:     color.New(color.Bold),
		gutter:  color.New(color.FgBlue),
		caret:   color.New(color.FgRed, color.Bold),
		note:    color.New(color.FgCyan),
		fix:     color.New(color.FgGreen),
		added:   color.New(color.FgGreen),
		removed: color.New(color.FgRed),
	}
	// каждый цвет переключается отдельно, глобальный color.NoColor не трогаем
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.loc, p.gutter, p.caret, p.note, p.fix, p.added, p.removed} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty writes diagnostics as human-readable text: a location header, the
// offending source line with a caret underline, then notes and fixes when
// requested.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, &d, fs, opts, p)
	}
	if n := bag.Dropped(); n > 0 {
		fmt.Fprintf(w, "\n... and %d more diagnostics not shown\n", n)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	f := fs.Get(d.Primary.File)
	start, end := fs.Resolve(d.Primary)
	path := displayPath(fs, f, opts.PathMode)

	fmt.Fprintf(w, "%s %s %s: %s\n",
		p.loc.Sprintf("%s:%d:%d:", path, start.Line, start.Col),
		p.severity(d.Severity).Sprint(d.Severity.String()),
		p.code.Sprint(d.Code.ID()),
		d.Message,
	)

	if len(f.Content) > 0 {
		writeSnippet(w, f, start, end, opts, p)
	}

	if opts.ShowNotes {
		for _, n := range d.Notes {
			nf := fs.Get(n.Span.File)
			pos, _ := fs.Resolve(n.Span)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n",
				p.note.Sprint("note:"), displayPath(fs, nf, opts.PathMode), pos.Line, pos.Col, n.Msg)
		}
	}

	if opts.ShowFixes {
		for i, fx := range d.Fixes {
			fmt.Fprintf(w, "  %s %s\n", p.fix.Sprintf("fix #%d:", i+1), fx.Title)
			for _, e := range fx.Edits {
				writeEdit(w, fs, e, opts, p)
			}
		}
	}
}

func writeSnippet(w io.Writer, f *source.File, start, end source.LineCol, opts PrettyOpts, p palette) {
	last := uint32(len(f.LineIdx)) + 1
	if len(f.LineIdx) > 0 && int(f.LineIdx[len(f.LineIdx)-1]) == len(f.Content)-1 {
		// завершающий '\n' не порождает отдельную строку
		last--
	}
	ctx := uint32(max(opts.Context, 0))
	from := uint32(1)
	if start.Line > ctx+1 {
		from = start.Line - ctx
	}
	to := min(start.Line+ctx, last)
	to = max(to, start.Line)
	width := len(strconv.FormatUint(uint64(to), 10))

	for n := from; n <= to; n++ {
		text := f.GetLine(n)
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", width, n), clip(text, opts.Width))
		if n != start.Line {
			continue
		}
		pad, marks := caret(text, start, end)
		fmt.Fprintf(w, "%s %s%s\n", p.gutter.Sprintf("%*s |", width, ""), pad, p.caret.Sprint(strings.Repeat("^", marks)))
	}
}

// caret returns the indentation and the underline length for a span that
// starts on line. Widths are measured in terminal cells so combining marks
// do not shift the underline.
func caret(line string, start, end source.LineCol) (string, int) {
	col := min(int(start.Col)-1, len(line))
	col = max(col, 0)
	var pad strings.Builder
	for _, r := range line[:col] {
		if r == '\t' {
			pad.WriteByte('\t')
			continue
		}
		pad.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	stop := len(line)
	if end.Line == start.Line {
		stop = min(max(int(end.Col)-1, col), len(line))
	}
	return pad.String(), max(runewidth.StringWidth(line[col:stop]), 1)
}

func clip(text string, width uint8) string {
	if width == 0 || runewidth.StringWidth(text) <= int(width) {
		return text
	}
	return runewidth.Truncate(text, int(width), "...")
}

func writeEdit(w io.Writer, fs *source.FileSet, e diag.FixEdit, opts PrettyOpts, p palette) {
	f := fs.Get(e.Span.File)
	start, end := fs.Resolve(e.Span)
	fmt.Fprintf(w, "    edit %s:%d:%d-%d:%d apply=%q\n",
		displayPath(fs, f, opts.PathMode), start.Line, start.Col, end.Line, end.Col, e.NewText)
	if !opts.ShowPreview {
		return
	}
	prev, err := buildFixEditPreview(fs, e)
	if err != nil {
		fmt.Fprintf(w, "    preview unavailable: %v\n", err)
		return
	}
	fmt.Fprintln(w, "    preview:")
	for _, l := range prev.before {
		fmt.Fprintf(w, "      %s\n", p.removed.Sprint("- "+l))
	}
	for _, l := range prev.after {
		fmt.Fprintf(w, "      %s\n", p.added.Sprint("+ "+l))
	}
}
