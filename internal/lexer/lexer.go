package lexer

import (
	"bytes"
	"fmt"
	"go/scanner"
	gotoken "go/token"
	"unicode"
	"unicode/utf8"

	"fortio.org/safecast"

	"esspy/internal/source"
	"esspy/internal/token"
)

// Error is a scanner failure: the input could not be tokenized.
// It carries the first failure; Count is the total number reported.
type Error struct {
	Path  string
	Pos   source.LineCol
	Span  source.Span
	Msg   string
	Count int
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Pos.Line, e.Pos.Col, e.Msg)
	if e.Count > 1 {
		msg += fmt.Sprintf(" (and %d more errors)", e.Count-1)
	}
	return msg
}

// raw: токен в том виде, в каком его отдал go/scanner.
type raw struct {
	off int
	end int
	tok gotoken.Token
	lit string
}

// Scan tokenizes file with go/scanner. Words written in scripts whose
// combining marks Go rejects are glued back into single Name tokens, and the
// scanner errors for those marks are dropped. Any other scanner error is
// reported and returned as *Error; the token slice is still returned so
// callers can dump what was recognized.
func Scan(file *source.File, opts Options) ([]token.Token, error) {
	fset := gotoken.NewFileSet()
	tf := fset.AddFile(file.Path, -1, len(file.Content))

	var errs scanner.ErrorList
	var sc scanner.Scanner
	sc.Init(tf, file.Content, func(pos gotoken.Position, msg string) {
		errs.Add(pos, msg)
	}, scanner.ScanComments)

	raws := make([]raw, 0, len(file.Content)/3+1)
	for {
		pos, tok, lit := sc.Scan()
		off := tf.Offset(pos)
		raws = append(raws, raw{off: off, end: rawEnd(file.Content, off, tok, lit), tok: tok, lit: lit})
		if tok == gotoken.EOF {
			break
		}
	}

	toks, glued := build(file, raws)

	var first *Error
	count := 0
	for _, e := range errs {
		if glued[e.Pos.Offset] {
			continue
		}
		span := spanAt(file, e.Pos.Offset, e.Pos.Offset)
		opts.report(span, e.Msg)
		count++
		if first == nil {
			first = &Error{
				Path: file.Path,
				Pos:  file.Position(span.Start),
				Span: span,
				Msg:  e.Msg,
			}
		}
	}
	if first != nil {
		first.Count = count
		return toks, first
	}
	return toks, nil
}

// rawEnd computes the end offset of a token in the source. go/scanner strips
// '\r' from comments and raw strings, so their length is taken from the
// source bytes instead of lit.
func rawEnd(src []byte, off int, tok gotoken.Token, lit string) int {
	switch tok {
	case gotoken.EOF:
		return off
	case gotoken.SEMICOLON:
		if lit == "\n" {
			return off
		}
		return off + 1
	case gotoken.COMMENT:
		if off+1 < len(src) && src[off+1] == '*' {
			if i := bytes.Index(src[off+2:], []byte("*/")); i >= 0 {
				return off + 2 + i + 2
			}
			return len(src)
		}
		if i := bytes.IndexByte(src[off:], '\n'); i >= 0 {
			return off + i
		}
		return len(src)
	case gotoken.STRING:
		if off < len(src) && src[off] == '`' {
			if i := bytes.IndexByte(src[off+1:], '`'); i >= 0 {
				return off + 1 + i + 1
			}
			return len(src)
		}
		return clampEnd(src, off+len(lit))
	case gotoken.ILLEGAL:
		if off >= len(src) {
			return off
		}
		_, w := utf8.DecodeRune(src[off:])
		return off + w
	}
	if lit != "" {
		return clampEnd(src, off+len(lit))
	}
	return clampEnd(src, off+len(tok.String()))
}

func clampEnd(src []byte, end int) int {
	if end > len(src) {
		return len(src)
	}
	return end
}

// build converts raw tokens into token.Token values, gluing name fragments.
// The returned set holds offsets of mark runes absorbed into names.
func build(file *source.File, raws []raw) ([]token.Token, map[int]bool) {
	out := make([]token.Token, 0, len(raws))
	glued := make(map[int]bool)

	for i := 0; i < len(raws); i++ {
		r := raws[i]
		if r.tok == gotoken.IDENT {
			j := i
			for j+1 < len(raws) && raws[j+1].off == raws[j].end && continuesName(file.Content, raws[j+1]) {
				j++
			}
			for k := i + 1; k <= j; k++ {
				if raws[k].tok == gotoken.ILLEGAL {
					glued[raws[k].off] = true
				}
			}
			out = append(out, makeToken(file, token.Name, gotoken.IDENT, r.off, raws[j].end))
			i = j
			continue
		}
		out = append(out, makeToken(file, classify(r), r.tok, r.off, r.end))
	}
	return out, glued
}

// continuesName reports whether r may extend the identifier directly before it.
func continuesName(src []byte, r raw) bool {
	switch r.tok {
	case gotoken.IDENT:
		return true
	case gotoken.INT:
		for _, b := range []byte(r.lit) {
			if b < '0' || b > '9' {
				return false
			}
		}
		return true
	case gotoken.ILLEGAL:
		if r.off >= len(src) {
			return false
		}
		ch, _ := utf8.DecodeRune(src[r.off:])
		return isNameMark(ch)
	default:
		return false
	}
}

// isNameMark reports runes that identifiers in Indic scripts need but Go's
// identifier grammar does not accept.
func isNameMark(ch rune) bool {
	if ch == utf8.RuneError {
		return false
	}
	return unicode.In(ch, unicode.Mn, unicode.Mc, unicode.Nd) || ch == '\u200c' || ch == '\u200d'
}

func classify(r raw) token.Kind {
	switch {
	case r.tok == gotoken.EOF:
		return token.EOF
	case r.tok == gotoken.SEMICOLON && r.lit == "\n":
		return token.Newline
	case r.tok == gotoken.COMMENT:
		return token.Comment
	case r.tok == gotoken.ILLEGAL:
		return token.Illegal
	case r.tok.IsKeyword():
		return token.Keyword
	case r.tok.IsLiteral():
		return token.Literal
	case r.tok.IsOperator():
		return token.Op
	default:
		return token.Invalid
	}
}

func makeToken(file *source.File, kind token.Kind, host gotoken.Token, start, end int) token.Token {
	span := spanAt(file, start, end)
	text := ""
	if kind != token.Newline && kind != token.EOF {
		text = string(file.Content[span.Start:span.End])
	}
	return token.Token{
		Kind: kind,
		Host: host,
		Text: text,
		Span: span,
		Line: file.LineAt(span.Start),
	}
}

func spanAt(file *source.File, start, end int) source.Span {
	s, err := safecast.Conv[uint32](start)
	if err != nil {
		panic(fmt.Errorf("token offset overflow: %w", err))
	}
	e, err := safecast.Conv[uint32](end)
	if err != nil {
		panic(fmt.Errorf("token offset overflow: %w", err))
	}
	return source.Span{File: file.ID, Start: s, End: e}
}
