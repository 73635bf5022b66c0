package lexer

import (
	"errors"
	"strings"
	"testing"

	"esspy/internal/diag"
	"esspy/internal/source"
	"esspy/internal/token"
)

func scanString(t *testing.T, src string) ([]token.Token, error) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.esspy", []byte(src))
	return Scan(fs.Get(id), Options{})
}

func kindsAndTexts(toks []token.Token) string {
	var sb strings.Builder
	for _, tok := range toks {
		if tok.Synthetic() {
			sb.WriteString(tok.Kind.String())
		} else {
			sb.WriteString(tok.Kind.String() + "(" + tok.Text + ")")
		}
		sb.WriteByte(' ')
	}
	return strings.TrimSpace(sb.String())
}

func TestScanGluesDevanagariNames(t *testing.T) {
	toks, err := scanString(t, `मुद्रण("ok")`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `NAME(मुद्रण) OP(() LITERAL("ok") OP()) NEWLINE EOF`
	if got := kindsAndTexts(toks); got != want {
		t.Fatalf("tokens:\n got %s\nwant %s", got, want)
	}
}

func TestScanNameWithDevanagariDigitsAndJoiner(t *testing.T) {
	src := "चर क्ष\u200dत्र२ = 1"
	toks, err := scanString(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[1].Kind != token.Name || toks[1].Text != "क्ष\u200dत्र२" {
		t.Fatalf("second token = %s %q, want a single name", toks[1].Kind, toks[1].Text)
	}
}

func TestScanSelector(t *testing.T) {
	toks, err := scanString(t, "obj.सत्\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "NAME(obj) OP(.) NAME(सत्) NEWLINE EOF"
	if got := kindsAndTexts(toks); got != want {
		t.Fatalf("tokens:\n got %s\nwant %s", got, want)
	}
	if !toks[1].IsPeriod() {
		t.Fatal("expected the selector to be a period")
	}
}

func TestScanSpansCoverSource(t *testing.T) {
	src := "यदि x > 1 {\r\n\tमुद्रण(`raw\r\ntext`) // टिप्पणी\r\n}\n/* block\r\n */\n"
	fs := source.NewFileSet()
	id := fs.Add("raw.esspy", []byte(src), 0)
	file := fs.Get(id)
	toks, err := Scan(file, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Gaps between tokens must be whitespace only, so that copying gaps and
	// token text reproduces the input byte for byte.
	var sb strings.Builder
	prev := uint32(0)
	for _, tok := range toks {
		gap := src[prev:tok.Span.Start]
		if strings.TrimSpace(gap) != "" {
			t.Fatalf("non-blank gap %q before %s %q", gap, tok.Kind, tok.Text)
		}
		sb.WriteString(gap)
		sb.WriteString(tok.Text)
		if tok.Span.End > prev {
			prev = tok.Span.End
		}
	}
	sb.WriteString(src[prev:])
	if sb.String() != src {
		t.Fatalf("reassembled text differs:\n got %q\nwant %q", sb.String(), src)
	}
}

func TestScanComments(t *testing.T) {
	toks, err := scanString(t, "x // यदि\n/* च */ y")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var comments []string
	for _, tok := range toks {
		if tok.Kind == token.Comment {
			comments = append(comments, tok.Text)
		}
	}
	if len(comments) != 2 || comments[0] != "// यदि" || comments[1] != "/* च */" {
		t.Fatalf("comments = %q", comments)
	}
}

func TestScanUnterminatedString(t *testing.T) {
	bag := diag.NewBag(10)
	adapter := &ReporterAdapter{Bag: bag}
	fs := source.NewFileSet()
	id := fs.AddVirtual("bad.esspy", []byte("मुद्रण(\"open\n"))

	_, err := Scan(fs.Get(id), Options{Reporter: adapter.Reporter()})
	var lexErr *Error
	if !errors.As(err, &lexErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	// колонки считаются в байтах: шесть букв деванагари по три байта и "("
	if lexErr.Pos.Line != 1 || lexErr.Pos.Col != 20 {
		t.Fatalf("error at %d:%d, want 1:20", lexErr.Pos.Line, lexErr.Pos.Col)
	}
	if bag.Len() == 0 || bag.Items()[0].Code != diag.LexUnterminatedString {
		t.Fatalf("expected an unterminated string diagnostic, got %+v", bag.Items())
	}
}

func TestScanStrayMarkIsReported(t *testing.T) {
	// a combining mark with no letter before it cannot belong to a name
	_, err := scanString(t, "x := ु")
	var lexErr *Error
	if !errors.As(err, &lexErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if !strings.Contains(lexErr.Msg, "illegal character") {
		t.Fatalf("unexpected message %q", lexErr.Msg)
	}
}

func TestScanKeepsLineText(t *testing.T) {
	toks, err := scanString(t, "a\nनियोग b() {}\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, tok := range toks {
		if tok.Text == "नियोग" && tok.Line != "नियोग b() {}" {
			t.Fatalf("Line = %q", tok.Line)
		}
	}
}
