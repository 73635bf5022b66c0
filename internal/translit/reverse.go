package translit

import (
	gotoken "go/token"
	"strings"
	"unicode"
	"unicode/utf8"

	"esspy/internal/lexer"
	"esspy/internal/source"
	"esspy/internal/token"
)

type edit struct {
	start, end int
	text       string
}

// Reverse rewrites Go source into the keyword spellings of table (nil means
// keywords.Default). Names after "." are kept, mangled names are restored.
// Translating the result again yields text that parses the same way.
func Reverse(src []byte, opts Options) (string, error) {
	fs := source.NewFileSet()
	id := fs.AddVirtual(opts.path(), src)
	file := fs.Get(id)
	toks, err := lexer.Scan(file, lexer.Options{Reporter: lexer.DiagReporter(opts.Reporter)})
	if err != nil {
		return "", err
	}
	table := opts.table()
	content := file.Content

	var edits []edit
	var prev token.Token
	for i := 0; i < len(toks); i++ {
		tok := toks[i]
		start, end := int(tok.Span.Start), int(tok.Span.End)
		afterPeriod := prev.IsPeriod()
		if !tok.Synthetic() && tok.Kind != token.Comment {
			prev = tok
		}
		if afterPeriod {
			if tok.IsName() {
				if d := Demangle(tok.Text); d != tok.Text {
					edits = append(edits, edit{start, end, d})
				}
			}
			continue
		}

		switch tok.Kind {
		case token.Keyword:
			if tok.Host == gotoken.ELSE {
				if j := nextSignificant(toks, i); j > 0 && toks[j].Host == gotoken.IF && onlySpace(content, end, int(toks[j].Span.Start)) {
					if word, ok := table.Reverse("else if"); ok {
						edits = append(edits, edit{start, int(toks[j].Span.End), word})
						prev = toks[j]
						i = j
						continue
					}
				}
			}
			if word, ok := table.Reverse(tok.Text); ok {
				edits = append(edits, edit{start, end, word})
			}
		case token.Name:
			if word, ok := table.Reverse(tok.Text); ok {
				edits = append(edits, edit{start, end, word})
			} else if d := Demangle(tok.Text); d != tok.Text {
				edits = append(edits, edit{start, end, d})
			}
		case token.Op:
			if word, ok := table.Reverse(tok.Text); ok {
				edits = append(edits, edit{start, end, padWord(content, start, end, word)})
			}
		}
	}
	return apply(content, edits), nil
}

func nextSignificant(toks []token.Token, i int) int {
	for j := i + 1; j < len(toks); j++ {
		if toks[j].Kind == token.Comment || toks[j].Synthetic() {
			if toks[j].Kind == token.EOF {
				return -1
			}
			continue
		}
		return j
	}
	return -1
}

func onlySpace(src []byte, from, to int) bool {
	if from > to {
		return false
	}
	return strings.TrimSpace(string(src[from:to])) == ""
}

// padWord surrounds a word that replaces an operator with spaces where it
// would otherwise run into a neighbouring name.
func padWord(src []byte, start, end int, word string) string {
	if start > 0 {
		if r, _ := utf8.DecodeLastRune(src[:start]); wordRune(r) {
			word = " " + word
		}
	}
	if end < len(src) {
		if r, _ := utf8.DecodeRune(src[end:]); wordRune(r) {
			word += " "
		}
	}
	return word
}

func wordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || r == '"' || r == '\'' || r == '`' || r == '(' || r == ')'
}

func apply(src []byte, edits []edit) string {
	var b strings.Builder
	b.Grow(len(src) + len(edits)*8)
	prev := 0
	for _, e := range edits {
		b.Write(src[prev:e.start])
		b.WriteString(e.text)
		prev = e.end
	}
	b.Write(src[prev:])
	return b.String()
}
