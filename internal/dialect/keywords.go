package dialect

import (
	"esspy/internal/keywords"
	"esspy/internal/source"
	"esspy/internal/token"
)

type keywordSignal struct {
	Dialect Kind
	Score   int
	Reason  string
	Suggest string // source spelling to use instead, when one exists
}

// legacySignals lists spellings of the Python-hosted esspy that have no
// entry in the current table.
var legacySignals = map[string]keywordSignal{
	"यावत्":      {Legacy, 6, "`यावत्` (while) is written `परिहरन` (for) with a condition", "परिहरन"},
	"इति":        {Legacy, 4, "`इति` (in) is written `पङ्क्तिः` (range)", "पङ्क्तिः"},
	"अनाम":       {Legacy, 5, "`अनाम` (lambda) is a function literal: `नियोग(...) {...}`", "नियोग"},
	"प्रयततु":    {Legacy, 6, "`प्रयततु` (try) has no counterpart; use `अन्ततः` with `विहाय` (defer/recover)", ""},
	"निश्चितयति": {Legacy, 5, "`निश्चितयति` (assert) has no counterpart; use `यदि ... { विगर्हते(...) }`", ""},
	"यतः":        {Legacy, 4, "`यतः` (from) has no counterpart; import the package with `आयात`", ""},
	"नाम्ना":     {Legacy, 3, "`नाम्ना` (as) has no counterpart; write the alias before the path: `आयात alias \"path\"`", ""},
	"सर्वत्रगम्": {Legacy, 5, "`सर्वत्रगम्` (global) has no counterpart; declare the variable at package level with `चर`", ""},
	"असामीपिक":   {Legacy, 5, "`असामीपिक` (nonlocal) has no counterpart; function literals capture variables directly", ""},
	"सह":         {Legacy, 4, "`सह` (with) has no counterpart; release resources with `अन्ततः` (defer)", "अन्ततः"},
	"दत्ते":      {Legacy, 4, "`दत्ते` (yield) has no counterpart; send values on a channel", ""},
	"प्रवेशयति":  {Legacy, 4, "`प्रवेशयति` (input) has no counterpart; read os.Stdin with bufio", ""},
}

var pythonSignals = map[string]keywordSignal{
	"def":    {Python, 5, "python keyword `def`", "नियोग"},
	"elif":   {Python, 6, "python keyword `elif`", "अथयदि"},
	"None":   {Python, 4, "python constant `None`", "नास्ति"},
	"True":   {Python, 3, "python constant `True`", "सत्"},
	"False":  {Python, 3, "python constant `False`", "असत्"},
	"lambda": {Python, 5, "python keyword `lambda`", "नियोग"},
	"pass":   {Python, 4, "python keyword `pass`", ""},
	"while":  {Python, 4, "python keyword `while`", "परिहरन"},
	"elseif": {Python, 2, "keyword `elseif`", "अथयदि"},
	"print":  {Python, 2, "python builtin `print`", "मुद्रण"},
	"self":   {Python, 1, "python receiver name `self`", ""},
	"not":    {Python, 2, "python operator `not`", "न"},
	"and":    {Python, 2, "python operator `and`", "च"},
	"or":     {Python, 2, "python operator `or`", "वा"},
}

// Observe walks the tokens of file in source order and records evidence.
// Names after a selector are member names and are ignored.
func Observe(e *Evidence, file *source.File, toks []token.Token, table *keywords.Table) {
	if e == nil {
		return
	}
	var prev, head token.Token
	line := uint32(0)
	for _, tok := range toks {
		if tok.Synthetic() || tok.Kind == token.Comment {
			continue
		}
		if file != nil {
			if l := file.Position(tok.Span.Start).Line; l != line {
				line, head = l, tok
			}
		}
		if !prev.IsPeriod() {
			observeWord(e, tok, table)
		}
		observeBlockColon(e, file, head, tok, table)
		prev = tok
	}
}

func observeWord(e *Evidence, tok token.Token, table *keywords.Table) {
	switch tok.Kind {
	case token.Name:
		key := keywords.Normalize(tok.Text)
		if _, ok := table.Lookup(key); ok {
			return
		}
		if sig, ok := legacySignals[key]; ok {
			record(e, sig, tok)
			return
		}
		if sig, ok := pythonSignals[tok.Text]; ok {
			record(e, sig, tok)
			return
		}
		if src, ok := table.Reverse(tok.Text); ok {
			record(e, keywordSignal{Go, 1, "go builtin `" + tok.Text + "`", src}, tok)
		}
	case token.Keyword:
		if src, ok := table.Reverse(tok.Text); ok {
			record(e, keywordSignal{Go, 2, "go keyword `" + tok.Text + "`", src}, tok)
		}
	}
}

func record(e *Evidence, sig keywordSignal, tok token.Token) {
	e.Add(Hint{
		Dialect: sig.Dialect,
		Score:   sig.Score,
		Reason:  sig.Reason,
		Span:    tok.Span,
		Word:    tok.Text,
		Suggest: sig.Suggest,
	})
}
