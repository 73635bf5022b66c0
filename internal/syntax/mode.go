package syntax

import (
	"go/scanner"
	"go/token"
)

// Mode is the shape of the validated text.
type Mode uint8

const (
	ModeStmts Mode = iota
	ModeDecls
	ModeFile
	ModeScript
)

func (m Mode) String() string {
	switch m {
	case ModeFile:
		return "file"
	case ModeDecls:
		return "decls"
	case ModeScript:
		return "script"
	default:
		return "stmts"
	}
}

// HasPackageClause reports whether text of this mode is a complete Go file.
func (m Mode) HasPackageClause() bool { return m == ModeFile }

// Plan tells how text should be wrapped. Split is the offset where statements
// begin; it is meaningful only for ModeScript.
type Plan struct {
	Mode  Mode
	Split int
}

// Analyze looks at the leading tokens of text and picks a Mode.
func Analyze(text string) Plan {
	src := []byte(text)
	fset := token.NewFileSet()
	tf := fset.AddFile("", -1, len(src))
	var s scanner.Scanner
	s.Init(tf, src, nil, 0) // комментарии пропускаются

	next := func() (int, token.Token) {
		pos, tok, _ := s.Scan()
		return tf.Offset(pos), tok
	}

	_, tok := next()
	switch tok {
	case token.PACKAGE:
		return Plan{Mode: ModeFile}
	case token.CONST, token.FUNC, token.TYPE, token.VAR:
		return Plan{Mode: ModeDecls}
	case token.IMPORT:
	default:
		return Plan{Mode: ModeStmts}
	}

	// skip import declarations, then look at what follows
	for tok == token.IMPORT {
		if !skipImportSpec(next) {
			return Plan{Mode: ModeDecls}
		}
		var off int
		off, tok = next()
		switch tok {
		case token.IMPORT:
			continue
		case token.EOF, token.CONST, token.FUNC, token.TYPE, token.VAR:
			return Plan{Mode: ModeDecls}
		default:
			return Plan{Mode: ModeScript, Split: off}
		}
	}
	return Plan{Mode: ModeDecls}
}

// skipImportSpec consumes one import declaration after the keyword, including
// its terminating semicolon. It reports false on anything unexpected; the
// parser will then produce the real error.
func skipImportSpec(next func() (int, token.Token)) bool {
	_, tok := next()
	if tok == token.LPAREN {
		for {
			_, tok = next()
			switch tok {
			case token.RPAREN:
				_, tok = next()
				return tok == token.SEMICOLON
			case token.EOF:
				return false
			}
		}
	}
	if tok == token.IDENT || tok == token.PERIOD {
		_, tok = next()
	}
	if tok != token.STRING {
		return false
	}
	_, tok = next()
	return tok == token.SEMICOLON
}
