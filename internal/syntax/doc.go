// Package syntax decides whether translated text is a Go program the
// interpreter will accept, without executing it.
//
// Text comes in four shapes:
//
//   - ModeFile: starts with a package clause and parses as-is.
//   - ModeDecls: starts with import/const/func/type/var and is parsed as the
//     body of `package main`.
//   - ModeStmts: anything else; parsed as the body of `func main`.
//   - ModeScript: leading import declarations followed by statements.
//     The imports go to the file level, the rest into `func main`.
//
// Positions in diagnostics always refer to the text that was passed in; the
// lines added by wrapping never leak out.
package syntax
