// Package token defines the token value produced by the lexer and consumed
// by the translator.
// Invariants:
//   - Token is an immutable value; rewriting produces a new Token via WithText.
//   - Span always refers to the original source, even after WithText.
//   - Line is the full original line the token starts on (without '\n').
//   - Newline tokens are automatic semicolons: zero width, empty Text.
//   - A Name may contain combining marks that Go identifiers do not allow;
//     the lexer glues them, so Text is the whole word as written.
package token
