// Package translit rewrites Devanagari-keyword source into Go and back.
//
// The engine works on tokens produced by internal/lexer:
//
//   - A name whose spelling is in the keyword table becomes the Go text of
//     that entry, unless the previous significant token is the selector ".".
//   - Any other name is kept, except that runes Go does not allow inside an
//     identifier (vowel signs, virama, nukta, joiners) are spelled as _XXXX,
//     or _UXXXXXXXX above U+FFFF, so the result stays a legal Go identifier.
//     Demangle undoes this. A source name that already contains such an
//     escape is rejected, since it could name the same Go identifier as
//     another name.
//   - Literals, comments, operators and the bytes between tokens are copied
//     verbatim.
//
// The translated text is always checked with internal/syntax. An invalid
// result is not an error: it comes back as Result.Invalid with the position
// mapped to the original source. Only a scanner failure is returned as error.
package translit
