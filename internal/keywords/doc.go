// Package keywords holds the transliteration table: Devanagari (Sanskrit)
// spellings and the Go text each one stands for.
//
// Invariants:
//   - Source spellings are unique after Normalize.
//   - Host texts are unique as well, so the table can be read in both directions.
//   - Host text is a Go keyword, a predeclared identifier, or the operator Go
//     uses where other languages have a word (`&&`, `||`, `!`, `==`, `<-`).
//     "else if" is the only two-word host text.
//   - The Default table is built once during package init and never mutated.
package keywords
