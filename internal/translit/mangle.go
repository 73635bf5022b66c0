package translit

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"esspy/internal/keywords"
)

// needsEscape reports runes Go rejects inside an identifier.
func needsEscape(r rune) bool {
	return r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// Mangle spells name as a legal Go identifier. Names that already are legal
// come back unchanged.
func Mangle(name string) string {
	name = keywords.Normalize(name)
	if !strings.ContainsFunc(name, needsEscape) {
		return name
	}
	var b strings.Builder
	b.Grow(len(name) + 8)
	for _, r := range name {
		switch {
		case !needsEscape(r):
			b.WriteRune(r)
		case r <= 0xFFFF:
			fmt.Fprintf(&b, "_%04X", r)
		default:
			fmt.Fprintf(&b, "_U%08X", r)
		}
	}
	return b.String()
}

// Reserved reports whether name, as written in the source, contains an
// escape of the form Mangle produces. Every mangled name has one, so a
// source name without escapes can never collide with a mangled one.
func Reserved(name string) bool {
	name = keywords.Normalize(name)
	for i := strings.IndexByte(name, '_'); i >= 0; {
		if _, _, ok := decodeEscape(name[i+1:]); ok {
			return true
		}
		next := strings.IndexByte(name[i+1:], '_')
		if next < 0 {
			break
		}
		i += 1 + next
	}
	return false
}

// Demangle restores the runes Mangle escaped. An escape is recognized only
// when it decodes to a rune that needed escaping, so ordinary names such as
// x_00FF are left alone.
func Demangle(s string) string {
	if !strings.Contains(s, "_") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] == '_' {
			if r, n, ok := decodeEscape(s[i+1:]); ok {
				b.WriteRune(r)
				i += 1 + n
				continue
			}
		}
		r, w := utf8.DecodeRuneInString(s[i:])
		b.WriteRune(r)
		i += w
	}
	return b.String()
}

// decodeEscape reads XXXX or UXXXXXXXX after an underscore and returns the
// rune and the number of bytes consumed.
func decodeEscape(s string) (rune, int, bool) {
	digits, skip := 4, 0
	if strings.HasPrefix(s, "U") {
		digits, skip = 8, 1
	}
	end := skip + digits
	if len(s) < end || !isUpperHex(s[skip:end]) {
		return 0, 0, false
	}
	v, err := strconv.ParseUint(s[skip:end], 16, 32)
	if err != nil || (digits == 8 && v <= 0xFFFF) {
		return 0, 0, false
	}
	r := rune(v)
	if !utf8.ValidRune(r) || !needsEscape(r) {
		return 0, 0, false
	}
	return r, end, true
}

func isUpperHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'A' <= c && c <= 'F') {
			return false
		}
	}
	return true
}
