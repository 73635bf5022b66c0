package keywords

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Class groups entries by the grammatical role of their Go counterpart.
type Class uint8

const (
	ClassLiteral Class = iota
	ClassLogical
	ClassConditional
	ClassLoop
	ClassFunction
	ClassFailure
	ClassPackage
	ClassDeclarator
	ClassComposite
	ClassConcurrency
	ClassComparison
	ClassBuiltin
)

func (c Class) String() string {
	switch c {
	case ClassLiteral:
		return "literal"
	case ClassLogical:
		return "logical"
	case ClassConditional:
		return "conditional"
	case ClassLoop:
		return "loop"
	case ClassFunction:
		return "function"
	case ClassFailure:
		return "failure"
	case ClassPackage:
		return "package"
	case ClassDeclarator:
		return "declarator"
	case ClassComposite:
		return "composite"
	case ClassConcurrency:
		return "concurrency"
	case ClassComparison:
		return "comparison"
	case ClassBuiltin:
		return "builtin"
	default:
		return "unknown"
	}
}

// Entry is one row of the table.
type Entry struct {
	Source string `json:"source" yaml:"source"`
	Host   string `json:"host" yaml:"host"`
	Class  Class  `json:"-" yaml:"-"`
}

// Table is an immutable two-way lookup built from entries.
type Table struct {
	entries []Entry
	forward map[string]string
	reverse map[string]string
}

// New validates entries and builds a table. Duplicate source spellings
// (after Normalize) and duplicate host texts are rejected.
func New(entries []Entry) (*Table, error) {
	t := &Table{
		entries: make([]Entry, 0, len(entries)),
		forward: make(map[string]string, len(entries)),
		reverse: make(map[string]string, len(entries)),
	}
	for _, e := range entries {
		key := Normalize(e.Source)
		host := strings.TrimSpace(e.Host)
		if key == "" || host == "" {
			return nil, fmt.Errorf("keywords: empty entry %q -> %q", e.Source, e.Host)
		}
		if prev, dup := t.forward[key]; dup {
			return nil, fmt.Errorf("keywords: %q is already mapped to %q", e.Source, prev)
		}
		if prev, dup := t.reverse[host]; dup {
			return nil, fmt.Errorf("keywords: host text %q is already reachable from %q", host, prev)
		}
		t.forward[key] = host
		t.reverse[host] = key
		t.entries = append(t.entries, Entry{Source: key, Host: host, Class: e.Class})
	}
	return t, nil
}

// Lookup returns the Go text for a source spelling.
func (t *Table) Lookup(source string) (string, bool) {
	if t == nil {
		return "", false
	}
	host, ok := t.forward[Normalize(source)]
	return host, ok
}

// Reverse returns the source spelling for a Go text.
func (t *Table) Reverse(host string) (string, bool) {
	if t == nil {
		return "", false
	}
	src, ok := t.reverse[host]
	return src, ok
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Entries returns a copy of the entries ordered by class, then by host text.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Class != out[j].Class {
			return out[i].Class < out[j].Class
		}
		return out[i].Host < out[j].Host
	})
	return out
}

// Normalize brings a spelling to NFC and drops zero-width joiners, so that
// "यावत्" typed with or without a trailing ZWNJ is the same key.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	s = norm.NFC.String(s)
	if strings.ContainsAny(s, "\u200c\u200d") {
		s = strings.Map(func(r rune) rune {
			if r == '\u200c' || r == '\u200d' {
				return -1
			}
			return r
		}, s)
	}
	return s
}
