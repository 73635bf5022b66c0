package syntax

import "strings"

const (
	filePrefix = "package main\n"
	mainOpen   = "\nfunc main() {\n"
	mainClose  = "\n}\n"
)

// segment maps a range of the wrapped text back to the original.
type segment struct {
	wrapped int
	orig    int
	n       int
}

type wrapped struct {
	text string
	segs []segment
}

// wrap builds the parseable file for plan.
func wrap(text string, plan Plan) wrapped {
	var b strings.Builder
	var segs []segment
	lit := func(s string) { b.WriteString(s) }
	orig := func(from, to int) {
		segs = append(segs, segment{wrapped: b.Len(), orig: from, n: to - from})
		b.WriteString(text[from:to])
	}

	switch plan.Mode {
	case ModeFile:
		orig(0, len(text))
	case ModeDecls:
		lit(filePrefix)
		orig(0, len(text))
	case ModeScript:
		lit(filePrefix)
		orig(0, plan.Split)
		lit(mainOpen)
		orig(plan.Split, len(text))
		lit(mainClose)
	default:
		lit(filePrefix)
		lit(mainOpen)
		orig(0, len(text))
		lit(mainClose)
	}
	return wrapped{text: b.String(), segs: segs}
}

// original converts an offset of the wrapped text into an offset of the
// input. Offsets inside synthetic text snap to the nearest preceding input
// byte.
func (w wrapped) original(off int) int {
	best := 0
	for _, s := range w.segs {
		switch {
		case off < s.wrapped:
			return best
		case off <= s.wrapped+s.n:
			return s.orig + off - s.wrapped
		default:
			best = s.orig + s.n
		}
	}
	return best
}

// Complete returns text as a whole Go file, wrapped the same way Validate
// parses it.
func Complete(text string, plan Plan) string {
	return wrap(text, plan).text
}
