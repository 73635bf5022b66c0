package fuzztests

import (
	"testing"

	"esspy/internal/diag"
	"esspy/internal/translit"
)

// FuzzTranslate checks that translation never panics and that a valid
// translation without mangled names is a fixed point: translating the Go
// text again changes nothing. Mangled names are spelled with escapes, which
// the translator rejects in source on purpose.
func FuzzTranslate(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		bag := diag.NewBag(128)
		res, err := translit.Translate(input, translit.Options{
			Path:     "fuzz.esspy",
			Reporter: diag.BagReporter{Bag: bag},
			Hints:    true,
		})
		if err != nil || !res.OK() {
			return
		}
		for _, sub := range res.Subs {
			if !sub.Keyword {
				return
			}
		}

		again, err := translit.Translate([]byte(res.Text), translit.Options{Path: "fuzz.go"})
		if err != nil {
			t.Fatalf("second pass failed to scan: %v\ntext: %q", err, res.Text)
		}
		if !again.OK() {
			t.Fatalf("second pass invalid: %s\ntext: %q", again.Invalid.Msg, res.Text)
		}
		if again.Text != res.Text {
			t.Fatalf("translation is not idempotent\nfirst:  %q\nsecond: %q", res.Text, again.Text)
		}
	})
}
