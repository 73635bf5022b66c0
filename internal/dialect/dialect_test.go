package dialect

import (
	"strings"
	"testing"

	"esspy/internal/diag"
	"esspy/internal/keywords"
	"esspy/internal/lexer"
	"esspy/internal/source"
)

func evidenceFor(t *testing.T, src string) (*Evidence, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("d.esspy", []byte(src)))
	toks, err := lexer.Scan(file, lexer.Options{})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	e := NewEvidence()
	Observe(e, file, toks, keywords.Default)
	return e, file
}

func TestObserveLegacyKeyword(t *testing.T) {
	e, _ := evidenceFor(t, "यावत्\u200c x < 3 {\n}\n")
	hints := e.Of(Legacy)
	if len(hints) != 1 {
		t.Fatalf("expected one legacy hint, got %+v", e.Hints())
	}
	if hints[0].Suggest != "परिहरन" {
		t.Fatalf("Suggest = %q", hints[0].Suggest)
	}
}

func TestObserveIgnoresSelectors(t *testing.T) {
	e, _ := evidenceFor(t, "x := obj.यावत्\ny := obj.def\n")
	if len(e.Hints()) != 0 {
		t.Fatalf("member names must not produce hints, got %+v", e.Hints())
	}
}

func TestObservePythonBlockColon(t *testing.T) {
	e, _ := evidenceFor(t, "def f(x):\n    निर्वतनम् x\n")
	c := Classifier{}.Classify(e)
	if c.Kind != Python {
		t.Fatalf("Classify() = %s, want python", c.Kind)
	}
	if !Eligible(c) {
		t.Fatalf("classification %+v should be eligible", c)
	}
}

func TestObserveCaseColonIsNotPython(t *testing.T) {
	src := "विकल्प x {\nप्रसङ्ग 1:\n\tमुद्रण(1)\nअन्यथा:\n}\nloop:\n"
	e, _ := evidenceFor(t, src)
	if hints := e.Of(Python); len(hints) != 0 {
		t.Fatalf("switch cases and labels are Go, got %+v", hints)
	}
}

func TestEmitLegacyWarningWithFix(t *testing.T) {
	e, _ := evidenceFor(t, "इति\n")
	bag := diag.NewBag(0)
	Emit(e, diag.BagReporter{Bag: bag}, false)
	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
	d := bag.Items()[0]
	if d.Severity != diag.SevWarning || d.Code != diag.DialectLegacyKeyword {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	if len(d.Fixes) != 1 || d.Fixes[0].Edits[0].NewText != "पङ्क्तिः" {
		t.Fatalf("expected a replacement fix, got %+v", d.Fixes)
	}
}

func TestEmitForeignHintsOnlyOnErrors(t *testing.T) {
	e, _ := evidenceFor(t, "def f(x):\n    return None\n")

	bag := diag.NewBag(0)
	Emit(e, diag.BagReporter{Bag: bag}, false)
	if bag.Len() != 0 {
		t.Fatalf("no hints expected for a valid file, got %d", bag.Len())
	}

	Emit(e, diag.BagReporter{Bag: bag}, true)
	if bag.Len() == 0 || bag.Len() > maxForeignHints {
		t.Fatalf("expected 1..%d hints, got %d", maxForeignHints, bag.Len())
	}
	for _, d := range bag.Items() {
		if d.Code != diag.DialectPython || d.Severity != diag.SevInfo {
			t.Fatalf("unexpected diagnostic %+v", d)
		}
	}
}

func TestRenderHint(t *testing.T) {
	msg := RenderHint(Python, RenderInput{Detected: "elif", Reason: "python keyword `elif`", Suggest: "अथयदि"})
	for _, want := range []string{"`elif` looks like Python.", "In esspy, try: अथयदि"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message %q does not contain %q", msg, want)
		}
	}
}

func TestClassifierEmpty(t *testing.T) {
	if c := (Classifier{}).Classify(nil); c.Kind != Unknown {
		t.Fatalf("Classify(nil) = %s", c.Kind)
	}
}
