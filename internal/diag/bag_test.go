package diag

import (
	"strings"
	"sync"
	"testing"

	"esspy/internal/source"
)

func TestBagLimitAndDropped(t *testing.T) {
	b := NewBag(2)
	for i := 0; i < 4; i++ {
		b.Add(NewError(LexUnknownChar, source.Span{Start: uint32(i)}, "x"))
	}
	if b.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", b.Len())
	}
	if b.Dropped() != 2 {
		t.Fatalf("Dropped() = %d, want 2", b.Dropped())
	}
}

func TestBagUnlimited(t *testing.T) {
	b := NewBag(0)
	for _i := 0; _i < 100; _i++ {
		b.Add(New(SevWarning, DialectLegacyKeyword, source.Span{}, "w"))
	}
	if b.Len() != 100 {
		t.Fatalf("Len() = %d, want 100", b.Len())
	}
	if b.HasErrors() {
		t.Fatal("warnings must not count as errors")
	}
	if !b.HasWarnings() {
		t.Fatal("expected HasWarnings")
	}
}

func TestBagSortAndDedup(t *testing.T) {
	b := NewBag(0)
	b.Add(New(SevWarning, DialectLegacyKeyword, source.Span{Start: 5, End: 6}, "b"))
	b.Add(NewError(SynInvalidProgram, source.Span{Start: 1, End: 2}, "a"))
	b.Add(NewError(SynInvalidProgram, source.Span{Start: 1, End: 2}, "a"))
	b.Dedup()
	b.Sort()

	items := b.Items()
	if len(items) != 2 {
		t.Fatalf("after Dedup got %d items, want 2", len(items))
	}
	if items[0].Code != SynInvalidProgram {
		t.Fatalf("first item code = %s, want %s", items[0].Code.ID(), SynInvalidProgram.ID())
	}
	first, ok := b.First()
	if !ok || first.Message != "a" {
		t.Fatalf("First() = %+v, %v", first, ok)
	}
}

func TestBagConcurrentAdd(t *testing.T) {
	b := NewBag(0)
	var wg sync.WaitGroup
	for _i := 0; _i < 8; _i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _i := 0; _i < 50; _i++ {
				b.Add(NewError(RunFailed, source.Span{}, "boom"))
			}
		}()
	}
	wg.Wait()
	if b.ErrorCount() != 400 {
		t.Fatalf("ErrorCount() = %d, want 400", b.ErrorCount())
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	b := NewBag(0)
	rep := NewDedupReporter(BagReporter{Bag: b})
	builder := ReportWarning(rep, DialectLegacyKeyword, source.Span{Start: 3, End: 9}, "legacy").
		WithNote(source.Span{}, "note").
		WithFix("use the current spelling", FixEdit{Span: source.Span{Start: 3, End: 9}, NewText: "x"})
	builder.Emit()
	builder.Emit()
	ReportWarning(rep, DialectLegacyKeyword, source.Span{Start: 3, End: 9}, "legacy").Emit()

	if b.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", b.Len())
	}
	d := b.Items()[0]
	if len(d.Notes) != 1 || len(d.Fixes) != 1 || d.Fixes[0].Edits[0].NewText != "x" {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
}

func TestCodeID(t *testing.T) {
	cases := map[Code]string{
		LexUnknownChar:       "LEX1001",
		SynInvalidProgram:    "SYN2001",
		IOFileNotFound:       "IO4002",
		ProjModuleNotFound:   "PRJ5002",
		RunFailed:            "RUN6001",
		DialectLegacyKeyword: "DIA7001",
		UnknownCode:          "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", code, got, want)
		}
	}
	if !strings.Contains(Code(9999).String(), "Unknown error") {
		t.Errorf("unregistered code should fall back to the unknown title")
	}
}

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSetWithBase("/workspace")
	id := fs.Add("/workspace/demo/main.esspy", []byte("a\nb\n"), 0)

	diags := []Diagnostic{
		New(SevWarning, DialectLegacyKeyword, source.Span{File: id, Start: 2, End: 3}, "another"),
		NewError(SynInvalidProgram, source.Span{File: id, Start: 0, End: 1}, "first line\nsecond").
			WithNote(source.Span{File: id, Start: 2, End: 3}, "note line"),
	}

	want := "error SYN2001 demo/main.esspy:1:1 first line second\n" +
		"note SYN2001 demo/main.esspy:2:1 note line\n" +
		"warning DIA7001 demo/main.esspy:2:1 another"
	if got := FormatShort(diags, fs, true); got != want {
		t.Fatalf("unexpected output:\nwant:\n%s\n\ngot:\n%s", want, got)
	}
}

func TestSeverityLabels(t *testing.T) {
	cases := []struct {
		sev          Severity
		label, sarif string
	}{
		{SevInfo, "info", "note"},
		{SevWarning, "warning", "warning"},
		{SevError, "error", "error"},
	}
	for _, c := range cases {
		if !c.sev.Valid() || c.sev.Label() != c.label || c.sev.SarifLevel() != c.sarif {
			t.Errorf("%s: valid=%v label=%q sarif=%q", c.sev, c.sev.Valid(), c.sev.Label(), c.sev.SarifLevel())
		}
	}
	if Severity(7).Valid() {
		t.Error("Severity(7) must not be valid")
	}
}

func TestFixesNeedEdits(t *testing.T) {
	sp := source.Span{Start: 2, End: 4}
	d := NewWarning(DialectLegacyKeyword, sp, "legacy").
		WithFix("nothing to apply").
		Replace("use परिहरन", sp, "परिहरन")
	if d.Severity != SevWarning {
		t.Fatalf("severity = %s", d.Severity)
	}
	if len(d.Fixes) != 1 || d.Fixes[0].Title != "use परिहरन" {
		t.Fatalf("fixes = %+v", d.Fixes)
	}
	if e := d.Fixes[0].Edits; len(e) != 1 || e[0].Span != sp || e[0].NewText != "परिहरन" {
		t.Fatalf("edits = %+v", e)
	}
	if NewInfo(ObsTimings, source.Span{}, "t").Severity != SevInfo {
		t.Fatal("NewInfo must build an info diagnostic")
	}
}
