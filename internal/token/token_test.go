package token

import (
	gotoken "go/token"
	"testing"

	"esspy/internal/source"
)

func TestWithTextKeepsPosition(t *testing.T) {
	orig := Token{
		Kind: Name,
		Host: gotoken.IDENT,
		Text: "मुद्रण",
		Span: source.Span{Start: 4, End: 22},
		Line: "    मुद्रण(1)",
	}
	got := orig.WithText("println")
	if got.Text != "println" {
		t.Fatalf("Text = %q", got.Text)
	}
	if got.Span != orig.Span || got.Line != orig.Line || got.Kind != orig.Kind {
		t.Fatalf("WithText changed position data: %+v", got)
	}
	if orig.Text != "मुद्रण" {
		t.Fatal("WithText mutated the receiver")
	}
}

func TestKindPredicates(t *testing.T) {
	if !(Token{Kind: Op, Host: gotoken.PERIOD}).IsPeriod() {
		t.Fatal("PERIOD op must be a period")
	}
	if (Token{Kind: Op, Host: gotoken.ELLIPSIS}).IsPeriod() {
		t.Fatal("ELLIPSIS must not be a period")
	}
	if !(Token{Kind: Newline}).Synthetic() || (Token{Kind: Name}).Synthetic() {
		t.Fatal("Synthetic mismatch")
	}
	if Name.String() != "NAME" || Kind(200).String() != "INVALID" {
		t.Fatal("Kind.String mismatch")
	}
}
