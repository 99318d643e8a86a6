package diagnostic

import (
	"strings"
	"testing"

	"github.com/aurum-edmund/boltc/internal/position"
)

func span() position.Span {
	pos := position.Position{Filename: "a.bolt", Line: 3, Column: 5, Offset: 20}
	return position.Span{Start: pos, End: pos}
}

func TestDiagnosticStringFormatsCodeLocationAndMessage(t *testing.T) {
	d := Errorf("BOLT-E2000", span(), "unexpected character %q", '$')

	got := d.String()
	want := "BOLT-E2000 L3:C5 -> unexpected character '$'"

	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestDiagnosticWithFixItAppendsHint(t *testing.T) {
	d := Warningf("BOLT-W2210", span(), "requires an explicit value").WithFixIt("pass an explicit value", "= someValue")

	if !strings.Contains(d.String(), "fix-it: pass an explicit value") {
		t.Errorf("expected fix-it hint in rendered string, got %q", d.String())
	}
}

func TestSeverityString(t *testing.T) {
	if Error.String() != "error" {
		t.Errorf("expected \"error\", got %q", Error.String())
	}

	if Warning.String() != "warning" {
		t.Errorf("expected \"warning\", got %q", Warning.String())
	}
}

func TestBagAccumulatesInInsertionOrder(t *testing.T) {
	b := NewBag()
	b.Errorf("BOLT-E2000", span(), "first")
	b.Warningf("BOLT-W2210", span(), "second")
	b.Errorf("BOLT-E2001", span(), "third")

	if b.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", b.Len())
	}

	codes := []string{}
	for _, d := range b.Diagnostics() {
		codes = append(codes, d.Code)
	}

	want := []string{"BOLT-E2000", "BOLT-W2210", "BOLT-E2001"}
	for i, c := range want {
		if codes[i] != c {
			t.Errorf("position %d: expected %q, got %q", i, c, codes[i])
		}
	}
}

func TestBagHasErrors(t *testing.T) {
	b := NewBag()
	b.Warningf("BOLT-W2210", span(), "just a warning")

	if b.HasErrors() {
		t.Error("expected HasErrors to be false with only a warning present")
	}

	b.Errorf("BOLT-E2000", span(), "now an error")

	if !b.HasErrors() {
		t.Error("expected HasErrors to be true once an error is added")
	}
}
