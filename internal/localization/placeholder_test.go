package localization

import (
	"strings"
	"testing"
)

func TestProtectRestore(t *testing.T) {
	text := `§YThe capital of $COUNTRY_NAME$§! is now [Root.GetCapitalName].`

	protected, mappings := Protect(text)
	if len(mappings) != 4 {
		t.Fatalf("got %d mappings, want 4", len(mappings))
	}
	for _, m := range mappings {
		if !strings.Contains(protected, m.Placeholder) {
			t.Errorf("protected text missing placeholder %q", m.Placeholder)
		}
		if strings.Contains(protected, m.Original) {
			t.Errorf("protected text still contains %q", m.Original)
		}
	}

	if got := Restore(protected, mappings); got != text {
		t.Errorf("round trip got %q, want %q", got, text)
	}
}

func TestProtectNoMarkup(t *testing.T) {
	text := "Plain prose with no tokens."
	protected, mappings := Protect(text)
	if protected != text {
		t.Errorf("got %q, want unchanged text", protected)
	}
	if mappings != nil {
		t.Errorf("got %d mappings, want none", len(mappings))
	}
}

func TestProtectOverlapKeepsLongest(t *testing.T) {
	text := "$A$ and %d troops"
	protected, mappings := Protect(text)
	if len(mappings) != 2 {
		t.Fatalf("got %d mappings, want 2", len(mappings))
	}
	if mappings[0].Original != "$A$" || mappings[1].Original != "%d" {
		t.Errorf("unexpected originals: %q, %q", mappings[0].Original, mappings[1].Original)
	}
	if got := Restore(protected, mappings); got != text {
		t.Errorf("round trip got %q, want %q", got, text)
	}
}
