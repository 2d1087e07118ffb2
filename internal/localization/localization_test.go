package localization

import "testing"

func TestParse_Basic(t *testing.T) {
	src := "\xEF\xBB\xBFl_english:\n PROV183:0 \"Paris\"\n PROV183_ADJ:1 \"Parisian\"\n # a comment\n"
	r, diags := Parse([]byte(src))
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if r.Language != "english" {
		t.Errorf("language = %q, want english", r.Language)
	}
	if len(r.Entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(r.Entries))
	}
	if r.Entries[0].Key != "PROV183" || r.Entries[0].Text != "Paris" || r.Entries[0].Version != 0 {
		t.Errorf("entry 0 = %+v", r.Entries[0])
	}
	if r.Entries[1].Version != 1 {
		t.Errorf("entry 1 version = %d, want 1", r.Entries[1].Version)
	}
}

func TestParse_MalformedLineSkipped(t *testing.T) {
	src := "l_english:\n PROV183:0 \"Paris\"\n broken line without quotes\n PROV236:0 \"London\"\n"
	r, diags := Parse([]byte(src))
	if len(diags) != 1 {
		t.Fatalf("diags = %v, want one", diags)
	}
	if len(r.Entries) != 2 {
		t.Errorf("len(entries) = %d, want 2 (good lines kept)", len(r.Entries))
	}
}

func TestParse_EscapedQuotes(t *testing.T) {
	src := "l_french:\n PROV183:0 \"Ville \\\"lumière\\\"\"\n"
	r, diags := Parse([]byte(src))
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if got, _ := r.Get("PROV183"); got != `Ville "lumière"` {
		t.Errorf("text = %q", got)
	}
}

func TestGet_LaterEntryWins(t *testing.T) {
	src := "l_english:\n KEY:0 \"first\"\n KEY:0 \"second\"\n"
	r, _ := Parse([]byte(src))
	if got, ok := r.Get("KEY"); !ok || got != "second" {
		t.Errorf("Get = %q %v, want second", got, ok)
	}
	if _, ok := r.Get("MISSING"); ok {
		t.Error("Get(MISSING) = ok")
	}
}

func TestParse_DuplicateHeader(t *testing.T) {
	src := "l_english:\nl_french:\n KEY:0 \"x\"\n"
	r, diags := Parse([]byte(src))
	if len(diags) != 1 {
		t.Fatalf("diags = %v, want one", diags)
	}
	if r.Language != "english" {
		t.Errorf("language = %q, want english (first header wins)", r.Language)
	}
}
