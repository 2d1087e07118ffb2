package extract

import (
	"testing"

	"pdxmill/internal/pdxdate"
	"pdxmill/internal/script"
)

const franceHistory = `
government = monarchy
primary_culture = francien
religion = catholic
technology_group = western
capital = 183
mercantilism = 10
add_accepted_culture = gascon
historical_rival = ENG

1500.1.1 = {
	add_accepted_culture = breton
	historical_friend = SCO
}
1600.1.1 = {
	remove_accepted_culture = gascon
	government = despotic_monarchy
}
`

func TestCountryExtract_Resolution(t *testing.T) {
	node, diags := script.Parse(franceHistory)
	if len(diags) != 0 {
		t.Fatalf("parse diagnostics: %v", diags)
	}
	rec, exDiags, err := CountryExtractor{}.Extract(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(exDiags) != 0 {
		t.Fatalf("extract diagnostics: %v", exDiags)
	}
	country := rec.(*CountryRecord)

	base := country.ResolveAt(pdxdate.Date{Year: 1444, Month: 11, Day: 11})
	if base.Government != "monarchy" || base.Capital != 183 {
		t.Errorf("government/capital = %q/%v", base.Government, base.Capital)
	}
	if len(base.AcceptedCultures) != 1 || base.AcceptedCultures[0] != "gascon" {
		t.Errorf("accepted cultures = %v, want [gascon]", base.AcceptedCultures)
	}

	mid := country.ResolveAt(pdxdate.Date{Year: 1550, Month: 1, Day: 1})
	if len(mid.AcceptedCultures) != 2 {
		t.Errorf("accepted cultures in 1550 = %v, want two", mid.AcceptedCultures)
	}
	if len(mid.HistoricalFriends) != 1 || mid.HistoricalFriends[0] != "SCO" {
		t.Errorf("friends in 1550 = %v", mid.HistoricalFriends)
	}

	final := country.Resolve()
	if final.Government != "despotic_monarchy" {
		t.Errorf("final government = %q", final.Government)
	}
	if len(final.AcceptedCultures) != 1 || final.AcceptedCultures[0] != "breton" {
		t.Errorf("final accepted cultures = %v, want [breton]", final.AcceptedCultures)
	}
}

func TestCountryExtract_FieldsReportsSetScalars(t *testing.T) {
	node, _ := script.Parse("government = monarchy\nmercantilism = 10")
	rec, _, err := CountryExtractor{}.Extract(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fields := rec.(*CountryRecord).Base[0].Fields()
	if len(fields) != 2 || fields[0] != "government" || fields[1] != "mercantilism" {
		t.Errorf("fields = %v, want [government mercantilism]", fields)
	}
}
