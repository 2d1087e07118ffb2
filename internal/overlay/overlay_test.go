package overlay

import (
	"reflect"
	"testing"

	"pdxmill/internal/diag"
	"pdxmill/internal/extract"
	"pdxmill/internal/pdxdate"
	"pdxmill/internal/script"
)

func provinceFrom(t *testing.T, source, src string) *extract.ProvinceRecord {
	t.Helper()
	node, diags := script.Parse(src)
	if len(diags) != 0 {
		t.Fatalf("parse diagnostics: %v", diags)
	}
	rec, _, err := extract.ProvinceExtractor{}.Extract(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := rec.(*extract.ProvinceRecord)
	p.ID = "183"
	p.Source = source
	return p
}

func TestMerge_ScalarLastSourceWins(t *testing.T) {
	base := provinceFrom(t, "base", "owner = FRA\nculture = francien")
	mod := provinceFrom(t, "modA", "owner = BUR")

	merged, diags := Merge([]*extract.ProvinceRecord{
		base, mod,
	})
	s := merged.Resolve()
	if s.Owner != "BUR" {
		t.Errorf("owner = %q, want BUR (mod overrides)", s.Owner)
	}
	if s.Culture != "francien" {
		t.Errorf("culture = %q, want francien (untouched by mod)", s.Culture)
	}
	if len(diags) != 1 || diags[0].Kind != diag.MergeConflict {
		t.Errorf("diags = %v, want one merge conflict for owner", diags)
	}
}

func TestMerge_SetAddsAccumulateAndRemovesRetract(t *testing.T) {
	base := provinceFrom(t, "base", "owner = FRA\nadd_core = FRA")
	modA := provinceFrom(t, "modA", "owner = FRA\nadd_core = BUR")
	modB := provinceFrom(t, "modB", "owner = FRA\nremove_core = FRA")

	merged, _ := Merge([]*extract.ProvinceRecord{
		base, modA, modB,
	})
	s := merged.Resolve()
	if !reflect.DeepEqual(s.Cores, []string{"BUR"}) {
		t.Errorf("cores = %v, want [BUR]: base core retracted by later mod", s.Cores)
	}
}

func TestMerge_DeltasPooledAcrossSources(t *testing.T) {
	base := provinceFrom(t, "base", `
owner = FRA
1444.11.11 = { owner = ENG }
`)
	mod := provinceFrom(t, "modA", `
owner = FRA
1450.1.1 = { owner = BUR }
`)

	merged, _ := Merge([]*extract.ProvinceRecord{
		base, mod,
	})
	if got := merged.ResolveAt(pdxdate.Date{Year: 1445, Month: 1, Day: 1}).Owner; got != "ENG" {
		t.Errorf("owner in 1445 = %q, want ENG (base event)", got)
	}
	if got := merged.Resolve().Owner; got != "BUR" {
		t.Errorf("final owner = %q, want BUR (mod event interleaved)", got)
	}
}

func TestMerge_SameDateTieBreakIsSourceOrder(t *testing.T) {
	base := provinceFrom(t, "base", "owner = FRA\n1444.11.11 = { owner = ENG }")
	mod := provinceFrom(t, "modA", "owner = FRA\n1444.11.11 = { owner = BUR }")

	merged, _ := Merge([]*extract.ProvinceRecord{
		base, mod,
	})
	if got := merged.Resolve().Owner; got != "BUR" {
		t.Errorf("owner = %q, want BUR (later source wins same-date tie)", got)
	}
}

func TestMerge_Deterministic(t *testing.T) {
	run := func() ([]string, string) {
		base := provinceFrom(t, "base", "owner = FRA\nadd_core = FRA")
		modA := provinceFrom(t, "modA", "owner = BUR\nadd_core = BUR")
		modB := provinceFrom(t, "modB", "owner = ENG")
		merged, _ := Merge([]*extract.ProvinceRecord{
			base, modA, modB,
		})
		s := merged.Resolve()
		return s.Cores, s.Owner
	}
	cores1, owner1 := run()
	cores2, owner2 := run()
	if owner1 != owner2 || !reflect.DeepEqual(cores1, cores2) {
		t.Errorf("merge not deterministic: %v/%q vs %v/%q", cores1, owner1, cores2, owner2)
	}
}

func TestMerge_OrderSensitive(t *testing.T) {
	ab := func(first, second string) string {
		a := provinceFrom(t, "modA", "owner = "+first)
		b := provinceFrom(t, "modB", "owner = "+second)
		merged, _ := Merge([]*extract.ProvinceRecord{
			a, b,
		})
		return merged.Resolve().Owner
	}
	if got := ab("AAA", "BBB"); got != "BBB" {
		t.Errorf("owner = %q, want BBB", got)
	}
	if got := ab("BBB", "AAA"); got != "AAA" {
		t.Errorf("owner = %q, want AAA", got)
	}
}

func TestMerge_Empty(t *testing.T) {
	merged, diags := Merge[extract.ProvinceState, extract.ProvinceChange](nil)
	if merged != nil || diags != nil {
		t.Errorf("merge of nothing = %v %v, want nil nil", merged, diags)
	}
}
