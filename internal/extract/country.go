package extract

import (
	"fmt"

	"pdxmill/internal/diag"
	"pdxmill/internal/script"
	"pdxmill/internal/temporal"
)

// CountryState is a country's resolved state at one point in time.
type CountryState struct {
	Government        string
	PrimaryCulture    string
	Religion          string
	TechnologyGroup   string
	GraphicalCulture  string
	Capital           float64
	Mercantilism      float64
	AcceptedCultures  []string
	HistoricalFriends []string
	HistoricalRivals  []string
}

// CountryChange is a partial change to a country.
type CountryChange struct {
	Government             *string
	PrimaryCulture         *string
	Religion               *string
	TechnologyGroup        *string
	GraphicalCulture       *string
	Capital                *float64
	Mercantilism           *float64
	AddAcceptedCultures    []string
	RemoveAcceptedCultures []string
	HistoricalFriends      []string
	HistoricalRivals       []string
}

func (c CountryChange) Apply(s CountryState) CountryState {
	setStr(&s.Government, c.Government)
	setStr(&s.PrimaryCulture, c.PrimaryCulture)
	setStr(&s.Religion, c.Religion)
	setStr(&s.TechnologyGroup, c.TechnologyGroup)
	setStr(&s.GraphicalCulture, c.GraphicalCulture)
	setNum(&s.Capital, c.Capital)
	setNum(&s.Mercantilism, c.Mercantilism)
	if len(c.AddAcceptedCultures) > 0 || len(c.RemoveAcceptedCultures) > 0 {
		s.AcceptedCultures = applySet(s.AcceptedCultures, c.AddAcceptedCultures, c.RemoveAcceptedCultures)
	}
	if len(c.HistoricalFriends) > 0 {
		s.HistoricalFriends = applySet(s.HistoricalFriends, c.HistoricalFriends, nil)
	}
	if len(c.HistoricalRivals) > 0 {
		s.HistoricalRivals = applySet(s.HistoricalRivals, c.HistoricalRivals, nil)
	}
	return s
}

func (c CountryChange) Fields() []string {
	var fs []string
	for _, f := range []struct {
		name string
		set  bool
	}{
		{"government", c.Government != nil},
		{"primary_culture", c.PrimaryCulture != nil},
		{"religion", c.Religion != nil},
		{"technology_group", c.TechnologyGroup != nil},
		{"graphical_culture", c.GraphicalCulture != nil},
		{"capital", c.Capital != nil},
		{"mercantilism", c.Mercantilism != nil},
	} {
		if f.set {
			fs = append(fs, f.name)
		}
	}
	return fs
}

// CountryRecord is a country baseline plus its dated history deltas.
type CountryRecord = temporal.Record[CountryState, CountryChange]

// countryKeys are the keys whose presence marks a block as country history.
var countryKeys = []string{
	"government", "primary_culture", "technology_group",
	"graphical_culture", "mercantilism", "add_accepted_culture",
	"historical_friend", "historical_rival",
}

// CountryExtractor extracts country history records.
type CountryExtractor struct{}

func (CountryExtractor) Kind() string { return "country" }

func (CountryExtractor) CanExtract(n *script.Node) bool {
	return n != nil && n.IsBlock() && hasAnyKey(n, countryKeys)
}

func (e CountryExtractor) Extract(n *script.Node) (Record, []diag.Diagnostic, error) {
	if !e.CanExtract(n) {
		return nil, nil, fmt.Errorf("country extract: %w", ErrNotExtractable)
	}
	rec := &CountryRecord{Kind: "country"}
	base, deltas, diags := countryWalk(n, true)
	rec.Base = []CountryChange{base}
	rec.Deltas = deltas
	return rec, diags, nil
}

func countryWalk(n *script.Node, top bool) (CountryChange, []temporal.Delta[CountryState, CountryChange], []diag.Diagnostic) {
	var c CountryChange
	var deltas []temporal.Delta[CountryState, CountryChange]
	var diags []diag.Diagnostic

	for _, e := range n.Entries {
		if e.Key == nil {
			diags = append(diags, diag.Warnf(diag.ExtractionWarning,
				"country: anonymous entry ignored"))
			continue
		}
		if e.Key.Kind == script.ScalarDate {
			if !top {
				diags = append(diags, diag.Warnf(diag.ExtractionWarning,
					"country: nested dated block %s ignored", e.Key.Raw))
				continue
			}
			if !e.Value.IsBlock() {
				diags = append(diags, diag.Warnf(diag.ExtractionWarning,
					"country: dated entry %s is not a block", e.Key.Raw))
				continue
			}
			change, _, ds := countryWalk(e.Value, false)
			diags = append(diags, ds...)
			deltas = append(deltas, temporal.Delta[CountryState, CountryChange]{
				Date:  e.Key.Date,
				Patch: change,
			})
			continue
		}

		key := e.Key.Str
		switch key {
		case "government":
			c.Government = strField(e.Value, key, &diags)
		case "primary_culture":
			c.PrimaryCulture = strField(e.Value, key, &diags)
		case "religion":
			c.Religion = strField(e.Value, key, &diags)
		case "technology_group":
			c.TechnologyGroup = strField(e.Value, key, &diags)
		case "graphical_culture":
			c.GraphicalCulture = strField(e.Value, key, &diags)
		case "capital":
			c.Capital = numField(e.Value, key, &diags)
		case "mercantilism":
			c.Mercantilism = numField(e.Value, key, &diags)
		case "add_accepted_culture":
			appendStrField(&c.AddAcceptedCultures, e.Value, key, &diags)
		case "remove_accepted_culture":
			appendStrField(&c.RemoveAcceptedCultures, e.Value, key, &diags)
		case "historical_friend":
			appendStrField(&c.HistoricalFriends, e.Value, key, &diags)
		case "historical_rival":
			appendStrField(&c.HistoricalRivals, e.Value, key, &diags)
		default:
			diags = append(diags, diag.Warnf(diag.ExtractionWarning,
				"country: unrecognized field %q", key))
		}
	}
	return c, deltas, diags
}
