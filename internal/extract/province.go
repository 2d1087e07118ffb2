package extract

import (
	"fmt"

	"pdxmill/internal/diag"
	"pdxmill/internal/script"
	"pdxmill/internal/temporal"
)

// ProvinceState is a province's resolved state at one point in time.
type ProvinceState struct {
	Owner          string
	Controller     string
	Culture        string
	Religion       string
	Capital        string
	TradeGoods     string
	BaseTax        float64
	BaseProduction float64
	BaseManpower   float64
	IsCity         bool
	HRE            bool
	Cores          []string
	DiscoveredBy   []string
}

// ProvinceChange is a partial change to a province: nil pointers leave the
// field untouched, set-valued fields carry explicit add/remove lists.
type ProvinceChange struct {
	Owner          *string
	Controller     *string
	Culture        *string
	Religion       *string
	Capital        *string
	TradeGoods     *string
	BaseTax        *float64
	BaseProduction *float64
	BaseManpower   *float64
	IsCity         *bool
	HRE            *bool
	AddCores       []string
	RemoveCores    []string
	DiscoveredBy   []string
}

// Apply merges the change into a snapshot: scalars replace, cores add then
// remove, discovered_by accumulates.
func (c ProvinceChange) Apply(s ProvinceState) ProvinceState {
	setStr(&s.Owner, c.Owner)
	setStr(&s.Controller, c.Controller)
	setStr(&s.Culture, c.Culture)
	setStr(&s.Religion, c.Religion)
	setStr(&s.Capital, c.Capital)
	setStr(&s.TradeGoods, c.TradeGoods)
	setNum(&s.BaseTax, c.BaseTax)
	setNum(&s.BaseProduction, c.BaseProduction)
	setNum(&s.BaseManpower, c.BaseManpower)
	setFlag(&s.IsCity, c.IsCity)
	setFlag(&s.HRE, c.HRE)
	if len(c.AddCores) > 0 || len(c.RemoveCores) > 0 {
		s.Cores = applySet(s.Cores, c.AddCores, c.RemoveCores)
	}
	if len(c.DiscoveredBy) > 0 {
		s.DiscoveredBy = applySet(s.DiscoveredBy, c.DiscoveredBy, nil)
	}
	return s
}

// Fields names the scalar fields the change explicitly sets.
func (c ProvinceChange) Fields() []string {
	var fs []string
	for _, f := range []struct {
		name string
		set  bool
	}{
		{"owner", c.Owner != nil},
		{"controller", c.Controller != nil},
		{"culture", c.Culture != nil},
		{"religion", c.Religion != nil},
		{"capital", c.Capital != nil},
		{"trade_goods", c.TradeGoods != nil},
		{"base_tax", c.BaseTax != nil},
		{"base_production", c.BaseProduction != nil},
		{"base_manpower", c.BaseManpower != nil},
		{"is_city", c.IsCity != nil},
		{"hre", c.HRE != nil},
	} {
		if f.set {
			fs = append(fs, f.name)
		}
	}
	return fs
}

// ProvinceRecord is a province baseline plus its dated history deltas.
type ProvinceRecord = temporal.Record[ProvinceState, ProvinceChange]

// provinceKeys are the keys whose presence marks a block as province history.
var provinceKeys = []string{
	"owner", "controller", "culture", "trade_goods",
	"base_tax", "base_production", "base_manpower",
	"add_core", "is_city", "hre", "discovered_by",
}

// ProvinceExtractor extracts province history records.
type ProvinceExtractor struct{}

func (ProvinceExtractor) Kind() string { return "province" }

func (ProvinceExtractor) CanExtract(n *script.Node) bool {
	return n != nil && n.IsBlock() && hasAnyKey(n, provinceKeys)
}

func (e ProvinceExtractor) Extract(n *script.Node) (Record, []diag.Diagnostic, error) {
	if !e.CanExtract(n) {
		return nil, nil, fmt.Errorf("province extract: %w", ErrNotExtractable)
	}
	rec := &ProvinceRecord{Kind: "province"}
	var diags []diag.Diagnostic
	base, deltas, ds := provinceWalk(n, true)
	diags = append(diags, ds...)
	rec.Base = []ProvinceChange{base}
	rec.Deltas = deltas
	return rec, diags, nil
}

// provinceWalk maps a block's entries through the province field table. At
// the top level, date keys open delta blocks mapped through the same table.
func provinceWalk(n *script.Node, top bool) (ProvinceChange, []temporal.Delta[ProvinceState, ProvinceChange], []diag.Diagnostic) {
	var c ProvinceChange
	var deltas []temporal.Delta[ProvinceState, ProvinceChange]
	var diags []diag.Diagnostic

	for _, e := range n.Entries {
		if e.Key == nil {
			diags = append(diags, diag.Warnf(diag.ExtractionWarning,
				"province: anonymous entry ignored"))
			continue
		}
		if e.Key.Kind == script.ScalarDate {
			if !top {
				diags = append(diags, diag.Warnf(diag.ExtractionWarning,
					"province: nested dated block %s ignored", e.Key.Raw))
				continue
			}
			if !e.Value.IsBlock() {
				diags = append(diags, diag.Warnf(diag.ExtractionWarning,
					"province: dated entry %s is not a block", e.Key.Raw))
				continue
			}
			change, _, ds := provinceWalk(e.Value, false)
			diags = append(diags, ds...)
			deltas = append(deltas, temporal.Delta[ProvinceState, ProvinceChange]{
				Date:  e.Key.Date,
				Patch: change,
			})
			continue
		}

		key := e.Key.Str
		switch key {
		case "owner":
			c.Owner = strField(e.Value, key, &diags)
		case "controller":
			c.Controller = strField(e.Value, key, &diags)
		case "culture":
			c.Culture = strField(e.Value, key, &diags)
		case "religion":
			c.Religion = strField(e.Value, key, &diags)
		case "capital":
			c.Capital = strField(e.Value, key, &diags)
		case "trade_goods":
			c.TradeGoods = strField(e.Value, key, &diags)
		case "base_tax":
			c.BaseTax = numField(e.Value, key, &diags)
		case "base_production":
			c.BaseProduction = numField(e.Value, key, &diags)
		case "base_manpower":
			c.BaseManpower = numField(e.Value, key, &diags)
		case "is_city":
			c.IsCity = boolField(e.Value, key, &diags)
		case "hre":
			c.HRE = boolField(e.Value, key, &diags)
		case "add_core":
			appendStrField(&c.AddCores, e.Value, key, &diags)
		case "remove_core":
			appendStrField(&c.RemoveCores, e.Value, key, &diags)
		case "discovered_by":
			appendStrField(&c.DiscoveredBy, e.Value, key, &diags)
		default:
			diags = append(diags, diag.Warnf(diag.ExtractionWarning,
				"province: unrecognized field %q", key))
		}
	}
	return c, deltas, diags
}
