// Package extract maps generic script trees into typed, time-aware entity
// records. Each entity kind has one extractor exposing a cheap capability
// sniff (CanExtract) and a projection (Extract); extractors are registered in
// a table, which is the designed extension point for new entity kinds.
package extract

import (
	"errors"

	"pdxmill/internal/diag"
	"pdxmill/internal/script"
)

// ErrNotExtractable is returned when Extract is invoked on a node the
// extractor's CanExtract rejected. That is a programming-contract violation
// by the caller, not a data problem, so it fails loudly instead of degrading
// to diagnostics.
var ErrNotExtractable = errors.New("node not extractable by this extractor")

// Record is a typed entity record produced by an extractor. Concrete records
// are *temporal.Record instantiations; callers type-switch to reach the
// typed baseline and deltas.
type Record interface {
	EntityID() string
	EntityKind() string
}

// Extractor projects a generic node into a typed record plus dated deltas.
type Extractor interface {
	// Kind names the entity kind this extractor produces.
	Kind() string
	// CanExtract is a cheap structural sniff: does this node look like the
	// extractor's entity kind?
	CanExtract(n *script.Node) bool
	// Extract projects n into a typed record. Unknown keys degrade to
	// ExtractionWarning diagnostics; the error is non-nil only for
	// contract violations (ErrNotExtractable).
	Extract(n *script.Node) (Record, []diag.Diagnostic, error)
}

// Registry holds extractors in registration order. Match returns the first
// capable extractor, so more specific extractors should register earlier.
type Registry struct {
	extractors []Extractor
}

// NewRegistry returns a registry holding the given extractors in order.
func NewRegistry(es ...Extractor) *Registry {
	return &Registry{extractors: es}
}

// Register appends an extractor to the registry.
func (r *Registry) Register(e Extractor) {
	r.extractors = append(r.extractors, e)
}

// Match returns the first registered extractor whose CanExtract accepts n.
func (r *Registry) Match(n *script.Node) (Extractor, bool) {
	for _, e := range r.extractors {
		if e.CanExtract(n) {
			return e, true
		}
	}
	return nil, false
}

// Default returns a registry with the built-in extractors.
func Default() *Registry {
	return NewRegistry(ProvinceExtractor{}, CountryExtractor{})
}

// hasAnyKey reports whether the block has any of the given keys at top
// level, or inside a top-level dated block. Mod patch files sometimes carry
// nothing but dated deltas, so the sniff must look one level under dates.
func hasAnyKey(n *script.Node, keys []string) bool {
	for _, e := range n.Entries {
		if e.Key == nil {
			continue
		}
		if e.Key.Kind == script.ScalarDate {
			if e.Value.IsBlock() && hasAnyKey(e.Value, keys) {
				return true
			}
			continue
		}
		for _, k := range keys {
			if e.Key.Str == k {
				return true
			}
		}
	}
	return false
}

// applySet adds then removes members of an insertion-ordered string set,
// returning a fresh slice so snapshots never alias each other.
func applySet(base, adds, removes []string) []string {
	out := make([]string, 0, len(base)+len(adds))
	out = append(out, base...)
	for _, a := range adds {
		if !contains(out, a) {
			out = append(out, a)
		}
	}
	for _, r := range removes {
		for i, v := range out {
			if v == r {
				out = append(out[:i:i], out[i+1:]...)
				break
			}
		}
	}
	return out
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
