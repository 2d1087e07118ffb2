// Package temporal models time-aware entity records: a baseline plus an
// ordered list of dated partial changes, resolved to a point-in-time snapshot
// by a pure fold. Resolution never mutates the record, so the same record can
// be resolved repeatedly at different dates.
package temporal

import (
	"sort"

	"pdxmill/internal/pdxdate"
)

// Patch is a partial set of field changes for a state type S. Apply merges
// the changes into a snapshot per the field's own semantics (scalars replace,
// set-valued fields add or remove members) and returns the new snapshot.
// Fields names the scalar fields the patch explicitly sets, which the overlay
// merger uses for conflict reporting.
type Patch[S any] interface {
	Apply(S) S
	Fields() []string
}

// Delta is one dated partial change.
type Delta[S any, P Patch[S]] struct {
	Date  pdxdate.Date
	Patch P
}

// Record is a typed entity record from one or more sources. Base holds one
// patch per contributing source in load order (a single-source record has
// exactly one). Deltas keeps extraction order; resolution sorts a copy.
// Records are never mutated after extraction or merging.
type Record[S any, P Patch[S]] struct {
	ID     string
	Kind   string
	Source string
	Base   []P
	Deltas []Delta[S, P]
}

// EntityID returns the record's entity identifier.
func (r *Record[S, P]) EntityID() string { return r.ID }

// EntityKind returns the record's entity kind (e.g. "province").
func (r *Record[S, P]) EntityKind() string { return r.Kind }

// ResolveAt computes the entity state as of date at: the zero state, the base
// patches in source order, then every delta dated at or before the target in
// ascending date order. Deltas sharing a date keep their relative order from
// the record's delta list (stable tie-break).
func (r *Record[S, P]) ResolveAt(at pdxdate.Date) S {
	var state S
	for _, p := range r.Base {
		state = p.Apply(state)
	}
	deltas := make([]Delta[S, P], len(r.Deltas))
	copy(deltas, r.Deltas)
	sort.SliceStable(deltas, func(i, j int) bool {
		return deltas[i].Date.Before(deltas[j].Date)
	})
	for _, d := range deltas {
		if d.Date.After(at) {
			break
		}
		state = d.Patch.Apply(state)
	}
	return state
}

// Resolve computes the final state with every delta applied.
func (r *Record[S, P]) Resolve() S {
	return r.ResolveAt(pdxdate.Max)
}
