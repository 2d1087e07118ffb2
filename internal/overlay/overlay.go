// Package overlay combines records for the same logical entity from several
// sources: the base game first, then mods in load order. Merging is a strict
// left-to-right fold and is not commutative: later sources override earlier
// ones for scalar fields, so input order is part of the contract.
package overlay

import (
	"sort"

	"pdxmill/internal/diag"
	"pdxmill/internal/temporal"
)

// Merge combines records in load order into one merged record. The inputs
// are not modified.
//
//   - Base patches are concatenated in source order; since resolution applies
//     them left to right, the last source that sets a scalar field wins and
//     set-valued removes apply against everything accumulated before them.
//   - Deltas from all sources are pooled and stable-sorted by date, so
//     mod-introduced events interleave with base-game events; within one date
//     the tie-break is source order, then original file order.
//   - A scalar field set by more than one source yields a MergeConflict
//     warning and is resolved last-wins, never fatally.
//
// Merging the same ordered input twice yields identical output.
func Merge[S any, P temporal.Patch[S]](sources []*temporal.Record[S, P]) (*temporal.Record[S, P], []diag.Diagnostic) {
	if len(sources) == 0 {
		return nil, nil
	}

	merged := &temporal.Record[S, P]{
		ID:   sources[0].ID,
		Kind: sources[0].Kind,
	}
	var diags []diag.Diagnostic

	seen := map[string]string{} // scalar field -> source that set it
	for _, src := range sources {
		for _, p := range src.Base {
			for _, f := range p.Fields() {
				if prev, ok := seen[f]; ok && prev != src.Source {
					diags = append(diags, diag.Warnf(diag.MergeConflict,
						"%s %s: field %q set by %q overrides %q",
						merged.Kind, merged.ID, f, src.Source, prev))
				}
				seen[f] = src.Source
			}
		}
		merged.Base = append(merged.Base, src.Base...)
		merged.Deltas = append(merged.Deltas, src.Deltas...)
	}

	// Stable: equal dates keep source order, then file order.
	sort.SliceStable(merged.Deltas, func(i, j int) bool {
		return merged.Deltas[i].Date.Before(merged.Deltas[j].Date)
	})
	return merged, diags
}
