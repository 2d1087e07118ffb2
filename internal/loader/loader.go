// Package loader runs the full pipeline: discover script files across the
// load order, parse them in parallel, extract typed records, and merge
// per-entity overlays into one dataset. Parsing and extraction are pure per
// file; only the per-entity merge fold is order-dependent, and it always
// consumes sources in load order.
package loader

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"pdxmill/internal/diag"
	"pdxmill/internal/extract"
	"pdxmill/internal/overlay"
	"pdxmill/internal/script"
	"pdxmill/internal/walker"
	"pdxmill/internal/worker"
)

// ParsedFile is one script file with its tree and diagnostics.
type ParsedFile struct {
	Entry       walker.FileEntry
	Root        *script.Node
	Diagnostics []diag.Diagnostic
}

// Dataset is the merged output of one load: final records per entity kind,
// plus every diagnostic accumulated along the way.
type Dataset struct {
	Provinces   map[string]*extract.ProvinceRecord
	Countries   map[string]*extract.CountryRecord
	Diagnostics []diag.Diagnostic
}

// Loader wires the pipeline together.
type Loader struct {
	registry *extract.Registry
	workers  int
}

// New creates a loader. A nil registry uses the built-in extractors.
func New(registry *extract.Registry, workers int) *Loader {
	if registry == nil {
		registry = extract.Default()
	}
	return &Loader{registry: registry, workers: workers}
}

// Load runs the pipeline over the given sources in load order.
func (l *Loader) Load(ctx context.Context, sources []walker.Source) (*Dataset, error) {
	entries, err := walker.Walk(sources)
	if err != nil {
		return nil, err
	}

	pool := worker.NewPool(l.workers, func(_ context.Context, e walker.FileEntry) (*ParsedFile, error) {
		data, readErr := os.ReadFile(e.Path)
		if readErr != nil {
			return nil, fmt.Errorf("read %s: %w", e.Path, readErr)
		}
		root, diags := script.Parse(string(data))
		return &ParsedFile{Entry: e, Root: root, Diagnostics: diags}, nil
	})
	jobs := pool.Run(ctx, entries)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ds := &Dataset{
		Provinces: map[string]*extract.ProvinceRecord{},
		Countries: map[string]*extract.CountryRecord{},
	}
	provinces := map[string][]*extract.ProvinceRecord{}
	countries := map[string][]*extract.CountryRecord{}
	var provinceOrder, countryOrder []string

	// Jobs come back in walk order, so per-entity source lists are already
	// in load order.
	for _, job := range jobs {
		if job.Err != nil {
			continue // already logged by the pool
		}
		pf := job.Result
		ds.Diagnostics = append(ds.Diagnostics, pf.Diagnostics...)

		extractor, ok := l.registry.Match(pf.Root)
		if !ok {
			log.Debug().Str("file", pf.Entry.Rel).Msg("No extractor matched")
			continue
		}
		rec, exDiags, exErr := extractor.Extract(pf.Root)
		ds.Diagnostics = append(ds.Diagnostics, exDiags...)
		if exErr != nil {
			return nil, exErr
		}

		id := walker.EntityID(pf.Entry.Rel)
		switch r := rec.(type) {
		case *extract.ProvinceRecord:
			r.ID = id
			r.Source = pf.Entry.Source.Name
			if _, seen := provinces[id]; !seen {
				provinceOrder = append(provinceOrder, id)
			}
			provinces[id] = append(provinces[id], r)
		case *extract.CountryRecord:
			r.ID = id
			r.Source = pf.Entry.Source.Name
			if _, seen := countries[id]; !seen {
				countryOrder = append(countryOrder, id)
			}
			countries[id] = append(countries[id], r)
		default:
			log.Warn().Str("kind", extractor.Kind()).Msg("Extractor produced unknown record type")
		}
	}

	// Entities are independent of one another; merge the two kinds
	// concurrently. Each per-entity merge still folds sources in order.
	var provinceDiags, countryDiags []diag.Diagnostic
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		for _, id := range provinceOrder {
			merged, mDiags := overlay.Merge(provinces[id])
			ds.Provinces[id] = merged
			provinceDiags = append(provinceDiags, mDiags...)
		}
		return nil
	})
	g.Go(func() error {
		for _, id := range countryOrder {
			merged, mDiags := overlay.Merge(countries[id])
			ds.Countries[id] = merged
			countryDiags = append(countryDiags, mDiags...)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	ds.Diagnostics = append(ds.Diagnostics, provinceDiags...)
	ds.Diagnostics = append(ds.Diagnostics, countryDiags...)

	log.Info().
		Int("provinces", len(ds.Provinces)).
		Int("countries", len(ds.Countries)).
		Int("diagnostics", len(ds.Diagnostics)).
		Msg("Load complete")
	return ds, nil
}
