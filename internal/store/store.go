// Package store persists resolved entity snapshots in PostgreSQL and serves
// reads through an in-memory cache. It is the entity manager side of the
// pipeline: the parse/extract/merge core never touches it.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"pdxmill/internal/extract"
)

const schema = `
CREATE TABLE IF NOT EXISTS provinces (
	id TEXT PRIMARY KEY,
	owner TEXT NOT NULL DEFAULT '',
	controller TEXT NOT NULL DEFAULT '',
	culture TEXT NOT NULL DEFAULT '',
	religion TEXT NOT NULL DEFAULT '',
	trade_goods TEXT NOT NULL DEFAULT '',
	base_tax DOUBLE PRECISION NOT NULL DEFAULT 0,
	base_production DOUBLE PRECISION NOT NULL DEFAULT 0,
	base_manpower DOUBLE PRECISION NOT NULL DEFAULT 0,
	cores TEXT[] NOT NULL DEFAULT '{}'
);
CREATE TABLE IF NOT EXISTS countries (
	tag TEXT PRIMARY KEY,
	government TEXT NOT NULL DEFAULT '',
	primary_culture TEXT NOT NULL DEFAULT '',
	religion TEXT NOT NULL DEFAULT '',
	technology_group TEXT NOT NULL DEFAULT '',
	capital DOUBLE PRECISION NOT NULL DEFAULT 0,
	accepted_cultures TEXT[] NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS provinces_owner_idx ON provinces (owner);
`

// Store is a Postgres-backed snapshot store with an in-memory read cache.
type Store struct {
	pool *pgxpool.Pool

	mu        sync.RWMutex
	provinces map[string]extract.ProvinceState
	countries map[string]extract.CountryState
}

// New creates a store and bootstraps the schema.
func New(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}
	return &Store{
		pool:      pool,
		provinces: make(map[string]extract.ProvinceState),
		countries: make(map[string]extract.CountryState),
	}, nil
}

// SaveProvince upserts one resolved province snapshot.
func (s *Store) SaveProvince(ctx context.Context, id string, p extract.ProvinceState) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO provinces (id, owner, controller, culture, religion, trade_goods,
			base_tax, base_production, base_manpower, cores)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			owner = EXCLUDED.owner,
			controller = EXCLUDED.controller,
			culture = EXCLUDED.culture,
			religion = EXCLUDED.religion,
			trade_goods = EXCLUDED.trade_goods,
			base_tax = EXCLUDED.base_tax,
			base_production = EXCLUDED.base_production,
			base_manpower = EXCLUDED.base_manpower,
			cores = EXCLUDED.cores`,
		id, p.Owner, p.Controller, p.Culture, p.Religion, p.TradeGoods,
		p.BaseTax, p.BaseProduction, p.BaseManpower, p.Cores)
	if err != nil {
		return fmt.Errorf("save province %s: %w", id, err)
	}

	s.mu.Lock()
	s.provinces[id] = p
	s.mu.Unlock()
	return nil
}

// SaveCountry upserts one resolved country snapshot.
func (s *Store) SaveCountry(ctx context.Context, tag string, c extract.CountryState) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO countries (tag, government, primary_culture, religion,
			technology_group, capital, accepted_cultures)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (tag) DO UPDATE SET
			government = EXCLUDED.government,
			primary_culture = EXCLUDED.primary_culture,
			religion = EXCLUDED.religion,
			technology_group = EXCLUDED.technology_group,
			capital = EXCLUDED.capital,
			accepted_cultures = EXCLUDED.accepted_cultures`,
		tag, c.Government, c.PrimaryCulture, c.Religion,
		c.TechnologyGroup, c.Capital, c.AcceptedCultures)
	if err != nil {
		return fmt.Errorf("save country %s: %w", tag, err)
	}

	s.mu.Lock()
	s.countries[tag] = c
	s.mu.Unlock()
	return nil
}

// GetProvince fetches one province snapshot, preferring the memory cache.
func (s *Store) GetProvince(ctx context.Context, id string) (extract.ProvinceState, bool, error) {
	s.mu.RLock()
	if p, ok := s.provinces[id]; ok {
		s.mu.RUnlock()
		return p, true, nil
	}
	s.mu.RUnlock()

	var p extract.ProvinceState
	err := s.pool.QueryRow(ctx, `
		SELECT owner, controller, culture, religion, trade_goods,
			base_tax, base_production, base_manpower, cores
		FROM provinces WHERE id = $1`, id).
		Scan(&p.Owner, &p.Controller, &p.Culture, &p.Religion, &p.TradeGoods,
			&p.BaseTax, &p.BaseProduction, &p.BaseManpower, &p.Cores)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return extract.ProvinceState{}, false, nil
		}
		return extract.ProvinceState{}, false, fmt.Errorf("get province %s: %w", id, err)
	}

	s.mu.Lock()
	s.provinces[id] = p
	s.mu.Unlock()
	return p, true, nil
}

// ListProvincesByOwner returns the ids of every province owned by tag.
func (s *Store) ListProvincesByOwner(ctx context.Context, tag string) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT id FROM provinces WHERE owner = $1 ORDER BY id`, tag)
	if err != nil {
		return nil, fmt.Errorf("list provinces by owner: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan province id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SaveAll persists every snapshot in the maps.
func (s *Store) SaveAll(ctx context.Context, provinces map[string]extract.ProvinceState, countries map[string]extract.CountryState) error {
	for id, p := range provinces {
		if err := s.SaveProvince(ctx, id, p); err != nil {
			return err
		}
	}
	for tag, c := range countries {
		if err := s.SaveCountry(ctx, tag, c); err != nil {
			return err
		}
	}
	log.Info().Int("provinces", len(provinces)).Int("countries", len(countries)).Msg("Saved snapshots")
	return nil
}
