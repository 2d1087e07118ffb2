// Package config loads runtime settings from the environment (.env
// supported) and the playset file that names the base game directory and the
// ordered mod list.
package config

import (
	"fmt"
	"os"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"pdxmill/internal/walker"
)

// Config holds environment-driven runtime settings.
type Config struct {
	DatabaseURL string
	WorkerCount int
}

// Load reads settings from a .env file if present, falling back to process
// environment variables.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found, using environment variables")
	}

	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/pdxmill?sslmode=disable"),
		WorkerCount: getEnvInt("WORKER_COUNT", 8),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// ModRef names one mod and its directory. List position is load order.
type ModRef struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// Validate validates a mod reference.
func (m ModRef) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Name, validation.Required),
		validation.Field(&m.Path, validation.Required),
	)
}

// Playset describes one load order: the base game data directory followed by
// mods from lowest to highest priority.
type Playset struct {
	Name string   `yaml:"name"`
	Base string   `yaml:"base"`
	Mods []ModRef `yaml:"mods"`
}

// Validate validates the playset.
func (p *Playset) Validate() error {
	if err := validation.ValidateStruct(p,
		validation.Field(&p.Base, validation.Required),
	); err != nil {
		return err
	}
	for i, m := range p.Mods {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("mod %d: %w", i, err)
		}
	}
	return nil
}

// Sources returns the playset as an ordered source list for the walker.
func (p *Playset) Sources() []walker.Source {
	sources := make([]walker.Source, 0, len(p.Mods)+1)
	sources = append(sources, walker.Source{Name: "base", Root: p.Base})
	for _, m := range p.Mods {
		sources = append(sources, walker.Source{Name: m.Name, Root: m.Path})
	}
	return sources
}

// LoadPlayset reads and validates a playset YAML file.
func LoadPlayset(path string) (*Playset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read playset: %w", err)
	}
	var p Playset
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse playset: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("validate playset: %w", err)
	}
	return &p, nil
}
