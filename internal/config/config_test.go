package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPlayset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playset.yaml")
	src := `
name: my playset
base: /data/game
mods:
  - name: modA
    path: /data/mods/a
  - name: modB
    path: /data/mods/b
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := LoadPlayset(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Base != "/data/game" || len(p.Mods) != 2 {
		t.Errorf("playset = %+v", p)
	}

	sources := p.Sources()
	if len(sources) != 3 {
		t.Fatalf("len(sources) = %d, want 3", len(sources))
	}
	if sources[0].Name != "base" || sources[1].Name != "modA" || sources[2].Name != "modB" {
		t.Errorf("source order = %v", sources)
	}
}

func TestLoadPlayset_MissingBase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playset.yaml")
	if err := os.WriteFile(path, []byte("name: broken\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPlayset(path); err == nil {
		t.Error("expected validation error for missing base")
	}
}

func TestLoadPlayset_IncompleteMod(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playset.yaml")
	src := "base: /data/game\nmods:\n  - name: nameless\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPlayset(path); err == nil {
		t.Error("expected validation error for mod without path")
	}
}

func TestLoad_EnvFallbacks(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("WORKER_COUNT", "not-a-number")
	cfg := Load()
	if cfg.DatabaseURL == "" {
		t.Error("DatabaseURL fallback missing")
	}
	if cfg.WorkerCount != 8 {
		t.Errorf("WorkerCount = %d, want fallback 8", cfg.WorkerCount)
	}
}
