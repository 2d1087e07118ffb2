// Package walker discovers script files across an ordered list of data
// sources (base game first, then mods in load order). It only enumerates;
// reading and parsing belong to the loader.
package walker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// Source is one data source in load order.
type Source struct {
	// Name labels the source in diagnostics ("base", mod name).
	Name string
	// Root is the source's directory.
	Root string
}

// FileEntry is one discovered script file.
type FileEntry struct {
	Source Source
	// Path is the absolute file path.
	Path string
	// Rel is the path relative to the source root; files from different
	// sources with the same Rel describe the same logical entity.
	Rel string
}

// Walk discovers all .txt script files under each source root, preserving
// source order. Within a source, files come back in lexical path order, so
// repeated walks see the same sequence.
func Walk(sources []Source) ([]FileEntry, error) {
	var entries []FileEntry
	for _, src := range sources {
		root, err := filepath.Abs(src.Root)
		if err != nil {
			return nil, fmt.Errorf("resolve source %s: %w", src.Name, err)
		}
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat source %s: %w", src.Name, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("source %s is not a directory: %s", src.Name, root)
		}

		count := 0
		err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				log.Warn().Err(err).Str("path", path).Msg("Error walking path")
				return nil
			}
			if info.IsDir() || !strings.EqualFold(filepath.Ext(path), ".txt") {
				return nil
			}
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return nil
			}
			entries = append(entries, FileEntry{Source: src, Path: path, Rel: rel})
			count++
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk source %s: %w", src.Name, err)
		}
		log.Info().Int("count", count).Str("source", src.Name).Msg("Discovered files")
	}
	return entries, nil
}

// EntityID derives the logical entity id from a file name. Province history
// files are named "<id> - <name>.txt"; country files "<TAG> - <name>.txt";
// anything else uses the bare stem.
func EntityID(rel string) string {
	stem := strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))
	if id, _, ok := strings.Cut(stem, " - "); ok {
		return strings.TrimSpace(id)
	}
	return stem
}
