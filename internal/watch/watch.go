// Package watch re-runs a reload callback when script files under any
// source root change on disk. Paradox mod development iterates on text
// files, so a running tool can keep its dataset current without restarts.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"pdxmill/internal/walker"
)

// debounce batches bursts of events (editors often write several times per
// save) into a single reload.
const debounce = 250 * time.Millisecond

// Watch blocks until ctx is cancelled, invoking reload after any .txt change
// under the source roots. New subdirectories are added to the watch list as
// they appear.
func Watch(ctx context.Context, sources []walker.Source, reload func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	for _, src := range sources {
		if err := addDirsRecursive(w, src.Root); err != nil {
			return err
		}
	}
	log.Info().Int("sources", len(sources)).Msg("Watcher started")

	var timer *time.Timer
	var timerCh <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			log.Info().Msg("Watcher stopped")
			return nil

		case <-timerCh:
			reload()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != 0 && isDir(ev.Name) {
				if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
					log.Warn().Err(addErr).Str("path", ev.Name).Msg("Watch new dir failed")
				}
				schedule()
				continue
			}
			if !strings.EqualFold(filepath.Ext(ev.Name), ".txt") {
				continue
			}
			log.Debug().Str("path", ev.Name).Str("op", ev.Op.String()).Msg("Script file changed")
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(watchErr).Msg("Watcher error")
		}
	}
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
