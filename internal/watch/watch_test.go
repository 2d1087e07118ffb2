package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"pdxmill/internal/walker"
)

func TestWatch_ReloadsOnScriptChange(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "history"), 0o755); err != nil {
		t.Fatal(err)
	}

	var reloads atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, []walker.Source{{Name: "base", Root: root}}, func() {
			reloads.Add(1)
		})
	}()

	// Give the watcher time to register the directories.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(root, "history", "183 - Paris.txt")
	if err := os.WriteFile(path, []byte("owner = FRA\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(3 * time.Second)
	for reloads.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("no reload after script file change")
		case <-time.After(50 * time.Millisecond):
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWatch_IgnoresOtherFiles(t *testing.T) {
	root := t.TempDir()

	var reloads atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, []walker.Source{{Name: "base", Root: root}}, func() {
			reloads.Add(1)
		})
	}()
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(root, "notes.md"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(500 * time.Millisecond)

	if n := reloads.Load(); n != 0 {
		t.Errorf("reloads = %d, want 0 for non-script file", n)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWatch_MissingRoot(t *testing.T) {
	err := Watch(context.Background(), []walker.Source{{Name: "gone", Root: "/does/not/exist"}}, func() {})
	if err == nil {
		t.Error("expected error for missing root")
	}
}
