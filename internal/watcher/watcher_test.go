package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitFor(t *testing.T, ch <-chan string, want string) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case got := <-ch:
			if got == want {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", want)
		}
	}
}

func TestWatcherImportsOnWrite(t *testing.T) {
	dir := t.TempDir()
	imported := make(chan string, 16)

	w := New([]string{dir}, []string{".txt"}, false,
		func(path string) { imported <- path },
		nil,
		WithDebounce(50*time.Millisecond),
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	path := filepath.Join(dir, "note.txt")
	if err := os.WriteFile(path, []byte("hello"), 0600); err != nil {
		t.Fatal(err)
	}
	waitFor(t, imported, path)
}

func TestWatcherIgnoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	imported := make(chan string, 16)

	w := New([]string{dir}, []string{".txt"}, false,
		func(path string) { imported <- path },
		nil,
		WithDebounce(20*time.Millisecond),
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "image.png"), []byte{1}, 0600); err != nil {
		t.Fatal(err)
	}
	select {
	case path := <-imported:
		t.Errorf("unexpected import of %s", path)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherRemove(t *testing.T) {
	dir := t.TempDir()
	removed := make(chan string, 16)

	path := filepath.Join(dir, "doomed.txt")
	if err := os.WriteFile(path, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	w := New([]string{dir}, []string{".txt"}, false,
		nil,
		func(p string) { removed <- p },
		WithDebounce(20*time.Millisecond),
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	waitFor(t, removed, path)
}

func TestWatcherStartOnMissingRoot(t *testing.T) {
	w := New([]string{filepath.Join(t.TempDir(), "missing")}, nil, true, nil, nil)
	if err := w.Start(context.Background()); err == nil {
		w.Stop()
		t.Fatal("expected error for missing root")
	}
}
