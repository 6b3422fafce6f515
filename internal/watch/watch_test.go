package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestNewErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := New(filepath.Join(dir, "missing.yaml")); !errors.Is(err, ErrPathNotExist) {
		t.Errorf("expected ErrPathNotExist, got %v", err)
	}
	if _, err := New(dir); !errors.Is(err, ErrIsDirectory) {
		t.Errorf("expected ErrIsDirectory, got %v", err)
	}
}

func TestRunCallsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "edit.yaml")
	if err := os.WriteFile(path, []byte("doc: a\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(path, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan struct{}, 10)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func() { calls <- struct{}{} })
	}()

	// Several quick writes settle into at least one callback.
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("doc: b\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("callback not called after write")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "edit.yaml")
	if err := os.WriteFile(path, []byte("doc: a\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(path, WithDebounce(0))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	called := false
	go func() {
		_ = os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o644)
	}()
	if err := w.Run(ctx, func() { called = true }); err != nil {
		t.Fatalf("Run returned %v", err)
	}
	if called {
		t.Error("callback called for a sibling file")
	}
}

func TestRelevant(t *testing.T) {
	w := &Watcher{path: filepath.Join(string(filepath.Separator), "tmp", "a.yaml")}

	tests := []struct {
		event    fsnotify.Event
		expected bool
	}{
		{fsnotify.Event{Name: w.path, Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: w.path, Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: w.path, Op: fsnotify.Remove}, false},
		{fsnotify.Event{Name: w.path, Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: w.path + ".swp", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		if got := w.relevant(tt.event); got != tt.expected {
			t.Errorf("relevant(%v) = %v, want %v", tt.event, got, tt.expected)
		}
	}
}
