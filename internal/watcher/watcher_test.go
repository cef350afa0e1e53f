package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNotifiesOnNewVideo(t *testing.T) {
	dir := t.TempDir()
	got := make(chan string, 1)

	w, err := New(dir, func(path string) { got <- path })
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Stop()
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	video := filepath.Join(dir, "merengue.mp4")
	if err := os.WriteFile(video, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case path := <-got:
		if path != video {
			t.Errorf("got %q, want %q", path, video)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no callback within 5s")
	}
}

func TestIgnoresNonVideos(t *testing.T) {
	dir := t.TempDir()
	got := make(chan string, 4)

	w, err := New(dir, func(path string) { got <- path })
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Stop()
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	for _, name := range []string{"notes.txt", ".hidden.mp4", "partial.mp4.part", "staging.tmp"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case path := <-got:
		t.Errorf("unexpected callback for %q", path)
	case <-time.After(2 * time.Second):
	}
}

func TestStartMissingDir(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "nope"), func(string) {})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.watcher.Close()
	if err := w.Start(); err == nil {
		t.Error("expected error watching missing directory")
	}
}
