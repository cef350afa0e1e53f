package batch

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
		t.Fatal(err)
	}
}

func TestFindVideos(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b_salsa.MP4")
	touch(t, dir, "a_bachata.mp4")
	touch(t, dir, "clip.webm")
	touch(t, dir, "notes.txt")
	touch(t, dir, ".hidden.mp4")
	touch(t, dir, "download.mp4.part")
	touch(t, dir, "staging.tmp")
	if err := os.Mkdir(filepath.Join(dir, "sub.mp4"), 0755); err != nil {
		t.Fatal(err)
	}

	videos, err := FindVideos(dir)
	if err != nil {
		t.Fatalf("FindVideos: %v", err)
	}
	want := []string{
		filepath.Join(dir, "a_bachata.mp4"),
		filepath.Join(dir, "b_salsa.MP4"),
		filepath.Join(dir, "clip.webm"),
	}
	if len(videos) != len(want) {
		t.Fatalf("got %v, want %v", videos, want)
	}
	for i := range want {
		if videos[i] != want[i] {
			t.Errorf("videos[%d] = %q, want %q", i, videos[i], want[i])
		}
	}
}

func TestFindVideosMissingDir(t *testing.T) {
	if _, err := FindVideos(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestIsVideo(t *testing.T) {
	cases := map[string]bool{
		"a.mp4":  true,
		"A.MOV":  true,
		"b.mkv":  true,
		"c.avi":  true,
		"d.webm": true,
		"e.json": false,
		"f":      false,
	}
	for name, want := range cases {
		if got := IsVideo(name); got != want {
			t.Errorf("IsVideo(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestProcessVideoUnopenable(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "broken.mp4")

	p := &Processor{OutputDir: t.TempDir()}
	res := p.ProcessVideo(filepath.Join(dir, "broken.mp4"))
	if res.Err == nil {
		t.Fatal("expected error for unreadable video")
	}
	if res.Output != "" {
		t.Errorf("no output expected, got %q", res.Output)
	}
}

func TestSummaryCounts(t *testing.T) {
	s := &Summary{Results: []VideoResult{
		{Video: "a.mp4"},
		{Video: "b.mp4", Err: os.ErrNotExist},
		{Video: "c.mp4"},
	}}
	if s.Succeeded() != 2 {
		t.Errorf("Succeeded() = %d, want 2", s.Succeeded())
	}
	if s.Failed() != 1 {
		t.Errorf("Failed() = %d, want 1", s.Failed())
	}
}
