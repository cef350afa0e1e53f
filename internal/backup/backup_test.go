package backup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeDoc(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(`{"songId":"`+name+`"}`), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestSnapshotCopiesDocuments(t *testing.T) {
	poses := t.TempDir()
	backups := t.TempDir()
	writeDoc(t, poses, "salsa.json")
	writeDoc(t, poses, "bachata.json")
	if err := os.WriteFile(filepath.Join(poses, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	snapDir, n, err := Snapshot(poses, backups)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if n != 2 {
		t.Errorf("copied %d documents, want 2", n)
	}
	if !strings.HasPrefix(filepath.Base(snapDir), "poses_backup_") {
		t.Errorf("snapshot directory %q lacks poses_backup_ prefix", snapDir)
	}
	for _, name := range []string{"salsa.json", "bachata.json"} {
		if _, err := os.Stat(filepath.Join(snapDir, name)); err != nil {
			t.Errorf("%s missing from snapshot: %v", name, err)
		}
	}
	// originals are untouched by Snapshot
	if _, err := os.Stat(filepath.Join(poses, "salsa.json")); err != nil {
		t.Errorf("original removed by Snapshot: %v", err)
	}
}

func TestSnapshotEmptyDir(t *testing.T) {
	snapDir, n, err := Snapshot(t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snapDir != "" || n != 0 {
		t.Errorf("got (%q, %d), want empty snapshot", snapDir, n)
	}
}

func TestSnapshotMissingDir(t *testing.T) {
	snapDir, n, err := Snapshot(filepath.Join(t.TempDir(), "nope"), t.TempDir())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snapDir != "" || n != 0 {
		t.Errorf("got (%q, %d), want empty snapshot", snapDir, n)
	}
}

func TestClearRemovesOnlyDocuments(t *testing.T) {
	poses := t.TempDir()
	writeDoc(t, poses, "a.json")
	writeDoc(t, poses, "b.json")
	if err := os.WriteFile(filepath.Join(poses, "keep.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	n, err := Clear(poses)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 2 {
		t.Errorf("removed %d, want 2", n)
	}
	entries, err := os.ReadDir(poses)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "keep.txt" {
		t.Errorf("unexpected leftovers: %v", entries)
	}
}
