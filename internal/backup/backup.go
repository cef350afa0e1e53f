// Package backup implements the backup-then-replace policy for pose
// documents: before a regeneration run repopulates the output directory,
// the existing documents are copied to a timestamped snapshot directory and
// deleted. Documents are replaced wholesale, never patched in place.
package backup

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Snapshot copies every *.json in posesDir into a new timestamped
// directory under backupRoot and returns its path and the file count.
// An absent or empty poses directory is not an error; the returned path
// is empty and the count zero.
func Snapshot(posesDir, backupRoot string) (string, int, error) {
	files, err := listDocuments(posesDir)
	if err != nil || len(files) == 0 {
		return "", 0, err
	}

	snapDir := filepath.Join(backupRoot, "poses_backup_"+time.Now().Format("20060102_150405"))
	if err := os.MkdirAll(snapDir, 0755); err != nil {
		return "", 0, fmt.Errorf("create backup directory: %w", err)
	}

	for _, src := range files {
		dst := filepath.Join(snapDir, filepath.Base(src))
		if err := copyFile(src, dst); err != nil {
			return snapDir, 0, fmt.Errorf("backup %s: %w", filepath.Base(src), err)
		}
	}
	log.Printf("[backup] snapshotted %d documents to %s", len(files), snapDir)
	return snapDir, len(files), nil
}

// Clear deletes every *.json in posesDir and returns the count removed.
func Clear(posesDir string) (int, error) {
	files, err := listDocuments(posesDir)
	if err != nil {
		return 0, err
	}
	for i, f := range files {
		if err := os.Remove(f); err != nil {
			return i, fmt.Errorf("delete %s: %w", filepath.Base(f), err)
		}
	}
	return len(files), nil
}

func listDocuments(dir string) ([]string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return files, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
