package sequence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/erickrex/bachatrainer/internal/pose"
)

// Write persists the document as a single two-space-indented JSON file,
// creating missing parent directories. The write goes through a temp file
// and rename so a crash never leaves a half-written document; documents are
// replaced wholesale, never patched in place.
func Write(seq *pose.Sequence, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	data, err := json.MarshalIndent(seq, "", "  ")
	if err != nil {
		return fmt.Errorf("encode pose document: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write pose document: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write pose document: %w", err)
	}
	return nil
}
