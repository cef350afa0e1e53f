package pose

import (
	"encoding/json"
	"fmt"
	"os"
)

// ReadSequence loads a persisted pose document.
func ReadSequence(path string) (*Sequence, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pose document: %w", err)
	}
	var seq Sequence
	if err := json.Unmarshal(data, &seq); err != nil {
		return nil, fmt.Errorf("parse pose document %s: %w", path, err)
	}
	return &seq, nil
}
