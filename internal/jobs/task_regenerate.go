package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"

	"github.com/erickrex/bachatrainer/internal/backup"
	"github.com/erickrex/bachatrainer/internal/batch"
)

type RegenerateHandler struct {
	proc *batch.Processor
}

func NewRegenerateHandler(proc *batch.Processor) *RegenerateHandler {
	return &RegenerateHandler{proc: proc}
}

// ProcessTask rebuilds every pose document from the videos directory.
// Existing documents are snapshotted and deleted first, so a partial run
// never leaves a mix of old and new model output.
func (h *RegenerateHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p RegeneratePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}

	proc := *h.proc
	if p.OutputDir != "" {
		proc.OutputDir = p.OutputDir
	}

	if !p.SkipBackup {
		snapDir, n, err := backup.Snapshot(proc.OutputDir, p.BackupDir)
		if err != nil {
			return fmt.Errorf("backup: %w", err)
		}
		if n > 0 {
			log.Printf("Job: backed up %d documents to %s", n, snapDir)
		}
	}
	if _, err := backup.Clear(proc.OutputDir); err != nil {
		return fmt.Errorf("clear: %w", err)
	}

	sum, err := proc.Run(p.VideosDir)
	if err != nil {
		return fmt.Errorf("regenerate: %w", err)
	}
	if sum.Failed() > 0 {
		return fmt.Errorf("regenerate run %s: %d of %d videos failed", sum.RunID, sum.Failed(), len(sum.Results))
	}
	return nil
}
