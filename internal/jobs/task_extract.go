package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"

	"github.com/hibiken/asynq"

	"github.com/erickrex/bachatrainer/internal/batch"
)

type ExtractHandler struct {
	proc *batch.Processor
}

func NewExtractHandler(proc *batch.Processor) *ExtractHandler {
	return &ExtractHandler{proc: proc}
}

func (h *ExtractHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p ExtractPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}

	log.Printf("Job: extracting poses from %q", filepath.Base(p.VideoPath))

	proc := *h.proc
	if p.OutputDir != "" {
		proc.OutputDir = p.OutputDir
	}
	res := proc.ProcessVideo(p.VideoPath)
	if res.Err != nil {
		return fmt.Errorf("extract %s: %w", filepath.Base(p.VideoPath), res.Err)
	}
	log.Printf("Job: wrote %s (%d frames)", res.Output, res.Frames)
	return nil
}
