package jobs

import (
	"github.com/erickrex/bachatrainer/internal/batch"
)

// ──────── Payloads ────────

type ExtractPayload struct {
	VideoPath string `json:"video_path"`
	OutputDir string `json:"output_dir"`
}

type RegeneratePayload struct {
	VideosDir  string `json:"videos_dir"`
	OutputDir  string `json:"output_dir"`
	BackupDir  string `json:"backup_dir"`
	SkipBackup bool   `json:"skip_backup,omitempty"`
}

// ──────── Register all handlers ────────

func RegisterHandlers(q *Queue, proc *batch.Processor) {
	q.RegisterHandler(TaskExtractPoses, NewExtractHandler(proc))
	q.RegisterHandler(TaskRegenerate, NewRegenerateHandler(proc))
}
