package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Backend != "yolov8s-pose" {
		t.Errorf("Backend = %q, want yolov8s-pose", cfg.Backend)
	}
	if cfg.MinConfidence != 0.3 {
		t.Errorf("MinConfidence = %v, want 0.3", cfg.MinConfidence)
	}
	if cfg.ProgressEvery != 10 {
		t.Errorf("ProgressEvery = %d, want 10", cfg.ProgressEvery)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("POSE_BACKEND", "movenet-thunder")
	t.Setenv("MIN_CONFIDENCE", "0.5")
	t.Setenv("NULLABLE_ANGLES", "true")
	t.Setenv("PROGRESS_EVERY", "25")

	cfg := Load()
	if cfg.Backend != "movenet-thunder" {
		t.Errorf("Backend = %q", cfg.Backend)
	}
	if cfg.MinConfidence != 0.5 {
		t.Errorf("MinConfidence = %v", cfg.MinConfidence)
	}
	if !cfg.NullableAngles {
		t.Error("NullableAngles should be true")
	}
	if cfg.ProgressEvery != 25 {
		t.Errorf("ProgressEvery = %d", cfg.ProgressEvery)
	}
}

func TestLoadIgnoresGarbage(t *testing.T) {
	t.Setenv("MIN_CONFIDENCE", "very")
	t.Setenv("PROGRESS_EVERY", "often")
	t.Setenv("NULLABLE_ANGLES", "maybe")

	cfg := Load()
	if cfg.MinConfidence != 0.3 || cfg.ProgressEvery != 10 || cfg.NullableAngles {
		t.Errorf("garbage env values should fall back to defaults: %+v", cfg)
	}
}
