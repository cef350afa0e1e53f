package config

import (
	"os"
	"strconv"
)

type Config struct {
	VideosDir      string
	PosesDir       string
	BackupDir      string
	ModelDir       string
	Backend        string
	ModelPath      string
	ModelBaseURL   string
	MinConfidence  float64
	ProgressEvery  int
	NullableAngles bool
	FFmpegPath     string
	FFprobePath    string
	RedisAddr      string
}

func Load() *Config {
	return &Config{
		VideosDir:      env("VIDEOS_DIR", "videos"),
		PosesDir:       env("POSES_DIR", "poses"),
		BackupDir:      env("BACKUP_DIR", "backups"),
		ModelDir:       env("MODEL_DIR", "models"),
		Backend:        env("POSE_BACKEND", "yolov8s-pose"),
		ModelPath:      env("MODEL_PATH", ""),
		ModelBaseURL:   env("MODEL_BASE_URL", ""),
		MinConfidence:  envFloat("MIN_CONFIDENCE", 0.3),
		ProgressEvery:  envInt("PROGRESS_EVERY", 10),
		NullableAngles: envBool("NULLABLE_ANGLES", false),
		FFmpegPath:     env("FFMPEG_PATH", "ffmpeg"),
		FFprobePath:    env("FFPROBE_PATH", "ffprobe"),
		RedisAddr:      env("REDIS_ADDR", "localhost:6379"),
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
