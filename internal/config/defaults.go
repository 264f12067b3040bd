package config

import (
	"os"
	"path/filepath"

	"github.com/KCblama19/Liberia-Pidgin-transcription-app/internal/domain"
)

// DefaultSettings returns baseline local configuration for first launch.
// Binary names resolve through PATH; the diagnostics checker reports
// anything missing before a run starts.
func DefaultSettings() domain.Settings {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	appDir := filepath.Join(homeDir, ".pidgin-transcriber")

	return domain.Settings{
		FFmpegPath:     "ffmpeg",
		FFprobePath:    "ffprobe",
		WhisperPath:    "whisper-cli",
		ModelPath:      filepath.Join(appDir, "models", "ggml-base.en.bin"),
		WorkDir:        filepath.Join(appDir, "work"),
		ChunkSeconds:   600,
		OverlapSeconds: 2,
		MaxWorkers:     2,
		FastMode:       false,
		LLMModel:       "gpt-4o-mini",
	}
}
