package config

import (
	"os"
	"strings"

	"github.com/KCblama19/Liberia-Pidgin-transcription-app/internal/domain"
)

// Environment variable names recognized by ApplyEnv. The API key is
// environment-only; it is never written to the settings file.
const (
	EnvLLMBaseURL  = "LLM_API_URL"
	EnvLLMAPIKey   = "LLM_API_KEY"
	EnvLLMModel    = "LLM_MODEL"
	EnvFFmpegPath  = "FFMPEG_PATH"
	EnvFFprobePath = "FFPROBE_PATH"
	EnvWhisperPath = "WHISPER_PATH"
	EnvModelPath   = "WHISPER_MODEL_PATH"
)

// ApplyEnv overlays environment variables onto loaded settings.
// Callers load a .env file first when one exists.
func ApplyEnv(cfg domain.Settings) domain.Settings {
	overlay(&cfg.LLMBaseURL, EnvLLMBaseURL)
	overlay(&cfg.LLMAPIKey, EnvLLMAPIKey)
	overlay(&cfg.LLMModel, EnvLLMModel)
	overlay(&cfg.FFmpegPath, EnvFFmpegPath)
	overlay(&cfg.FFprobePath, EnvFFprobePath)
	overlay(&cfg.WhisperPath, EnvWhisperPath)
	overlay(&cfg.ModelPath, EnvModelPath)
	return cfg
}

func overlay(target *string, key string) {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		*target = value
	}
}
