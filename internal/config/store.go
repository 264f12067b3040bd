package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/KCblama19/Liberia-Pidgin-transcription-app/internal/domain"
)

// Store defines persistence operations for app settings.
type Store interface {
	Load() (domain.Settings, error)
	Save(domain.Settings) error
}

// JSONStore persists settings in a single JSON file on disk.
type JSONStore struct {
	path string
}

// NewJSONStore creates a JSON-backed settings store.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Load reads settings from disk or returns defaults when missing.
func (s *JSONStore) Load() (domain.Settings, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultSettings(), nil
		}

		return domain.Settings{}, err
	}

	var cfg domain.Settings
	if err := json.Unmarshal(data, &cfg); err != nil {
		return domain.Settings{}, err
	}

	return withFallbacks(cfg), nil
}

// withFallbacks fills zero-valued fields from defaults so settings files
// written by older versions keep working.
func withFallbacks(cfg domain.Settings) domain.Settings {
	defaults := DefaultSettings()
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = defaults.FFmpegPath
	}
	if cfg.FFprobePath == "" {
		cfg.FFprobePath = defaults.FFprobePath
	}
	if cfg.WhisperPath == "" {
		cfg.WhisperPath = defaults.WhisperPath
	}
	if cfg.ModelPath == "" {
		cfg.ModelPath = defaults.ModelPath
	}
	if cfg.WorkDir == "" {
		cfg.WorkDir = defaults.WorkDir
	}
	if cfg.ChunkSeconds <= 0 {
		cfg.ChunkSeconds = defaults.ChunkSeconds
	}
	if cfg.OverlapSeconds < 0 {
		cfg.OverlapSeconds = defaults.OverlapSeconds
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = defaults.MaxWorkers
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = defaults.LLMModel
	}
	return cfg
}

// Save writes settings as indented JSON and creates parent directories.
func (s *JSONStore) Save(cfg domain.Settings) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0o644)
}
