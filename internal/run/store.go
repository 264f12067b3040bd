package run

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/KCblama19/Liberia-Pidgin-transcription-app/internal/domain"
)

// ErrRunNotFound is returned when loading or updating an unknown run.
var ErrRunNotFound = errors.New("run not found")

// Store defines persistence operations for run state. Each mutating call
// updates its fields atomically with respect to concurrent readers.
type Store interface {
	Create(state domain.RunState) error
	Load(runID string) (domain.RunState, error)
	SaveSegments(runID string, segments []domain.StructuredSegment, progress int) error
	SaveStatus(runID string, status domain.RunStatus, errorMessage string) error
	SaveStage(runID string, stage string) error
}

// JSONStore persists each run as one JSON file in a directory. Updates are
// load-modify-rename under a mutex, so every call lands atomically.
type JSONStore struct {
	dir string
	mu  sync.Mutex
}

// NewJSONStore creates a JSON-backed run store rooted at dir.
func NewJSONStore(dir string) *JSONStore {
	return &JSONStore{dir: dir}
}

// Create writes the initial state record for a new run.
func (s *JSONStore) Create(state domain.RunState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create run store directory: %w", err)
	}
	return s.write(state)
}

// Load reads the state record for one run.
func (s *JSONStore) Load(runID string) (domain.RunState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(runID)
}

// SaveSegments persists the accumulated segments and progress percentage.
func (s *JSONStore) SaveSegments(runID string, segments []domain.StructuredSegment, progress int) error {
	return s.update(runID, func(state *domain.RunState) {
		state.Segments = segments
		state.Progress = progress
	})
}

// SaveStatus persists a status transition with an optional error message.
func (s *JSONStore) SaveStatus(runID string, status domain.RunStatus, errorMessage string) error {
	return s.update(runID, func(state *domain.RunState) {
		state.Status = status
		state.ErrorMessage = errorMessage
		if status == domain.RunStatusProcessing {
			state.Progress = 0
		}
	})
}

// SaveStage persists the human-readable current pipeline stage.
func (s *JSONStore) SaveStage(runID string, stage string) error {
	return s.update(runID, func(state *domain.RunState) {
		state.CurrentStage = stage
	})
}

// update applies one mutation to a run record under the store lock.
func (s *JSONStore) update(runID string, mutate func(*domain.RunState)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.read(runID)
	if err != nil {
		return err
	}
	mutate(&state)
	return s.write(state)
}

// read loads one run record from disk.
func (s *JSONStore) read(runID string) (domain.RunState, error) {
	data, err := os.ReadFile(s.path(runID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.RunState{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return domain.RunState{}, err
	}

	var state domain.RunState
	if err := json.Unmarshal(data, &state); err != nil {
		return domain.RunState{}, fmt.Errorf("decode run %s: %w", runID, err)
	}
	return state, nil
}

// write persists one run record via temp file and rename.
func (s *JSONStore) write(state domain.RunState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	target := s.path(state.ID)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, target)
}

// path names the record file for one run.
func (s *JSONStore) path(runID string) string {
	return filepath.Join(s.dir, runID+".json")
}
