package run

import (
	"errors"
	"fmt"
	"sync"

	"github.com/KCblama19/Liberia-Pidgin-transcription-app/internal/domain"
)

// ErrRunAlreadyActive is returned when starting a second concurrent run.
var ErrRunAlreadyActive = errors.New("run already active")

// ErrNoActiveRun is returned when cancel is requested for idle state.
var ErrNoActiveRun = errors.New("no active run")

// Manager tracks the single allowed active run and its status transitions.
// Runs move UPLOADED -> PROCESSING -> {DONE, CANCELLED, ERROR}; terminal
// ERROR and CANCELLED states may re-enter PROCESSING on manual retry.
type Manager struct {
	mu      sync.RWMutex
	current domain.RunState
}

// NewManager creates a manager with no active run.
func NewManager() *Manager {
	return &Manager{}
}

// Start registers a new run in UPLOADED state.
func (m *Manager) Start(runID, audioPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current.Status == domain.RunStatusProcessing {
		return ErrRunAlreadyActive
	}

	m.current = domain.RunState{
		ID:           runID,
		AudioPath:    audioPath,
		Status:       domain.RunStatusUploaded,
		CurrentStage: "FILE_RECEIVED",
	}
	return nil
}

// Transition validates and applies a status transition for the current run.
// Re-entering PROCESSING from a retryable terminal state resets progress.
func (m *Manager) Transition(status domain.RunStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current.ID == "" {
		return fmt.Errorf("cannot transition without an active run")
	}
	if status == m.current.Status {
		return nil
	}
	if !isValidTransition(m.current.Status, status) {
		return fmt.Errorf("invalid transition: %s -> %s", m.current.Status, status)
	}

	if status == domain.RunStatusProcessing {
		m.current.Progress = 0
		m.current.ErrorMessage = ""
	}
	m.current.Status = status
	return nil
}

// Current returns a snapshot of the current run.
func (m *Manager) Current() domain.RunState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// IsActive reports whether a run is currently processing.
func (m *Manager) IsActive() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Status == domain.RunStatusProcessing
}

// isValidTransition enforces the allowed run state machine edges.
func isValidTransition(from, to domain.RunStatus) bool {
	switch from {
	case domain.RunStatusUploaded:
		return to == domain.RunStatusProcessing || to == domain.RunStatusCancelled
	case domain.RunStatusProcessing:
		return to == domain.RunStatusDone || to == domain.RunStatusCancelled || to == domain.RunStatusError
	case domain.RunStatusError, domain.RunStatusCancelled:
		return to == domain.RunStatusProcessing
	default:
		return false
	}
}
