package run

import (
	"testing"

	"github.com/KCblama19/Liberia-Pidgin-transcription-app/internal/domain"
)

// TestManagerLifecycle verifies normal progression to done state.
func TestManagerLifecycle(t *testing.T) {
	m := NewManager()
	if m.IsActive() {
		t.Fatal("new manager should have no active run")
	}

	if err := m.Start("run-1", "/media/a.wav"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if m.Current().Status != domain.RunStatusUploaded {
		t.Fatalf("status = %s, want UPLOADED", m.Current().Status)
	}

	if err := m.Transition(domain.RunStatusProcessing); err != nil {
		t.Fatalf("transition to PROCESSING: %v", err)
	}
	if !m.IsActive() {
		t.Fatal("expected active while processing")
	}

	if err := m.Transition(domain.RunStatusDone); err != nil {
		t.Fatalf("transition to DONE: %v", err)
	}
	if m.Current().Status != domain.RunStatusDone {
		t.Fatalf("status = %s, want DONE", m.Current().Status)
	}
}

// TestManagerRejectsInvalidTransition checks state machine constraints.
func TestManagerRejectsInvalidTransition(t *testing.T) {
	m := NewManager()
	if err := m.Start("run-1", "/media/a.wav"); err != nil {
		t.Fatalf("start: %v", err)
	}

	if err := m.Transition(domain.RunStatusDone); err == nil {
		t.Fatal("expected invalid transition error for UPLOADED -> DONE")
	}
}

// TestManagerRetryResetsProgress checks ERROR re-enters PROCESSING at zero.
func TestManagerRetryResetsProgress(t *testing.T) {
	m := NewManager()
	if err := m.Start("run-1", "/media/a.wav"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := m.Transition(domain.RunStatusProcessing); err != nil {
		t.Fatalf("transition: %v", err)
	}
	if err := m.Transition(domain.RunStatusError); err != nil {
		t.Fatalf("transition: %v", err)
	}

	if err := m.Transition(domain.RunStatusProcessing); err != nil {
		t.Fatalf("retry transition: %v", err)
	}
	current := m.Current()
	if current.Progress != 0 {
		t.Fatalf("progress = %d, want 0 after retry", current.Progress)
	}
	if current.ErrorMessage != "" {
		t.Fatalf("error message = %q, want cleared", current.ErrorMessage)
	}
}

// TestManagerRejectsConcurrentRuns checks single-active-run enforcement.
func TestManagerRejectsConcurrentRuns(t *testing.T) {
	m := NewManager()
	if err := m.Start("run-1", "/media/a.wav"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := m.Transition(domain.RunStatusProcessing); err != nil {
		t.Fatalf("transition: %v", err)
	}

	if err := m.Start("run-2", "/media/b.wav"); err != ErrRunAlreadyActive {
		t.Fatalf("second start error = %v, want %v", err, ErrRunAlreadyActive)
	}
}

// TestManagerCancelledIsRetryable checks CANCELLED -> PROCESSING.
func TestManagerCancelledIsRetryable(t *testing.T) {
	m := NewManager()
	if err := m.Start("run-1", "/media/a.wav"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := m.Transition(domain.RunStatusProcessing); err != nil {
		t.Fatalf("transition: %v", err)
	}
	if err := m.Transition(domain.RunStatusCancelled); err != nil {
		t.Fatalf("transition: %v", err)
	}

	if err := m.Transition(domain.RunStatusProcessing); err != nil {
		t.Fatalf("retry after cancel: %v", err)
	}
}
