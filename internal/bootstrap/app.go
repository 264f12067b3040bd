// Package bootstrap wires configuration, diagnostics, run tracking, and
// the transcription pipeline into one headless application object.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/KCblama19/Liberia-Pidgin-transcription-app/internal/audio"
	"github.com/KCblama19/Liberia-Pidgin-transcription-app/internal/config"
	"github.com/KCblama19/Liberia-Pidgin-transcription-app/internal/diagnostics"
	"github.com/KCblama19/Liberia-Pidgin-transcription-app/internal/domain"
	"github.com/KCblama19/Liberia-Pidgin-transcription-app/internal/llm"
	"github.com/KCblama19/Liberia-Pidgin-transcription-app/internal/normalize"
	"github.com/KCblama19/Liberia-Pidgin-transcription-app/internal/pipeline"
	"github.com/KCblama19/Liberia-Pidgin-transcription-app/internal/run"
	"github.com/KCblama19/Liberia-Pidgin-transcription-app/internal/transcribe"
)

// App wires configuration, run state, and the pipeline together.
type App struct {
	Settings    domain.Settings
	Store       config.Store
	Runs        run.Store
	Manager     *run.Manager
	Registry    *run.Registry
	Events      *run.EventBus
	Diagnostics domain.DiagnosticReport

	checker   *diagnostics.Checker
	processor processor

	mu          sync.Mutex
	activeRunID string
	cancel      context.CancelFunc
	done        chan struct{}
}

// processor isolates the pipeline behind an interface for tests.
type processor interface {
	Process(ctx context.Context, runID string, token *run.Token) error
}

// New builds the application with persisted settings and startup diagnostics.
func New() (*App, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve user home: %w", err)
	}

	store := config.NewJSONStore(filepath.Join(homeDir, ".pidgin-transcriber", "settings.json"))
	settings, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	settings = config.ApplyEnv(settings)

	if err := os.MkdirAll(settings.WorkDir, 0o755); err != nil {
		return nil, fmt.Errorf("prepare work directory: %w", err)
	}

	checker := diagnostics.NewChecker()
	events := run.NewEventBus(1000)
	runs := run.NewJSONStore(filepath.Join(settings.WorkDir, "runs"))

	app := &App{
		Settings:    settings,
		Store:       store,
		Runs:        runs,
		Manager:     run.NewManager(),
		Registry:    run.NewRegistry(),
		Events:      events,
		Diagnostics: checker.Run(settings),
		checker:     checker,
	}
	app.processor = buildPipeline(settings, runs, events)
	return app, nil
}

// buildPipeline assembles the orchestrator from current settings.
func buildPipeline(settings domain.Settings, runs run.Store, events *run.EventBus) *pipeline.Orchestrator {
	segmenter := audio.NewSegmenter(settings.FFmpegPath, settings.FFprobePath)
	if settings.ChunkSeconds > 0 {
		segmenter.ChunkSeconds = settings.ChunkSeconds
	}
	if settings.OverlapSeconds >= 0 {
		segmenter.OverlapSeconds = settings.OverlapSeconds
	}

	transcriber := transcribe.NewWhisperTranscriber(settings.WhisperPath, settings.ModelPath, settings.FastMode)
	coordinator := transcribe.NewCoordinator(settings.MaxWorkers)

	return pipeline.New(segmenter, transcriber, coordinator, runs, events, normalize.Text)
}

// GetDiagnostics returns the latest cached diagnostics report.
func (a *App) GetDiagnostics() domain.DiagnosticReport {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Diagnostics
}

// RefreshDiagnostics reloads settings and reruns dependency checks.
func (a *App) RefreshDiagnostics() (domain.DiagnosticReport, error) {
	settings, err := a.Store.Load()
	if err != nil {
		return domain.DiagnosticReport{}, fmt.Errorf("load settings: %w", err)
	}
	settings = config.ApplyEnv(settings)

	a.mu.Lock()
	a.Settings = settings
	a.Diagnostics = a.checker.Run(settings)
	report := a.Diagnostics
	a.mu.Unlock()

	return report, nil
}

// GetSettings loads and returns the latest persisted settings.
func (a *App) GetSettings() (domain.Settings, error) {
	settings, err := a.Store.Load()
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	settings = config.ApplyEnv(settings)

	a.mu.Lock()
	a.Settings = settings
	a.mu.Unlock()

	return settings, nil
}

// SaveSettings normalizes and persists settings, then refreshes
// diagnostics and rebuilds the pipeline with the new values.
func (a *App) SaveSettings(settings domain.Settings) (domain.Settings, error) {
	normalized := normalizeSettings(settings)
	if err := a.Store.Save(normalized); err != nil {
		return domain.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	normalized = config.ApplyEnv(normalized)

	a.mu.Lock()
	a.Settings = normalized
	a.Diagnostics = a.checker.Run(normalized)
	a.processor = buildPipeline(normalized, a.Runs, a.Events)
	a.mu.Unlock()

	return normalized, nil
}

// StartRun registers an uploaded audio file and processes it asynchronously.
// Only one run may be active at a time.
func (a *App) StartRun(audioPath string) (domain.RunState, error) {
	audioPath = strings.TrimSpace(audioPath)
	if audioPath == "" {
		return domain.RunState{}, errors.New("audio path is empty")
	}
	if _, err := os.Stat(audioPath); err != nil {
		return domain.RunState{}, fmt.Errorf("resolve audio file: %w", err)
	}

	runID := uuid.NewString()
	if err := a.Manager.Start(runID, audioPath); err != nil {
		return domain.RunState{}, err
	}

	if err := a.Runs.Create(a.Manager.Current()); err != nil {
		return domain.RunState{}, fmt.Errorf("create run record: %w", err)
	}

	if err := a.Manager.Transition(domain.RunStatusProcessing); err != nil {
		return domain.RunState{}, err
	}
	if err := a.Runs.SaveStatus(runID, domain.RunStatusProcessing, ""); err != nil {
		return domain.RunState{}, fmt.Errorf("update run record: %w", err)
	}
	a.Events.Publish(run.Event{RunID: runID, Type: run.EventTypeStatus, Status: domain.RunStatusProcessing})

	ctx, cancel := context.WithCancel(context.Background())
	token := a.Registry.Token(runID)

	a.mu.Lock()
	a.activeRunID = runID
	a.cancel = cancel
	a.done = make(chan struct{})
	processor := a.processor
	done := a.done
	a.mu.Unlock()

	go func() {
		defer close(done)
		defer cancel()
		a.finishRun(runID, processor.Process(ctx, runID, token))
	}()

	return a.Manager.Current(), nil
}

// finishRun maps the pipeline outcome onto run state and releases handles.
func (a *App) finishRun(runID string, err error) {
	switch {
	case err == nil:
		_ = a.Manager.Transition(domain.RunStatusDone)
	case errors.Is(err, pipeline.ErrCancelled), errors.Is(err, context.Canceled):
		// The orchestrator already persisted CANCELLED.
		_ = a.Manager.Transition(domain.RunStatusCancelled)
	case a.Registry.Token(runID).Cancelled():
		// The cancel landed while a tool call was dying; record the
		// cancellation, not the error the kill induced.
		_ = a.Manager.Transition(domain.RunStatusCancelled)
		_ = a.Runs.SaveStatus(runID, domain.RunStatusCancelled, "")
		a.Events.Publish(run.Event{
			RunID:  runID,
			Type:   run.EventTypeStatus,
			Status: domain.RunStatusCancelled,
		})
	default:
		_ = a.Manager.Transition(domain.RunStatusError)
		_ = a.Runs.SaveStatus(runID, domain.RunStatusError, err.Error())
		a.Events.Publish(run.Event{
			RunID:   runID,
			Type:    run.EventTypeError,
			Status:  domain.RunStatusError,
			Message: err.Error(),
		})
		a.Events.Publish(run.Event{
			RunID:  runID,
			Type:   run.EventTypeStatus,
			Status: domain.RunStatusError,
		})
	}

	a.Registry.Release(runID)

	a.mu.Lock()
	if a.activeRunID == runID {
		a.activeRunID = ""
		a.cancel = nil
	}
	a.mu.Unlock()
}

// CancelRun requests cooperative cancellation of the active run.
func (a *App) CancelRun() error {
	a.mu.Lock()
	runID := a.activeRunID
	cancel := a.cancel
	a.mu.Unlock()

	if runID == "" || cancel == nil {
		return run.ErrNoActiveRun
	}

	a.Registry.Cancel(runID)
	cancel()
	return nil
}

// Wait blocks until the active run's goroutine has finished.
func (a *App) Wait() {
	a.mu.Lock()
	done := a.done
	a.mu.Unlock()
	if done != nil {
		<-done
	}
}

// CurrentRun returns in-memory state for the most recent run.
func (a *App) CurrentRun() domain.RunState {
	return a.Manager.Current()
}

// Run loads the persisted record for one run.
func (a *App) Run(runID string) (domain.RunState, error) {
	return a.Runs.Load(runID)
}

// RunEvents returns all events with sequence greater than sinceSeq.
func (a *App) RunEvents(sinceSeq int64) []run.Event {
	return a.Events.Since(sinceSeq)
}

// NormalizeText applies the rule-based Kolokwa normalizer to free text.
func (a *App) NormalizeText(text string) (string, []normalize.RuleReport, float64) {
	normalized, confidence, reports := normalize.DefaultEngine().Normalize(text)
	return normalized, reports, confidence
}

// LLMNormalize converts one segment to standard English through the
// configured chat-completions endpoint. Invoked only on user action.
func (a *App) LLMNormalize(ctx context.Context, text string) (string, error) {
	a.mu.Lock()
	settings := a.Settings
	a.mu.Unlock()

	client := llm.NewNormalizer(settings.LLMBaseURL, settings.LLMAPIKey, settings.LLMModel)
	return client.Normalize(ctx, text)
}

// normalizeSettings trims user-entered paths and applies numeric floors.
func normalizeSettings(settings domain.Settings) domain.Settings {
	settings.FFmpegPath = strings.TrimSpace(settings.FFmpegPath)
	settings.FFprobePath = strings.TrimSpace(settings.FFprobePath)
	settings.WhisperPath = strings.TrimSpace(settings.WhisperPath)
	settings.ModelPath = strings.TrimSpace(settings.ModelPath)
	settings.WorkDir = strings.TrimSpace(settings.WorkDir)
	settings.LLMBaseURL = strings.TrimSpace(settings.LLMBaseURL)
	settings.LLMModel = strings.TrimSpace(settings.LLMModel)

	defaults := config.DefaultSettings()
	if settings.ChunkSeconds <= 0 {
		settings.ChunkSeconds = defaults.ChunkSeconds
	}
	if settings.OverlapSeconds < 0 {
		settings.OverlapSeconds = defaults.OverlapSeconds
	}
	if settings.MaxWorkers <= 0 {
		settings.MaxWorkers = defaults.MaxWorkers
	}
	return settings
}
