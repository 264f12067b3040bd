package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/KCblama19/Liberia-Pidgin-transcription-app/internal/audio"
	"github.com/KCblama19/Liberia-Pidgin-transcription-app/internal/domain"
	"github.com/KCblama19/Liberia-Pidgin-transcription-app/internal/interview"
)

const (
	beamSizeFast     = 1
	beamSizeAccurate = 5

	// minHypothesisLength drops zero/near-empty hypotheses as noise.
	minHypothesisLength = 2
)

// Transcriber converts one audio chunk into raw segments.
type Transcriber interface {
	Transcribe(ctx context.Context, chunkPath string) ([]domain.RawSegment, error)
}

// EngineError is a transcription failure propagated from the engine call.
type EngineError struct {
	Path       string
	Message    string
	CommandLog audio.CommandLog
	Err        error
}

// Error formats the engine failure with the tool diagnostic output.
func (e *EngineError) Error() string {
	if diag := e.CommandLog.Diagnostic(); diag != "" {
		return fmt.Sprintf("%s: %s: %s", e.Message, e.Path, diag)
	}
	return fmt.Sprintf("%s: %s", e.Message, e.Path)
}

// Unwrap exposes the underlying error for errors.Is / errors.As.
func (e *EngineError) Unwrap() error {
	return e.Err
}

// WhisperTranscriber runs whisper.cpp over one chunk at a time. English
// decoding is always forced; the model is assumed safe for concurrent
// invocations per its own contract. FastMode trades beam width for speed.
type WhisperTranscriber struct {
	whisperPath string
	modelPath   string
	FastMode    bool

	runner   audio.CommandRunner
	readFile func(name string) ([]byte, error)
	remove   func(name string) error
}

// NewWhisperTranscriber constructs the production whisper engine wrapper.
func NewWhisperTranscriber(whisperPath, modelPath string, fastMode bool) *WhisperTranscriber {
	return &WhisperTranscriber{
		whisperPath: whisperPath,
		modelPath:   modelPath,
		FastMode:    fastMode,
		runner:      &audio.ExecRunner{},
		readFile:    os.ReadFile,
		remove:      os.Remove,
	}
}

// NewWhisperTranscriberForTests constructs a wrapper with injectable deps.
func NewWhisperTranscriberForTests(whisperPath, modelPath string, fastMode bool, runner audio.CommandRunner, readFile func(string) ([]byte, error)) *WhisperTranscriber {
	return &WhisperTranscriber{
		whisperPath: whisperPath,
		modelPath:   modelPath,
		FastMode:    fastMode,
		runner:      runner,
		readFile:    readFile,
		remove:      func(string) error { return nil },
	}
}

// whisperOutput mirrors the JSON transcript whisper.cpp writes with -oj.
type whisperOutput struct {
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

// Transcribe runs the engine on one chunk and returns filtered raw segments
// tagged with provisional speaker and type.
func (w *WhisperTranscriber) Transcribe(ctx context.Context, chunkPath string) ([]domain.RawSegment, error) {
	outBase := strings.TrimSuffix(chunkPath, filepath.Ext(chunkPath))

	args := buildWhisperArgs(w.modelPath, chunkPath, outBase, w.FastMode)
	result, runErr := w.runner.Run(ctx, w.whisperPath, args...)
	log := audio.CommandLog{
		Command:  w.whisperPath,
		Args:     args,
		ExitCode: result.ExitCode,
		Stdout:   result.Stdout,
		Stderr:   result.Stderr,
	}
	if runErr != nil {
		return nil, &EngineError{
			Path:       chunkPath,
			Message:    "whisper transcription failed",
			CommandLog: log,
			Err:        runErr,
		}
	}

	jsonPath := outBase + ".json"
	data, err := w.readFile(jsonPath)
	if err != nil {
		return nil, &EngineError{
			Path:       chunkPath,
			Message:    "whisper completed but transcript JSON is missing",
			CommandLog: log,
			Err:        err,
		}
	}
	defer func() { _ = w.remove(jsonPath) }()

	var parsed whisperOutput
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, &EngineError{
			Path:       chunkPath,
			Message:    "whisper transcript JSON is malformed",
			CommandLog: log,
			Err:        err,
		}
	}

	segments := make([]domain.RawSegment, 0, len(parsed.Transcription))
	for _, entry := range parsed.Transcription {
		text := strings.TrimSpace(entry.Text)
		if len(text) < minHypothesisLength {
			continue
		}

		segments = append(segments, domain.RawSegment{
			Start:   float64(entry.Offsets.From) / 1000,
			End:     float64(entry.Offsets.To) / 1000,
			Text:    text,
			Speaker: interview.DetectSpeaker(text),
			Type:    interview.ClassifyType(text),
		})
	}

	return segments, nil
}

// buildWhisperArgs builds whisper.cpp args for forced-English JSON output.
func buildWhisperArgs(modelPath, audioPath, outBase string, fastMode bool) []string {
	beamSize := beamSizeAccurate
	if fastMode {
		beamSize = beamSizeFast
	}

	return []string{
		"-m", modelPath,
		"-f", audioPath,
		"-of", outBase,
		"-oj",
		"-np",
		"-l", "en",
		"-bs", strconv.Itoa(beamSize),
	}
}
