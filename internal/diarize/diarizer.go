package diarize

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/KCblama19/Liberia-Pidgin-transcription-app/internal/audio"
	"github.com/KCblama19/Liberia-Pidgin-transcription-app/internal/domain"
)

// Engine is the external speaker-diarization boundary. Implementations
// return chunk-relative intervals for one audio file.
type Engine interface {
	Diarize(ctx context.Context, audioPath string) ([]domain.DiarizationInterval, error)
}

// DurationProber reports the duration of an audio file in seconds.
type DurationProber interface {
	Duration(ctx context.Context, audioPath string) (float64, error)
}

// Chunked drives an external diarization engine over a long recording in
// overlapping windows, shifts each window's intervals into run-global time,
// and merges same-speaker spans across window boundaries.
type Chunked struct {
	engine Engine
	prober DurationProber

	ffmpegPath     string
	runner         audio.CommandRunner
	remove         func(name string) error
	ChunkSeconds   float64
	OverlapSeconds float64
}

// NewChunked constructs a chunked diarization driver with real OS deps.
func NewChunked(engine Engine, prober DurationProber, ffmpegPath string) *Chunked {
	return &Chunked{
		engine:         engine,
		prober:         prober,
		ffmpegPath:     ffmpegPath,
		runner:         &audio.ExecRunner{},
		remove:         os.Remove,
		ChunkSeconds:   audio.DefaultChunkSeconds,
		OverlapSeconds: audio.DefaultOverlapSeconds,
	}
}

// NewChunkedForTests constructs a driver with injectable dependencies.
func NewChunkedForTests(engine Engine, prober DurationProber, ffmpegPath string, runner audio.CommandRunner, remove func(string) error) *Chunked {
	return &Chunked{
		engine:         engine,
		prober:         prober,
		ffmpegPath:     ffmpegPath,
		runner:         runner,
		remove:         remove,
		ChunkSeconds:   audio.DefaultChunkSeconds,
		OverlapSeconds: audio.DefaultOverlapSeconds,
	}
}

// Run diarizes the recording and returns merged run-global speaker spans.
// Short recordings go to the engine in one call; long ones are processed in
// overlapping windows whose temporary files are removed as soon as the
// engine returns.
func (c *Chunked) Run(ctx context.Context, audioPath string) ([]domain.DiarizationInterval, error) {
	duration, err := c.prober.Duration(ctx, audioPath)
	if err != nil {
		return nil, err
	}

	if duration <= c.ChunkSeconds {
		intervals, err := c.engine.Diarize(ctx, audioPath)
		if err != nil {
			return nil, err
		}
		return Merge(intervals), nil
	}

	totalChunks := int(math.Ceil(duration / c.ChunkSeconds))
	intervals := make([]domain.DiarizationInterval, 0)
	for i := 0; i < totalChunks; i++ {
		start := math.Max(0, float64(i)*c.ChunkSeconds-c.OverlapSeconds)
		end := math.Min(duration, float64(i+1)*c.ChunkSeconds+c.OverlapSeconds)

		windowPath := windowFileName(audioPath, i)
		if err := c.extractWindow(ctx, audioPath, windowPath, start, end); err != nil {
			return nil, err
		}

		windowIntervals, err := c.engine.Diarize(ctx, windowPath)
		_ = c.remove(windowPath)
		if err != nil {
			return nil, err
		}

		for _, interval := range windowIntervals {
			intervals = append(intervals, domain.DiarizationInterval{
				Start:   interval.Start + start,
				End:     interval.End + start,
				Speaker: interval.Speaker,
			})
		}
	}

	return Merge(intervals), nil
}

// extractWindow writes one diarization window via ffmpeg.
func (c *Chunked) extractWindow(ctx context.Context, inputPath, outPath string, start, end float64) error {
	args := []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-i", inputPath,
		"-ss", formatSeconds(start),
		"-to", formatSeconds(end),
		outPath,
	}

	result, runErr := c.runner.Run(ctx, c.ffmpegPath, args...)
	if runErr != nil {
		return &audio.ChunkExtractionError{
			CommandLog: audio.CommandLog{
				Command:  c.ffmpegPath,
				Args:     args,
				ExitCode: result.ExitCode,
				Stdout:   result.Stdout,
				Stderr:   result.Stderr,
			},
			Err: runErr,
		}
	}
	return nil
}

// windowFileName names the temporary file for one diarization window.
func windowFileName(audioPath string, index int) string {
	base := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))
	return fmt.Sprintf("%s_diarize_chunk_%d.wav", base, index)
}

// formatSeconds renders a seconds value without trailing zero noise.
func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
