package audio

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/KCblama19/Liberia-Pidgin-transcription-app/internal/domain"
)

const (
	// DefaultChunkSeconds bounds one transcription unit of work.
	DefaultChunkSeconds = 600
	// DefaultOverlapSeconds keeps cross-boundary utterances intact. Overlap
	// is not trimmed downstream; consumers rely on time ordering instead.
	DefaultOverlapSeconds = 2
)

// Segmenter canonicalizes source audio and splits it into bounded-length
// overlapping chunks ready for the transcription engine.
type Segmenter struct {
	ffmpegPath  string
	ffprobePath string
	runner      CommandRunner

	ChunkSeconds   float64
	OverlapSeconds float64

	mkdirAll func(path string, perm os.FileMode) error
}

// NewSegmenter constructs a segmenter using real OS dependencies.
func NewSegmenter(ffmpegPath, ffprobePath string) *Segmenter {
	return &Segmenter{
		ffmpegPath:     ffmpegPath,
		ffprobePath:    ffprobePath,
		runner:         &ExecRunner{},
		ChunkSeconds:   DefaultChunkSeconds,
		OverlapSeconds: DefaultOverlapSeconds,
		mkdirAll:       os.MkdirAll,
	}
}

// NewSegmenterForTests constructs a segmenter with injectable dependencies.
func NewSegmenterForTests(ffmpegPath, ffprobePath string, runner CommandRunner, mkdirAll func(string, os.FileMode) error) *Segmenter {
	return &Segmenter{
		ffmpegPath:     ffmpegPath,
		ffprobePath:    ffprobePath,
		runner:         runner,
		ChunkSeconds:   DefaultChunkSeconds,
		OverlapSeconds: DefaultOverlapSeconds,
		mkdirAll:       mkdirAll,
	}
}

// Segment converts the source to mono 16 kHz 16-bit PCM, probes its
// duration, and returns ordered chunks. Sources no longer than one chunk
// come back as a single chunk referencing the canonicalized file. The last
// chunk's window may extend past end of file; ffmpeg truncates it naturally.
func (s *Segmenter) Segment(ctx context.Context, audioPath string) ([]domain.AudioChunk, error) {
	normalizedPath, err := s.normalize(ctx, audioPath)
	if err != nil {
		return nil, err
	}

	duration, err := s.Duration(ctx, normalizedPath)
	if err != nil {
		return nil, err
	}

	if duration <= s.ChunkSeconds {
		return []domain.AudioChunk{{Index: 0, Path: normalizedPath, StartOffset: 0}}, nil
	}

	outputDir := strings.TrimSuffix(normalizedPath, filepath.Ext(normalizedPath)) + "_chunks"
	if err := s.mkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create chunk directory: %w", err)
	}

	totalChunks := int(math.Ceil(duration / s.ChunkSeconds))
	chunks := make([]domain.AudioChunk, 0, totalChunks)
	for i := 0; i < totalChunks; i++ {
		start := math.Max(0, float64(i)*s.ChunkSeconds-s.OverlapSeconds)
		outFile := filepath.Join(outputDir, fmt.Sprintf("chunk_%d.wav", i))

		args := buildChunkArgs(normalizedPath, outFile, start, s.ChunkSeconds)
		result, runErr := s.runner.Run(ctx, s.ffmpegPath, args...)
		if runErr != nil {
			return nil, &ChunkExtractionError{
				Index:      i,
				CommandLog: commandLog(s.ffmpegPath, args, result),
				Err:        runErr,
			}
		}

		chunks = append(chunks, domain.AudioChunk{Index: i, Path: outFile, StartOffset: start})
	}

	return chunks, nil
}

// Duration returns the duration of an audio file in seconds via ffprobe.
func (s *Segmenter) Duration(ctx context.Context, audioPath string) (float64, error) {
	args := buildProbeArgs(audioPath)
	result, runErr := s.runner.Run(ctx, s.ffprobePath, args...)
	if runErr != nil {
		return 0, &DurationProbeError{
			Path:       audioPath,
			CommandLog: commandLog(s.ffprobePath, args, result),
			Err:        runErr,
		}
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(result.Stdout), 64)
	if err != nil {
		return 0, &DurationProbeError{
			Path:       audioPath,
			CommandLog: commandLog(s.ffprobePath, args, result),
			Err:        err,
		}
	}

	return duration, nil
}

// normalize converts the source to the canonical PCM representation next to
// the input file. The canonicalized file is kept after the run.
func (s *Segmenter) normalize(ctx context.Context, audioPath string) (string, error) {
	normalizedPath := strings.TrimSuffix(audioPath, filepath.Ext(audioPath)) + "_normalized.wav"

	args := buildNormalizeArgs(audioPath, normalizedPath)
	result, runErr := s.runner.Run(ctx, s.ffmpegPath, args...)
	if runErr != nil {
		return "", &ConversionError{
			Path:       audioPath,
			CommandLog: commandLog(s.ffmpegPath, args, result),
			Err:        runErr,
		}
	}

	return normalizedPath, nil
}

// commandLog pairs an invocation with its captured result.
func commandLog(command string, args []string, result CommandResult) CommandLog {
	return CommandLog{
		Command:  command,
		Args:     args,
		ExitCode: result.ExitCode,
		Stdout:   result.Stdout,
		Stderr:   result.Stderr,
	}
}

// buildNormalizeArgs builds CLI args for mono 16k 16-bit PCM WAV output.
func buildNormalizeArgs(inputPath, outPath string) []string {
	return []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-i", inputPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		outPath,
	}
}

// buildProbeArgs builds ffprobe args printing only the container duration.
func buildProbeArgs(audioPath string) []string {
	return []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		audioPath,
	}
}

// buildChunkArgs builds CLI args extracting one chunk window. PCM WAV input
// allows an accurate, lossless stream copy.
func buildChunkArgs(inputPath, outPath string, start, length float64) []string {
	return []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-ss", formatSeconds(start),
		"-i", inputPath,
		"-t", formatSeconds(length),
		"-c", "copy",
		outPath,
	}
}

// formatSeconds renders a seconds value without trailing zero noise.
func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
