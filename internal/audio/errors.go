package audio

import "fmt"

// DurationProbeError reports an unreadable duration from the probing tool.
type DurationProbeError struct {
	Path       string
	CommandLog CommandLog
	Err        error
}

// Error formats the probe failure with the tool diagnostic output.
func (e *DurationProbeError) Error() string {
	return fmt.Sprintf("failed to read audio duration for %s: %s", e.Path, e.CommandLog.Diagnostic())
}

// Unwrap exposes the underlying error for errors.Is / errors.As.
func (e *DurationProbeError) Unwrap() error {
	return e.Err
}

// ConversionError reports a failed canonicalization of the source audio.
type ConversionError struct {
	Path       string
	CommandLog CommandLog
	Err        error
}

// Error formats the conversion failure with the tool diagnostic output.
func (e *ConversionError) Error() string {
	return fmt.Sprintf("ffmpeg failed to normalize audio %s: %s", e.Path, e.CommandLog.Diagnostic())
}

// Unwrap exposes the underlying error for errors.Is / errors.As.
func (e *ConversionError) Unwrap() error {
	return e.Err
}

// ChunkExtractionError reports a failed extraction of one chunk window.
type ChunkExtractionError struct {
	Index      int
	CommandLog CommandLog
	Err        error
}

// Error formats the extraction failure with the tool diagnostic output.
func (e *ChunkExtractionError) Error() string {
	return fmt.Sprintf("ffmpeg failed to create chunk %d: %s", e.Index, e.CommandLog.Diagnostic())
}

// Unwrap exposes the underlying error for errors.Is / errors.As.
func (e *ChunkExtractionError) Unwrap() error {
	return e.Err
}
