package pipeline

import (
	"context"
	"errors"
	"math"
	"sort"

	"github.com/KCblama19/Liberia-Pidgin-transcription-app/internal/domain"
	"github.com/KCblama19/Liberia-Pidgin-transcription-app/internal/interview"
	"github.com/KCblama19/Liberia-Pidgin-transcription-app/internal/run"
	"github.com/KCblama19/Liberia-Pidgin-transcription-app/internal/transcribe"
)

// ErrCancelled reports that the run stopped on a cancellation request.
// It is not a failure: progress persisted before the cancellation point
// stays intact and the run record is already marked CANCELLED.
var ErrCancelled = errors.New("run cancelled")

// Pipeline stage names persisted to the run record.
const (
	StageChunking     = "CHUNKING"
	StageTranscribing = "TRANSCRIBING"
	StageStructuring  = "STRUCTURING"
	StageFinalizing   = "FINALIZING"
)

// Segmenter splits canonicalized source audio into ordered chunks.
type Segmenter interface {
	Segment(ctx context.Context, audioPath string) ([]domain.AudioChunk, error)
}

// Orchestrator sequences one transcription run end to end: chunking,
// bounded-parallel transcription, per-chunk structuring with cumulative
// offsets, progressive persistence, and finalization.
type Orchestrator struct {
	segmenter   Segmenter
	transcriber transcribe.Transcriber
	coordinator *transcribe.Coordinator
	store       run.Store
	events      *run.EventBus
	normalize   interview.NormalizeFunc
}

// New wires an orchestrator from its injected collaborators. The transcriber
// handle is constructed once by the process owner and reused across runs.
// events may be nil when no subscriber is interested.
func New(segmenter Segmenter, transcriber transcribe.Transcriber, coordinator *transcribe.Coordinator, store run.Store, events *run.EventBus, normalize interview.NormalizeFunc) *Orchestrator {
	return &Orchestrator{
		segmenter:   segmenter,
		transcriber: transcriber,
		coordinator: coordinator,
		store:       store,
		events:      events,
		normalize:   normalize,
	}
}

// Process executes the full pipeline for one run. The cancellation token is
// polled before the run starts and between chunk completions, never inside
// an in-flight engine call. Errors from steps after the initial token check
// surface to the caller, which owns the ERROR transition; cancellation is
// recorded here and reported as ErrCancelled.
func (o *Orchestrator) Process(ctx context.Context, runID string, token *run.Token) error {
	state, err := o.store.Load(runID)
	if err != nil {
		return err
	}

	if cancelled(ctx, token) {
		if err := o.markCancelled(runID); err != nil {
			return err
		}
		return ErrCancelled
	}

	o.publishStage(runID, StageChunking)
	chunks, err := o.segmenter.Segment(ctx, state.AudioPath)
	if err != nil {
		// A cancelled context kills the tool mid-flight; the resulting
		// exec failure is a cancellation, not a run failure.
		if cancelled(ctx, token) {
			if markErr := o.markCancelled(runID); markErr != nil {
				return markErr
			}
			return ErrCancelled
		}
		return err
	}
	totalChunks := len(chunks)

	o.publishStage(runID, StageTranscribing)
	rawByChunk, err := o.coordinator.Run(ctx, chunks, o.transcriber, func(index int, segments []domain.RawSegment) {
		o.publish(run.Event{RunID: runID, Type: run.EventTypeProgress, Stage: StageTranscribing, Progress: percent(index+1, totalChunks)})
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || cancelled(ctx, token) {
			if markErr := o.markCancelled(runID); markErr != nil {
				return markErr
			}
			return ErrCancelled
		}
		return err
	}

	o.publishStage(runID, StageStructuring)
	builder := interview.NewBuilder()
	allSegments := make([]domain.StructuredSegment, 0)
	offset := 0.0

	for i, raw := range rawByChunk {
		if cancelled(ctx, token) {
			if err := o.markCancelled(runID); err != nil {
				return err
			}
			return ErrCancelled
		}

		allSegments = append(allSegments, builder.Build(raw, o.normalize, offset)...)

		// Silent chunks advance the offset by 0. True chunk duration is
		// deliberately not used here; silence contributes no elapsed time.
		chunkDuration := 0.0
		for _, seg := range raw {
			if seg.End > chunkDuration {
				chunkDuration = seg.End
			}
		}
		offset += chunkDuration

		progress := percent(i+1, totalChunks)
		if err := o.store.SaveSegments(runID, allSegments, progress); err != nil {
			return err
		}
		o.publish(run.Event{RunID: runID, Type: run.EventTypeProgress, Stage: StageStructuring, Progress: progress})
	}

	o.publishStage(runID, StageFinalizing)
	sort.SliceStable(allSegments, func(a, b int) bool {
		return allSegments[a].Start < allSegments[b].Start
	})

	if err := o.store.SaveSegments(runID, allSegments, 100); err != nil {
		return err
	}
	if err := o.store.SaveStatus(runID, domain.RunStatusDone, ""); err != nil {
		return err
	}
	o.publish(run.Event{RunID: runID, Type: run.EventTypeStatus, Status: domain.RunStatusDone})
	return nil
}

// markCancelled records the CANCELLED status, keeping persisted progress.
func (o *Orchestrator) markCancelled(runID string) error {
	if err := o.store.SaveStatus(runID, domain.RunStatusCancelled, ""); err != nil {
		return err
	}
	o.publish(run.Event{RunID: runID, Type: run.EventTypeStatus, Status: domain.RunStatusCancelled})
	return nil
}

// publishStage persists and announces the current pipeline stage.
func (o *Orchestrator) publishStage(runID, stage string) {
	// Stage persistence is best effort; the run can finish without it.
	_ = o.store.SaveStage(runID, stage)
	o.publish(run.Event{RunID: runID, Type: run.EventTypeStage, Stage: stage})
}

// publish forwards an event when a bus is configured.
func (o *Orchestrator) publish(event run.Event) {
	if o.events != nil {
		o.events.Publish(event)
	}
}

// cancelled reports whether the run should stop before its next chunk.
func cancelled(ctx context.Context, token *run.Token) bool {
	if token != nil && token.Cancelled() {
		return true
	}
	return ctx.Err() != nil
}

// percent converts a completed/total pair into a rounded 0..100 value.
func percent(completed, total int) int {
	if total == 0 {
		return 100
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}
