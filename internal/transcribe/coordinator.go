package transcribe

import (
	"context"
	"sync"

	"github.com/KCblama19/Liberia-Pidgin-transcription-app/internal/domain"
)

// DefaultMaxWorkers caps concurrent engine calls. The loaded model is the
// binding CPU/memory constraint, so the pool stays small.
const DefaultMaxWorkers = 2

// Coordinator fans chunks out to a bounded worker pool and reports results
// back in original chunk index order.
type Coordinator struct {
	maxWorkers int
}

// NewCoordinator creates a coordinator with the given concurrency cap.
// Values below 1 fall back to DefaultMaxWorkers.
func NewCoordinator(maxWorkers int) *Coordinator {
	if maxWorkers < 1 {
		maxWorkers = DefaultMaxWorkers
	}
	return &Coordinator{maxWorkers: maxWorkers}
}

// Run transcribes every chunk with bounded parallelism. Workers complete
// chunks in any order; the returned slice is indexed by chunk position and
// onChunkDone, when set, fires strictly in ascending chunk index order.
//
// Cancellation is cooperative at chunk granularity: a cancelled context
// stops workers from picking up pending chunks but never preempts an
// in-flight engine call. Partial results accumulated before the first
// failure or cancellation are returned alongside the error.
func (c *Coordinator) Run(ctx context.Context, chunks []domain.AudioChunk, transcriber Transcriber, onChunkDone func(index int, segments []domain.RawSegment)) ([][]domain.RawSegment, error) {
	results := make([][]domain.RawSegment, len(chunks))
	if len(chunks) == 0 {
		return results, ctx.Err()
	}

	workers := c.maxWorkers
	if workers > len(chunks) {
		workers = len(chunks)
	}

	jobs := make(chan domain.AudioChunk)
	var wg sync.WaitGroup

	var mu sync.Mutex
	var firstErr error
	completed := make([]bool, len(chunks))
	nextToReport := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for chunk := range jobs {
				segments, err := transcriber.Transcribe(ctx, chunk.Path)

				mu.Lock()
				if err != nil {
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					continue
				}

				results[chunk.Index] = segments
				completed[chunk.Index] = true
				for nextToReport < len(chunks) && completed[nextToReport] {
					if onChunkDone != nil {
						onChunkDone(nextToReport, results[nextToReport])
					}
					nextToReport++
				}
				mu.Unlock()
			}
		}()
	}

	for _, chunk := range chunks {
		if ctx.Err() != nil {
			break
		}
		mu.Lock()
		failed := firstErr != nil
		mu.Unlock()
		if failed {
			break
		}
		jobs <- chunk
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return results, firstErr
	}
	return results, ctx.Err()
}
