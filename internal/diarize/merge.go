package diarize

import "github.com/KCblama19/Liberia-Pidgin-transcription-app/internal/domain"

// Merge collapses adjacent same-speaker intervals into contiguous spans.
// Intervals must arrive in chunk order with run-global times already
// applied; because chunks are processed strictly in temporal order, a single
// forward walk is enough. An interval extends the last kept span when it has
// the same speaker and starts at or before that span's end, which absorbs
// the deliberate chunk overlap.
func Merge(intervals []domain.DiarizationInterval) []domain.DiarizationInterval {
	merged := make([]domain.DiarizationInterval, 0, len(intervals))
	for _, interval := range intervals {
		if len(merged) == 0 {
			merged = append(merged, interval)
			continue
		}

		last := &merged[len(merged)-1]
		if last.Speaker == interval.Speaker && interval.Start <= last.End {
			if interval.End > last.End {
				last.End = interval.End
			}
			continue
		}
		merged = append(merged, interval)
	}
	return merged
}
