package interview

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/KCblama19/Liberia-Pidgin-transcription-app/internal/domain"
)

// SpeakerUnknown is assigned when no participant tag opens the segment text.
const SpeakerUnknown = "UNKNOWN"

// SpeakerInterviewer is inferred for runs of untagged consecutive questions.
const SpeakerInterviewer = "INTERVIEWER"

// consecutiveQuestionThreshold is how many untagged questions in a row must
// be seen before attribution switches to the interviewer.
const consecutiveQuestionThreshold = 2

// speakerTagPattern matches an explicit participant tag at the start of a
// segment: optional whitespace, "P" plus digits, optional ":" or "-".
var speakerTagPattern = regexp.MustCompile(`^\s*([Pp]\d+)[:\-]?`)

// nonDigitPattern strips everything but digits from a speaker id.
var nonDigitPattern = regexp.MustCompile(`\D`)

// questionTokens are cheap substring cues for question classification.
var questionTokens = []string{"what", "why", "how", "when", "where", "who"}

// speakerColors is the fixed palette cycled by numeric speaker index.
var speakerColors = []string{
	"bg-red-100 text-red-800",
	"bg-green-100 text-green-800",
	"bg-blue-100 text-blue-800",
	"bg-yellow-100 text-yellow-800",
	"bg-purple-100 text-purple-800",
}

// DetectSpeaker returns the upper-cased participant tag opening the text,
// or SpeakerUnknown when the segment is untagged.
func DetectSpeaker(text string) string {
	match := speakerTagPattern.FindStringSubmatch(text)
	if match == nil {
		return SpeakerUnknown
	}
	return strings.ToUpper(match[1])
}

// IsQuestion reports whether the text reads as a question. The check is a
// substring heuristic, not NLP; incidental matches are accepted.
func IsQuestion(text string) bool {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "?") {
		return true
	}
	for _, token := range questionTokens {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}

// ClassifyType maps the question heuristic onto the segment type enum.
func ClassifyType(text string) domain.SegmentType {
	if IsQuestion(text) {
		return domain.SegmentTypeQuestion
	}
	return domain.SegmentTypeAnswer
}

// SpeakerColor derives a stable palette entry from the digits of a speaker
// id. Ids without digits share index 0; the mapping is cosmetic only.
func SpeakerColor(speaker string) string {
	digits := nonDigitPattern.ReplaceAllString(speaker, "")
	index := 0
	if digits != "" {
		if parsed, err := strconv.Atoi(digits); err == nil {
			index = parsed
		}
	}
	return speakerColors[index%len(speakerColors)]
}

// NormalizeFunc rewrites dialect text into standard English.
type NormalizeFunc func(text string) string

// Builder converts raw transcription segments into structured interview
// segments. It carries the consecutive-question counter used for interviewer
// inference, so one Builder serves exactly one run.
type Builder struct {
	unknownQuestions int
}

// NewBuilder creates a builder with a fresh interviewer-inference counter.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build structures one chunk's raw segments. Segment times are shifted by
// offset, the run-global second at which the chunk begins. The interviewer
// counter persists across calls so untagged question runs spanning chunk
// boundaries are still attributed.
func (b *Builder) Build(raw []domain.RawSegment, normalize NormalizeFunc, offset float64) []domain.StructuredSegment {
	structured := make([]domain.StructuredSegment, 0, len(raw))

	for _, seg := range raw {
		speaker := DetectSpeaker(seg.Text)
		segmentType := ClassifyType(seg.Text)

		if speaker == SpeakerUnknown && segmentType == domain.SegmentTypeQuestion {
			b.unknownQuestions++
			if b.unknownQuestions >= consecutiveQuestionThreshold {
				speaker = SpeakerInterviewer
			}
		} else {
			b.unknownQuestions = 0
		}

		english := seg.Text
		if normalize != nil {
			english = normalize(seg.Text)
		}

		structured = append(structured, domain.StructuredSegment{
			Start:        seg.Start + offset,
			End:          seg.End + offset,
			Speaker:      speaker,
			SpeakerColor: SpeakerColor(speaker),
			Type:         segmentType,
			Original:     seg.Text,
			English:      english,
		})
	}

	return structured
}
