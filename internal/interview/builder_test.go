package interview

import (
	"strings"
	"testing"

	"github.com/KCblama19/Liberia-Pidgin-transcription-app/internal/domain"
)

// TestDetectSpeakerTagAtStart checks start-anchored participant tags.
func TestDetectSpeakerTagAtStart(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"P1: what time is it?", "P1"},
		{"  P12- we went to town", "P12"},
		{"p3 I was there", "P3"},
		{"we met P1 at the market", "UNKNOWN"},
		{"", "UNKNOWN"},
		{"P: missing digits", "UNKNOWN"},
	}

	for _, tc := range cases {
		if got := DetectSpeaker(tc.text); got != tc.want {
			t.Fatalf("DetectSpeaker(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

// TestIsQuestionHeuristic checks question mark and wh-token detection.
func TestIsQuestionHeuristic(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"What time is it", true},
		{"you went there?", true},
		{"tell me WHY", true},
		{"it was somewhere near the river", true}, // "where" substring, accepted false positive
		{"I saw it myself", false},
	}

	for _, tc := range cases {
		if got := IsQuestion(tc.text); got != tc.want {
			t.Fatalf("IsQuestion(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

// TestSpeakerColorDerivation checks digit-derived palette indexing.
func TestSpeakerColorDerivation(t *testing.T) {
	if got := SpeakerColor("P1"); !strings.Contains(got, "green") {
		t.Fatalf("SpeakerColor(P1) = %q, want the green entry", got)
	}
	if SpeakerColor("P6") != SpeakerColor("P1") {
		t.Fatal("P6 should wrap onto the same palette entry as P1")
	}
	if SpeakerColor("UNKNOWN") != SpeakerColor("INTERVIEWER") {
		t.Fatal("digitless speakers should share palette index 0")
	}
	if SpeakerColor("P2") == SpeakerColor("P1") {
		t.Fatal("P1 and P2 should differ")
	}
}

// TestBuildTaggedQuestion checks speaker, type, color, and normalization.
func TestBuildTaggedQuestion(t *testing.T) {
	builder := NewBuilder()
	raw := []domain.RawSegment{
		{Start: 1.5, End: 4.0, Text: "P1: what time is it?"},
	}

	segments := builder.Build(raw, strings.ToUpper, 0)
	if len(segments) != 1 {
		t.Fatalf("segments = %d, want 1", len(segments))
	}

	seg := segments[0]
	if seg.Speaker != "P1" {
		t.Fatalf("speaker = %q, want P1", seg.Speaker)
	}
	if seg.Type != domain.SegmentTypeQuestion {
		t.Fatalf("type = %q, want Question", seg.Type)
	}
	if seg.Original != "P1: what time is it?" {
		t.Fatalf("original = %q", seg.Original)
	}
	if seg.English != "P1: WHAT TIME IS IT?" {
		t.Fatalf("english = %q", seg.English)
	}
	if seg.SpeakerColor == "" {
		t.Fatal("speaker color not assigned")
	}
}

// TestBuildInterviewerInference checks promotion on the second untagged question.
func TestBuildInterviewerInference(t *testing.T) {
	builder := NewBuilder()
	raw := []domain.RawSegment{
		{Start: 0, End: 1, Text: "what was your name?"},
		{Start: 1, End: 2, Text: "where did you grow up?"},
		{Start: 2, End: 3, Text: "and why did you leave?"},
	}

	segments := builder.Build(raw, nil, 0)
	if segments[0].Speaker != SpeakerUnknown {
		t.Fatalf("first speaker = %q, want UNKNOWN", segments[0].Speaker)
	}
	if segments[1].Speaker != SpeakerInterviewer {
		t.Fatalf("second speaker = %q, want INTERVIEWER", segments[1].Speaker)
	}
	if segments[2].Speaker != SpeakerInterviewer {
		t.Fatalf("third speaker = %q, want INTERVIEWER", segments[2].Speaker)
	}
}

// TestBuildInterviewerCounterReset checks answers reset the question run.
func TestBuildInterviewerCounterReset(t *testing.T) {
	builder := NewBuilder()
	raw := []domain.RawSegment{
		{Start: 0, End: 1, Text: "what was your name?"},
		{Start: 1, End: 2, Text: "I lived in Monrovia"},
		{Start: 2, End: 3, Text: "what did you do there?"},
	}

	segments := builder.Build(raw, nil, 0)
	for i, seg := range segments {
		if seg.Speaker != SpeakerUnknown {
			t.Fatalf("segment %d speaker = %q, want UNKNOWN", i, seg.Speaker)
		}
	}
}

// TestBuildCounterPersistsAcrossChunks checks inference spans Build calls.
func TestBuildCounterPersistsAcrossChunks(t *testing.T) {
	builder := NewBuilder()
	first := builder.Build([]domain.RawSegment{
		{Start: 0, End: 1, Text: "what was your name?"},
	}, nil, 0)
	second := builder.Build([]domain.RawSegment{
		{Start: 0, End: 1, Text: "and when was that?"},
	}, nil, 10)

	if first[0].Speaker != SpeakerUnknown {
		t.Fatalf("first chunk speaker = %q, want UNKNOWN", first[0].Speaker)
	}
	if second[0].Speaker != SpeakerInterviewer {
		t.Fatalf("second chunk speaker = %q, want INTERVIEWER", second[0].Speaker)
	}
}

// TestBuildAppliesOffset checks run-global time shifting.
func TestBuildAppliesOffset(t *testing.T) {
	builder := NewBuilder()
	segments := builder.Build([]domain.RawSegment{
		{Start: 2.5, End: 8.25, Text: "I saw it myself"},
	}, nil, 600)

	if segments[0].Start != 602.5 {
		t.Fatalf("start = %v, want 602.5", segments[0].Start)
	}
	if segments[0].End != 608.25 {
		t.Fatalf("end = %v, want 608.25", segments[0].End)
	}
	if segments[0].Type != domain.SegmentTypeAnswer {
		t.Fatalf("type = %q, want Answer", segments[0].Type)
	}
}
